package config

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vizkit/plotspec/internal/pkg/reduce"
	"github.com/vizkit/plotspec/internal/pkg/spec"
)

//go:embed default_config.yaml
var efs embed.FS

// Config holds the configuration for plotspec.
type Config struct {
	Name     string
	Input    Input
	Render   Rendering
	Outputs  Output `mapstructure:"-"`
	IsStrict bool   `mapstructure:"-"`
	Charts   []Chart

	chartIndex map[string]int
}

// Input selects the input file format.
type Input struct {
	Format string
}

// Rendering holds chart rendering settings (theme, legend, screenshot).
type Rendering struct {
	Theme      string
	Legend     LegendPosition
	Screenshot Screenshot
}

// Screenshot configures the headless Chrome screenshot used for PNG rendering.
type Screenshot struct {
	Height int64
	Width  int64
	Sleep  string
}

// SleepDuration parses the Sleep field as a [time.Duration].
func (s Screenshot) SleepDuration() time.Duration {
	d, err := time.ParseDuration(s.Sleep)
	if d == 0 || err != nil {
		return 0
	}

	return d
}

// LegendPosition controls where the chart legend is displayed.
type LegendPosition string

// Supported legend positions.
const (
	LegendPositionNone   LegendPosition = "none"
	LegendPositionBottom LegendPosition = "bottom"
	LegendPositionTop    LegendPosition = "top"
	LegendPositionLeft   LegendPosition = "left"
	LegendPositionRight  LegendPosition = "right"
)

// Output holds the resolved output file paths for HTML and PNG rendering.
type Output struct {
	HTMLFile string
	PngFile  string
	IsTemp   bool
}

// Chart configures a single chart built from the input data.
type Chart struct {
	ID     string
	Title  string
	Family string

	X  string
	Y  []string
	Y2 []string

	DualAxis bool

	XTitle  string
	YTitle  string
	Y2Title string

	MarkerSize       float64
	MarkerSizeColumn string
	Opacity          float64

	Aggregation string
	AggFunc     string
	MaxPoints   int

	ColorColumn string
	ColorMode   string
}

// SpecConfig maps the chart configuration onto a [spec.Config].
func (c Chart) SpecConfig(legend LegendPosition) spec.Config {
	return spec.Config{
		Family:         spec.Family(c.Family),
		Title:          c.Title,
		XTitle:         c.XTitle,
		YTitle:         c.YTitle,
		Y2Title:        c.Y2Title,
		XColumn:        c.X,
		YColumns:       c.Y,
		Y2Columns:      c.Y2,
		EnableDualAxis: c.DualAxis,
		MarkerSize: spec.MarkerSize{
			Fixed:  c.MarkerSize,
			Column: c.MarkerSizeColumn,
		},
		Opacity:     c.Opacity,
		Aggregation: reduce.Mode(c.Aggregation),
		AggFunc:     reduce.AggFunc(c.AggFunc),
		MaxPoints:   c.MaxPoints,
		ColorColumn: c.ColorColumn,
		ColorMode:   spec.ColorMode(c.ColorMode),
		ShowLegend:  legend != LegendPositionNone,
	}
}

// GetChart retrieves a chart definition by its ID.
func (c *Config) GetChart(id string) (Chart, bool) {
	i, ok := c.chartIndex[id]
	if !ok {
		return Chart{}, false
	}

	return c.Charts[i], true
}

// EncodeYAML serializes a [Config] to YAML into the provided writer.
//
// Runtime-only fields (Outputs, IsStrict) are excluded from the output.
func (c *Config) EncodeYAML(w io.Writer) error {
	var raw map[string]any

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Squash: true,
		Deep:   true,
		Result: &raw,
	})
	if err != nil {
		return fmt.Errorf("creating mapstructure decoder: %w", err)
	}

	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("decoding config to map: %w", err)
	}

	return yaml.NewEncoder(w).Encode(raw)
}

// Load a configuration file from the local file system.
func Load(file string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, fmt.Errorf("loading default config: %w", err)
	}

	fsys := os.DirFS(filepath.Dir(file))
	pth := filepath.Join(".", filepath.Base(file))

	return load(fsys, pth, cfg)
}

// LoadDefaults loads the default configuration from the embedded default_config.yaml.
func LoadDefaults() (*Config, error) {
	return loadDefaults()
}

func loadDefaults() (*Config, error) {
	return load(efs, "default_config.yaml", &Config{})
}

func load(fsys fs.FS, file string, cfg *Config) (*Config, error) {
	content, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, err
	}

	var raw any
	err = yaml.Unmarshal(content, &raw)
	if err != nil {
		return nil, err
	}

	err = mapstructure.Decode(raw, cfg)
	if err != nil {
		return nil, err
	}

	if err = cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	c.chartIndex = make(map[string]int, len(c.Charts))

	if c.Input.Format == "" {
		c.Input.Format = "csv"
	}

	for i, chart := range c.Charts {
		if chart.ID == "" {
			return fmt.Errorf("invalid charts: empty ID found: charts[%d]", i)
		}
		if _, dup := c.chartIndex[chart.ID]; dup {
			return fmt.Errorf("invalid charts: duplicate ID key found: %s", chart.ID)
		}

		if chart.Title == "" {
			chart.Title = titleize(chart.ID)
		}
		if chart.Family == "" {
			chart.Family = spec.FamilyScatter.String()
		}
		if !spec.Family(chart.Family).IsValid() {
			return fmt.Errorf("invalid charts: unknown family %q: charts[%d]", chart.Family, i)
		}
		if chart.Aggregation != "" && !reduce.Mode(chart.Aggregation).IsValid() {
			return fmt.Errorf("invalid charts: unknown aggregation %q: charts[%d]", chart.Aggregation, i)
		}
		if chart.AggFunc != "" && !reduce.AggFunc(chart.AggFunc).IsValid() {
			return fmt.Errorf("invalid charts: unknown aggregation function %q: charts[%d]", chart.AggFunc, i)
		}
		if chart.ColorMode != "" && !spec.ColorMode(chart.ColorMode).IsValid() {
			return fmt.Errorf("invalid charts: unknown color mode %q: charts[%d]", chart.ColorMode, i)
		}
		if len(chart.Y2) > 0 {
			chart.DualAxis = true
		}

		if chart.XTitle == "" {
			chart.XTitle = titleize(chart.X)
		}
		if chart.YTitle == "" && len(chart.Y) == 1 {
			chart.YTitle = titleize(chart.Y[0])
		}
		if chart.Y2Title == "" && len(chart.Y2) == 1 {
			chart.Y2Title = titleize(chart.Y2[0])
		}

		c.chartIndex[chart.ID] = i
		c.Charts[i] = chart
	}

	return nil
}

type str interface {
	~string
}

func titleize[T str](in T) string {
	caser := cases.Title(language.English, cases.NoLower) // the caser is stateful: cannot declare it globally

	return caser.String(strings.Map(func(r rune) rune {
		switch r {
		case '_', '-':
			return ' '
		default:
			return r
		}
	}, string(in),
	))
}

// Generate builds a [Config] straight from the column names of the input
// data: the given x column against the given y columns, on a single line
// chart. This covers running without a configuration file.
func Generate(xName string, yNames []string) *Config {
	defaults, err := loadDefaults()
	if err != nil {
		// embedded config must always parse
		panic(fmt.Sprintf("loading embedded defaults: %v", err))
	}

	cfg := &Config{
		Name:   "Generated Config",
		Input:  defaults.Input,
		Render: defaults.Render,
		Charts: []Chart{
			{
				ID:     "all",
				Title:  "All Series",
				Family: spec.FamilyLine.String(),
				X:      xName,
				Y:      yNames,
			},
		},
	}

	if err := cfg.validate(); err != nil {
		// generated config is structurally valid by construction
		panic(fmt.Sprintf("generated config: %v", err))
	}

	return cfg
}
