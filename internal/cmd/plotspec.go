// Package cmd owns the implementation details of the CLI command.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/vizkit/plotspec/internal/pkg/config"
	"github.com/vizkit/plotspec/internal/pkg/dataframe"
	"github.com/vizkit/plotspec/internal/pkg/image"
	"github.com/vizkit/plotspec/internal/pkg/ingest"
	"github.com/vizkit/plotspec/internal/pkg/render"
	"github.com/vizkit/plotspec/internal/pkg/spec"
)

// Command holds command line flags and executes the plotspec command.
//
// It knows how to load a configuration file in a [config.Config] and
// manage CLI flag overrides. The main purpose of this package is to deal
// with io's: opening and closing files. All other invoked functionalities
// deal with streams or in-memory frames.
type Command struct {
	Config     string
	OutputFile string
	Format     string
	Png        bool
	Debug      bool
	L          *slog.Logger
}

// NewCommand builds a CLI command with registered flags and an injected logger.
func NewCommand() *Command {
	// inject a structured logger
	cli := &Command{
		L: slog.Default().With(slog.String("module", "main")),
	}

	cli.registerFlags()

	return cli
}

// Parse command line flags and arguments.
func (*Command) Parse() error {
	return flag.CommandLine.Parse(os.Args[1:])
}

// Fatalf logs an error message then exits. The output goes to both stderr and the structured logger output.
func (c *Command) Fatalf(err error) {
	c.L.Error(err.Error())
	log.Fatalf("%v", err)
}

// Execute the CLI with flags and extra arguments.
//
// If no argument is passed, command line arguments (i.e. [os.Args]) are used.
func (c *Command) Execute(args ...string) error {
	if args == nil { // passing explicit args allows for testing Execute without altering [os.Args]
		args = c.args()
	}
	if len(args) == 0 { // no file is provided: assume stdin
		args = append(args, "-")
	}

	cfg, cleanup, err := c.prepareConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	// 1. ingest the input data and build a chart page from the resolved specs
	page, err := c.buildPage(cfg, args[0])
	if err != nil {
		return err
	}

	// 2. render the page as HTML, possibly to stdout, possibly to temp file
	htmlWriter, htmlCloser, err := getWriter(cfg.Outputs.HTMLFile, "HTML")
	if err != nil {
		return err
	}

	if err := page.Render(htmlWriter); err != nil {
		htmlCloser()
		return fmt.Errorf("rendering page: %w", err)
	}

	htmlCloser()

	if cfg.Outputs.PngFile == "" {
		// html only: we're done
		return nil
	}

	// 3. convert the HTML page to a PNG image
	htmlReader, htmlCloser, err := getReader(cfg.Outputs.HTMLFile, "HTML")
	if err != nil {
		return err
	}
	defer htmlCloser()

	pngWriter, pngCloser, err := getWriter(cfg.Outputs.PngFile, "PNG")
	if err != nil {
		return err
	}
	defer pngCloser()

	shooter := image.New(
		image.WithWidth(cfg.Render.Screenshot.Width),
		image.WithHeight(cfg.Render.Screenshot.Height),
		image.WithSleep(cfg.Render.Screenshot.SleepDuration()),
	)

	if err = shooter.Capture(pngWriter, htmlReader); err != nil {
		return fmt.Errorf("rendering image: %w", err)
	}

	return nil
}

func (*Command) args() []string {
	return flag.CommandLine.Args()
}

func (c *Command) registerFlags() {
	defaults := Command{
		Config:     "plotspec.yaml",
		OutputFile: "-",
		Format:     "",
		Png:        false,
		Debug:      false,
	}

	flag.StringVar(&c.Config, "config", defaults.Config, "config file")
	flag.StringVar(&c.Config, "c", defaults.Config, "config file (shorthand)")
	flag.StringVar(&c.OutputFile, "output", defaults.OutputFile, "file output or - for standard output")
	flag.StringVar(&c.OutputFile, "o", defaults.OutputFile, "file output or - for standard output (shorthand)")
	flag.StringVar(&c.Format, "format", defaults.Format, "input format: csv or bench")
	flag.StringVar(&c.Format, "f", defaults.Format, "input format: csv or bench (shorthand)")
	flag.BoolVar(&c.Png, "png", defaults.Png, "enable PNG screenshot output")
	flag.BoolVar(&c.Debug, "debug", defaults.Debug, "dump the resolved chart specs to stderr")
}

func (c *Command) prepareConfig() (cfg *config.Config, cleanup func(), err error) {
	cfg, err = config.Load(c.Config)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}

		// no config file: charts will be generated from the input columns
		c.L.Info("no config file found, generating charts from input columns", slog.String("config", c.Config))
		cfg, err = config.LoadDefaults()
		if err != nil {
			return nil, nil, fmt.Errorf("loading default config: %w", err)
		}
	}

	if err = c.setConfig(cfg); err != nil {
		return nil, nil, fmt.Errorf("preparing config: %w", err)
	}

	if cfg.Outputs.IsTemp {
		cleanup = func() {
			_ = os.Remove(cfg.Outputs.HTMLFile)
		}

		return cfg, cleanup, err
	}

	return cfg, func() {}, err
}

// apply CLI flags overrides to YAML config.
func (c *Command) setConfig(cfg *config.Config) error {
	if c.Format != "" {
		cfg.Input.Format = c.Format
	}

	if c.OutputFile != "" && c.OutputFile != "-" {
		// an outfile is defined: infer the PNG file from the HTML file provided
		cfg.Outputs.HTMLFile = inferHTMLFile(c.OutputFile)
		if cfg.Outputs.PngFile == "" && c.Png {
			cfg.Outputs.PngFile = inferImageFile(cfg.Outputs.HTMLFile)
		}
	}

	switch {
	case cfg.Outputs.HTMLFile == "" && cfg.Outputs.PngFile == "":
		c.L.Info("output sent to standard output as HTML, no PNG image rendered")
		if c.Png {
			c.L.Info("set an output file to render a PNG image")
		}
		cfg.Outputs.HTMLFile = "-"
	case cfg.Outputs.HTMLFile == "" && cfg.Outputs.PngFile != "":
		c.L.Info("HTML generated as a temporary file to produce PNG")
		tmp, err := os.CreateTemp("", "plotspec.*.html")
		if err != nil {
			return err
		}
		cfg.Outputs.HTMLFile = tmp.Name()
		cfg.Outputs.IsTemp = true
		_ = tmp.Close()
	}

	return nil
}

func (c *Command) buildPage(cfg *config.Config, input string) (*render.Page, error) {
	// 1. parse the input file into a data frame
	reader := ingest.New(ingest.WithFormat(ingest.Format(cfg.Input.Format)))
	frame, err := reader.ReadFile(input)
	if err != nil {
		return nil, err
	}

	// 2. without configured charts, derive one from the frame columns
	if len(cfg.Charts) == 0 {
		generated := config.Generate(firstColumn(frame), numericColumns(frame))
		cfg.Charts = generated.Charts
	}

	// 3. build one resolved spec per configured chart
	page := render.NewPage(cfg.Name)
	renderer := render.New(render.WithTheme(cfg.Render.Theme))

	for _, chart := range cfg.Charts {
		chartSpec, err := spec.Build(frame, chart.SpecConfig(cfg.Render.Legend))
		if err != nil {
			return nil, fmt.Errorf("building chart %q: %w", chart.ID, err)
		}

		if c.Debug {
			spew.Fdump(os.Stderr, chartSpec)
		}

		if err := page.AddSpec(renderer, chartSpec); err != nil {
			return nil, fmt.Errorf("rendering chart %q: %w", chart.ID, err)
		}

		c.L.Info("added chart", slog.String("chart_id", chart.ID), slog.Int("traces", len(chartSpec.Traces)))
	}

	return page, nil
}

func firstColumn(frame *dataframe.Frame) string {
	names := frame.Names()
	if len(names) == 0 {
		return ""
	}

	return names[0]
}

// numericColumns returns the names of all numeric columns except the first
// column, which serves as the implicit x-axis.
func numericColumns(frame *dataframe.Frame) []string {
	var names []string

	for i, col := range frame.Columns() {
		if i == 0 || col.Kind() != dataframe.KindNumeric {
			continue
		}
		names = append(names, col.Name())
	}

	return names
}

func getReader(file, kind string) (rdr *os.File, cleanup func(), err error) {
	rdr, err = os.Open(file)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s file: %q: %w", kind, file, err)
	}

	cleanup = func() {
		_ = rdr.Close()
	}

	return rdr, cleanup, nil
}

func getWriter(file, kind string) (wrt *os.File, cleanup func(), err error) {
	if file == "-" {
		return os.Stdout, func() {}, nil
	}

	wrt, err = os.Create(file)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s file for writing: %q: %w", kind, file, err)
	}

	cleanup = func() {
		_ = wrt.Close()
	}

	return wrt, cleanup, nil
}

func inferHTMLFile(base string) string {
	ext := path.Ext(base)
	html, _ := strings.CutSuffix(base, ext)

	return html + ".html"
}

func inferImageFile(base string) string {
	ext := path.Ext(base)
	img, _ := strings.CutSuffix(base, ext)

	return img + ".png"
}
