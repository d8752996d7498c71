package spec

import (
	"fmt"

	"github.com/vizkit/plotspec/internal/pkg/dataframe"
	"github.com/vizkit/plotspec/internal/pkg/palette"
	"github.com/vizkit/plotspec/internal/pkg/reduce"
)

// ColorMode selects how a color column drives trace coloring.
type ColorMode string

// Supported color modes.
const (
	ColorModeDiscrete   ColorMode = "discrete"
	ColorModeContinuous ColorMode = "continuous"
)

// IsValid reports whether the color mode is one of the known modes.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorModeDiscrete, ColorModeContinuous:
		return true
	default:
		return false
	}
}

// MarkerSize configures point sizing: either a fixed pixel size or the
// name of a numeric column whose values are rescaled into
// [minMarkerSize, maxMarkerSize].
type MarkerSize struct {
	Fixed  float64
	Column string
}

// Marker pixel bounds used when sizing from a column.
const (
	minMarkerSize = 4.0
	maxMarkerSize = 24.0

	defaultMarkerSize = 8.0
	defaultOpacity    = 1.0
)

// Config drives one chart build.
//
// Zero values mean "use the documented default"; [Config.withDefaults]
// is the single merge point, with caller values taking precedence.
type Config struct {
	Family Family

	Title   string
	XTitle  string
	YTitle  string
	Y2Title string

	// XColumn defaults to the first frame column when empty.
	XColumn  string
	YColumns []string

	// Y2Columns are bound to a secondary y-axis when EnableDualAxis is set.
	Y2Columns      []string
	EnableDualAxis bool

	MarkerSize MarkerSize
	Opacity    float64

	Aggregation reduce.Mode
	AggFunc     reduce.AggFunc
	MaxPoints   int

	ColorColumn string
	ColorMode   ColorMode

	ShowLegend bool
}

// InvalidConfigError reports a configuration rejected before any numeric
// work: a missing required field or a reference to an absent column.
type InvalidConfigError struct {
	Reason string
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return "invalid chart configuration: " + e.Reason
}

// withDefaults returns the configuration with documented defaults filled
// in. Caller-provided values always win over defaults.
func (c Config) withDefaults() Config {
	if !c.Family.IsValid() {
		c.Family = FamilyScatter
	}
	if c.Opacity == 0 {
		c.Opacity = defaultOpacity
	}
	if c.MarkerSize.Fixed == 0 && c.MarkerSize.Column == "" {
		c.MarkerSize.Fixed = defaultMarkerSize
	}
	if !c.Aggregation.IsValid() {
		c.Aggregation = reduce.ModeNone
	}
	if c.AggFunc == "" {
		c.AggFunc = reduce.AggMean
	}
	if c.MaxPoints == 0 {
		switch c.Family {
		case FamilyBar, FamilyStackedBar:
			c.MaxPoints = reduce.DefaultBarThreshold
		default:
			c.MaxPoints = reduce.DefaultContinuousThreshold
		}
	}
	if !c.ColorMode.IsValid() {
		c.ColorMode = ColorModeDiscrete
	}

	return c
}

// Marker returns the base marker styling shared by all traces of the build.
func (c Config) Marker() Marker {
	return Marker{
		Opacity:    c.Opacity,
		ColorScale: palette.DefaultColorScale,
	}
}

// validate rejects a configuration before any numeric work starts.
func (c Config) validate(frame *dataframe.Frame) error {
	if frame == nil {
		return &InvalidConfigError{Reason: "nil data frame"}
	}
	if len(c.YColumns) == 0 {
		return &InvalidConfigError{Reason: "no y columns provided"}
	}
	if c.Opacity < 0 || c.Opacity > 1 {
		return &InvalidConfigError{Reason: fmt.Sprintf("opacity %g outside [0,1]", c.Opacity)}
	}

	for _, name := range append(append([]string{}, c.YColumns...), c.Y2Columns...) {
		if !frame.Has(name) {
			return &InvalidConfigError{Reason: fmt.Sprintf("y column %q not in frame", name)}
		}
	}
	if c.XColumn != "" && !frame.Has(c.XColumn) {
		return &InvalidConfigError{Reason: fmt.Sprintf("x column %q not in frame", c.XColumn)}
	}
	if c.ColorColumn != "" && !frame.Has(c.ColorColumn) {
		return &InvalidConfigError{Reason: fmt.Sprintf("color column %q not in frame", c.ColorColumn)}
	}
	if c.MarkerSize.Column != "" && !frame.Has(c.MarkerSize.Column) {
		return &InvalidConfigError{Reason: fmt.Sprintf("marker size column %q not in frame", c.MarkerSize.Column)}
	}
	if len(c.Y2Columns) > 0 && !c.EnableDualAxis {
		return &InvalidConfigError{Reason: "y2 columns provided without dual axis enabled"}
	}

	return nil
}
