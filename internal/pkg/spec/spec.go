// Package spec builds fully resolved chart specifications.
//
// A [ChartSpec] is the numerically exact description of a chart: traces,
// axis ranges, tick parameters, value scaling, color assignment and hover
// text, computed before any pixel is painted. Specs are produced fresh by
// [Build] on every invocation and never mutated in place; callers that
// want caching memoize the result themselves.
package spec

import (
	"github.com/vizkit/plotspec/internal/pkg/axisgrid"
)

// Family identifies a chart family. Families form a closed set selected
// by explicit dispatch in [Build]; there is no builder hierarchy.
type Family string

// Supported chart families.
const (
	FamilyScatter    Family = "scatter"
	FamilyLine       Family = "line"
	FamilyBar        Family = "bar"
	FamilyStackedBar Family = "stackedbar"
)

// IsValid reports whether the family is one of the known chart families.
func (f Family) IsValid() bool {
	switch f {
	case FamilyScatter, FamilyLine, FamilyBar, FamilyStackedBar:
		return true
	default:
		return false
	}
}

// String returns the family as a plain string.
func (f Family) String() string {
	return string(f)
}

// ChartSpec is the immutable output of a build: an ordered sequence of
// traces plus layout and interaction configuration, all plain serializable
// data. The downstream rendering engine consumes this structure.
type ChartSpec struct {
	Family      Family
	Traces      []Trace
	Layout      Layout
	Interaction Interaction
}

// Trace is one rendered data series.
type Trace struct {
	Name string

	// XLabels always carries the display form of the x values; XValues is
	// populated when the x column is numeric (or a date converted to
	// milliseconds).
	XLabels []string
	XValues []float64

	// Y holds the scaled values; HoverText the per-point tooltip line.
	Y         []float64
	HoverText []string

	Marker Marker
	Stack  string

	// SecondaryAxis binds the trace to the secondary y-axis, sharing the
	// primary x-axis.
	SecondaryAxis bool
}

// Marker describes the per-trace point styling.
type Marker struct {
	// Size is the fixed pixel size applied when Sizes is empty.
	Size float64

	// Sizes holds one resolved pixel size per point, populated when sizing
	// from a column.
	Sizes []float64

	// Colors holds one color per point in discrete color mode; empty when
	// no color column is configured. ColorLabels carries the raw category
	// label behind each color, parallel to Colors.
	Colors      []string
	ColorLabels []string

	// ColorValues holds the raw values driving a continuous colorscale;
	// the engine maps them, this core does not bucket.
	ColorValues []float64
	ColorScale  string

	Opacity float64
}

// AxisConfig fully describes one axis: resolved grid parameters, title and
// the magnitude suffix applied to values plotted against it.
type AxisConfig struct {
	Title  string
	Suffix string
	Grid   axisgrid.Params

	// Categorical marks a label axis (no numeric grid).
	Categorical bool
}

// Layout holds the chart-level configuration surrounding the traces.
type Layout struct {
	Title      string
	XAxis      AxisConfig
	YAxis      AxisConfig
	Y2Axis     AxisConfig
	HasY2      bool
	ShowLegend bool
}

// Interaction holds the hover and zoom configuration.
type Interaction struct {
	TooltipTrigger string
	EnableZoom     bool
}

// tooltipTrigger picks the hover trigger for a family: per-point for
// scatter clouds, shared per x position for everything else.
func tooltipTrigger(f Family) string {
	if f == FamilyScatter {
		return "item"
	}

	return "axis"
}
