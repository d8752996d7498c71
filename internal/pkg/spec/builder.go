package spec

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/vizkit/plotspec/internal/pkg/axisgrid"
	"github.com/vizkit/plotspec/internal/pkg/dataframe"
	"github.com/vizkit/plotspec/internal/pkg/palette"
	"github.com/vizkit/plotspec/internal/pkg/reduce"
	"github.com/vizkit/plotspec/internal/pkg/scale"
)

// Build turns a data frame and a configuration into a fully resolved
// [ChartSpec].
//
// Build is pure with respect to its inputs: the frame is not modified and
// the returned spec shares no mutable state with it. Configuration errors
// are detected before any numeric work; numeric degeneracies (zero range,
// constant columns, empty data) resolve to safe defaults instead of
// failing.
func Build(frame *dataframe.Frame, cfg Config) (*ChartSpec, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(frame); err != nil {
		return nil, err
	}

	b := &builder{
		cfg: cfg,
		l:   slog.Default().With(slog.String("module", "spec")),
	}

	return b.build(frame)
}

type builder struct {
	cfg Config
	l   *slog.Logger
}

func (b *builder) build(frame *dataframe.Frame) (*ChartSpec, error) {
	originalRows := frame.Rows()
	reduced := b.reduce(frame)
	scales := scale.Resolve(reduced)

	xName := b.xName(frame)
	xLabels, xValues := b.xAxisData(reduced, xName, scales)

	out := &ChartSpec{
		Family: b.cfg.Family,
		Interaction: Interaction{
			TooltipTrigger: tooltipTrigger(b.cfg.Family),
			EnableZoom:     originalRows > b.cfg.MaxPoints,
		},
	}

	for _, name := range b.cfg.YColumns {
		trace, ok := b.buildTrace(reduced, scales, name, xLabels, xValues, false)
		if !ok {
			b.l.Warn("series skipped", slog.String("column", name))

			continue
		}
		out.Traces = append(out.Traces, trace)
	}

	if b.cfg.EnableDualAxis {
		for _, name := range b.cfg.Y2Columns {
			trace, ok := b.buildTrace(reduced, scales, name, xLabels, xValues, true)
			if !ok {
				b.l.Warn("secondary series skipped", slog.String("column", name))

				continue
			}
			out.Traces = append(out.Traces, trace)
		}
	}

	out.Layout = b.layout(scales, xName, xValues, out.Traces)

	b.l.Info("built chart spec",
		slog.String("family", b.cfg.Family.String()),
		slog.Int("traces", len(out.Traces)),
		slog.Int("rows_in", originalRows),
		slog.Int("rows_plotted", reduced.Rows()),
	)

	return out, nil
}

// xName resolves the x column: the configured one, or by convention the
// first column of the frame.
func (b *builder) xName(frame *dataframe.Frame) string {
	if b.cfg.XColumn != "" {
		return b.cfg.XColumn
	}

	names := frame.Names()
	if len(names) == 0 {
		return ""
	}

	return names[0]
}

func (b *builder) reduce(frame *dataframe.Frame) *dataframe.Frame {
	r := reduce.New()

	switch b.cfg.Aggregation {
	case reduce.ModeSample:
		return r.Sample(frame, b.cfg.MaxPoints)
	case reduce.ModeBin:
		return r.Bin(frame, b.xName(frame), b.cfg.MaxPoints, b.cfg.AggFunc)
	default:
		return frame
	}
}

// xAxisData extracts display labels and, when the x column is numeric or
// a date, the scaled numeric x values.
func (b *builder) xAxisData(frame *dataframe.Frame, xName string, scales scale.Info) (labels []string, values []float64) {
	col, err := frame.Column(xName)
	if err != nil {
		// no x column at all: fall back to the row index
		rows := frame.Rows()
		for i := 0; i < rows; i++ {
			labels = append(labels, strconv.Itoa(i))
			values = append(values, float64(i))
		}

		return labels, values
	}

	labels = col.Labels()

	if col.Kind() == dataframe.KindNumeric {
		raw, _ := col.Floats()

		return labels, scales.Get(xName).Apply(raw)
	}

	if numeric, err := col.AsNumeric(); err == nil {
		raw, _ := numeric.Floats()

		return labels, raw
	}

	return labels, nil
}

func (b *builder) buildTrace(frame *dataframe.Frame, scales scale.Info, name string, xLabels []string, xValues []float64, secondary bool) (Trace, bool) {
	col, err := frame.Column(name)
	if err != nil {
		// the column existed in the input frame but did not survive
		// reduction (e.g. a categorical column dropped by binning)
		return Trace{}, false
	}

	raw, err := col.Floats()
	if err != nil {
		return Trace{}, false
	}

	colScale := scales.Get(name)
	scaled := colScale.Apply(raw)

	trace := Trace{
		Name:          traceName(name, colScale.Suffix),
		XLabels:       xLabels,
		XValues:       xValues,
		Y:             scaled,
		Marker:        b.marker(frame, len(scaled)),
		HoverText:     b.hoverText(frame, name, colScale, scaled),
		SecondaryAxis: secondary,
	}

	if b.cfg.Family == FamilyStackedBar && !secondary {
		trace.Stack = "total"
	}

	return trace, true
}

// marker resolves point styling for one trace of n points.
func (b *builder) marker(frame *dataframe.Frame, n int) Marker {
	m := b.cfg.Marker()
	m.Size = b.cfg.MarkerSize.Fixed
	m.Sizes = b.markerSizes(frame, n)

	if b.cfg.ColorColumn == "" || !frame.Has(b.cfg.ColorColumn) {
		return m
	}

	col, _ := frame.Column(b.cfg.ColorColumn)

	switch b.cfg.ColorMode {
	case ColorModeContinuous:
		numeric, err := col.AsNumeric()
		if err != nil {
			return m
		}
		m.ColorValues, _ = numeric.Floats()
	default:
		m.ColorLabels = col.Labels()
		m.Colors = palette.PerValue(m.ColorLabels)
	}

	return m
}

// markerSizes linearly rescales the configured size column into the fixed
// pixel range [minMarkerSize, maxMarkerSize].
//
// A zero value range maps every marker to minMarkerSize, so constant
// columns never divide by zero. Missing values also take minMarkerSize.
func (b *builder) markerSizes(frame *dataframe.Frame, n int) []float64 {
	if b.cfg.MarkerSize.Column == "" || !frame.Has(b.cfg.MarkerSize.Column) {
		return nil
	}

	col, _ := frame.Column(b.cfg.MarkerSize.Column)
	numeric, err := col.AsNumeric()
	if err != nil {
		return nil
	}

	values, _ := numeric.Floats()
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	sizes := make([]float64, 0, n)
	span := hi - lo
	for i := 0; i < n && i < len(values); i++ {
		v := values[i]
		switch {
		case math.IsNaN(v) || span <= 0 || math.IsInf(span, 0):
			sizes = append(sizes, minMarkerSize)
		default:
			sizes = append(sizes, minMarkerSize+(v-lo)/span*(maxMarkerSize-minMarkerSize))
		}
	}
	for len(sizes) < n {
		sizes = append(sizes, minMarkerSize)
	}

	return sizes
}

// hoverText composes one tooltip line per point from the column name, the
// formatted scaled value and the applied suffix. A configured color
// column appends its raw value.
func (b *builder) hoverText(frame *dataframe.Frame, name string, colScale scale.ColumnScale, scaled []float64) []string {
	var colorLabels []string
	if b.cfg.ColorColumn != "" && frame.Has(b.cfg.ColorColumn) {
		col, _ := frame.Column(b.cfg.ColorColumn)
		colorLabels = col.Labels()
	}

	texts := make([]string, 0, len(scaled))
	for i, v := range scaled {
		var sb strings.Builder
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(formatValue(v))
		sb.WriteString(colScale.Suffix)

		if i < len(colorLabels) {
			sb.WriteString(" | ")
			sb.WriteString(b.cfg.ColorColumn)
			sb.WriteString(": ")
			sb.WriteString(colorLabels[i])
		}

		texts = append(texts, sb.String())
	}

	return texts
}

func (b *builder) layout(scales scale.Info, xName string, xValues []float64, traces []Trace) Layout {
	layout := Layout{
		Title:      b.cfg.Title,
		ShowLegend: b.cfg.ShowLegend || len(traces) > 1,
		HasY2:      b.cfg.EnableDualAxis && len(b.cfg.Y2Columns) > 0,
	}

	layout.XAxis = AxisConfig{
		Title:       defaultString(b.cfg.XTitle, xName),
		Suffix:      scales.Get(xName).Suffix,
		Categorical: len(xValues) == 0,
	}
	if !layout.XAxis.Categorical {
		layout.XAxis.Grid = axisgrid.Compute(xValues)
	}

	layout.YAxis = b.yAxisConfig(b.cfg.YTitle, b.cfg.YColumns, scales, traces, false)
	if layout.HasY2 {
		layout.Y2Axis = b.yAxisConfig(b.cfg.Y2Title, b.cfg.Y2Columns, scales, traces, true)
	}

	return layout
}

// yAxisConfig resolves one y-axis: grid over all scaled values plotted
// against it, a title derived from the column names, and the suffix of
// the first column bound to it (two columns sharing an axis may carry
// different suffixes; the per-trace names surface those).
func (b *builder) yAxisConfig(title string, columns []string, scales scale.Info, traces []Trace, secondary bool) AxisConfig {
	var all []float64
	for _, trace := range traces {
		if trace.SecondaryAxis != secondary {
			continue
		}
		all = append(all, trace.Y...)
	}

	suffix := ""
	if len(columns) > 0 {
		suffix = scales.Get(columns[0]).Suffix
	}

	return AxisConfig{
		Title:  defaultString(title, strings.Join(columns, ", ")),
		Suffix: suffix,
		Grid:   axisgrid.Compute(all),
	}
}

func traceName(name, suffix string) string {
	if suffix == "" {
		return name
	}

	return name + " (" + suffix + ")"
}

// formatValue renders a scaled value compactly: integers without
// decimals, everything else with two decimals, trailing zeros trimmed.
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}

	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")

	return s
}

func defaultString(in, def string) string {
	if in == "" {
		return def
	}

	return in
}
