// Package render converts a resolved chart spec into its ECharts form.
//
// The ECharts schema, reached through go-echarts, is the external contract
// this engine conforms to: everything numeric (ranges, ticks, scaling,
// colors, sizes) is already resolved in the [spec.ChartSpec] and is copied
// over, never recomputed here.
package render

import (
	"fmt"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	echartsopts "github.com/go-echarts/go-echarts/v2/opts"

	"github.com/vizkit/plotspec/internal/pkg/spec"
)

const (
	defaultFontSize = 12
	axisNameGap     = 32
)

// Theme constants from go-echarts.
const (
	ThemeRoma = "roma"
)

// colorRamps maps a named continuous colorscale onto an ECharts gradient.
var colorRamps = map[string][]string{
	"Viridis": {"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"},
}

// Renderer turns chart specs into go-echarts charts.
type Renderer struct {
	options
}

// New builds a [Renderer].
func New(opts ...Option) *Renderer {
	return &Renderer{
		options: optionsWithDefaults(opts),
	}
}

// Chart converts one [spec.ChartSpec] into a renderable ECharts chart.
func (r *Renderer) Chart(s *spec.ChartSpec) (components.Charter, error) {
	switch s.Family {
	case spec.FamilyScatter:
		return r.scatter(s), nil
	case spec.FamilyLine:
		return r.line(s), nil
	case spec.FamilyBar, spec.FamilyStackedBar:
		return r.bar(s), nil
	default:
		return nil, fmt.Errorf("unsupported chart family: %q", s.Family)
	}
}

func (r *Renderer) scatter(s *spec.ChartSpec) *charts.Scatter {
	chart := charts.NewScatter()
	chart.SetGlobalOptions(r.globalOptions(s)...)

	if s.Layout.HasY2 {
		chart.ExtendYAxis(secondaryYAxis(s.Layout.Y2Axis))
	}

	chart.SetXAxis(xLabels(s))

	for _, trace := range s.Traces {
		if len(trace.Marker.ColorLabels) > 0 {
			// discrete colors: one sub-series per category so the color and
			// the legend entry survive into the output
			for _, group := range categoryGroups(trace) {
				data := make([]echartsopts.ScatterData, 0, len(group.indices))
				for _, i := range group.indices {
					data = append(data, echartsopts.ScatterData{
						Name:       hoverAt(trace, i),
						Value:      pairAt(trace, i, trace.Y[i]),
						SymbolSize: symbolSize(trace.Marker, i),
					})
				}

				chart.AddSeries(group.label, data, r.categorySeriesOpts(trace, group,
					charts.WithScatterChartOpts(echartsopts.ScatterChart{YAxisIndex: yAxisIndex(trace)}))...)
			}

			continue
		}

		data := make([]echartsopts.ScatterData, 0, len(trace.Y))
		for i, y := range trace.Y {
			point := echartsopts.ScatterData{
				Name:       hoverAt(trace, i),
				Value:      pointValue(trace, i, y),
				SymbolSize: symbolSize(trace.Marker, i),
			}
			data = append(data, point)
		}

		seriesOpts := r.seriesStyle(trace)
		if trace.SecondaryAxis {
			seriesOpts = append(seriesOpts, charts.WithScatterChartOpts(echartsopts.ScatterChart{YAxisIndex: 1}))
		}

		chart.AddSeries(trace.Name, data, seriesOpts...)
	}

	return chart
}

func (r *Renderer) line(s *spec.ChartSpec) *charts.Line {
	chart := charts.NewLine()
	chart.SetGlobalOptions(r.globalOptions(s)...)

	if s.Layout.HasY2 {
		chart.ExtendYAxis(secondaryYAxis(s.Layout.Y2Axis))
	}

	chart.SetXAxis(xLabels(s))

	for _, trace := range s.Traces {
		if len(trace.Marker.ColorLabels) > 0 {
			for _, group := range categoryGroups(trace) {
				data := make([]echartsopts.LineData, 0, len(group.indices))
				for _, i := range group.indices {
					data = append(data, echartsopts.LineData{
						Name:       hoverAt(trace, i),
						Value:      pairAt(trace, i, trace.Y[i]),
						SymbolSize: symbolSize(trace.Marker, i),
					})
				}

				chart.AddSeries(group.label, data, r.categorySeriesOpts(trace, group,
					charts.WithLineChartOpts(echartsopts.LineChart{YAxisIndex: yAxisIndex(trace)}))...)
			}

			continue
		}

		data := make([]echartsopts.LineData, 0, len(trace.Y))
		for i, y := range trace.Y {
			data = append(data, echartsopts.LineData{
				Name:       hoverAt(trace, i),
				Value:      pointValue(trace, i, y),
				SymbolSize: symbolSize(trace.Marker, i),
			})
		}

		seriesOpts := r.seriesStyle(trace)
		if trace.SecondaryAxis {
			seriesOpts = append(seriesOpts, charts.WithLineChartOpts(echartsopts.LineChart{YAxisIndex: 1}))
		}

		chart.AddSeries(trace.Name, data, seriesOpts...)
	}

	return chart
}

func (r *Renderer) bar(s *spec.ChartSpec) *charts.Bar {
	chart := charts.NewBar()
	chart.SetGlobalOptions(r.globalOptions(s)...)

	if s.Layout.HasY2 {
		chart.ExtendYAxis(secondaryYAxis(s.Layout.Y2Axis))
	}

	chart.SetXAxis(xLabels(s))

	for _, trace := range s.Traces {
		data := make([]echartsopts.BarData, 0, len(trace.Y))
		for i, y := range trace.Y {
			item := echartsopts.BarData{
				Name:  hoverAt(trace, i),
				Value: y,
			}
			if i < len(trace.Marker.Colors) {
				item.ItemStyle = &echartsopts.ItemStyle{Color: trace.Marker.Colors[i]}
			}
			data = append(data, item)
		}

		seriesOpts := r.seriesStyle(trace)
		if trace.Stack != "" {
			seriesOpts = append(seriesOpts, charts.WithBarChartOpts(echartsopts.BarChart{Stack: trace.Stack}))
		}
		if trace.SecondaryAxis {
			seriesOpts = append(seriesOpts, charts.WithBarChartOpts(echartsopts.BarChart{YAxisIndex: 1}))
		}

		chart.AddSeries(trace.Name, data, seriesOpts...)
	}

	return chart
}

func (r *Renderer) globalOptions(s *spec.ChartSpec) []charts.GlobalOpts {
	titleOpts := echartsopts.Title{
		Title: s.Layout.Title,
		TitleStyle: &echartsopts.TextStyle{
			FontSize: defaultFontSize + 2,
		},
	}

	legendOpts := echartsopts.Legend{
		Show: echartsopts.Bool(s.Layout.ShowLegend),
	}
	if s.Layout.ShowLegend {
		legendOpts.X = "right"
		legendOpts.Y = "bottom"
	}

	toolboxOpts := echartsopts.Toolbox{
		Left: "right",
		Feature: &echartsopts.ToolBoxFeature{
			SaveAsImage: &echartsopts.ToolBoxFeatureSaveAsImage{
				Title: "Save as image",
			},
		},
	}

	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(echartsopts.Initialization{Theme: r.Theme}),
		charts.WithTitleOpts(titleOpts),
		charts.WithLegendOpts(legendOpts),
		charts.WithToolboxOpts(toolboxOpts),
		charts.WithGridOpts(echartsopts.Grid{Bottom: "100", Top: "100"}),
		charts.WithTooltipOpts(echartsopts.Tooltip{
			Show:    echartsopts.Bool(true),
			Trigger: s.Interaction.TooltipTrigger,
		}),
		charts.WithXAxisOpts(xAxis(s.Layout.XAxis, categoryAxis(s))),
		charts.WithYAxisOpts(yAxis(s.Layout.YAxis)),
	}

	if vm, ok := visualMap(s); ok {
		global = append(global, vm)
	}

	if s.Interaction.EnableZoom {
		global = append(global, charts.WithDataZoomOpts(echartsopts.DataZoom{Type: "slider"}))
	}

	return global
}

// categoryAxis reports whether the chart lays its points out on a category
// x-axis. Bar families always do, even over a numeric x column: ECharts
// positions bars at category slots, not at value coordinates.
func categoryAxis(s *spec.ChartSpec) bool {
	if s.Family == spec.FamilyBar || s.Family == spec.FamilyStackedBar {
		return true
	}

	return s.Layout.XAxis.Categorical
}

func xAxis(axis spec.AxisConfig, categorical bool) echartsopts.XAxis {
	out := echartsopts.XAxis{
		Name:         axisTitle(axis),
		NameLocation: "center",
		NameGap:      axisNameGap,
		Type:         "category",
		AxisTick: &echartsopts.AxisTick{
			AlignWithLabel: echartsopts.Bool(true),
		},
	}

	if !categorical {
		out.Type = "value"
		out.Min = axis.Grid.Min
		out.Max = axis.Grid.Max
		out.SplitNumber = axis.Grid.Intervals()
	}

	return out
}

func yAxis(axis spec.AxisConfig) echartsopts.YAxis {
	return echartsopts.YAxis{
		Name:        axisTitle(axis),
		Type:        "value",
		Min:         axis.Grid.Min,
		Max:         axis.Grid.Max,
		SplitNumber: axis.Grid.Intervals(),
		AxisLabel: &echartsopts.AxisLabel{
			Formatter: echartsopts.FuncOpts("function (value,index) { return value.toString();}"),
		},
	}
}

// axisTitle surfaces the magnitude suffix chosen by the scale resolver.
func axisTitle(axis spec.AxisConfig) string {
	if axis.Suffix == "" {
		return axis.Title
	}

	return axis.Title + " (" + axis.Suffix + ")"
}

func secondaryYAxis(axis spec.AxisConfig) echartsopts.YAxis {
	out := yAxis(axis)
	out.Position = "right"

	return out
}

// visualMap builds the continuous color mapping when any trace carries
// resolved color values. Scatter and line points embed the color value as
// the last data dimension, which is the dimension ECharts maps by default.
func visualMap(s *spec.ChartSpec) (charts.GlobalOpts, bool) {
	if s.Family == spec.FamilyBar || s.Family == spec.FamilyStackedBar {
		return nil, false
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	scale := ""
	for _, trace := range s.Traces {
		if len(trace.Marker.ColorValues) > 0 {
			scale = trace.Marker.ColorScale
		}
		for _, v := range trace.Marker.ColorValues {
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
	}

	if hi < lo {
		return nil, false
	}

	return charts.WithVisualMapOpts(echartsopts.VisualMap{
		Calculable: echartsopts.Bool(true),
		Min:        float32(lo),
		Max:        float32(hi),
		InRange:    &echartsopts.VisualMapInRange{Color: rampColors(scale)},
	}), true
}

func rampColors(name string) []string {
	if ramp, ok := colorRamps[name]; ok {
		return ramp
	}

	return colorRamps["Viridis"]
}

func (r *Renderer) seriesStyle(trace spec.Trace) []charts.SeriesOpts {
	style := echartsopts.ItemStyle{}
	hasStyle := false

	if trace.Marker.Opacity > 0 && trace.Marker.Opacity < 1 {
		style.Opacity = echartsopts.Float(float32(trace.Marker.Opacity))
		hasStyle = true
	}

	if !hasStyle {
		return nil
	}

	return []charts.SeriesOpts{charts.WithItemStyleOpts(style)}
}

// categorySeriesOpts styles one per-category sub-series: the assigned
// palette color at series level, plus the trace opacity and axis binding.
func (r *Renderer) categorySeriesOpts(trace spec.Trace, group categorySeries, axisOpt charts.SeriesOpts) []charts.SeriesOpts {
	style := echartsopts.ItemStyle{Color: group.color}
	if trace.Marker.Opacity > 0 && trace.Marker.Opacity < 1 {
		style.Opacity = echartsopts.Float(float32(trace.Marker.Opacity))
	}

	seriesOpts := []charts.SeriesOpts{charts.WithItemStyleOpts(style)}
	if trace.SecondaryAxis {
		seriesOpts = append(seriesOpts, axisOpt)
	}

	return seriesOpts
}

// categorySeries is one discrete-color sub-series: the points of a trace
// sharing a category label, all drawn in that category's color.
type categorySeries struct {
	label   string
	color   string
	indices []int
}

// categoryGroups partitions the trace points by color label in first-seen
// order, matching the palette assignment order.
func categoryGroups(trace spec.Trace) []categorySeries {
	byLabel := make(map[string]int, len(trace.Marker.ColorLabels))
	var groups []categorySeries

	for i := range trace.Y {
		label := ""
		if i < len(trace.Marker.ColorLabels) {
			label = trace.Marker.ColorLabels[i]
		}

		g, ok := byLabel[label]
		if !ok {
			color := ""
			if i < len(trace.Marker.Colors) {
				color = trace.Marker.Colors[i]
			}

			g = len(groups)
			byLabel[label] = g
			groups = append(groups, categorySeries{label: label, color: color})
		}

		groups[g].indices = append(groups[g].indices, i)
	}

	return groups
}

func yAxisIndex(trace spec.Trace) int {
	if trace.SecondaryAxis {
		return 1
	}

	return 0
}

func xLabels(s *spec.ChartSpec) []string {
	if len(s.Traces) == 0 {
		return nil
	}

	return s.Traces[0].XLabels
}

// hoverAt returns the tooltip line for the i-th point of a trace.
func hoverAt(trace spec.Trace, i int) string {
	if i < len(trace.HoverText) {
		return trace.HoverText[i]
	}

	return trace.Name
}

// pointValue builds the data item value for the i-th point: an [x, y]
// pair when numeric x coordinates exist (ECharts places scalar values at
// the data index on a value axis, not at the resolved x), extended with
// the continuous color value as a trailing dimension when present.
func pointValue(trace spec.Trace, i int, y float64) any {
	if i < len(trace.Marker.ColorValues) {
		return []any{xAt(trace, i), y, trace.Marker.ColorValues[i]}
	}
	if i < len(trace.XValues) {
		return []any{trace.XValues[i], y}
	}

	return y
}

// pairAt always builds an explicit [x, y] pair, falling back to the x
// label then the point index. Per-category sub-series cannot rely on the
// data index for positioning, so the x coordinate is always explicit.
func pairAt(trace spec.Trace, i int, y float64) any {
	return []any{xAt(trace, i), y}
}

func xAt(trace spec.Trace, i int) any {
	if i < len(trace.XValues) {
		return trace.XValues[i]
	}
	if i < len(trace.XLabels) {
		return trace.XLabels[i]
	}

	return i
}

// symbolSize resolves the marker size of the i-th point as pixels.
func symbolSize(m spec.Marker, i int) int {
	if i < len(m.Sizes) {
		return int(math.Round(m.Sizes[i]))
	}
	if m.Size > 0 {
		return int(math.Round(m.Size))
	}

	return 0
}
