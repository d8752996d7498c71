// Package reduce downsamples oversized datasets before trace construction.
//
// Two strategies are supported: sampling (keep every step-th row) and
// binning (partition the x range into equal-width buckets and aggregate
// the y columns per bucket).
package reduce

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/vizkit/plotspec/internal/pkg/dataframe"
)

// Mode selects the reduction strategy.
type Mode string

// Supported reduction modes.
const (
	ModeNone   Mode = "none"
	ModeSample Mode = "sample"
	ModeBin    Mode = "bin"
)

// IsValid reports whether the mode is one of the known reduction modes.
func (m Mode) IsValid() bool {
	switch m {
	case ModeNone, ModeSample, ModeBin:
		return true
	default:
		return false
	}
}

// AggFunc names the aggregation applied to each bucket in bin mode.
type AggFunc string

// Supported bucket aggregations.
const (
	AggMean  AggFunc = "mean"
	AggSum   AggFunc = "sum"
	AggMin   AggFunc = "min"
	AggMax   AggFunc = "max"
	AggCount AggFunc = "count"
)

// IsValid reports whether the aggregation is one of the known functions.
func (a AggFunc) IsValid() bool {
	switch a {
	case AggMean, AggSum, AggMin, AggMax, AggCount:
		return true
	default:
		return false
	}
}

// Default row-count thresholds above which a chart family reduces its data.
const (
	DefaultContinuousThreshold = 10000
	DefaultBarThreshold        = 1000
)

// Reducer downsamples frames according to a mode and point budget.
type Reducer struct {
	l *slog.Logger
}

// New builds a [Reducer].
func New() *Reducer {
	return &Reducer{
		l: slog.Default().With(slog.String("module", "reduce")),
	}
}

// Sample keeps every step-th row, step = ceil(rows/maxPoints).
//
// The output always contains the first row and never exceeds maxPoints+1
// rows. Frames already within budget are returned unchanged.
func (r *Reducer) Sample(frame *dataframe.Frame, maxPoints int) *dataframe.Frame {
	rows := frame.Rows()
	if maxPoints <= 0 || rows <= maxPoints {
		return frame
	}

	step := int(math.Ceil(float64(rows) / float64(maxPoints)))
	indices := make([]int, 0, rows/step+1)
	for i := 0; i < rows; i += step {
		indices = append(indices, i)
	}

	r.l.Info("sampled frame",
		slog.Int("rows_in", rows),
		slog.Int("rows_out", len(indices)),
		slog.Int("step", step),
	)

	return frame.Select(indices)
}

// Bin partitions the x range into maxPoints equal-width buckets and
// aggregates every numeric y column per non-empty bucket.
//
// The output x value is the bucket midpoint; empty buckets are omitted,
// not zero-filled. Non-numeric y columns are dropped from the output.
// When the x column is missing or not convertible to numeric, the input
// frame is returned unchanged: degrading gracefully is the documented
// policy here, not an error.
func (r *Reducer) Bin(frame *dataframe.Frame, xName string, maxPoints int, agg AggFunc) *dataframe.Frame {
	rows := frame.Rows()
	if maxPoints <= 0 || rows <= maxPoints {
		return frame
	}
	if !agg.IsValid() {
		agg = AggMean
	}

	xCol, err := frame.Column(xName)
	if err != nil {
		r.l.Warn("bin reduction skipped: no x column", slog.String("x", xName))

		return frame
	}

	numericX, err := xCol.AsNumeric()
	if err != nil {
		r.l.Warn("bin reduction skipped: x column is not numeric", slog.String("x", xName))

		return frame
	}

	xs, _ := numericX.Floats()
	lo, hi, ok := finiteBounds(xs)
	if !ok || lo == hi {
		return frame
	}

	width := (hi - lo) / float64(maxPoints)
	buckets := make([][]int, maxPoints)
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}

		b := int((x - lo) / width)
		if b >= maxPoints { // x == hi lands in the last bucket
			b = maxPoints - 1
		}
		buckets[b] = append(buckets[b], i)
	}

	midpoints := make([]float64, 0, maxPoints)
	aggregated := make(map[string][]float64)
	var yNames []string
	for _, col := range frame.Columns() {
		if col.Name() == xName || col.Kind() != dataframe.KindNumeric {
			continue
		}
		yNames = append(yNames, col.Name())
		aggregated[col.Name()] = nil
	}

	for b, indices := range buckets {
		if len(indices) == 0 {
			continue
		}

		midpoints = append(midpoints, lo+(float64(b)+0.5)*width)
		for _, name := range yNames {
			col, _ := frame.Column(name)
			ys, _ := col.Floats()
			aggregated[name] = append(aggregated[name], aggregate(ys, indices, agg))
		}
	}

	cols := make([]dataframe.Column, 0, len(yNames)+1)
	cols = append(cols, dataframe.NewNumericColumn(xName, midpoints))
	for _, name := range yNames {
		cols = append(cols, dataframe.NewNumericColumn(name, aggregated[name]))
	}

	out, err := dataframe.New(cols...)
	if err != nil {
		// aggregated columns share the bucket count, this cannot happen
		panic(fmt.Sprintf("binning produced an inconsistent frame: %v", err))
	}

	r.l.Info("binned frame",
		slog.Int("rows_in", rows),
		slog.Int("rows_out", out.Rows()),
		slog.String("aggregation", string(agg)),
	)

	return out
}

// aggregate reduces the values at the given indices with the aggregation
// function. NaN values are excluded; a bucket of only-NaN values yields NaN
// (count yields the non-missing count).
func aggregate(values []float64, indices []int, agg AggFunc) float64 {
	var (
		sum   float64
		count int
		lo    = math.Inf(1)
		hi    = math.Inf(-1)
	)

	for _, i := range indices {
		v := values[i]
		if math.IsNaN(v) {
			continue
		}

		sum += v
		count++
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	if agg == AggCount {
		return float64(count)
	}
	if count == 0 {
		return math.NaN()
	}

	switch agg {
	case AggSum:
		return sum
	case AggMin:
		return lo
	case AggMax:
		return hi
	default: // AggMean
		return sum / float64(count)
	}
}

func finiteBounds(values []float64) (lo, hi float64, ok bool) {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if !ok {
			lo, hi = v, v
			ok = true

			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	return lo, hi, ok
}
