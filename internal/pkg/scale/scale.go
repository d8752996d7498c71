// Package scale resolves per-column magnitude scaling.
//
// Displayed values stay compact by dividing a whole column by a single
// power-of-thousand factor and surfacing the matching suffix (K, M, B, T)
// in axis titles and tooltips.
package scale

import (
	"math"

	"github.com/vizkit/plotspec/internal/pkg/dataframe"
)

// ColumnScale holds the factor and suffix resolved for one column.
//
// Invariant: max(|values|)/Factor lies in [1, 1000), except when the
// column is empty or all-zero, in which case Factor is 1 and Suffix "".
type ColumnScale struct {
	Factor float64
	Suffix string
}

// Info maps column names to their resolved [ColumnScale].
type Info map[string]ColumnScale

// magnitude steps, largest first so the first in-range factor wins.
var steps = []ColumnScale{
	{Factor: 1e12, Suffix: "T"},
	{Factor: 1e9, Suffix: "B"},
	{Factor: 1e6, Suffix: "M"},
	{Factor: 1e3, Suffix: "K"},
	{Factor: 1, Suffix: ""},
}

// Resolve computes the scale of every numeric column in the frame.
//
// Non-numeric columns are skipped.
func Resolve(frame *dataframe.Frame) Info {
	info := make(Info)

	for _, col := range frame.Columns() {
		if col.Kind() != dataframe.KindNumeric {
			continue
		}

		values, _ := col.Floats()
		info[col.Name()] = ResolveValues(values)
	}

	return info
}

// ResolveValues picks the largest factor f in {1, 1e3, 1e6, 1e9, 1e12}
// such that max(|v|)/f falls in [1, 1000).
//
// NaN values are excluded from the scan. An empty or all-zero input, or a
// maximum below 1, resolves to the neutral scale (factor 1, no suffix).
func ResolveValues(values []float64) ColumnScale {
	var maxAbs float64
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}

	if maxAbs == 0 || math.IsInf(maxAbs, 0) {
		return ColumnScale{Factor: 1, Suffix: ""}
	}

	for _, s := range steps {
		scaled := maxAbs / s.Factor
		if scaled >= 1 && scaled < 1000 {
			return s
		}
	}

	// maxAbs < 1: no factor brings it into [1, 1000)
	return ColumnScale{Factor: 1, Suffix: ""}
}

// Apply divides every value by the factor, preserving sign.
//
// NaN values pass through unscaled. The input slice is not modified.
func (s ColumnScale) Apply(values []float64) []float64 {
	out := make([]float64, len(values))

	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = v

			continue
		}
		out[i] = v / s.Factor
	}

	return out
}

// Get returns the scale resolved for the named column, defaulting to the
// neutral scale when the column was not resolved.
func (info Info) Get(name string) ColumnScale {
	if s, ok := info[name]; ok {
		return s
	}

	return ColumnScale{Factor: 1, Suffix: ""}
}
