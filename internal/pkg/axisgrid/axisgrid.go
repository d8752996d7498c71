// Package axisgrid computes "nice" axis bounds and tick parameters.
//
// Given a scaled numeric sequence, it picks a step from the canonical
// {1, 2, 5}×10^k set so the axis carries between minIntervals and
// maxIntervals gridline intervals, then extends the bounds outward to step
// multiples. Ties are broken toward fewer, wider-spaced gridlines:
// candidate steps are scanned from the largest downward and the first
// in-band hit wins. Degenerate inputs never fail; they resolve to a fixed
// default span centered on the value.
package axisgrid

import (
	"math"
)

// Calibration constants for the gridline target band.
const (
	minIntervals = 4
	maxIntervals = 8

	// defaultHalfSpan and defaultStep define the fallback axis around a
	// degenerate (empty or constant) input.
	defaultHalfSpan = 1.0
	defaultStep     = 0.5
)

// Params describes a fully resolved axis grid.
//
// Min ≤ 0 ≤ Max holds whenever ShowZeroline is true, and Max−Min is an
// integer multiple of TickStep within floating-point tolerance. TickCount
// is the number of tick positions (intervals + 1).
type Params struct {
	Min          float64
	Max          float64
	TickStep     float64
	TickCount    int
	ShowZeroline bool
}

// Intervals returns the number of step intervals covered by the axis.
func (p Params) Intervals() int {
	return p.TickCount - 1
}

// Compute resolves the axis grid for a sequence of values.
//
// NaN and infinite values are ignored. An empty or constant sequence
// falls back to the default span centered on the value (or on zero).
func Compute(values []float64) Params {
	lo, hi, ok := bounds(values)
	if !ok {
		return degenerate(0)
	}
	if lo == hi {
		return degenerate(lo)
	}

	return FromRange(lo, hi)
}

// FromRange resolves the axis grid for a raw [lo, hi] range.
func FromRange(lo, hi float64) Params {
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return degenerate(lo)
	}

	span := hi - lo

	// candidate steps in strictly decreasing size, so the first candidate
	// landing in the target band carries the fewest gridlines
	kHi := int(math.Ceil(math.Log10(span)))

	var (
		best    Params
		bestGap = math.MaxInt
		found   bool
	)

	for k := kHi; k >= kHi-4; k-- {
		for _, mult := range []float64{5, 2, 1} {
			step := mult * math.Pow(10, float64(k))
			p := snap(lo, hi, step)
			n := p.Intervals()

			if n >= minIntervals && n <= maxIntervals {
				return p
			}

			gap := distanceToBand(n)
			if gap < bestGap {
				bestGap = gap
				best = p
				found = true
			}
		}
	}

	if !found {
		return degenerate(lo)
	}

	return best
}

// snap extends lo down and hi up to the nearest multiples of step.
func snap(lo, hi, step float64) Params {
	extMin := math.Floor(lo/step) * step
	extMax := math.Ceil(hi/step) * step
	intervals := int(math.Round((extMax - extMin) / step))
	if intervals < 1 {
		intervals = 1
		extMax = extMin + step
	}

	return Params{
		Min:          extMin,
		Max:          extMax,
		TickStep:     step,
		TickCount:    intervals + 1,
		ShowZeroline: extMin <= 0 && extMax >= 0,
	}
}

func distanceToBand(n int) int {
	switch {
	case n < minIntervals:
		return minIntervals - n
	case n > maxIntervals:
		return n - maxIntervals
	default:
		return 0
	}
}

func degenerate(v float64) Params {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}

	lo := v - defaultHalfSpan
	hi := v + defaultHalfSpan

	return Params{
		Min:          lo,
		Max:          hi,
		TickStep:     defaultStep,
		TickCount:    int(math.Round((hi-lo)/defaultStep)) + 1,
		ShowZeroline: lo <= 0 && hi >= 0,
	}
}

func bounds(values []float64) (lo, hi float64, ok bool) {
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
