package axisgrid

import (
	"math"
	"testing"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

// representative raw ranges spanning several orders of magnitude.
var representativeRanges = [][2]float64{
	{0, 1},
	{0, 7},
	{0, 10},
	{0, 13},
	{0, 55},
	{0, 100},
	{0, 999},
	{0, 1000},
	{0, 4321},
	{1, 9},
	{3, 5},
	{-5, 5},
	{-1, 1},
	{-100, 250},
	{-3, 97},
	{-0.5, 0.5},
	{0.001, 0.009},
	{12.5, 13.7},
	{1e6, 9e6},
	{-2e9, 5e9},
	{0.1, 1234.5},
	{-42, -7},
}

func TestFromRangeBandInvariant(t *testing.T) {
	for _, r := range representativeRanges {
		lo, hi := r[0], r[1]
		p := FromRange(lo, hi)

		n := p.Intervals()
		assert.GreaterOrEqual(t, n, minIntervals, "range [%g, %g]: %d intervals", lo, hi, n)
		assert.LessOrEqual(t, n, maxIntervals, "range [%g, %g]: %d intervals", lo, hi, n)

		// bounds extend outward to step multiples and cover the raw range
		assert.LessOrEqual(t, p.Min, lo, "range [%g, %g]", lo, hi)
		assert.GreaterOrEqual(t, p.Max, hi, "range [%g, %g]", lo, hi)

		// the span is an integer multiple of the step within tolerance
		ratio := (p.Max - p.Min) / p.TickStep
		assert.InDelta(t, math.Round(ratio), ratio, 1e-9, "range [%g, %g]", lo, hi)

		// the zero line shows iff zero lies within the extended bounds
		assert.Equal(t, p.Min <= 0 && p.Max >= 0, p.ShowZeroline, "range [%g, %g]", lo, hi)
	}
}

func TestFromRangeTieBreakPrefersFewerLines(t *testing.T) {
	// [0, 10] admits step 2 (5 intervals); a smaller step like 1 would
	// yield 10 intervals, outside the band. The largest in-band step wins.
	p := FromRange(0, 10)
	assert.Equal(t, 2.0, p.TickStep)
	assert.Equal(t, 0.0, p.Min)
	assert.Equal(t, 10.0, p.Max)
	assert.Equal(t, 5, p.Intervals())

	// [0, 100] scales the same shape up one magnitude
	p = FromRange(0, 100)
	assert.Equal(t, 20.0, p.TickStep)
	assert.Equal(t, 5, p.Intervals())
}

func TestFromRangeExtendsToStepMultiples(t *testing.T) {
	p := FromRange(0, 7)
	assert.Equal(t, 2.0, p.TickStep)
	assert.Equal(t, 0.0, p.Min)
	assert.Equal(t, 8.0, p.Max)
	assert.Equal(t, 4, p.Intervals())
}

func TestFromRangeNegativeSpan(t *testing.T) {
	p := FromRange(-5, 5)
	assert.Equal(t, 2.0, p.TickStep)
	assert.Equal(t, -6.0, p.Min)
	assert.Equal(t, 6.0, p.Max)
	assert.True(t, p.ShowZeroline)
}

func TestFromRangePositiveOnlyHidesZeroline(t *testing.T) {
	p := FromRange(3, 5)
	assert.Equal(t, 0.5, p.TickStep)
	assert.Equal(t, 3.0, p.Min)
	assert.Equal(t, 5.0, p.Max)
	assert.False(t, p.ShowZeroline)
}

func TestComputeDegenerateInputs(t *testing.T) {
	// empty input: default span centered on zero
	p := Compute(nil)
	assert.Equal(t, -1.0, p.Min)
	assert.Equal(t, 1.0, p.Max)
	assert.Equal(t, 0.5, p.TickStep)
	assert.True(t, p.ShowZeroline)

	// constant input: default span centered on the value
	p = Compute([]float64{42, 42, 42})
	assert.Equal(t, 41.0, p.Min)
	assert.Equal(t, 43.0, p.Max)
	assert.False(t, p.ShowZeroline)

	// only NaN values behave like empty input
	p = Compute([]float64{math.NaN(), math.NaN()})
	assert.Equal(t, -1.0, p.Min)
	assert.Equal(t, 1.0, p.Max)
}

func TestComputeIgnoresNaN(t *testing.T) {
	p := Compute([]float64{math.NaN(), 0, 10, math.NaN()})
	require.Equal(t, 2.0, p.TickStep)
	assert.Equal(t, 0.0, p.Min)
	assert.Equal(t, 10.0, p.Max)
}
