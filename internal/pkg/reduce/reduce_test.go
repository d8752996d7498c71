package reduce

import (
	"math"
	"testing"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"

	"github.com/vizkit/plotspec/internal/pkg/dataframe"
)

func TestSampleLargeFrame(t *testing.T) {
	// 50,000 rows sampled down to 10,000: step 5, every 5th row kept
	const (
		rows      = 50000
		maxPoints = 10000
	)

	frame := sequentialFrame(t, rows)
	out := New().Sample(frame, maxPoints)

	assert.Equal(t, 10000, out.Rows())
	assert.LessOrEqual(t, out.Rows(), maxPoints+1)

	col, err := out.Column("x")
	require.NoError(t, err)
	values, err := col.Floats()
	require.NoError(t, err)

	// the first row always survives, and rows keep the sampling stride
	assert.Equal(t, 0.0, values[0])
	assert.Equal(t, 5.0, values[1])
	assert.Equal(t, 10.0, values[2])
}

func TestSampleWithinBudgetIsUntouched(t *testing.T) {
	frame := sequentialFrame(t, 100)
	out := New().Sample(frame, 1000)

	assert.Equal(t, frame, out)
}

func TestSampleRowBudgetInvariant(t *testing.T) {
	for _, tc := range []struct{ rows, maxPoints int }{
		{rows: 10, maxPoints: 3},
		{rows: 11, maxPoints: 3},
		{rows: 999, maxPoints: 100},
		{rows: 1001, maxPoints: 100},
		{rows: 12345, maxPoints: 1000},
	} {
		frame := sequentialFrame(t, tc.rows)
		out := New().Sample(frame, tc.maxPoints)

		assert.LessOrEqual(t, out.Rows(), tc.maxPoints+1, "rows=%d maxPoints=%d", tc.rows, tc.maxPoints)

		col, err := out.Column("x")
		require.NoError(t, err)
		values, err := col.Floats()
		require.NoError(t, err)
		assert.Equal(t, 0.0, values[0], "first row must be kept")
	}
}

func TestBinAggregations(t *testing.T) {
	// x in [0, 10), 10 rows, 2 buckets of width 5
	xs := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	ys := []float64{1, 2, 3, 4, 5, 10, 20, 30, 40, 50}

	frame, err := dataframe.New(
		dataframe.NewNumericColumn("x", xs),
		dataframe.NewNumericColumn("y", ys),
	)
	require.NoError(t, err)

	r := New()

	for _, tc := range []struct {
		agg  AggFunc
		want []float64
	}{
		{agg: AggMean, want: []float64{3, 30}},
		{agg: AggSum, want: []float64{15, 150}},
		{agg: AggMin, want: []float64{1, 10}},
		{agg: AggMax, want: []float64{5, 50}},
		{agg: AggCount, want: []float64{5, 5}},
	} {
		out := r.Bin(frame, "x", 2, tc.agg)
		require.Equal(t, 2, out.Rows(), "agg %s", tc.agg)

		col, err := out.Column("y")
		require.NoError(t, err)
		got, err := col.Floats()
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "agg %s", tc.agg)
	}
}

func TestBinMidpointsAndRowBudget(t *testing.T) {
	xs := make([]float64, 100)
	ys := make([]float64, 100)
	for i := range xs {
		xs[i] = float64(i)
		ys[i] = float64(i * 2)
	}

	frame, err := dataframe.New(
		dataframe.NewNumericColumn("x", xs),
		dataframe.NewNumericColumn("y", ys),
	)
	require.NoError(t, err)

	out := New().Bin(frame, "x", 4, AggMean)
	require.Equal(t, 4, out.Rows())
	assert.LessOrEqual(t, out.Rows(), 4)

	col, err := out.Column("x")
	require.NoError(t, err)
	mids, err := col.Floats()
	require.NoError(t, err)

	// buckets of width 99/4 = 24.75, midpoints at lo + (b+0.5)*width
	assert.InDelta(t, 12.375, mids[0], 1e-9)
	assert.InDelta(t, 37.125, mids[1], 1e-9)
}

func TestBinOmitsEmptyBuckets(t *testing.T) {
	// values cluster at both ends; middle buckets stay empty
	xs := []float64{0, 1, 99, 100}
	ys := []float64{5, 7, 11, 13}

	frame, err := dataframe.New(
		dataframe.NewNumericColumn("x", xs),
		dataframe.NewNumericColumn("y", ys),
	)
	require.NoError(t, err)

	out := New().Bin(frame, "x", 3, AggSum)

	// only the first and last buckets hold rows
	assert.Equal(t, 2, out.Rows())

	col, err := out.Column("y")
	require.NoError(t, err)
	sums, err := col.Floats()
	require.NoError(t, err)
	assert.Equal(t, []float64{12, 24}, sums)
}

func TestBinWithoutXColumnDegradesGracefully(t *testing.T) {
	frame := sequentialFrame(t, 50)

	out := New().Bin(frame, "missing", 5, AggMean)
	assert.Equal(t, frame, out, "missing x column must return the input unchanged")
}

func TestBinNonNumericXDegradesGracefully(t *testing.T) {
	labels := make([]string, 40)
	ys := make([]float64, 40)
	for i := range labels {
		labels[i] = "v"
		ys[i] = float64(i)
	}

	frame, err := dataframe.New(
		dataframe.NewCategoricalColumn("label", labels),
		dataframe.NewNumericColumn("y", ys),
	)
	require.NoError(t, err)

	out := New().Bin(frame, "label", 5, AggMean)
	assert.Equal(t, frame, out)
}

func TestBinSkipsNaNValues(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	ys := []float64{1, math.NaN(), 3, math.NaN(), 5, 10, 20, 30, 40, 50}

	frame, err := dataframe.New(
		dataframe.NewNumericColumn("x", xs),
		dataframe.NewNumericColumn("y", ys),
	)
	require.NoError(t, err)

	out := New().Bin(frame, "x", 2, AggMean)
	require.Equal(t, 2, out.Rows())

	col, err := out.Column("y")
	require.NoError(t, err)
	got, err := col.Floats()
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 30}, got)
}

// helpers

func sequentialFrame(t *testing.T, rows int) *dataframe.Frame {
	t.Helper()

	xs := make([]float64, rows)
	ys := make([]float64, rows)
	for i := range xs {
		xs[i] = float64(i)
		ys[i] = float64(i) * 1.5
	}

	frame, err := dataframe.New(
		dataframe.NewNumericColumn("x", xs),
		dataframe.NewNumericColumn("y", ys),
	)
	require.NoError(t, err)

	return frame
}
