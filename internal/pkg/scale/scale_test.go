package scale

import (
	"math"
	"testing"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"

	"github.com/vizkit/plotspec/internal/pkg/dataframe"
)

func TestResolveValuesInvariant(t *testing.T) {
	// for any non-degenerate input, scaledMax must land in [1, 1000)
	inputs := [][]float64{
		{1, 2, 3},
		{999, 500},
		{1000},
		{999999, 1},
		{1e6},
		{5e6, -2e7},
		{1e9},
		{3.5e10},
		{1e12},
		{7.2e13},
		{-42},
		{-1234567},
	}

	for _, values := range inputs {
		s := ResolveValues(values)

		var maxAbs float64
		for _, v := range values {
			maxAbs = math.Max(maxAbs, math.Abs(v))
		}

		scaled := maxAbs / s.Factor
		assert.GreaterOrEqual(t, scaled, 1.0, "input %v, factor %g", values, s.Factor)
		assert.Less(t, scaled, 1000.0, "input %v, factor %g", values, s.Factor)
	}
}

func TestResolveValuesSuffixes(t *testing.T) {
	for _, tc := range []struct {
		max    float64
		factor float64
		suffix string
	}{
		{max: 0, factor: 1, suffix: ""},
		{max: 0.5, factor: 1, suffix: ""},
		{max: 1, factor: 1, suffix: ""},
		{max: 999, factor: 1, suffix: ""},
		{max: 1000, factor: 1e3, suffix: "K"},
		{max: 999999, factor: 1e3, suffix: "K"},
		{max: 1e6, factor: 1e6, suffix: "M"},
		{max: 2.5e8, factor: 1e6, suffix: "M"},
		{max: 1e9, factor: 1e9, suffix: "B"},
		{max: 1e12, factor: 1e12, suffix: "T"},
		{max: 9e14, factor: 1e12, suffix: "T"},
	} {
		s := ResolveValues([]float64{tc.max})
		assert.Equal(t, tc.factor, s.Factor, "max %g", tc.max)
		assert.Equal(t, tc.suffix, s.Suffix, "max %g", tc.max)
	}
}

func TestMillionScenario(t *testing.T) {
	// values 1..1,000,000 resolve to the M suffix, every value divided by 1e6
	values := make([]float64, 0, 1000000)
	for i := 1; i <= 1000000; i++ {
		values = append(values, float64(i))
	}

	s := ResolveValues(values)
	assert.Equal(t, 1e6, s.Factor)
	assert.Equal(t, "M", s.Suffix)

	scaled := s.Apply(values)
	assert.Equal(t, 1e-6, scaled[0])
	assert.Equal(t, 1.0, scaled[len(scaled)-1])
}

func TestApplyPreservesSignAndNaN(t *testing.T) {
	s := ColumnScale{Factor: 1e3, Suffix: "K"}

	scaled := s.Apply([]float64{-2000, math.NaN(), 3000})
	assert.Equal(t, -2.0, scaled[0])
	assert.True(t, math.IsNaN(scaled[1]), "NaN must pass through unscaled")
	assert.Equal(t, 3.0, scaled[2])
}

func TestResolveEmptyColumn(t *testing.T) {
	s := ResolveValues(nil)
	assert.Equal(t, 1.0, s.Factor)
	assert.Empty(t, s.Suffix)
}

func TestResolveSkipsNaN(t *testing.T) {
	// the NaN must not win the max scan
	s := ResolveValues([]float64{math.NaN(), 5000})
	assert.Equal(t, 1e3, s.Factor)
	assert.Equal(t, "K", s.Suffix)
}

func TestResolveFramePerColumn(t *testing.T) {
	frame, err := dataframe.New(
		dataframe.NewNumericColumn("small", []float64{1, 2, 3}),
		dataframe.NewNumericColumn("big", []float64{2e6, 5e6}),
		dataframe.NewCategoricalColumn("label", []string{"a", "b"}),
	)
	require.NoError(t, err)

	info := Resolve(frame)

	assert.Equal(t, "", info.Get("small").Suffix)
	assert.Equal(t, "M", info.Get("big").Suffix)

	// categorical columns are not resolved; lookups fall back to neutral
	_, resolved := info["label"]
	assert.False(t, resolved)
	assert.Equal(t, 1.0, info.Get("label").Factor)
}
