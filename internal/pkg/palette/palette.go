// Package palette assigns colors to categorical or continuous values.
package palette

// Default categorical palette. Distinct values are assigned in first-seen
// order, cycling modulo the palette length when there are more categories
// than colors.
var defaultColors = []string{
	"#5470c6",
	"#91cc75",
	"#fac858",
	"#ee6666",
	"#73c0de",
	"#3ba272",
	"#fc8452",
	"#9a60b4",
	"#ea7ccc",
	"#516b91",
}

// DefaultColorScale names the continuous colorscale handed to the
// rendering engine. Continuous values are not bucketed client-side.
const DefaultColorScale = "Viridis"

// Size returns the number of colors in the default palette.
func Size() int {
	return len(defaultColors)
}

// Color returns the i-th palette color, cycling modulo the palette length.
func Color(i int) string {
	if i < 0 {
		i = -i
	}

	return defaultColors[i%len(defaultColors)]
}

// Assign maps each distinct value to a palette color in first-seen order.
//
// The mapping is a pure function of the ordered input: re-running on the
// same sequence yields identical assignments.
func Assign(values []string) map[string]string {
	assigned := make(map[string]string, len(defaultColors))
	next := 0

	for _, v := range values {
		if _, seen := assigned[v]; seen {
			continue
		}

		assigned[v] = Color(next)
		next++
	}

	return assigned
}

// PerValue returns one color per input value, assigned per [Assign].
func PerValue(values []string) []string {
	assigned := Assign(values)
	colors := make([]string, 0, len(values))

	for _, v := range values {
		colors = append(colors, assigned[v])
	}

	return colors
}
