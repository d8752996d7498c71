// Package dataframe provides a small, typed columnar data container.
//
// A [Frame] holds an ordered collection of immutable, equally sized
// [Column] values. Columns carry an explicit [Kind] and expose typed,
// fallible accessors: there is no implicit coercion between kinds.
package dataframe

import (
	"fmt"
	"math"
	"time"
)

// Kind identifies the value type held by a [Column].
type Kind string

// Supported column kinds.
const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
	KindDate        Kind = "date"
)

// String returns the kind as a plain string.
func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether the kind is one of the known column kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindNumeric, KindCategorical, KindDate:
		return true
	default:
		return false
	}
}

// Column is an immutable, named, typed sequence of values.
//
// Exactly one of the backing slices is populated, according to Kind.
// Missing numeric values are represented as NaN, missing dates as the
// zero [time.Time].
type Column struct {
	name string
	kind Kind

	floats  []float64
	strings []string
	times   []time.Time
}

// NewNumericColumn builds a numeric column. The input slice is copied.
func NewNumericColumn(name string, values []float64) Column {
	return Column{
		name:   name,
		kind:   KindNumeric,
		floats: append([]float64(nil), values...),
	}
}

// NewCategoricalColumn builds a categorical column. The input slice is copied.
func NewCategoricalColumn(name string, values []string) Column {
	return Column{
		name:    name,
		kind:    KindCategorical,
		strings: append([]string(nil), values...),
	}
}

// NewDateColumn builds a date column. The input slice is copied.
func NewDateColumn(name string, values []time.Time) Column {
	return Column{
		name:  name,
		kind:  KindDate,
		times: append([]time.Time(nil), values...),
	}
}

// Name returns the column name.
func (c Column) Name() string {
	return c.name
}

// Kind returns the column kind.
func (c Column) Kind() Kind {
	return c.kind
}

// Len returns the number of rows in the column.
func (c Column) Len() int {
	switch c.kind {
	case KindNumeric:
		return len(c.floats)
	case KindCategorical:
		return len(c.strings)
	case KindDate:
		return len(c.times)
	default:
		return 0
	}
}

// Floats returns the numeric values of the column.
//
// The returned slice is a copy. It fails if the column is not numeric.
func (c Column) Floats() ([]float64, error) {
	if c.kind != KindNumeric {
		return nil, fmt.Errorf("column %q holds %s values, not numeric: %w", c.name, c.kind, ErrKindMismatch)
	}

	return append([]float64(nil), c.floats...), nil
}

// Strings returns the categorical values of the column.
//
// The returned slice is a copy. It fails if the column is not categorical.
func (c Column) Strings() ([]string, error) {
	if c.kind != KindCategorical {
		return nil, fmt.Errorf("column %q holds %s values, not categorical: %w", c.name, c.kind, ErrKindMismatch)
	}

	return append([]string(nil), c.strings...), nil
}

// Times returns the date values of the column.
//
// The returned slice is a copy. It fails if the column is not a date column.
func (c Column) Times() ([]time.Time, error) {
	if c.kind != KindDate {
		return nil, fmt.Errorf("column %q holds %s values, not dates: %w", c.name, c.kind, ErrKindMismatch)
	}

	return append([]time.Time(nil), c.times...), nil
}

// Labels renders the column values as display strings, whatever the kind.
func (c Column) Labels() []string {
	labels := make([]string, 0, c.Len())

	switch c.kind {
	case KindCategorical:
		labels = append(labels, c.strings...)
	case KindNumeric:
		for _, v := range c.floats {
			labels = append(labels, formatFloat(v))
		}
	case KindDate:
		for _, v := range c.times {
			labels = append(labels, v.Format(time.DateOnly))
		}
	}

	return labels
}

// AsNumeric converts the column to a numeric column.
//
// Date columns convert to Unix milliseconds. Categorical columns do not
// convert: the conversion is explicit and fallible, never a silent coercion.
func (c Column) AsNumeric() (Column, error) {
	switch c.kind {
	case KindNumeric:
		return c, nil
	case KindDate:
		floats := make([]float64, 0, len(c.times))
		for _, v := range c.times {
			if v.IsZero() {
				floats = append(floats, math.NaN())

				continue
			}
			floats = append(floats, float64(v.UnixMilli()))
		}

		return NewNumericColumn(c.name, floats), nil
	default:
		return Column{}, fmt.Errorf("column %q: cannot convert %s values to numeric: %w", c.name, c.kind, ErrKindMismatch)
	}
}

// Select returns a new column keeping only the rows at the given indices,
// preserving the kind. Out-of-range indices are skipped.
func (c Column) Select(indices []int) Column {
	out := Column{name: c.name, kind: c.kind}
	n := c.Len()

	for _, i := range indices {
		if i < 0 || i >= n {
			continue
		}

		switch c.kind {
		case KindNumeric:
			out.floats = append(out.floats, c.floats[i])
		case KindCategorical:
			out.strings = append(out.strings, c.strings[i])
		case KindDate:
			out.times = append(out.times, c.times[i])
		}
	}

	return out
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}

	return fmt.Sprintf("%g", v)
}
