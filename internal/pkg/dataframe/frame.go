package dataframe

import (
	"errors"
	"fmt"
)

// ErrKindMismatch signals a typed accessor or conversion applied to a
// column of the wrong kind.
var ErrKindMismatch = errors.New("column kind mismatch")

// ColumnNotFoundError reports access to a column absent from a [Frame].
type ColumnNotFoundError struct {
	Name string
}

// Error implements the error interface.
func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column not found: %q", e.Name)
}

// Frame is an ordered, shape-invariant collection of columns.
//
// Column insertion order is preserved and meaningful: the first column is
// conventionally the implicit x-axis. All columns have the same row count,
// enforced at construction.
type Frame struct {
	columns []Column
	index   map[string]int
}

// New builds a [Frame] from the given columns.
//
// It fails when a column name is duplicated or when row counts differ.
func New(cols ...Column) (*Frame, error) {
	f := &Frame{
		columns: make([]Column, 0, len(cols)),
		index:   make(map[string]int, len(cols)),
	}

	rows := -1
	for i, col := range cols {
		if col.Name() == "" {
			return nil, fmt.Errorf("invalid frame: empty column name at position %d", i)
		}
		if _, dup := f.index[col.Name()]; dup {
			return nil, fmt.Errorf("invalid frame: duplicate column name: %q", col.Name())
		}
		if rows >= 0 && col.Len() != rows {
			return nil, fmt.Errorf("invalid frame: column %q has %d rows, expected %d", col.Name(), col.Len(), rows)
		}

		rows = col.Len()
		f.index[col.Name()] = len(f.columns)
		f.columns = append(f.columns, col)
	}

	return f, nil
}

// Shape returns the row and column counts.
func (f *Frame) Shape() (rows, cols int) {
	if len(f.columns) == 0 {
		return 0, 0
	}

	return f.columns[0].Len(), len(f.columns)
}

// Rows returns the row count.
func (f *Frame) Rows() int {
	rows, _ := f.Shape()

	return rows
}

// Names returns the column names in insertion order.
func (f *Frame) Names() []string {
	names := make([]string, 0, len(f.columns))
	for _, col := range f.columns {
		names = append(names, col.Name())
	}

	return names
}

// Column retrieves a column by name.
func (f *Frame) Column(name string) (Column, error) {
	i, ok := f.index[name]
	if !ok {
		return Column{}, &ColumnNotFoundError{Name: name}
	}

	return f.columns[i], nil
}

// Has reports whether a column with the given name exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]

	return ok
}

// Columns returns the columns in insertion order.
func (f *Frame) Columns() []Column {
	return append([]Column(nil), f.columns...)
}

// Select returns a new frame keeping only the rows at the given indices.
//
// Column order, names and kinds are preserved.
func (f *Frame) Select(indices []int) *Frame {
	out := &Frame{
		columns: make([]Column, 0, len(f.columns)),
		index:   make(map[string]int, len(f.columns)),
	}

	for _, col := range f.columns {
		out.index[col.Name()] = len(out.columns)
		out.columns = append(out.columns, col.Select(indices))
	}

	return out
}

// Slice returns a new frame with rows in [from, to), clamped to the frame bounds.
func (f *Frame) Slice(from, to int) *Frame {
	rows := f.Rows()
	if from < 0 {
		from = 0
	}
	if to > rows {
		to = rows
	}

	indices := make([]int, 0, max(0, to-from))
	for i := from; i < to; i++ {
		indices = append(indices, i)
	}

	return f.Select(indices)
}
