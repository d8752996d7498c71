package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vizkit/plotspec/internal/pkg/dataframe"
)

// date layouts tried during kind inference, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	time.DateOnly,
	"01/02/2006",
}

// readCSV parses a CSV stream with a header row into a frame.
//
// The kind of each column is inferred from its values: numeric when every
// non-empty cell parses as a float, date when every non-empty cell parses
// with one of the known layouts, categorical otherwise. Empty cells
// become missing values (NaN, zero time, or "").
func (r *Reader) readCSV(reader io.Reader) (*dataframe.Frame, error) {
	records, err := csv.NewReader(reader).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV input")
	}

	header := records[0]
	rows := records[1:]

	cols := make([]dataframe.Column, 0, len(header))
	for j, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", j)
		}

		cells := make([]string, 0, len(rows))
		for _, row := range rows {
			if j < len(row) {
				cells = append(cells, strings.TrimSpace(row[j]))
			} else {
				cells = append(cells, "")
			}
		}

		cols = append(cols, inferColumn(name, cells))
	}

	return dataframe.New(cols...)
}

func inferColumn(name string, cells []string) dataframe.Column {
	if floats, ok := parseFloats(cells); ok {
		return dataframe.NewNumericColumn(name, floats)
	}
	if times, ok := parseTimes(cells); ok {
		return dataframe.NewDateColumn(name, times)
	}

	return dataframe.NewCategoricalColumn(name, cells)
}

func parseFloats(cells []string) ([]float64, bool) {
	floats := make([]float64, 0, len(cells))
	seen := false

	for _, cell := range cells {
		if cell == "" {
			floats = append(floats, math.NaN())

			continue
		}

		v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
		if err != nil {
			return nil, false
		}

		floats = append(floats, v)
		seen = true
	}

	return floats, seen
}

func parseTimes(cells []string) ([]time.Time, bool) {
	times := make([]time.Time, 0, len(cells))
	seen := false

	for _, cell := range cells {
		if cell == "" {
			times = append(times, time.Time{})

			continue
		}

		parsed, ok := parseTime(cell)
		if !ok {
			return nil, false
		}

		times = append(times, parsed)
		seen = true
	}

	return times, seen
}

func parseTime(cell string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
