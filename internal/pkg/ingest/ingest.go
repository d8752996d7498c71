// Package ingest reads tabular input files into data frames.
//
// Two input formats are supported: CSV with a header row, and Go
// benchmark output (text format), turned into one row per benchmark with
// its standard metrics as numeric columns.
package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vizkit/plotspec/internal/pkg/dataframe"
)

// Reader parses input files into [dataframe.Frame] values.
type Reader struct {
	options

	l *slog.Logger
}

// New builds a [Reader] ready to ingest input files.
func New(opts ...Option) *Reader {
	return &Reader{
		options: optionsWithDefaults(opts),
		l:       slog.Default().With(slog.String("module", "ingest")),
	}
}

// ReadFile parses a single input file. The name "-" reads standard input.
func (r *Reader) ReadFile(file string) (frame *dataframe.Frame, err error) {
	var reader io.ReadCloser

	if file == "-" {
		reader = os.Stdin
	} else {
		reader, err = os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("input file %q: %w", file, err)
		}
		defer func() {
			_ = reader.Close()
		}()
	}

	frame, err = r.Read(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", file, err)
	}

	rows, cols := frame.Shape()
	r.l.Info("input parsed",
		slog.String("file", file),
		slog.Int("rows", rows),
		slog.Int("columns", cols),
	)

	return frame, nil
}

// Read parses the configured input format from a stream.
func (r *Reader) Read(reader io.Reader) (*dataframe.Frame, error) {
	switch r.format {
	case FormatBench:
		return r.readBench(reader)
	default:
		return r.readCSV(reader)
	}
}
