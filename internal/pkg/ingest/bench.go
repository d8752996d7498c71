package ingest

import (
	"io"
	"math"
	"sort"

	"golang.org/x/tools/benchmark/parse"

	"github.com/vizkit/plotspec/internal/pkg/dataframe"
)

// Column names produced by the benchmark ingest mode.
const (
	BenchNameColumn  = "benchmark"
	BenchNsPerOp     = "nsPerOp"
	BenchAllocsPerOp = "allocsPerOp"
	BenchBytesPerOp  = "bytesPerOp"
	BenchMBPerS      = "MBPerS"
)

// readBench parses `go test -bench` text output into a frame with one row
// per benchmark result and one numeric column per standard metric.
//
// Metrics a benchmark did not measure become missing values, so the scale
// resolver and reducers treat them like any other gap in the data.
func (r *Reader) readBench(reader io.Reader) (*dataframe.Frame, error) {
	set, err := parse.ParseSet(reader)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		labels  []string
		nsPerOp []float64
		allocs  []float64
		bytes   []float64
		mbPerS  []float64
	)

	for _, name := range names {
		for _, bench := range set[name] {
			labels = append(labels, bench.Name)
			nsPerOp = append(nsPerOp, metricOrNaN(bench.NsPerOp, bench.Measured&parse.NsPerOp != 0))
			allocs = append(allocs, metricOrNaN(float64(bench.AllocsPerOp), bench.Measured&parse.AllocsPerOp != 0))
			bytes = append(bytes, metricOrNaN(float64(bench.AllocedBytesPerOp), bench.Measured&parse.AllocedBytesPerOp != 0))
			mbPerS = append(mbPerS, metricOrNaN(bench.MBPerS, bench.Measured&parse.MBPerS != 0))
		}
	}

	return dataframe.New(
		dataframe.NewCategoricalColumn(BenchNameColumn, labels),
		dataframe.NewNumericColumn(BenchNsPerOp, nsPerOp),
		dataframe.NewNumericColumn(BenchAllocsPerOp, allocs),
		dataframe.NewNumericColumn(BenchBytesPerOp, bytes),
		dataframe.NewNumericColumn(BenchMBPerS, mbPerS),
	)
}

func metricOrNaN(v float64, measured bool) float64 {
	if !measured {
		return math.NaN()
	}

	return v
}
