package ingest //nolint:revive // it's okay for an internal package to use this name

// Format identifies an input file format.
type Format string

// Supported input formats.
const (
	FormatCSV   Format = "csv"
	FormatBench Format = "bench"
)

// Option configures a [Reader].
type Option func(*options)

type options struct {
	format Format
}

// WithFormat selects the input format. Defaults to CSV.
func WithFormat(format Format) Option {
	return func(o *options) {
		if format == "" {
			return
		}

		o.format = format
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		format: FormatCSV,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
