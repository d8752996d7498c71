package image //nolint:revive // it's okay for an internal package to use this name

import "time"

// Option to tune the PNG capture.
type Option func(*options)

type options struct {
	Height        int64
	Width         int64
	SleepDuration time.Duration
}

// Default viewport and settle time for the headless browser.
const (
	defaultHeight int64 = 1080
	defaultWidth  int64 = 1920
	defaultSleep        = time.Second
)

func optionsWithDefaults(opts []Option) options {
	o := options{
		Height:        defaultHeight,
		Width:         defaultWidth,
		SleepDuration: defaultSleep,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// WithHeight sets the viewport height in pixels.
//
// Defaults to 1080.
func WithHeight(height int64) Option {
	return func(o *options) {
		if height <= 0 {
			return
		}

		o.Height = height
	}
}

// WithWidth sets the viewport width in pixels.
//
// Defaults to 1920.
func WithWidth(width int64) Option {
	return func(o *options) {
		if width <= 0 {
			return
		}

		o.Width = width
	}
}

// WithSleep sets how long to let the page scripts settle before the
// screenshot is taken.
//
// Defaults to 1s.
func WithSleep(sleep time.Duration) Option {
	return func(o *options) {
		if sleep <= 0 {
			return
		}

		o.SleepDuration = sleep
	}
}
