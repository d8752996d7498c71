package render

// Option configures a [Renderer].
type Option func(*options)

type options struct {
	Theme string
}

// WithTheme sets the color theme.
func WithTheme(theme string) Option {
	return func(o *options) {
		if theme == "" {
			return
		}

		o.Theme = theme
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		Theme: ThemeRoma,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
