package lifecycle

import "github.com/ytbean/ubean/pkg/log"

// Option configures optional behavior of a Machine.
type Option func(*options)

type options struct {
	logger    log.Logger
	name      string
	listeners []Listener
}

func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithLogger sets the logger used for transition and failure diagnostics.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName names the component. The name is attached to every log record.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithListener registers a listener before the first transition.
func WithListener(l Listener) Option {
	return func(o *options) {
		o.listeners = append(o.listeners, l)
	}
}
