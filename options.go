package symgraph

import (
	"log/slog"
)

// ArtifactSuffix is the conventional file extension of a module
// artifact.
const ArtifactSuffix = ".symgraph"

type options struct {
	logger  *Logger
	metrics MetricsCollector
	suffix  string
}

// Option configures session behavior.
type Option func(*options)

// WithLogger configures structured logging for load and save
// operations. Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithArtifactSuffix overrides the suffix appended to a module name to
// form its artifact name. Default: ArtifactSuffix.
func WithArtifactSuffix(suffix string) Option {
	return func(o *options) {
		o.suffix = suffix
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
		suffix:  ArtifactSuffix,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
