package layercfg

import (
	"io"
	"log/slog"
	"os"

	"github.com/randalmurphal/layercfg/pkg/layercfg/observability"
)

// resolveConfig holds configuration for one resolution.
type resolveConfig struct {
	logger       *slog.Logger
	spans        observability.SpanManager
	metrics      observability.MetricsRecorder
	resolutionID string

	// Startup loader only.
	workDir string
	environ func() []string
	stderr  io.Writer
}

// defaultResolveConfig returns the default configuration: no logging,
// tracing or metrics, process environment and working directory.
func defaultResolveConfig() resolveConfig {
	return resolveConfig{
		spans:   observability.NoopSpanManager{},
		metrics: observability.NoopMetrics{},
		environ: os.Environ,
		stderr:  os.Stderr,
	}
}

func newResolveConfig(opts []Option) resolveConfig {
	cfg := defaultResolveConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures resolution behavior.
type Option func(*resolveConfig)

// WithLogger sets the logger for resolution events.
// Default: nil (no logging)
//
// Provider fetches log at debug level, the outcome at info or error level.
//
// Example:
//
//	cfg, err := layercfg.Resolve[Config](ctx, providers, layercfg.Strict,
//	    layercfg.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(c *resolveConfig) {
		c.logger = logger
	}
}

// WithTracing enables or disables OpenTelemetry spans.
// Default: false
//
// When enabled, each resolution gets a "layercfg.resolve" span with one
// "layercfg.provider.<name>" child per fetch, using the global tracer provider.
func WithTracing(enabled bool) Option {
	return func(c *resolveConfig) {
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithSpanManager sets a custom span manager.
func WithSpanManager(sm observability.SpanManager) Option {
	return func(c *resolveConfig) {
		if sm != nil {
			c.spans = sm
		}
	}
}

// WithMetrics enables or disables OpenTelemetry metrics.
// Default: false
//
// Metrics use the global meter provider.
func WithMetrics(enabled bool) Option {
	return func(c *resolveConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder sets a custom metrics recorder.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(c *resolveConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithResolutionID sets the ID attached to logs and spans.
// Default: a random UUID per resolution.
func WithResolutionID(id string) Option {
	return func(c *resolveConfig) {
		c.resolutionID = id
	}
}

// WithWorkDir sets the directory the startup loader searches for
// config.yml and config.yaml.
// Default: the process working directory.
func WithWorkDir(dir string) Option {
	return func(c *resolveConfig) {
		c.workDir = dir
	}
}

// WithEnviron replaces os.Environ for the startup loader and the
// PrintErrors heuristics.
func WithEnviron(fn func() []string) Option {
	return func(c *resolveConfig) {
		if fn != nil {
			c.environ = fn
		}
	}
}

// WithStderr sets where the startup loader writes warnings.
// Default: os.Stderr
func WithStderr(w io.Writer) Option {
	return func(c *resolveConfig) {
		if w != nil {
			c.stderr = w
		}
	}
}
