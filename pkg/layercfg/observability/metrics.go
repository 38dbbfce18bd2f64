package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records resolution metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordProviderFetch records one provider fetch with its duration and error status.
	RecordProviderFetch(ctx context.Context, provider string, duration time.Duration, err error)

	// RecordResolution records a finished resolution. reason is empty on success.
	RecordResolution(ctx context.Context, reason string, duration time.Duration)

	// RecordTreeLeaves records the number of leaves in a merged tree.
	RecordTreeLeaves(ctx context.Context, leaves int64)
}

type otelMetrics struct {
	resolutions       metric.Int64Counter
	resolutionLatency metric.Float64Histogram
	providerFetches   metric.Int64Counter
	providerLatency   metric.Float64Histogram
	providerErrors    metric.Int64Counter
	treeLeaves        metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the shared OTel instruments.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter(InstrumentationName)

	resolutions, err := meter.Int64Counter("layercfg.resolutions",
		metric.WithDescription("Number of configuration resolutions"),
	)
	if err != nil {
		return nil, err
	}

	resolutionLatency, err := meter.Float64Histogram("layercfg.resolution.latency_ms",
		metric.WithDescription("Resolution latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	providerFetches, err := meter.Int64Counter("layercfg.provider.fetches",
		metric.WithDescription("Number of provider fetches"),
	)
	if err != nil {
		return nil, err
	}

	providerLatency, err := meter.Float64Histogram("layercfg.provider.latency_ms",
		metric.WithDescription("Provider fetch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	providerErrors, err := meter.Int64Counter("layercfg.provider.errors",
		metric.WithDescription("Number of failed provider fetches"),
	)
	if err != nil {
		return nil, err
	}

	treeLeaves, err := meter.Int64Histogram("layercfg.tree.leaves",
		metric.WithDescription("Leaves in the merged configuration tree"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		resolutions:       resolutions,
		resolutionLatency: resolutionLatency,
		providerFetches:   providerFetches,
		providerLatency:   providerLatency,
		providerErrors:    providerErrors,
		treeLeaves:        treeLeaves,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordProviderFetch(ctx context.Context, provider string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("provider", provider))

	m.providerFetches.Add(ctx, 1, attrs)
	m.providerLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)

	if err != nil {
		m.providerErrors.Add(ctx, 1, attrs)
	}
}

func (m *otelMetrics) RecordResolution(ctx context.Context, reason string, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", reason == ""),
	}
	if reason != "" {
		attrs = append(attrs, attribute.String("reason", reason))
	}
	m.resolutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.resolutionLatency.Record(ctx, float64(duration.Microseconds())/1000, metric.WithAttributes(attrs...))
}

func (m *otelMetrics) RecordTreeLeaves(ctx context.Context, leaves int64) {
	m.treeLeaves.Record(ctx, leaves)
}
