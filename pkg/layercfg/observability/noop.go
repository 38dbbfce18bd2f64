package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

var _ MetricsRecorder = NoopMetrics{}

// RecordProviderFetch does nothing.
func (NoopMetrics) RecordProviderFetch(context.Context, string, time.Duration, error) {}

// RecordResolution does nothing.
func (NoopMetrics) RecordResolution(context.Context, string, time.Duration) {}

// RecordTreeLeaves does nothing.
func (NoopMetrics) RecordTreeLeaves(context.Context, int64) {}

// NoopSpanManager is a SpanManager that does nothing.
type NoopSpanManager struct{}

var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartResolveSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartResolveSpan(ctx context.Context, _ string, _ int, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartProviderSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartProviderSpan(ctx context.Context, _ string, _ int) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(trace.Span, error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(context.Context, string, ...attribute.KeyValue) {}
