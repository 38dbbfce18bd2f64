package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName names the tracer and meter.
const InstrumentationName = "layercfg"

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer(InstrumentationName)

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartResolveSpan starts a span covering one resolution.
	StartResolveSpan(ctx context.Context, resolutionID string, providers int, mode string) (context.Context, trace.Span)

	// StartProviderSpan starts a child span for one provider fetch.
	StartProviderSpan(ctx context.Context, provider string, index int) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

func (m *otelSpanManager) StartResolveSpan(ctx context.Context, resolutionID string, providers int, mode string) (context.Context, trace.Span) {
	return StartResolveSpan(ctx, resolutionID, providers, mode)
}

func (m *otelSpanManager) StartProviderSpan(ctx context.Context, provider string, index int) (context.Context, trace.Span) {
	return StartProviderSpan(ctx, provider, index)
}

func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

// StartResolveSpan starts a "layercfg.resolve" span on the global tracer.
func StartResolveSpan(ctx context.Context, resolutionID string, providers int, mode string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "layercfg.resolve",
		trace.WithAttributes(
			attribute.String("resolution.id", resolutionID),
			attribute.Int("resolution.providers", providers),
			attribute.String("resolution.mode", mode),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartProviderSpan starts a "layercfg.provider.<name>" span on the global tracer.
func StartProviderSpan(ctx context.Context, provider string, index int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "layercfg.provider."+provider,
		trace.WithAttributes(
			attribute.String("provider.name", provider),
			attribute.Int("provider.index", index),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
