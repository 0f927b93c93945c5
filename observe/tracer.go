package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CallMeta identifies a protected remote call for telemetry purposes.
type CallMeta struct {
	Service   string // Remote service or endpoint group (required)
	Operation string // Logical operation, e.g. "fetch_records" (required)
}

// SpanName returns the deterministic span name for this call.
// Format: remote.call.<service>.<operation>
func (m CallMeta) SpanName() string {
	return "remote.call." + m.Service + "." + m.Operation
}

// Tracer wraps OpenTelemetry tracing with call-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan and AddRetryEvent must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a span covering one protected call, including all
	// of its attempts.
	StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span)

	// AddRetryEvent records a retry decision on the span.
	AddRetryEvent(span trace.Span, attempt int, err error, delay time.Duration)

	// EndSpan ends the span, recording any terminal error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with call metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(
			attribute.String("remote.service", meta.Service),
			attribute.String("remote.operation", meta.Operation),
		),
	)
}

// AddRetryEvent records one retry decision as a span event.
func (t *tracerImpl) AddRetryEvent(span trace.Span, attempt int, err error, delay time.Duration) {
	if span == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.Int("retry.attempt", attempt),
		attribute.String("retry.delay", delay.String()),
	}
	if err != nil {
		attrs = append(attrs, attribute.String("retry.error", err.Error()))
	}
	span.AddEvent("retry", trace.WithAttributes(attrs...))
}

// EndSpan ends the span, marking error status from the terminal outcome.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
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
