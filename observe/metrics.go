package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/oakmount/ward/resilience"
)

// Metrics records resilience telemetry for protected calls.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordAttempt records one physical attempt of a protected call.
	RecordAttempt(ctx context.Context, meta CallMeta, attempt int, err error)

	// RecordOutcome records a completed protected call with its total
	// duration and terminal error status.
	RecordOutcome(ctx context.Context, meta CallMeta, duration time.Duration, err error)

	// RecordRejection records a gate rejection ("circuit_open" or
	// "rate_limited") that prevented an attempt.
	RecordRejection(ctx context.Context, meta CallMeta, kind string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	attemptCount   metric.Int64Counter
	outcomeCount   metric.Int64Counter
	errorCount     metric.Int64Counter
	rejectionCount metric.Int64Counter
	durationHist   metric.Float64Histogram
}

// NewMetrics creates a Metrics instance registering instruments on the
// given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	attemptCount, err := meter.Int64Counter(
		"remote.call.attempts",
		metric.WithDescription("Physical attempts of protected calls"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	outcomeCount, err := meter.Int64Counter(
		"remote.call.total",
		metric.WithDescription("Completed protected calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"remote.call.errors",
		metric.WithDescription("Protected calls that ended in failure"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	rejectionCount, err := meter.Int64Counter(
		"remote.call.rejections",
		metric.WithDescription("Calls refused by the circuit breaker or rate limiter"),
		metric.WithUnit("{rejection}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"remote.call.duration_ms",
		metric.WithDescription("Protected call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		attemptCount:   attemptCount,
		outcomeCount:   outcomeCount,
		errorCount:     errorCount,
		rejectionCount: rejectionCount,
		durationHist:   durationHist,
	}, nil
}

func callAttrs(meta CallMeta) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("remote.service", meta.Service),
		attribute.String("remote.operation", meta.Operation),
	}
}

// RecordAttempt records one physical attempt.
func (m *metricsImpl) RecordAttempt(ctx context.Context, meta CallMeta, attempt int, err error) {
	attrs := append(callAttrs(meta), attribute.Bool("attempt.failed", err != nil))
	m.attemptCount.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordOutcome records a completed protected call.
func (m *metricsImpl) RecordOutcome(ctx context.Context, meta CallMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(callAttrs(meta)...)

	m.outcomeCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordRejection records a gate rejection.
func (m *metricsImpl) RecordRejection(ctx context.Context, meta CallMeta, kind string) {
	attrs := append(callAttrs(meta), attribute.String("rejection.kind", kind))
	m.rejectionCount.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// ObserveBreaker registers an observable gauge reporting a circuit
// breaker's state for the given call target. The gauge value is the
// numeric resilience.State (0 closed, 1 open, 2 half-open).
func ObserveBreaker(meter metric.Meter, meta CallMeta, breaker *resilience.CircuitBreaker) (metric.Registration, error) {
	gauge, err := meter.Int64ObservableGauge(
		"remote.call.breaker_state",
		metric.WithDescription("Circuit breaker state (0 closed, 1 open, 2 half-open)"),
	)
	if err != nil {
		return nil, err
	}

	opt := metric.WithAttributes(callAttrs(meta)...)
	return meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		o.ObserveInt64(gauge, int64(breaker.State()), opt)
		return nil
	}, gauge)
}

// NoopMetrics is a Metrics implementation that records nothing.
type NoopMetrics struct{}

func (NoopMetrics) RecordAttempt(ctx context.Context, meta CallMeta, attempt int, err error) {}
func (NoopMetrics) RecordOutcome(ctx context.Context, meta CallMeta, duration time.Duration, err error) {
}
func (NoopMetrics) RecordRejection(ctx context.Context, meta CallMeta, kind string) {}
