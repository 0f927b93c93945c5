package observe

import (
	"context"
	"errors"
	"time"

	"github.com/oakmount/ward/resilience"
)

// CallFunc is the signature for protected remote calls.
type CallFunc func(ctx context.Context) error

// Middleware wraps protected calls with tracing, metrics, and logging.
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe CallFunc.
//   - Errors: Errors from the wrapped function are recorded and
//     propagated unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware from an Observer's components.
func NewMiddleware(obs Observer) (*Middleware, error) {
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return &Middleware{
		tracer:  NewTracer(obs.Tracer()),
		metrics: metrics,
		logger:  obs.Logger(),
	}, nil
}

// NewMiddlewareWith creates a Middleware from explicit components.
func NewMiddlewareWith(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap instruments a protected call: one span per call, outcome metrics,
// and a log line on failure. Gate rejections are counted separately from
// operation failures.
func (m *Middleware) Wrap(meta CallMeta, fn CallFunc) CallFunc {
	logger := m.logger.WithCall(meta)

	return func(ctx context.Context) error {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		err := fn(ctx)
		duration := time.Since(start)

		m.tracer.EndSpan(span, err)
		m.metrics.RecordOutcome(ctx, meta, duration, err)

		switch {
		case err == nil:
			logger.Debug(ctx, "call succeeded",
				Field{Key: "duration_ms", Value: duration.Milliseconds()})
		case resilience.IsRejection(err):
			m.metrics.RecordRejection(ctx, meta, rejectionKind(err))
			logger.Warn(ctx, "call rejected",
				Field{Key: "reason", Value: rejectionKind(err)})
		default:
			logger.Error(ctx, "call failed",
				Field{Key: "error", Value: err.Error()},
				Field{Key: "duration_ms", Value: duration.Milliseconds()})
		}

		return err
	}
}

// OnRetry returns an observation hook for resilience.RetryConfig that
// logs and counts every retry decision before its backoff delay.
func (m *Middleware) OnRetry(meta CallMeta) func(attempt int, err error, delay time.Duration) {
	logger := m.logger.WithCall(meta)

	return func(attempt int, err error, delay time.Duration) {
		ctx := context.Background()
		m.metrics.RecordAttempt(ctx, meta, attempt, err)
		logger.Warn(ctx, "retrying call",
			Field{Key: "attempt", Value: attempt},
			Field{Key: "error", Value: err.Error()},
			Field{Key: "delay", Value: delay.String()})
	}
}

// OnStateChange returns a circuit breaker state-change hook that logs
// transitions for the given call target.
func (m *Middleware) OnStateChange(meta CallMeta) func(from, to resilience.State) {
	logger := m.logger.WithCall(meta)

	return func(from, to resilience.State) {
		logger.Warn(context.Background(), "circuit state changed",
			Field{Key: "from", Value: from.String()},
			Field{Key: "to", Value: to.String()})
	}
}

func rejectionKind(err error) string {
	var rle *resilience.RateLimitError
	if errors.As(err, &rle) {
		return "rate_limited"
	}
	return "circuit_open"
}
