package observe

import (
	"context"
	"time"
)

// LookupFunc is the signature for instrumented resolution lookups.
// The bool result reports whether the lookup was served from cache.
type LookupFunc func(ctx context.Context, meta QueryMeta) (any, bool, error)

// Middleware wraps resolution lookups with observability (tracing,
// metrics, logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe LookupFunc.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from the wrapped function are recorded and
//     propagated unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability
// components. Nil components are replaced by no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NopTracer()
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps a LookupFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn LookupFunc) LookupFunc {
	return func(ctx context.Context, meta QueryMeta) (any, bool, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		result, hit, err := fn(ctx, meta)

		duration := time.Since(start)
		m.tracer.EndSpan(span, hit, err)
		m.metrics.RecordLookup(ctx, meta, duration, hit, err)

		queryLogger := m.logger.WithQuery(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
			{Key: "cache_hit", Value: hit},
		}

		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			queryLogger.Error(ctx, "lookup failed", fields...)
		} else {
			queryLogger.Debug(ctx, "lookup completed", fields...)
		}

		return result, hit, err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
