package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records cache-aware lookup metrics for the resolvers.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLookup records one resolution with its duration, whether it
	// was served from cache, and error status.
	RecordLookup(ctx context.Context, meta QueryMeta, duration time.Duration, hit bool, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	hitCount     metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		"audience.lookup.total",
		metric.WithDescription("Total number of resolution lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	hitCount, err := meter.Int64Counter(
		"audience.lookup.hits",
		metric.WithDescription("Lookups served from cache"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"audience.lookup.errors",
		metric.WithDescription("Lookups that failed"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"audience.lookup.duration_ms",
		metric.WithDescription("Lookup duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		hitCount:     hitCount,
		errorCount:   errorCount,
		durationHist: durationHist,
	}, nil
}

// RecordLookup records metrics for one resolution.
func (m *metricsImpl) RecordLookup(ctx context.Context, meta QueryMeta, duration time.Duration, hit bool, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("query.op", meta.Op),
	}
	if meta.Kind != "" {
		attrs = append(attrs, attribute.String("query.kind", meta.Kind))
	}

	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)
	if hit {
		m.hitCount.Add(ctx, 1, opt)
	}
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

// NopMetrics returns a Metrics implementation that discards everything.
func NopMetrics() Metrics {
	return &noopMetrics{}
}

func (m *noopMetrics) RecordLookup(ctx context.Context, meta QueryMeta, duration time.Duration, hit bool, err error) {
}
