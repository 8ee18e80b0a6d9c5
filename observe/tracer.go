package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// QueryMeta identifies a resolution operation for telemetry purposes.
type QueryMeta struct {
	Op   string // operation name, e.g. "og_memberships" (required)
	Kind string // entity kind the operation resolves (optional)
	Key  string // derived cache key (optional)
}

// SpanName returns the deterministic span name for this query.
// Format: audience.lookup.<op>
func (m QueryMeta) SpanName() string {
	return "audience.lookup." + m.Op
}

// Tracer wraps OpenTelemetry tracing with query-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan must honor cancellation/deadlines.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a resolution operation.
	StartSpan(ctx context.Context, meta QueryMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording whether the lookup was served
	// from cache and any error.
	EndSpan(span trace.Span, hit bool, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with query metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta QueryMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("query.op", meta.Op),
	}
	if meta.Kind != "" {
		attrs = append(attrs, attribute.String("query.kind", meta.Kind))
	}
	if meta.Key != "" {
		attrs = append(attrs, attribute.String("query.cache_key", meta.Key))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan ends the span and records cache and error status.
func (t *tracerImpl) EndSpan(span trace.Span, hit bool, err error) {
	span.SetAttributes(attribute.Bool("query.cache_hit", hit))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// NopTracer returns a no-op tracer.
func NopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta QueryMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, hit bool, err error) {
	span.End()
}
