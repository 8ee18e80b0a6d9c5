package observe

import (
	"context"

	"go.uber.org/zap"
)

// zapLogger adapts a zap.Logger to the Logger interface, for hosts that
// already run zap and want resolver logs in the same stream.
type zapLogger struct {
	l *zap.Logger
}

// NewZapLogger wraps a zap.Logger as a Logger. A nil logger falls back
// to zap.NewNop.
func NewZapLogger(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &zapLogger{l: l}
}

// WithQuery returns a logger with query context attached.
func (z *zapLogger) WithQuery(meta QueryMeta) Logger {
	fields := []zap.Field{zap.String("query.op", meta.Op)}
	if meta.Kind != "" {
		fields = append(fields, zap.String("query.kind", meta.Kind))
	}
	if meta.Key != "" {
		fields = append(fields, zap.String("query.cache_key", meta.Key))
	}
	return &zapLogger{l: z.l.With(fields...)}
}

func (z *zapLogger) Info(_ context.Context, msg string, fields ...Field) {
	z.l.Info(msg, zapFields(fields)...)
}

func (z *zapLogger) Warn(_ context.Context, msg string, fields ...Field) {
	z.l.Warn(msg, zapFields(fields)...)
}

func (z *zapLogger) Error(_ context.Context, msg string, fields ...Field) {
	z.l.Error(msg, zapFields(fields)...)
}

func (z *zapLogger) Debug(_ context.Context, msg string, fields ...Field) {
	z.l.Debug(msg, zapFields(fields)...)
}

func zapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		if isRedactedField(f.Key) {
			out = append(out, zap.String(f.Key, "[REDACTED]"))
			continue
		}
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

// Ensure zapLogger implements Logger
var _ Logger = (*zapLogger)(nil)
