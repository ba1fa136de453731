// Package logger provides module-scoped zap loggers with optional rotating
// file output. A Manager hands out one logger per module name; each log line
// carries the module field and, when present in the context, the trace id.
package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// WithTraceID returns a context carrying a trace id that every Ctx logging
// method attaches to its fields.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, traceID)
}

// TraceID extracts the trace id from ctx, or "" when none is set.
func TraceID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}

// Logger is a module-bound wrapper around zap. Methods without a Ctx suffix
// are conveniences for call sites that have no context at hand.
type Logger struct {
	base   *zap.Logger
	module string
}

func (l *Logger) enrich(ctx context.Context, fields []zap.Field) []zap.Field {
	if id := TraceID(ctx); id != "" {
		fields = append(fields, zap.String("trace_id", id))
	}
	return fields
}

// Module returns the module name the logger was created for.
func (l *Logger) Module() string {
	return l.module
}

// Zap exposes the underlying zap logger for integrations that need it.
func (l *Logger) Zap() *zap.Logger {
	return l.base
}

func (l *Logger) DebugCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.base.Debug(msg, l.enrich(ctx, fields)...)
}

func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.base.Debug(msg, fields...)
}

func (l *Logger) InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.base.Info(msg, l.enrich(ctx, fields)...)
}

func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.base.Info(msg, fields...)
}

func (l *Logger) WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.base.Warn(msg, l.enrich(ctx, fields)...)
}

func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.base.Warn(msg, fields...)
}

func (l *Logger) ErrorCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.base.Error(msg, l.enrich(ctx, fields)...)
}

func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.base.Error(msg, fields...)
}

// Nop returns a logger that discards everything. Useful as a default in
// libraries and tests.
func Nop(module string) *Logger {
	return &Logger{base: zap.NewNop(), module: module}
}
