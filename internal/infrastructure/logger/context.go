package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey      contextKey = "logger"
	requestIDKey   contextKey = "request_id"
	inventoryIDKey contextKey = "inventory_id"
)

// WithContext stores log in ctx
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext returns the request logger, or a no-op logger outside a request
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}

// WithRequestID records the request id in ctx and on the stored logger
func WithRequestID(ctx context.Context, requestID string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return WithContext(ctx, FromContext(ctx).With(zap.String("request_id", requestID)))
}

// WithInventoryID records the inventory being served in ctx and on the
// stored logger
func WithInventoryID(ctx context.Context, inventoryID string) context.Context {
	ctx = context.WithValue(ctx, inventoryIDKey, inventoryID)
	return WithContext(ctx, FromContext(ctx).With(zap.String("inventory_id", inventoryID)))
}

// RequestID returns the request id stored in ctx
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// InventoryID returns the inventory id stored in ctx
func InventoryID(ctx context.Context) string {
	id, _ := ctx.Value(inventoryIDKey).(string)
	return id
}

// For returns base enriched with what ctx knows about the request: request
// and inventory ids plus the active trace and span ids. Services hold their
// own named logger and use this to correlate entries with the request.
func For(ctx context.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}

	var fields []zap.Field
	if id := RequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := InventoryID(ctx); id != "" {
		fields = append(fields, zap.String("inventory_id", id))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
