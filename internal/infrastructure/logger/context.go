package logger

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// OrderRefKey holds the order a request works on, as given in the URL
	// (uuid or display id)
	OrderRefKey contextKey = "order_ref"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, returns a no-op logger if not found
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID adds request ID to context and returns enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	enriched := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enriched), enriched
}

// WithOrderRef adds the order reference to context and returns enriched logger
func WithOrderRef(ctx context.Context, logger *zap.Logger, orderRef string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, OrderRefKey, orderRef)
	enriched := logger.With(zap.String("order_ref", orderRef))
	return WithContext(ctx, enriched), enriched
}

// BindOrderRef tags the request with orderRef: the request context (read by
// the GORM logger) and the gin-scoped logger both carry it afterwards.
func BindOrderRef(c *gin.Context, orderRef string) {
	if orderRef == "" {
		return
	}
	ctx, enriched := WithOrderRef(c.Request.Context(), GetGinLogger(c), orderRef)
	c.Request = c.Request.WithContext(ctx)
	c.Set(ginLoggerKey, enriched)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetOrderRef retrieves the order reference from context
func GetOrderRef(ctx context.Context) string {
	if ref, ok := ctx.Value(OrderRefKey).(string); ok {
		return ref
	}
	return ""
}

// GetTraceID returns the trace id of the span in ctx, or "" without a valid span
func GetTraceID(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}

// WithTraceContext adds trace_id and span_id of the span in ctx to logger.
// Without a valid span the logger is returned unchanged.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return logger
	}
	return logger.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}
