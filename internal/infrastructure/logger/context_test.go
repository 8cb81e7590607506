package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

// contextWithValidSpan returns a context carrying a sampled span context
func contextWithValidSpan(t *testing.T) context.Context {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestFromContext(t *testing.T) {
	base, _ := newObservedLogger()
	assert.Same(t, base, FromContext(WithContext(context.Background(), base)))

	for name, ctx := range map[string]context.Context{
		"missing":    context.Background(),
		"wrong type": context.WithValue(context.Background(), LoggerKey, "not a logger"),
	} {
		t.Run(name, func(t *testing.T) {
			fallback := FromContext(ctx)
			require.NotNil(t, fallback)
			assert.NotPanics(t, func() { fallback.Info("dropped") })
		})
	}
}

func TestWithRequestIDAndOrderRef(t *testing.T) {
	base, logs := newObservedLogger()

	ctx, reqLogger := WithRequestID(context.Background(), base, "req-123")
	ctx, orderLogger := WithOrderRef(ctx, reqLogger, "ORD-Q7W8E9")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Equal(t, "ORD-Q7W8E9", GetOrderRef(ctx))
	assert.Same(t, orderLogger, FromContext(ctx))

	orderLogger.Info("serials assigned")
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "ORD-Q7W8E9", fields["order_ref"])
}

func TestBindOrderRef(t *testing.T) {
	gin.SetMode(gin.TestMode)
	base, logs := newObservedLogger()

	engine := gin.New()
	engine.Use(GinMiddleware(base))
	engine.GET("/orders/:id", func(c *gin.Context) {
		BindOrderRef(c, c.Param("id"))
		assert.Equal(t, "ORD-A1B2C3", GetOrderRef(c.Request.Context()))
		GetGinLogger(c).Info("loaded")
		c.Status(http.StatusNoContent)
	})
	engine.GET("/orders", func(c *gin.Context) {
		BindOrderRef(c, c.Param("id"))
		assert.Empty(t, GetOrderRef(c.Request.Context()))
		c.Status(http.StatusNoContent)
	})

	for _, path := range []string{"/orders/ORD-A1B2C3", "/orders"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
		require.Equal(t, http.StatusNoContent, w.Code)
	}

	loaded := logs.FilterMessage("loaded").All()
	require.Len(t, loaded, 1)
	assert.Equal(t, "ORD-A1B2C3", loaded[0].ContextMap()["order_ref"])
}

func TestGetters_NotFound(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetOrderRef(ctx))
	assert.Empty(t, GetTraceID(ctx))
}

func TestWithTraceContext(t *testing.T) {
	t.Run("valid span", func(t *testing.T) {
		base, logs := newObservedLogger()
		ctx := contextWithValidSpan(t)
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", GetTraceID(ctx))

		WithTraceContext(ctx, base).Info("traced")

		fields := logs.All()[0].ContextMap()
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
		assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
	})

	t.Run("noop span", func(t *testing.T) {
		ctx, span := noop.NewTracerProvider().Tracer("test").Start(context.Background(), "noop")
		defer span.End()

		assert.Empty(t, GetTraceID(ctx))
		base := zap.NewNop()
		assert.Same(t, base, WithTraceContext(ctx, base))
	})
}
