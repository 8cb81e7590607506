package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle_Counters(t *testing.T) {
	reg := NewRegistry("")
	l := reg.Lifecycle

	l.OrderPlaced("COD")
	l.OrderPlaced("COD")
	l.OrderPlaced("Online")
	l.OrderTransitioned("Pending", "Confirmed")
	l.OrderCancelled("Confirmed", true)
	l.SerialsAssigned("IMEI", 2)
	l.SerialsAssigned("IMEI", 0)
	l.ObserveRejection("Order", "INVALID_STATE_TRANSITION")
	l.RequestRaised("Return")
	l.RequestTransitioned("Return", "Approved")
	l.DocumentRendered("pdf", false)
	l.DocumentRendered("pdf", true)

	assert.Equal(t, float64(2), testutil.ToFloat64(l.ordersPlaced.WithLabelValues("COD")))
	assert.Equal(t, float64(1), testutil.ToFloat64(l.ordersPlaced.WithLabelValues("Online")))
	assert.Equal(t, float64(1), testutil.ToFloat64(l.orderTransitions.WithLabelValues("Pending", "Confirmed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(l.cancellations.WithLabelValues("Confirmed", "true")))
	assert.Equal(t, float64(2), testutil.ToFloat64(l.serialsAssigned.WithLabelValues("IMEI")))
	assert.Equal(t, float64(1), testutil.ToFloat64(l.rejections.WithLabelValues("Order", "INVALID_STATE_TRANSITION")))
	assert.Equal(t, float64(1), testutil.ToFloat64(l.requestsRaised.WithLabelValues("Return")))
	assert.Equal(t, float64(1), testutil.ToFloat64(l.requestTransition.WithLabelValues("Return", "Approved")))
	assert.Equal(t, float64(1), testutil.ToFloat64(l.documentsRendered.WithLabelValues("pdf", "true")))
}

func TestRegistry_Handler(t *testing.T) {
	reg := NewRegistry("shop")
	reg.Lifecycle.OrderPlaced("COD")
	reg.HTTP.RequestsTotal.WithLabelValues("GET", "/api/v1/orders", "200").Inc()

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `shop_orders_placed_total{payment_method="COD"} 1`)
	assert.Contains(t, string(body), `shop_http_requests_total{method="GET",route="/api/v1/orders",status="200"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNewRegistry_Independent(t *testing.T) {
	// Separate registries must not panic on duplicate registration
	a := NewRegistry("")
	b := NewRegistry("")
	a.Lifecycle.OrderPlaced("COD")

	assert.Equal(t, float64(0), testutil.ToFloat64(b.Lifecycle.ordersPlaced.WithLabelValues("COD")))
	families, err := a.Gatherer().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
