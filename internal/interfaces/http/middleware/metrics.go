package middleware

import (
	"strconv"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/metrics"
	"github.com/gin-gonic/gin"
)

// HTTPMetrics returns a Gin middleware that records request metrics:
// - requests_total: request count by method, route and status
// - request_duration_seconds: latency histogram by method and route
// - request_size_bytes / response_size_bytes: body size histograms
// - active_requests: requests currently being served
//
// A nil instrument set yields a pass-through middleware.
func HTTPMetrics(m *metrics.HTTP) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		requestSize := getRequestSize(c)

		m.ActiveRequests.Inc()
		defer m.ActiveRequests.Dec()

		c.Next()

		recordHTTPMetrics(m, c.Request.Method, getRoutePattern(c), c.Writer.Status(),
			time.Since(start), requestSize, c.Writer.Size())
	}
}

// getRoutePattern returns the route pattern (e.g., "/api/v1/orders/:id")
// instead of the actual path to keep label cardinality bounded.
func getRoutePattern(c *gin.Context) string {
	route := c.FullPath()
	if route == "" {
		return "unknown"
	}
	return route
}

// getRequestSize returns the declared size of the request body.
func getRequestSize(c *gin.Context) int64 {
	if cl := c.Request.ContentLength; cl > 0 {
		return cl
	}
	return 0
}

func recordHTTPMetrics(
	m *metrics.HTTP,
	method, route string,
	statusCode int,
	duration time.Duration,
	requestSize int64,
	responseSize int,
) {
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())

	if requestSize > 0 {
		m.RequestSize.WithLabelValues(method, route).Observe(float64(requestSize))
	}
	if responseSize > 0 {
		m.ResponseSize.WithLabelValues(method, route).Observe(float64(responseSize))
	}
}

// HTTPMetricsStatusGroup groups status codes by class (2xx, 4xx, 5xx).
func HTTPMetricsStatusGroup(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "other"
	}
}
