// Package metrics holds the Prometheus collectors of the fulfillment service.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name
const DefaultNamespace = "fulfillment"

// HTTPDurationBuckets are the request latency buckets in seconds
var HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Registry owns a private prometheus registry with the lifecycle and HTTP
// collectors registered on it.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Registry struct {
	registry  *prometheus.Registry
	Lifecycle *Lifecycle
	HTTP      *HTTP
}

// NewRegistry creates the collectors under namespace (DefaultNamespace when empty)
func NewRegistry(namespace string) *Registry {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	// A private registry keeps tests from colliding on the global one
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry:  registry,
		Lifecycle: newLifecycle(namespace),
		HTTP:      newHTTP(namespace),
	}
	r.Lifecycle.register(registry)
	r.HTTP.register(registry)
	return r
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Gatherer exposes the registry for tests and custom exporters
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Lifecycle counts order and post-sale lifecycle activity
type Lifecycle struct {
	ordersPlaced      *prometheus.CounterVec
	orderTransitions  *prometheus.CounterVec
	cancellations     *prometheus.CounterVec
	serialsAssigned   *prometheus.CounterVec
	rejections        *prometheus.CounterVec
	requestsRaised    *prometheus.CounterVec
	requestTransition *prometheus.CounterVec
	documentsRendered *prometheus.CounterVec
}

func newLifecycle(namespace string) *Lifecycle {
	return &Lifecycle{
		ordersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders accepted, by payment method.",
		}, []string{"payment_method"}),
		orderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Successful order status transitions.",
		}, []string{"from", "to"}),
		cancellations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_cancellations_total",
			Help:      "Orders cancelled, by the status they were cancelled from.",
		}, []string{"from", "prepaid"}),
		serialsAssigned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "serials_assigned_total",
			Help:      "Serial or IMEI records written to order items.",
		}, []string{"type"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_commands_total",
			Help:      "Commands refused by the domain, by aggregate and error code.",
		}, []string{"aggregate", "code"}),
		requestsRaised: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "return_requests_raised_total",
			Help:      "Return, replacement and cancellation requests raised.",
		}, []string{"type"}),
		requestTransition: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "return_transitions_total",
			Help:      "Successful post-sale request transitions.",
		}, []string{"type", "to"}),
		documentsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_rendered_total",
			Help:      "Shipping label + invoice documents rendered, one per order.",
		}, []string{"format", "bulk"}),
	}
}

func (l *Lifecycle) register(reg prometheus.Registerer) {
	reg.MustRegister(
		l.ordersPlaced,
		l.orderTransitions,
		l.cancellations,
		l.serialsAssigned,
		l.rejections,
		l.requestsRaised,
		l.requestTransition,
		l.documentsRendered,
	)
}

// OrderPlaced counts a new order
func (l *Lifecycle) OrderPlaced(paymentMethod string) {
	l.ordersPlaced.WithLabelValues(paymentMethod).Inc()
}

// OrderTransitioned counts a status change
func (l *Lifecycle) OrderTransitioned(from, to string) {
	l.orderTransitions.WithLabelValues(from, to).Inc()
}

// OrderCancelled counts a cancellation
func (l *Lifecycle) OrderCancelled(from string, prepaid bool) {
	l.cancellations.WithLabelValues(from, strconv.FormatBool(prepaid)).Inc()
}

// SerialsAssigned counts n serial records of serialType
func (l *Lifecycle) SerialsAssigned(serialType string, n int) {
	if n <= 0 {
		return
	}
	l.serialsAssigned.WithLabelValues(serialType).Add(float64(n))
}

// ObserveRejection implements shared.RejectionObserver
func (l *Lifecycle) ObserveRejection(aggregateType, code string) {
	l.rejections.WithLabelValues(aggregateType, code).Inc()
}

// RequestRaised counts a new post-sale request
func (l *Lifecycle) RequestRaised(requestType string) {
	l.requestsRaised.WithLabelValues(requestType).Inc()
}

// RequestTransitioned counts a post-sale request status change
func (l *Lifecycle) RequestTransitioned(requestType, to string) {
	l.requestTransition.WithLabelValues(requestType, to).Inc()
}

// DocumentRendered counts one rendered order document
func (l *Lifecycle) DocumentRendered(format string, bulk bool) {
	l.documentsRendered.WithLabelValues(format, strconv.FormatBool(bulk)).Inc()
}

// HTTP holds the request instruments used by the HTTP middleware
type HTTP struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec
	ActiveRequests  prometheus.Gauge
}

func newHTTP(namespace string) *HTTP {
	sizeBuckets := prometheus.ExponentialBuckets(100, 4, 9)
	return &HTTP{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   HTTPDurationBuckets,
		}, []string{"method", "route"}),
		RequestSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_size_bytes",
			Help:      "HTTP request body size in bytes.",
			Buckets:   sizeBuckets,
		}, []string{"method", "route"}),
		ResponseSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "HTTP response body size in bytes.",
			Buckets:   sizeBuckets,
		}, []string{"method", "route"}),
		ActiveRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "active_requests",
			Help:      "Number of HTTP requests being served.",
		}),
	}
}

func (h *HTTP) register(reg prometheus.Registerer) {
	reg.MustRegister(h.RequestsTotal, h.RequestDuration, h.RequestSize, h.ResponseSize, h.ActiveRequests)
}
