package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMetricsNamespace prefixes every metric name
const DefaultMetricsNamespace = "blsync"

// Metrics holds the Prometheus collectors of the service on a private registry.
// All methods are safe on a nil receiver, which records nothing.
type Metrics struct {
	registry *prometheus.Registry

	upstreamCalls    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	httpInFlight     prometheus.Gauge
	exportedProducts *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors. An empty namespace uses
// DefaultMetricsNamespace.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultMetricsNamespace
	}
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_calls_total",
			Help:      "BaseLinker connector calls by method and outcome",
		}, []string{"method", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_call_duration_seconds",
			Help:      "BaseLinker connector call latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served",
		}),
		exportedProducts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exported_products_total",
			Help:      "Products rendered into feeds by format",
		}, []string{"format"}),
	}

	reg.MustRegister(
		m.upstreamCalls,
		m.upstreamDuration,
		m.httpRequests,
		m.httpDuration,
		m.httpInFlight,
		m.exportedProducts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveUpstreamCall records one connector call
func (m *Metrics) ObserveUpstreamCall(method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstreamCalls.WithLabelValues(method, outcome).Inc()
	m.upstreamDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveHTTPRequest records one served request. route is the matched route
// template, not the raw path.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RequestStarted increments the in-flight gauge
func (m *Metrics) RequestStarted() {
	if m == nil {
		return
	}
	m.httpInFlight.Inc()
}

// RequestFinished decrements the in-flight gauge
func (m *Metrics) RequestFinished() {
	if m == nil {
		return
	}
	m.httpInFlight.Dec()
}

// ObserveExport records the number of products rendered in one feed
func (m *Metrics) ObserveExport(format string, products int) {
	if m == nil {
		return
	}
	m.exportedProducts.WithLabelValues(format).Add(float64(products))
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
