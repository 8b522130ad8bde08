package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names.
const (
	MetricRateLimitRequests     = "rate_limit_requests_total"
	MetricRateLimitBlocked      = "rate_limit_blocked_total"
	MetricRateLimitRedisErrors  = "rate_limit_redis_errors_total"
	MetricHTTPRequestDuration   = "http_request_duration_seconds"
	MetricHTTPRequestsTotal     = "http_requests_total"
	MetricHTTPRequestSizeBytes  = "http_request_size_bytes"
	MetricHTTPResponseSizeBytes = "http_response_size_bytes"
)

// httpLabels are the labels shared by every per-request HTTP metric. The
// path label carries a normalized route, never a raw URL.
var httpLabels = []string{"method", "path", "status"}

// Metrics holds the Prometheus collectors for the middleware layer: rate
// limiting counters plus per-request duration, count, and size series.
// Safe for concurrent use.
type Metrics struct {
	rateLimitRequests    *prometheus.CounterVec
	rateLimitBlocked     *prometheus.CounterVec
	rateLimitRedisErrors prometheus.Counter
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestSize      *prometheus.HistogramVec
	httpResponseSize     *prometheus.HistogramVec
}

// NewMetrics builds all collectors without registering them; call Register
// to attach them to a registry.
func NewMetrics() *Metrics {
	// ~100 B to ~100 MB
	sizeBuckets := prometheus.ExponentialBuckets(100, 10, 8)

	m := &Metrics{}
	m.rateLimitRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: MetricRateLimitRequests,
		Help: "Rate limit checks by endpoint",
	}, []string{"endpoint", "key_type"})
	m.rateLimitBlocked = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: MetricRateLimitBlocked,
		Help: "Requests rejected by the rate limiter, by endpoint",
	}, []string{"endpoint", "key_type"})
	m.rateLimitRedisErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricRateLimitRedisErrors,
		Help: "Redis failures during rate limiting (request allowed through)",
	})
	m.httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    MetricHTTPRequestDuration,
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.01, 0.1, 0.5, 1.0, 2.0},
	}, httpLabels)
	m.httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: MetricHTTPRequestsTotal,
		Help: "HTTP requests served",
	}, httpLabels)
	m.httpRequestSize = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    MetricHTTPRequestSizeBytes,
		Help:    "HTTP request size in bytes",
		Buckets: sizeBuckets,
	}, httpLabels)
	m.httpResponseSize = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    MetricHTTPResponseSizeBytes,
		Help:    "HTTP response size in bytes",
		Buckets: sizeBuckets,
	}, httpLabels)
	return m
}

// Register attaches every collector to reg, stopping at the first failure.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncRateLimitRequests counts one rate limit check.
func (m *Metrics) IncRateLimitRequests(endpoint, keyType string) {
	m.rateLimitRequests.WithLabelValues(endpoint, keyType).Inc()
}

// IncRateLimitBlocked counts one rejected request.
func (m *Metrics) IncRateLimitBlocked(endpoint, keyType string) {
	m.rateLimitBlocked.WithLabelValues(endpoint, keyType).Inc()
}

// IncRateLimitRedisErrors counts one fail-open event.
func (m *Metrics) IncRateLimitRedisErrors() {
	m.rateLimitRedisErrors.Inc()
}

// ObserveHTTPRequest records one completed request across the duration,
// count, and size series. Duration is in seconds, sizes in bytes.
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration float64, requestSize, responseSize int64) {
	labels := prometheus.Labels{"method": method, "path": path, "status": status}
	m.httpRequestDuration.With(labels).Observe(duration)
	m.httpRequestsTotal.With(labels).Inc()
	m.httpRequestSize.With(labels).Observe(float64(requestSize))
	m.httpResponseSize.With(labels).Observe(float64(responseSize))
}

// Collectors returns every collector, for registration and tests.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.rateLimitRequests,
		m.rateLimitBlocked,
		m.rateLimitRedisErrors,
		m.httpRequestDuration,
		m.httpRequestsTotal,
		m.httpRequestSize,
		m.httpResponseSize,
	}
}
