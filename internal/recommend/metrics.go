// Package recommend provides metrics for the recommendation pipeline.
package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricRecommendationsTotal   = "recommendations_total"
	MetricFallbackResponsesTotal = "recommendation_fallbacks_total"
	MetricPipelineDuration       = "recommendation_pipeline_duration_seconds"
	MetricResultCount            = "recommendation_result_count"
)

// Metrics contains Prometheus metrics for the recommendation pipeline.
// All operations are thread-safe. A nil *Metrics is valid and records
// nothing, so tests can run the pipeline without a registry.
type Metrics struct {
	recommendationsTotal *prometheus.CounterVec
	fallbacksTotal       *prometheus.CounterVec
	pipelineDuration     prometheus.Histogram
	resultCount          prometheus.Histogram
}

// NewMetrics creates a new Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		recommendationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRecommendationsTotal,
				Help: "Total number of recommendation computations by sort key",
			},
			[]string{"sort_by"},
		),
		fallbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricFallbackResponsesTotal,
				Help: "Total number of fallback sample responses by reason",
			},
			[]string{"reason"},
		),
		pipelineDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricPipelineDuration,
				Help:    "Recommendation pipeline duration in seconds",
				Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 0.5},
			},
		),
		resultCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricResultCount,
				Help:    "Number of places returned per recommendation",
				Buckets: []float64{0, 1, 5, 10, 15, 20},
			},
		),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.recommendationsTotal,
		m.fallbacksTotal,
		m.pipelineDuration,
		m.resultCount,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveRecommendation records a completed pipeline run.
func (m *Metrics) ObserveRecommendation(sortBy string, duration float64, results int) {
	if m == nil {
		return
	}
	m.recommendationsTotal.WithLabelValues(sortBy).Inc()
	m.pipelineDuration.Observe(duration)
	m.resultCount.Observe(float64(results))
}

// IncFallback records a fallback sample response.
// reason: "empty_result", "filter_fault", or "source_unavailable".
func (m *Metrics) IncFallback(reason string) {
	if m == nil {
		return
	}
	m.fallbacksTotal.WithLabelValues(reason).Inc()
}
