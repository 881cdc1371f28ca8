package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce              sync.Once
	httpRequestsTotal         *prometheus.CounterVec
	httpLatencySeconds        *prometheus.HistogramVec
	httpErrorsTotal           *prometheus.CounterVec
	evaluationsTotal          *prometheus.CounterVec
	evaluationDurationSeconds *prometheus.HistogramVec
	fallbacksTotal            prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the scoring API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoring_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scoring_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoring_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		evaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoring_evaluations_total",
			Help: "Total number of similarity evaluations by backend and outcome.",
		}, []string{"backend", "outcome"})

		evaluationDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scoring_evaluation_duration_seconds",
			Help:    "Duration of similarity evaluations by backend.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.25, 1.0, 5.0, 10.0},
		}, []string{"backend"})

		fallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoring_backend_fallbacks_total",
			Help: "Number of evaluations that fell back to the lexical backend.",
		})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, httpErrorsTotal,
			evaluationsTotal, evaluationDurationSeconds, fallbacksTotal)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// Evaluations exposes the counter for similarity evaluations.
func Evaluations() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationsTotal
}

// EvaluationDuration exposes the evaluation duration histogram.
func EvaluationDuration() *prometheus.HistogramVec {
	RegisterMetrics()
	return evaluationDurationSeconds
}

// Fallbacks exposes the counter for lexical fallbacks.
func Fallbacks() prometheus.Counter {
	RegisterMetrics()
	return fallbacksTotal
}
