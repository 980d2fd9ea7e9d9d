// Package metrics provides Prometheus metrics for the patient application.
// HTTP metrics:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// Domain metrics cover patient intake and the session registry.
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets currently tracked",
		},
	)

	PatientsAdmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hospi",
			Name:      "patients_admitted_total",
			Help:      "Patients registered through the intake form",
		},
	)

	IntakeRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hospi",
			Name:      "intake_rejections_total",
			Help:      "Intake submissions refused by validation",
		},
		[]string{"reason"},
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "hospi",
			Name:      "sessions_active",
			Help:      "Live sessions held in memory",
		},
	)

	SessionsEvicted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hospi",
			Name:      "sessions_evicted_total",
			Help:      "Sessions removed after being idle too long",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(PatientsAdmitted)
	prometheus.MustRegister(IntakeRejections)
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(SessionsEvicted)
}
