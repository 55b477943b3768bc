package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served by the view server",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	backendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_backend_requests_total",
			Help: "Requests sent to the CRM backend",
		},
		[]string{"method", "endpoint", "status"},
	)

	backendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crm_backend_request_duration_seconds",
			Help:    "Duration of CRM backend requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	conversions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_conversions_total",
			Help: "Lead conversions by target and outcome",
		},
		[]string{"target", "outcome"},
	)

	statisticsFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_statistics_fallback_total",
			Help: "Times the dashboard statistics were derived client-side",
		},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

// RecordBackendRequest observes one call to the CRM backend. status is the
// HTTP status code or "error" for transport failures.
func RecordBackendRequest(method, endpoint, status string, seconds float64) {
	backendRequests.WithLabelValues(method, endpoint, status).Inc()
	backendDuration.WithLabelValues(method, endpoint).Observe(seconds)
}

func RecordConversion(target, outcome string) {
	conversions.WithLabelValues(target, outcome).Inc()
}

func RecordStatisticsFallback() {
	statisticsFallbacks.Inc()
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
