package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ProviderErrors  *prometheus.CounterVec
}

// NewMetrics creates Prometheus metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rates_requests_total",
				Help: "Total number of requests by operation, quote source, and status",
			},
			[]string{"operation", "source", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rates_request_duration_seconds",
				Help:    "Request duration in seconds by operation and quote source",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "source"},
		),
		ProviderErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rates_provider_errors_total",
				Help: "Total rate provider failures absorbed by the fallback, by provider and error type",
			},
			[]string{"provider", "error_type"},
		),
	}
}

// RecordRequest records a request metric.
func (m *Metrics) RecordRequest(operation, source, status string, duration float64) {
	m.RequestsTotal.WithLabelValues(operation, source, status).Inc()
	m.RequestDuration.WithLabelValues(operation, source).Observe(duration)
}

// RecordProviderError records a provider failure.
func (m *Metrics) RecordProviderError(provider, errorType string) {
	m.ProviderErrors.WithLabelValues(provider, errorType).Inc()
}
