package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ReadingsRecorded   prometheus.Counter
	ValidationFailures prometheus.Counter
	CriticalReadings   prometheus.Counter
	AuditEventsDropped prometheus.Counter
	RequestDuration    *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ReadingsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vitaledge_readings_recorded_total",
			Help: "Total number of vital readings recorded",
		}),
		ValidationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vitaledge_reading_validation_failures_total",
			Help: "Total number of readings rejected by validation",
		}),
		CriticalReadings: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vitaledge_critical_readings_total",
			Help: "Total number of recorded readings classified critical",
		}),
		AuditEventsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vitaledge_audit_events_dropped_total",
			Help: "Total number of audit events dropped due to a full inbox",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vitaledge_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route", "status"}),
	}
}

// Increment helpers are nil-safe so services can run without metrics in tests.

func (m *Metrics) IncrementReadingsRecorded() {
	if m != nil {
		m.ReadingsRecorded.Inc()
	}
}

func (m *Metrics) IncrementValidationFailures() {
	if m != nil {
		m.ValidationFailures.Inc()
	}
}

func (m *Metrics) IncrementCriticalReadings() {
	if m != nil {
		m.CriticalReadings.Inc()
	}
}

func (m *Metrics) IncrementAuditEventsDropped() {
	if m != nil {
		m.AuditEventsDropped.Inc()
	}
}

// ObserveRequest records one request's latency.
func (m *Metrics) ObserveRequest(route, status string, seconds float64) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, status).Observe(seconds)
	}
}
