package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for audit record emission.
type Metrics struct {
	RecordsEmitted  prometheus.Counter
	PersistFailures prometheus.Counter
	PersistDuration prometheus.Histogram
}

// NewMetrics creates a Metrics instance with emitter metrics registered.
func NewMetrics() *Metrics {
	return &Metrics{
		RecordsEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "almoner_audit_records_emitted_total",
			Help: "Total number of audit records successfully persisted",
		}),
		PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "almoner_audit_persist_failures_total",
			Help: "Total number of audit record persistence failures",
		}),
		PersistDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "almoner_audit_persist_duration_seconds",
			Help:    "Time spent persisting audit records",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// IncRecordsEmitted increments the emitted counter.
func (m *Metrics) IncRecordsEmitted() {
	m.RecordsEmitted.Inc()
}

// IncPersistFailures increments the persist failures counter.
func (m *Metrics) IncPersistFailures() {
	m.PersistFailures.Inc()
}

// ObservePersistDuration records one persistence duration sample.
func (m *Metrics) ObservePersistDuration(seconds float64) {
	m.PersistDuration.Observe(seconds)
}
