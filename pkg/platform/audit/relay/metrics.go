package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the audit relay.
type Metrics struct {
	Published       prometheus.Counter
	PublishFailures prometheus.Counter
	BreakerState    prometheus.Gauge
}

// NewMetrics creates a Metrics instance with relay metrics registered.
func NewMetrics() *Metrics {
	return &Metrics{
		Published: promauto.NewCounter(prometheus.CounterOpts{
			Name: "almoner_audit_relay_published_total",
			Help: "Total number of audit records published to the stream",
		}),
		PublishFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "almoner_audit_relay_publish_failures_total",
			Help: "Total number of audit record publish failures",
		}),
		BreakerState: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "almoner_audit_relay_breaker_state",
			Help: "Current circuit breaker state (0=closed/healthy, 1=open/unhealthy)",
		}),
	}
}

// AddPublished adds to the published counter.
func (m *Metrics) AddPublished(n int) {
	m.Published.Add(float64(n))
}

// IncPublishFailures increments the publish failures counter.
func (m *Metrics) IncPublishFailures() {
	m.PublishFailures.Inc()
}

// SetBreakerState sets the circuit breaker state gauge.
func (m *Metrics) SetBreakerState(open bool) {
	if open {
		m.BreakerState.Set(1)
	} else {
		m.BreakerState.Set(0)
	}
}
