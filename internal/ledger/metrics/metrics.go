package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the ledger module.
type Metrics struct {
	CentersCreated prometheus.Counter
	Donations      prometheus.Counter
	Transfers      prometheus.Counter
	Withdrawals    prometheus.Counter

	// Business rejections by domain-error code
	Rejections *prometheus.CounterVec

	// Mutation latencies including audit persistence
	OperationLatency *prometheus.HistogramVec
}

// New creates a new Metrics instance with all ledger module metrics registered.
func New() *Metrics {
	return &Metrics{
		CentersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "almoner_centers_created_total",
			Help: "Total number of relief centers created",
		}),
		Donations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "almoner_donations_total",
			Help: "Total number of donations accepted",
		}),
		Transfers: promauto.NewCounter(prometheus.CounterOpts{
			Name: "almoner_transfers_total",
			Help: "Total number of inter-center transfers committed",
		}),
		Withdrawals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "almoner_withdrawals_total",
			Help: "Total number of withdrawals committed",
		}),
		Rejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "almoner_ledger_rejections_total",
			Help: "Total ledger operations rejected, by domain-error code",
		}, []string{"operation", "code"}),
		OperationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "almoner_ledger_operation_duration_seconds",
			Help:    "Duration of ledger mutations including audit persistence",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// IncrementCentersCreated records a successful center creation.
func (m *Metrics) IncrementCentersCreated() {
	if m != nil {
		m.CentersCreated.Inc()
	}
}

// IncrementDonations records a committed donation.
func (m *Metrics) IncrementDonations() {
	if m != nil {
		m.Donations.Inc()
	}
}

// IncrementTransfers records a committed transfer.
func (m *Metrics) IncrementTransfers() {
	if m != nil {
		m.Transfers.Inc()
	}
}

// IncrementWithdrawals records a committed withdrawal.
func (m *Metrics) IncrementWithdrawals() {
	if m != nil {
		m.Withdrawals.Inc()
	}
}

// IncrementRejections records a business rejection for an operation.
func (m *Metrics) IncrementRejections(operation, code string) {
	if m != nil {
		m.Rejections.WithLabelValues(operation, code).Inc()
	}
}

// ObserveOperation records the duration of a ledger mutation.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	if m != nil {
		m.OperationLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
