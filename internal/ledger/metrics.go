package ledger

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts ledger operations and times storage round trips.
// A nil *Metrics records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	storage    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg when it is not nil
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Total ledger operations by ledger, operation and outcome.",
		}, []string{"ledger", "op", "outcome"}),
		storage: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledger_storage_duration_seconds",
			Help:    "Histogram of key-value store round trips made by ledgers.",
			Buckets: prometheus.DefBuckets,
		}, []string{"ledger", "op"}),
	}

	if reg != nil {
		reg.MustRegister(m.operations, m.storage)
	}

	return m
}

func (m *Metrics) observeOp(ledger, op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case IsValidation(err):
		outcome = "invalid"
	default:
		outcome = "error"
	}
	m.operations.WithLabelValues(ledger, op, outcome).Inc()
}

func (m *Metrics) observeStorage(ledger, op string, start time.Time) {
	if m == nil {
		return
	}
	m.storage.WithLabelValues(ledger, op).Observe(time.Since(start).Seconds())
}
