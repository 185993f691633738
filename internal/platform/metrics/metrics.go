package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa los contadores Prometheus del motor de créditos.
type Metrics struct {
	Contributions    prometheus.Counter
	CreditsIssued    prometheus.Counter
	RecordsUnlocked  prometheus.Counter
	RequestsSubmit   prometheus.Counter
	RequestsResolved *prometheus.CounterVec
}

// New crea y registra los contadores en el registry default.
func New() *Metrics {
	return &Metrics{
		Contributions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clinic_exchange_contributions_total",
			Help: "Total number of records contributed to the network",
		}),
		CreditsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clinic_exchange_credits_issued_total",
			Help: "Total credits issued for contributions",
		}),
		RecordsUnlocked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clinic_exchange_records_unlocked_total",
			Help: "Total paid record unlocks",
		}),
		RequestsSubmit: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clinic_exchange_requests_submitted_total",
			Help: "Total cross-clinic patient requests submitted",
		}),
		RequestsResolved: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clinic_exchange_requests_resolved_total",
			Help: "Total patient requests resolved, by terminal status",
		}, []string{"status"}),
	}
}

func (m *Metrics) ObserveContribution(creditsEarned float64) {
	if m == nil {
		return
	}
	m.Contributions.Inc()
	m.CreditsIssued.Add(creditsEarned)
}

func (m *Metrics) ObserveUnlock() {
	if m == nil {
		return
	}
	m.RecordsUnlocked.Inc()
}

func (m *Metrics) ObserveRequestSubmitted() {
	if m == nil {
		return
	}
	m.RequestsSubmit.Inc()
}

func (m *Metrics) ObserveRequestResolved(status string) {
	if m == nil {
		return
	}
	m.RequestsResolved.WithLabelValues(status).Inc()
}
