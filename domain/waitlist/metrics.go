package waitlist

import (
	"github.com/prometheus/client_golang/prometheus"
)

type GateMetrics struct {
	decisions     *prometheus.CounterVec
	indeterminate *prometheus.CounterVec
}

func NewGateMetrics(reg prometheus.Registerer) *GateMetrics {
	m := &GateMetrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "waitlist_gate_decisions_total",
			Help: "Admission gate decisions by outcome and reject reason.",
		}, []string{"outcome", "reason"}),
		indeterminate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "waitlist_gate_checks_indeterminate_total",
			Help: "Gate checks skipped because their query failed.",
		}, []string{"check"}),
	}

	if reg != nil {
		reg.MustRegister(m.decisions, m.indeterminate)
	}
	return m
}

// A nil *GateMetrics records nothing.
func (m *GateMetrics) observe(outcome Outcome, reason string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(outcome.String(), reason).Inc()
}

func (m *GateMetrics) observeIndeterminate(check string) {
	if m == nil {
		return
	}
	m.indeterminate.WithLabelValues(check).Inc()
}
