package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Checks             *prometheus.CounterVec
	DegradedChecks     *prometheus.CounterVec
	BreakerTransitions *prometheus.CounterVec
}

// New registers the rate limiting metrics on reg (default registerer when nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Checks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rotunda_ratelimit_checks_total",
			Help: "Rate limit decisions by endpoint class and result",
		}, []string{"class", "result"}), // result: "allowed" or "denied"
		DegradedChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rotunda_ratelimit_degraded_checks_total",
			Help: "Rate limit checks answered by the in-memory fallback",
		}, []string{"class"}),
		BreakerTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rotunda_ratelimit_breaker_transitions_total",
			Help: "Rate limit store circuit breaker transitions",
		}, []string{"state"}),
	}
}

func (m *Metrics) RecordCheck(class string, allowed bool) {
	if m == nil {
		return
	}
	result := "denied"
	if allowed {
		result = "allowed"
	}
	m.Checks.WithLabelValues(class, result).Inc()
}

func (m *Metrics) RecordDegraded(class string) {
	if m != nil {
		m.DegradedChecks.WithLabelValues(class).Inc()
	}
}

func (m *Metrics) RecordBreakerTransition(state string) {
	if m != nil {
		m.BreakerTransitions.WithLabelValues(state).Inc()
	}
}
