package upstream

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for upstream API calls.
type Metrics struct {
	RequestLatency *prometheus.HistogramVec
	CacheLookups   *prometheus.CounterVec
	BreakerOpened  *prometheus.CounterVec
}

// NewMetrics registers upstream metrics on reg (default registerer when nil).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rotunda_upstream_request_duration_seconds",
			Help:    "Duration of upstream API calls by provider and outcome",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider", "outcome"}), // outcome: "ok" or an error category

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rotunda_upstream_cache_lookups_total",
			Help: "Upstream response cache lookups by provider and result",
		}, []string{"provider", "result"}), // result: "hit", "miss", "error"

		BreakerOpened: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rotunda_upstream_breaker_opened_total",
			Help: "Number of times a provider circuit breaker opened",
		}, []string{"provider"}),
	}
}

func (m *Metrics) observeRequest(provider, outcome string, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(provider, outcome).Observe(d.Seconds())
	}
}

func (m *Metrics) recordCache(provider, result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(provider, result).Inc()
	}
}

func (m *Metrics) recordBreakerOpened(provider string) {
	if m != nil {
		m.BreakerOpened.WithLabelValues(provider).Inc()
	}
}
