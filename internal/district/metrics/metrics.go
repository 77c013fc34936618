package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for district lookups.
type Metrics struct {
	Lookups             *prometheus.CounterVec
	LookupDuration      prometheus.Histogram
	LegislationFailures *prometheus.CounterVec
	HistoryFailures     prometheus.Counter
}

// New registers district metrics on reg (default registerer when nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rotunda_district_lookups_total",
			Help: "District lookups by outcome",
		}, []string{"outcome"}), // outcome: "ok" or an error code
		LookupDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rotunda_district_lookup_duration_seconds",
			Help:    "Duration of the full address to legislation chain",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		LegislationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rotunda_district_legislation_failures_total",
			Help: "Sponsored or cosponsored list fetches that failed and were served empty",
		}, []string{"list"}),
		HistoryFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "rotunda_district_history_failures_total",
			Help: "Lookups that could not be recorded in history",
		}),
	}
}

// ObserveLookup records a finished lookup. Call with time.Now() at the start.
func (m *Metrics) ObserveLookup(outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(outcome).Inc()
	m.LookupDuration.Observe(time.Since(start).Seconds())
}

// IncrementLegislationFailure counts a degraded legislation list.
func (m *Metrics) IncrementLegislationFailure(list string) {
	if m == nil {
		return
	}
	m.LegislationFailures.WithLabelValues(list).Inc()
}

// IncrementHistoryFailure counts a lookup that was not recorded.
func (m *Metrics) IncrementHistoryFailure() {
	if m == nil {
		return
	}
	m.HistoryFailures.Inc()
}
