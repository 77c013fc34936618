package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the legislation feeds.
type Metrics struct {
	FeedDuration   *prometheus.HistogramVec
	FeedItems      *prometheus.GaugeVec
	DetailDuration prometheus.Histogram
	SummaryMissing prometheus.Counter
}

// New registers legislation metrics on reg (default registerer when nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		FeedDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rotunda_feed_duration_seconds",
			Help:    "Duration of feed requests including upstream fetch",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"feed"}), // feed: "activity", "laws"
		FeedItems: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rotunda_feed_items",
			Help: "Number of items in the most recently fetched feed before filtering",
		}, []string{"feed"}),
		DetailDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rotunda_bill_detail_duration_seconds",
			Help:    "Duration of bill detail assembly",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		SummaryMissing: factory.NewCounter(prometheus.CounterOpts{
			Name: "rotunda_bill_summary_missing_total",
			Help: "Bill details served without a CRS summary",
		}),
	}
}

// ObserveFeed records a feed request. Call with time.Now() at the start.
func (m *Metrics) ObserveFeed(feed string, start time.Time, fetched int) {
	if m == nil {
		return
	}
	m.FeedDuration.WithLabelValues(feed).Observe(time.Since(start).Seconds())
	m.FeedItems.WithLabelValues(feed).Set(float64(fetched))
}

// ObserveDetail records the duration of a bill detail request.
func (m *Metrics) ObserveDetail(start time.Time) {
	if m == nil {
		return
	}
	m.DetailDuration.Observe(time.Since(start).Seconds())
}

// IncrementSummaryMissing counts a detail served without a summary.
func (m *Metrics) IncrementSummaryMissing() {
	if m == nil {
		return
	}
	m.SummaryMissing.Inc()
}
