package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal    *prometheus.CounterVec
	fetchLatency    prometheus.Histogram
	indicatorsTotal *prometheus.CounterVec
	compositeScore  *prometheus.GaugeVec
	computeLatency  *prometheus.HistogramVec
	cacheTotal      *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentigauge_fetches_total",
				Help: "Total number of upstream series fetches by outcome",
			},
			[]string{"ticker", "status"},
		),
		fetchLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sentigauge_fetch_duration_seconds",
				Help:    "Duration of upstream series fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		indicatorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentigauge_indicator_runs_total",
				Help: "Indicator computations by region, name and availability",
			},
			[]string{"region", "indicator", "available"},
		),
		compositeScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sentigauge_composite_score",
				Help: "Last computed composite score per region",
			},
			[]string{"region"},
		),
		computeLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sentigauge_compute_duration_seconds",
				Help:    "Duration of a full region computation in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"region"},
		),
		cacheTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentigauge_cache_requests_total",
				Help: "Cache lookups by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// RecordFetch records one upstream fetch outcome.
func (r *Recorder) RecordFetch(ticker, status string) {
	r.fetchesTotal.WithLabelValues(ticker, status).Inc()
}

// RecordFetchLatency records upstream fetch latency in seconds.
func (r *Recorder) RecordFetchLatency(seconds float64) {
	r.fetchLatency.Observe(seconds)
}

// RecordIndicator records one indicator computation.
func (r *Recorder) RecordIndicator(region, name string, available bool) {
	v := "false"
	if available {
		v = "true"
	}
	r.indicatorsTotal.WithLabelValues(region, name, v).Inc()
}

// RecordComposite records the last composite score for a region.
func (r *Recorder) RecordComposite(region string, score float64) {
	r.compositeScore.WithLabelValues(region).Set(score)
}

// RecordComputeLatency records a full region computation in seconds.
func (r *Recorder) RecordComputeLatency(region string, seconds float64) {
	r.computeLatency.WithLabelValues(region).Observe(seconds)
}

// RecordCache records a cache lookup outcome ("hit" or "miss").
func (r *Recorder) RecordCache(outcome string) {
	r.cacheTotal.WithLabelValues(outcome).Inc()
}
