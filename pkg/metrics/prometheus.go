package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	marketplaceCalls   *prometheus.CounterVec
	marketplaceLatency *prometheus.HistogramVec
	dealScores         *prometheus.HistogramVec
	alertsTriggered    *prometheus.CounterVec
	errorsTotal        *prometheus.CounterVec
	latency            *prometheus.HistogramVec
}

// New registers the collectors with the default registry. Call it once per process.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers with reg; tests pass a fresh prometheus.NewRegistry().
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		marketplaceCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardscout_marketplace_requests_total",
				Help: "Outbound marketplace requests by result",
			},
			[]string{"marketplace", "op", "result"},
		),
		marketplaceLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cardscout_marketplace_request_seconds",
				Help:    "Outbound marketplace request latency",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"marketplace", "op"},
		),
		dealScores: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cardscout_deal_score",
				Help:    "Distribution of computed deal scores",
				Buckets: []float64{1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5},
			},
			[]string{"marketplace"},
		),
		alertsTriggered: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardscout_alerts_triggered_total",
				Help: "Price alerts whose condition was met",
			},
			[]string{"marketplace"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardscout_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cardscout_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordMarketplaceCall(marketplace, op string, seconds float64, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.marketplaceCalls.WithLabelValues(marketplace, op, result).Inc()
	r.marketplaceLatency.WithLabelValues(marketplace, op).Observe(seconds)
}

func (r *Recorder) RecordDealScore(marketplace string, score float64) {
	r.dealScores.WithLabelValues(marketplace).Observe(score)
}

func (r *Recorder) RecordAlertTriggered(marketplace string) {
	r.alertsTriggered.WithLabelValues(marketplace).Inc()
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop is a Metrics implementation that records nothing.
type Nop struct{}

func (Nop) RecordMarketplaceCall(string, string, float64, error) {}
func (Nop) RecordDealScore(string, float64)                      {}
func (Nop) RecordAlertTriggered(string)                          {}
func (Nop) RecordError(string)                                   {}
func (Nop) RecordLatency(string, float64)                        {}
