package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	EndpointLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cardscout",
			Subsystem: "deals",
			Name:      "latency_seconds",
			Help:      "Latency of deal endpoints (search, evaluate, score)",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	EndpointErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cardscout",
			Subsystem: "deals",
			Name:      "errors_total",
			Help:      "Errors by deal endpoint and error code",
		},
		[]string{"endpoint", "code"},
	)
)

// Register adds the collectors to the default registry; safe to call repeatedly.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(EndpointLatency, EndpointErrors)
	})
}

// Observe records latency since start and, when code is non-empty, one error.
func Observe(endpoint string, start time.Time, code string) {
	EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if code != "" {
		EndpointErrors.WithLabelValues(endpoint, code).Inc()
	}
}
