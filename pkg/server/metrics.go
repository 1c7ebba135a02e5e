package server

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the Prometheus metrics for the session server.
type metrics struct {
	sessionsActive prometheus.Gauge
	sessionsTotal  prometheus.Counter
	eventsTotal    *prometheus.CounterVec
	eventDuration  prometheus.Histogram
	swapsTotal     prometheus.Counter
	fetchFailures  prometheus.Counter
	writeErrors    prometheus.Counter
}

var (
	globalMetrics     *metrics
	globalMetricsOnce sync.Once
)

// newMetrics registers the server metrics on the default registerer once.
// Multiple servers in one process share the same collectors.
func newMetrics() *metrics {
	globalMetricsOnce.Do(func() {
		globalMetrics = &metrics{
			sessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "stratum",
				Name:      "sessions_active",
				Help:      "Number of live sessions.",
			}),
			sessionsTotal: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "stratum",
				Name:      "sessions_total",
				Help:      "Total sessions created.",
			}),
			eventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "stratum",
				Name:      "events_total",
				Help:      "Client events processed, by kind.",
			}, []string{"kind"}),
			eventDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Namespace: "stratum",
				Name:      "event_duration_seconds",
				Help:      "Time spent handling one client event.",
				Buckets:   prometheus.DefBuckets,
			}),
			swapsTotal: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "stratum",
				Name:      "swaps_total",
				Help:      "Swap frames sent to clients.",
			}),
			fetchFailures: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "stratum",
				Name:      "fetch_failures_total",
				Help:      "Fragment fetches that ended in requestfail.",
			}),
			writeErrors: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "stratum",
				Name:      "write_errors_total",
				Help:      "WebSocket write failures.",
			}),
		}
	})
	return globalMetrics
}
