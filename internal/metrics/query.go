package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Query Prometheus metrics.
var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assetdex",
			Name:      "queries_total",
			Help:      "Total number of asset queries",
		},
		[]string{"path", "status"}, // path: ids/text/id/hash, status: ok/invalid/error
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "assetdex",
			Name:      "query_duration_seconds",
			Help:      "Asset query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"path"},
	)

	QueryResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "assetdex",
			Name:      "query_results",
			Help:      "Number of assets returned per query page",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
)

var registerQueryOnce sync.Once

// RegisterQueryMetrics registers query metrics. Safe to call more than once.
func RegisterQueryMetrics() {
	registerQueryOnce.Do(func() {
		prometheus.MustRegister(QueriesTotal, QueryDuration, QueryResults)
	})
}
