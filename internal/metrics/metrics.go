// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RPCRequests counts finished RPCs by procedure and connect code ("ok" on success).
	RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tripledger",
		Name:      "rpc_requests_total",
		Help:      "Number of RPCs handled, by procedure and result code.",
	}, []string{"procedure", "code"})

	// RPCDuration observes RPC latency by procedure.
	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tripledger",
		Name:      "rpc_duration_seconds",
		Help:      "RPC latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure"})

	// RateCacheResults counts exchange-rate lookups by outcome:
	// hit, refresh, stale or empty.
	RateCacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tripledger",
		Name:      "rate_cache_results_total",
		Help:      "Exchange-rate cache lookups by outcome.",
	}, []string{"result"})

	// SettlementsSuggested observes how many transfers a trip summary proposes.
	SettlementsSuggested = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tripledger",
		Name:      "settlements_suggested",
		Help:      "Number of settlement transfers suggested per trip summary.",
		Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
	})
)
