// Package metrics defines the Prometheus instrumentation for the balance
// core: RPC traffic, price lookups and aggregation behaviour.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RPCCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stablepay_rpc_call_duration_seconds",
			Help:    "Duration of chain RPC calls.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"chain_id", "method"},
	)

	RPCCallErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stablepay_rpc_call_errors_total",
			Help: "Failed chain RPC calls.",
		},
		[]string{"chain_id", "method"},
	)

	PriceLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stablepay_price_lookups_total",
			Help: "Price oracle lookups by outcome (cache_hit, fetched, fallback, zero).",
		},
		[]string{"outcome"},
	)

	AggregationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stablepay_aggregation_duration_seconds",
			Help:    "End-to-end duration of balance aggregations.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
	)

	ResultCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stablepay_result_cache_requests_total",
			Help: "Aggregate-result cache requests by outcome (hit, miss).",
		},
		[]string{"outcome"},
	)
)

// MustRegisterMetrics registers all collectors with the default registry.
// Call exactly once at startup.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		RPCCallDuration,
		RPCCallErrors,
		PriceLookups,
		AggregationDuration,
		ResultCacheHits,
	)
}

// ObserveRPCCall records one RPC call's duration and, if failed, its error.
func ObserveRPCCall(chainID uint64, method string, d time.Duration, err error) {
	id := strconv.FormatUint(chainID, 10)
	RPCCallDuration.WithLabelValues(id, method).Observe(d.Seconds())
	if err != nil {
		RPCCallErrors.WithLabelValues(id, method).Inc()
	}
}
