package nostr

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// relay traffic metrics, exposed on the private /metrics listener
// 中继流量指标，暴露在私有 /metrics 端口
var (
	fetchTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "board_sync_relay_fetch_total",
		Help: "Completed relay fetches.",
	})
	fetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "board_sync_relay_fetch_errors_total",
		Help: "Fetches that failed on every relay.",
	})
	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "board_sync_relay_fetch_duration_seconds",
		Help:    "Relay fetch latency.",
		Buckets: prometheus.DefBuckets,
	})
	publishTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "board_sync_relay_publish_total",
		Help: "Events acknowledged by at least one relay.",
	})
	publishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "board_sync_relay_publish_errors_total",
		Help: "Events no relay acknowledged.",
	})
)
