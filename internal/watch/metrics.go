package watch

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics
var (
	pollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "cast_watch_polls_total", Help: "Poll outcomes"},
		[]string{"status"},
	)
	blocksGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "cast_watch_blocks", Help: "Display blocks"},
	)
	liveBlocksGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "cast_watch_blocks_live", Help: "Blocks on air"},
	)
	changesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "cast_watch_changes_total", Help: "Reconcile changes"},
		[]string{"kind"},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(pollsTotal, blocksGauge, liveBlocksGauge, changesTotal)
}
