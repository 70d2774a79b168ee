package station

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics
var (
	sourcesConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "cast_sources_connected", Help: "Live sources"},
	)
	subscribersGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "cast_subscribers", Help: "Listeners per mount"},
		[]string{"mount"},
	)
	bytesInTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "cast_source_bytes_in_total", Help: "Bytes read from sources"},
		[]string{"mount"},
	)
	bytesOutTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "cast_subscriber_bytes_out_total", Help: "Bytes fanned out to listeners"},
		[]string{"mount"},
	)
	subscribersKicked = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "cast_subscribers_kicked_total", Help: "Listeners dropped for lagging"},
		[]string{"mount"},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(sourcesConnected, subscribersGauge, bytesInTotal, bytesOutTotal, subscribersKicked)
}
