package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled HTTP requests by method, path and status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nexlink_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPDuration observes request latency by method and path
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nexlink_http_request_duration_seconds",
		Help:    "HTTP request duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// WsConnections tracks currently open WebSocket connections
	WsConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nexlink_ws_connections",
		Help: "Open WebSocket connections",
	})

	// WsEvents counts fan-out events by type
	WsEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nexlink_ws_events_total",
		Help: "Fan-out events emitted",
	}, []string{"type"})
)
