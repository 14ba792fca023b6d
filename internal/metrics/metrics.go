// Package metrics defines Prometheus metrics for the intake pipeline.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lexintake_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lexintake_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lexintake_errors_total",
			Help: "Total errors by code",
		},
		[]string{"type"},
	)

	RateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lexintake_rate_limited_total",
			Help: "Requests denied by a rate limiter, by limiter name",
		},
		[]string{"limiter"},
	)

	IntakesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lexintake_intakes_total",
			Help: "Intakes created, by channel",
		},
		[]string{"channel"},
	)

	EnrichmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lexintake_enrichments_total",
			Help: "Enrichment outcomes, by provenance source or skip reason",
		},
		[]string{"outcome"},
	)

	AuditQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lexintake_audit_queue_depth",
			Help: "Current durable audit write queue depth",
		},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lexintake_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		RateLimitedTotal, IntakesTotal, EnrichmentsTotal,
		AuditQueueDepth, WSConnections,
	)
}
