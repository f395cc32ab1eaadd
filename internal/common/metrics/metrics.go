// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	SignupOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signup_operations_total",
			Help: "Total number of roster operations by outcome",
		},
		[]string{"operation", "result"},
	)

	EventPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_event_publish_failures_total",
			Help: "Total number of roster events that at least one sink failed to accept",
		},
		[]string{"event_type"},
	)

	RosterSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "activity_roster_size",
			Help: "Number of participants currently registered per activity",
		},
		[]string{"activity"},
	)
)
