package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Requests made to the upstream ticketing backend",
		},
		[]string{"endpoint", "status"},
	)

	backendLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Latency of upstream backend requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	checkinOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkin_operations_total",
			Help: "Ticket and booking check-in operations",
		},
		[]string{"operation", "status"},
	)

	checkinBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "checkin_batch_duration_seconds",
			Help:    "Time for all check-in requests of one booking to settle",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	eventCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_cache_lookups_total",
			Help: "Event tree cache lookups by result",
		},
		[]string{"result"},
	)
)

func ObserveBackendRequest(endpoint, status string, duration time.Duration) {
	backendRequests.WithLabelValues(endpoint, status).Inc()
	backendLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func RecordCheckin(operation, status string) {
	checkinOperations.WithLabelValues(operation, status).Inc()
}

func ObserveCheckinBatch(duration time.Duration) {
	checkinBatchDuration.Observe(duration.Seconds())
}

func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	eventCacheLookups.WithLabelValues(result).Inc()
}
