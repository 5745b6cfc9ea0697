package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Backroom-API metrics.
var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zync",
			Subsystem: "backroom_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "zync",
			Subsystem: "backroom_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	TurnsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zync",
			Subsystem: "backroom_api",
			Name:      "turns_generated_total",
			Help:      "Total conversation turns generated",
		},
		[]string{"status"},
	)

	TurnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "zync",
			Subsystem: "backroom_api",
			Name:      "turn_duration_seconds",
			Help:      "Wall-clock duration of a single turn generation",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
	)

	BackroomsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "zync",
			Subsystem: "backroom_api",
			Name:      "backrooms_created_total",
			Help:      "Total backrooms created",
		},
	)

	BackroomsCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "zync",
			Subsystem: "backroom_api",
			Name:      "backrooms_completed_total",
			Help:      "Total backrooms that reached their message limit",
		},
	)

	TokenLaunchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zync",
			Subsystem: "backroom_api",
			Name:      "token_launches_total",
			Help:      "Total token launch attempts",
		},
		[]string{"status"},
	)

	ProviderErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zync",
			Subsystem: "backroom_api",
			Name:      "provider_errors_total",
			Help:      "Total text-generation provider call failures",
		},
		[]string{"provider", "error_type"},
	)

	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zync",
			Subsystem: "backroom_api",
			Name:      "storage_operations_total",
			Help:      "Object store operations by outcome",
		},
		[]string{"operation", "status"},
	)
)
