package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cinema"

var (
	// RewardDispatches counts dispatch outcomes by kind.
	RewardDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reward",
			Name:      "dispatches_total",
			Help:      "The total number of reward dispatches by outcome",
		},
		[]string{"outcome"},
	)

	// SweepRuns counts reconciliation sweeps.
	SweepRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweeper",
			Name:      "runs_total",
			Help:      "The total number of reconciliation sweeps",
		},
	)

	// SweepBookings counts bookings handled by the sweeper.
	SweepBookings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweeper",
			Name:      "bookings_total",
			Help:      "The total number of bookings handled by the sweeper",
		},
		[]string{"result"},
	)

	// RemoteRequests counts outbound calls by downstream and result.
	RemoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "remote",
			Name:      "requests_total",
			Help:      "The total number of outbound service calls",
		},
		[]string{"downstream", "result"},
	)

	// RemoteRequestDuration observes the latency of single outbound attempts.
	RemoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "remote",
			Name:      "request_duration_seconds",
			Help:      "Latency of outbound service call attempts",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"downstream"},
	)

	// CircuitBreakerState tracks breaker state (0=closed, 1=open, 2=half-open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "circuit_breaker",
			Name:      "state",
			Help:      "Current circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"downstream"},
	)

	// CircuitBreakerTrips counts transitions into the open state.
	CircuitBreakerTrips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "circuit_breaker",
			Name:      "trips_total",
			Help:      "Total circuit breaker trips",
		},
		[]string{"downstream"},
	)
)
