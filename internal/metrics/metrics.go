package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tracking loop metrics
var (
	// CyclesTotal counts tracking cycles by result (ok, baseline, fetch_failed)
	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clanboard_cycles_total",
			Help: "Tracking cycles by result",
		},
		[]string{"result"},
	)

	// CycleDuration tracks how long one fetch-diff-persist-dispatch cycle takes
	CycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clanboard_cycle_duration_seconds",
			Help:    "Tracking cycle duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	// TrackedEntities is the number of live tracking loops
	TrackedEntities = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clanboard_tracked_entities",
			Help: "Number of live tracking loops",
		},
	)
)

// Delivery metrics
var (
	// SinkDeliveries counts sink renders by sink type and outcome (ok, skipped, permission, error)
	SinkDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clanboard_sink_deliveries_total",
			Help: "Sink deliveries by sink and outcome",
		},
		[]string{"sink", "outcome"},
	)

	// BoardRecreations counts board messages re-sent after external deletion
	BoardRecreations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clanboard_board_recreations_total",
			Help: "Board messages re-created after deletion",
		},
		[]string{"sink"},
	)

	// ThrottleWait tracks time spent waiting on the destination edit limiter
	ThrottleWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clanboard_throttle_wait_seconds",
			Help:    "Time spent waiting for the per-destination edit limiter",
			Buckets: []float64{.001, .01, .1, .5, 1, 2, 5},
		},
	)
)

// Clan API metrics
var (
	// ClanAPIRequests counts API reads by endpoint and outcome
	ClanAPIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clanboard_clan_api_requests_total",
			Help: "Clan API requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	// CircuitBreakerState is the clan API breaker state (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clanboard_clan_api_circuit_breaker_state",
			Help: "Clan API circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)
