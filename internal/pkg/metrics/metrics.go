package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// MovementsRecorded counts every movement appended to a flight recording.
	MovementsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rover_movements_recorded_total",
			Help: "Total number of movements appended to the flight recording.",
		},
		[]string{"action"},
	)

	// PublishFailures counts telemetry messages that were dropped or failed to publish.
	PublishFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rover_publish_failures_total",
			Help: "Total number of telemetry messages that could not be published.",
		},
		[]string{"source"}, // source: recorder/listener
	)

	// PatrolRuns counts started patrol scripts.
	PatrolRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rover_patrol_runs_total",
			Help: "Total number of patrol scripts started.",
		},
		[]string{"pattern"}, // pattern: patrol/perimeter/blanket/box
	)

	// HoldSeconds observes completed holds.
	HoldSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rover_hold_seconds",
			Help:    "Duration of completed holds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CommandQueueDepth reports the number of mission steps waiting for the control loop.
	CommandQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rover_command_queue_depth",
			Help: "Number of mission steps waiting to be executed.",
		},
	)
)

// Registry holds every rover metric plus the Go and process collectors; /metrics serves it.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		MovementsRecorded,
		PublishFailures,
		PatrolRuns,
		HoldSeconds,
		CommandQueueDepth,
	)
}
