package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytpipeline_runs_total",
			Help: "Pipeline runs by agent and outcome",
		},
		[]string{"agent", "status"}, // status=success/partial_failure/failure
	)

	runDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ytpipeline_run_duration_seconds",
			Help:    "Duration of pipeline runs",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~3.4min
		},
		[]string{"agent"},
	)

	recordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytpipeline_records_total",
			Help: "Records handled per agent",
		},
		[]string{"agent", "kind"}, // kind=fetched/raw/processed
	)

	storageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytpipeline_storage_operations_total",
			Help: "Object storage operations",
		},
		[]string{"operation", "status"}, // operation=put/get/list/delete
	)
)

// RecordRecords adds n to the record counter of an agent.
func RecordRecords(agent, kind string, n int) {
	recordsTotal.WithLabelValues(agent, kind).Add(float64(n))
}

// RecordStorageOperation counts one storage call; err decides the status label.
func RecordStorageOperation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	storageOperationsTotal.WithLabelValues(operation, status).Inc()
}

func observeRun(agent, status string, duration time.Duration) {
	runsTotal.WithLabelValues(agent, status).Inc()
	runDurationSeconds.WithLabelValues(agent).Observe(duration.Seconds())
}
