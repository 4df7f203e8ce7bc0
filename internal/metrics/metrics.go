package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	BridgeOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiln_bridge_operations_total",
			Help: "Total number of bridge operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	BridgeOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "kiln_bridge_operation_duration_seconds",
			Help: "Duration of bridge operations in seconds",
		},
		[]string{"operation"},
	)

	WorkerRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "kiln_worker_request_duration_seconds",
			Help: "Duration of remote worker requests in seconds",
		},
		[]string{"path", "outcome"},
	)

	UpdateEventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiln_update_events_dropped_total",
			Help: "Update events dropped because no subscriber could take them",
		},
		[]string{"kind"},
	)
)
