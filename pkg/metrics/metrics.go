// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ContractCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "greenhouse",
		Name:      "contract_calls_total",
		Help:      "Contract reads and writes by method, kind (call|send) and outcome.",
	}, []string{"method", "kind", "outcome"})

	SkippedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "greenhouse",
		Name:      "directory_skipped_records_total",
		Help:      "Crop records omitted from a listing because their detail fetch failed.",
	})

	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "greenhouse",
		Name:      "crop_transitions_total",
		Help:      "Lifecycle transitions by name and outcome.",
	}, []string{"transition", "outcome"})

	SensorSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "greenhouse",
		Name:      "sensor_submissions_total",
		Help:      "Sensor reading submissions by outcome.",
	}, []string{"outcome"})
)

const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
	OutcomeBlocked  = "blocked"
)
