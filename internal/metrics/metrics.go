// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Simulation kinds used as the "kind" label.
const (
	KindInvestment = "investment"
	KindDebt       = "debt"
	KindMonteCarlo = "montecarlo"
	KindPlan       = "plan"
)

var (
	// Simulations counts finished runs by kind and outcome.
	Simulations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finplan",
			Name:      "simulations_total",
			Help:      "Number of simulations run, by kind and status",
		},
		[]string{"kind", "status"},
	)

	SimulationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "finplan",
			Name:      "simulation_duration_seconds",
			Help:      "Wall time spent per simulation",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// InvariantViolations counts year rows whose balance does not reconcile.
	InvariantViolations = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "finplan",
			Name:      "invariant_violations_total",
			Help:      "Year rows where contributions plus gain differ from the final balance",
		},
	)

	MonteCarloTrials = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "finplan",
			Name:      "montecarlo_trials_total",
			Help:      "Monte Carlo trials simulated",
		},
	)
)

// Status maps an error to the status label.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveSimulation records the outcome and duration of one run started at start.
func ObserveSimulation(kind string, start time.Time, err error) {
	Simulations.WithLabelValues(kind, Status(err)).Inc()
	SimulationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
