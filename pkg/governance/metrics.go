package governance

import "github.com/prometheus/client_golang/prometheus"

var (
	ruleViolations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "dtri", Subsystem: "governance", Name: "violations_total", Help: "Total rule violations by severity."},
		[]string{"severity"},
	)
	stateTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "dtri", Subsystem: "governance", Name: "transitions_total", Help: "Total entity status transitions by target status."},
		[]string{"target"},
	)
	retrainDispatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "dtri", Subsystem: "governance", Name: "retrain_dispatches_total", Help: "Total retrain dispatch outcomes."},
		[]string{"outcome"},
	)
)

func init() {
	_ = prometheus.Register(ruleViolations)
	_ = prometheus.Register(stateTransitions)
	_ = prometheus.Register(retrainDispatches)
}
