package contentrisk

import "github.com/prometheus/client_golang/prometheus"

var riskDecisions = prometheus.NewCounterVec(
	prometheus.CounterOpts{Namespace: "dtri", Subsystem: "contentrisk", Name: "decisions_total", Help: "Total publication decisions by action."},
	[]string{"action"},
)

func init() {
	_ = prometheus.Register(riskDecisions)
}
