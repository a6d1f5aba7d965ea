package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// initRunMetrics covers one command-line invocation plus the Go runtime
// and build information of the binary that ran it.
func (r *Registry) initRunMetrics() {
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewBuildInfoCollector(),
	)

	r.CommandRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "epanet_command_runs_total",
			Help: "Command-line invocations by command and outcome",
		},
		[]string{"command", "status"},
	)

	r.CommandDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "epanet_command_duration_seconds",
			Help:    "Wall time of a command-line invocation",
			Buckets: codecBuckets,
		},
		[]string{"command"},
	)
}
