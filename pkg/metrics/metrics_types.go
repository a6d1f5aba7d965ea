package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry holds the codec metrics on a private Prometheus registry. Each
// run writes its own, so there is no process-wide instance.
type Registry struct {
	// INP text codec
	InpReadsTotal    *prometheus.CounterVec
	InpReadDuration  prometheus.Histogram
	InpWritesTotal   *prometheus.CounterVec
	InpWriteDuration prometheus.Histogram
	InpSectionLines  *prometheus.CounterVec
	InpEntities      *prometheus.GaugeVec
	InpWarningsTotal *prometheus.CounterVec

	// Binary results reader
	ResultsReadsTotal        *prometheus.CounterVec
	ResultsReadDuration      prometheus.Histogram
	ResultsRowsDecoded       prometheus.Counter
	ResultsBytesRead         prometheus.Counter
	ResultsTruncationsTotal  prometheus.Counter
	ResultsIntegrityFailures prometheus.Counter
	ArchiveBytesTotal        *prometheus.CounterVec

	// Command line
	CommandRunsTotal *prometheus.CounterVec
	CommandDuration  *prometheus.HistogramVec

	registry *prometheus.Registry
}

func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initInpMetrics()
	r.initResultsMetrics()
	r.initRunMetrics()
	return r
}

// GetPrometheusRegistry exposes the registry for gathering in tests and
// for callers serving metrics themselves.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
