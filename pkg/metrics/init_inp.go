package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var codecBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0}

func (r *Registry) initInpMetrics() {
	r.InpReadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "epanet_inp_reads_total",
			Help: "Total number of INP reads",
		},
		[]string{"status"},
	)

	r.InpReadDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "epanet_inp_read_duration_seconds",
			Help:    "INP read duration in seconds",
			Buckets: codecBuckets,
		},
	)

	r.InpWritesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "epanet_inp_writes_total",
			Help: "Total number of INP writes",
		},
		[]string{"version", "status"},
	)

	r.InpWriteDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "epanet_inp_write_duration_seconds",
			Help:    "INP write duration in seconds",
			Buckets: codecBuckets,
		},
	)

	r.InpSectionLines = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "epanet_inp_section_lines_total",
			Help: "Data lines decoded per INP section",
		},
		[]string{"section"},
	)

	r.InpEntities = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "epanet_inp_entities",
			Help: "Entities in the most recently read network",
		},
		[]string{"kind"},
	)

	r.InpWarningsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "epanet_inp_warnings_total",
			Help: "Consistency warnings raised while reading INP files",
		},
		[]string{"kind"},
	)
}
