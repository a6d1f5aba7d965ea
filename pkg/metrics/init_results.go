package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initResultsMetrics() {
	r.ResultsReadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "epanet_results_reads_total",
			Help: "Total number of binary results reads",
		},
		[]string{"status"},
	)

	r.ResultsReadDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "epanet_results_read_duration_seconds",
			Help:    "Binary results read duration in seconds",
			Buckets: codecBuckets,
		},
	)

	r.ResultsRowsDecoded = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "epanet_results_rows_decoded_total",
			Help: "Report periods decoded from binary results",
		},
	)

	r.ResultsBytesRead = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "epanet_results_bytes_read_total",
			Help: "Bytes consumed from binary results files",
		},
	)

	r.ResultsTruncationsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "epanet_results_truncations_total",
			Help: "Results files holding fewer periods than the prolog announced",
		},
	)

	r.ResultsIntegrityFailures = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "epanet_results_integrity_failures_total",
			Help: "Results files whose closing magic number did not match",
		},
	)

	r.ArchiveBytesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "epanet_results_archive_bytes_total",
			Help: "Compressed bytes written to or read from results archives",
		},
		[]string{"direction"},
	)
}
