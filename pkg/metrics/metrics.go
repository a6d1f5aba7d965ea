package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecordInpRead records one INP read with its duration
func (r *Registry) RecordInpRead(status string, duration time.Duration) {
	r.InpReadsTotal.WithLabelValues(status).Inc()
	r.InpReadDuration.Observe(duration.Seconds())
}

// RecordInpWrite records one INP write with its duration
func (r *Registry) RecordInpWrite(version, status string, duration time.Duration) {
	r.InpWritesTotal.WithLabelValues(version, status).Inc()
	r.InpWriteDuration.Observe(duration.Seconds())
}

// RecordSectionLines adds decoded data lines for a section
func (r *Registry) RecordSectionLines(section string, lines int) {
	r.InpSectionLines.WithLabelValues(section).Add(float64(lines))
}

// SetEntityCount sets the entity gauge for one kind
func (r *Registry) SetEntityCount(kind string, count int) {
	r.InpEntities.WithLabelValues(kind).Set(float64(count))
}

// RecordWarning counts a consistency warning
func (r *Registry) RecordWarning(kind string) {
	r.InpWarningsTotal.WithLabelValues(kind).Inc()
}

// RecordResultsRead records one binary results read
func (r *Registry) RecordResultsRead(status string, duration time.Duration, rows int, bytes int64) {
	r.ResultsReadsTotal.WithLabelValues(status).Inc()
	r.ResultsReadDuration.Observe(duration.Seconds())
	r.ResultsRowsDecoded.Add(float64(rows))
	r.ResultsBytesRead.Add(float64(bytes))
}

// RecordTruncation counts a results file cut short
func (r *Registry) RecordTruncation() {
	r.ResultsTruncationsTotal.Inc()
}

// RecordIntegrityFailure counts a results epilog mismatch
func (r *Registry) RecordIntegrityFailure() {
	r.ResultsIntegrityFailures.Inc()
}

// RecordArchive records archive traffic; direction is "write" or "read"
func (r *Registry) RecordArchive(direction string, bytes int) {
	r.ArchiveBytesTotal.WithLabelValues(direction).Add(float64(bytes))
}

// RecordCommand records one command-line invocation
func (r *Registry) RecordCommand(command, status string, duration time.Duration) {
	r.CommandRunsTotal.WithLabelValues(command, status).Inc()
	r.CommandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// WriteTextfile writes every metric in the Prometheus text format, for the
// node exporter's textfile collector. The file is replaced atomically.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
