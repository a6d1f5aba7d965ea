// Package binout decodes the binary output file an EPANET solver run
// produces into per-node and per-link time series.
//
// The file is read once, front to back. A file cut short inside the report
// periods is still decoded: strict readers fail with a ConvergenceError,
// lenient readers keep the complete periods and flag the results.
package binout

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/mmap"

	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/metrics"
)

// Reader decodes binary results files. The zero value converts to SI,
// remaps status codes and tolerates truncated files.
type Reader struct {
	// Strict turns a truncated file into a ConvergenceError.
	Strict bool
	// RawStatus keeps the solver's cause-coded link status values.
	RawStatus bool
	// NoConvert leaves every value in the file's units.
	NoConvert bool
	// DarcyWeisbach marks pipe settings as Darcy-Weisbach roughness.
	DarcyWeisbach bool

	Logger  logging.Logger
	Metrics *metrics.Registry
}

// Read decodes the results file at path with a default Reader.
func Read(path string) (*Results, error) {
	return (&Reader{}).Read(path)
}

// Read memory-maps the file at path and decodes it.
func (r *Reader) Read(path string) (*Results, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("binout: %w", err)
	}
	defer m.Close()

	return r.decode(path, io.NewSectionReader(m, 0, int64(m.Len())))
}

// Decode decodes results from rd. name is used in log entries.
func (r *Reader) Decode(name string, rd io.Reader) (*Results, error) {
	return r.decode(name, rd)
}

func (r *Reader) decode(name string, rd io.Reader) (*Results, error) {
	logger := r.Logger
	if logger == nil {
		logger = &logging.NopLogger{}
	}
	logger = logger.With(logging.Component("binout"), logging.Session(uuid.New().String()))

	start := time.Now()
	timer := logging.StartTimer(logger, "results read", logging.File(name))

	d := &decoder{
		opts: r,
		log:  logger,
		src:  &countingReader{r: bufio.NewReader(rd)},
	}
	res, err := d.run()

	if r.Metrics != nil {
		status, rows := "ok", 0
		switch {
		case err != nil:
			status = "error"
		case res.Truncated():
			status = "truncated"
		case !res.Integrity:
			status = "corrupt"
		}
		if res != nil {
			rows = len(res.ReportTimes)
		}
		r.Metrics.RecordResultsRead(status, time.Since(start), rows, d.src.n)
		if res != nil && res.Truncated() || IsConvergence(err) {
			r.Metrics.RecordTruncation()
		}
		if res != nil && !res.Integrity {
			r.Metrics.RecordIntegrityFailure()
		}
	}
	if err != nil {
		timer.EndError(err)
		return nil, err
	}
	timer.End()
	return res, nil
}

// countingReader counts the bytes consumed by the decoder.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
