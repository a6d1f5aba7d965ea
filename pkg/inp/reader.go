// Package inp reads and writes EPANET input (INP) files.
//
// A read is two passes. The scanner groups raw lines by section, then the
// sections are decoded in a fixed order so that every reference points at
// an entity an earlier section declared. Numeric fields are converted to SI
// on the way in and back to the file's unit system on the way out.
package inp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-epanet/pkg/constraints"
	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/metrics"
	"github.com/dd0wney/cluso-epanet/pkg/network"
	"github.com/dd0wney/cluso-epanet/pkg/units"
)

// Reader decodes INP files. The zero value logs nowhere and records no
// metrics.
type Reader struct {
	Logger  logging.Logger
	Metrics *metrics.Registry

	// Constraints is run over the finished model; violations are logged as
	// warnings. Nil selects constraints.DefaultValidator.
	Constraints *constraints.Validator
}

// Read parses one or more INP files, concatenated in order, into a new
// model.
func Read(paths ...string) (*network.Model, error) {
	return (&Reader{}).Read(paths...)
}

// Read parses one or more INP files into a new model.
func (r *Reader) Read(paths ...string) (*network.Model, error) {
	return r.ReadInto(nil, paths...)
}

// ReadInto parses INP files into m, or into a new model when m is nil. The
// read is applied to m only if it succeeds; on error m is left unchanged.
func (r *Reader) ReadInto(m *network.Model, paths ...string) (*network.Model, error) {
	if len(paths) == 0 {
		return nil, errors.New("inp: no input files")
	}

	sources := make([]source, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("inp: %w", err)
		}
		defer f.Close()
		sources = append(sources, source{name: p, r: f})
	}
	return r.decode(m, sources)
}

// Decode parses INP text from rd into m, or into a new model when m is nil.
// name is used in error messages. As with ReadInto, m is only changed on
// success.
func (r *Reader) Decode(m *network.Model, name string, rd io.Reader) (*network.Model, error) {
	return r.decode(m, []source{{name: name, r: rd}})
}

func (r *Reader) decode(m *network.Model, sources []source) (*network.Model, error) {
	logger := r.Logger
	if logger == nil {
		logger = &logging.NopLogger{}
	}
	id := uuid.New().String()
	logger = logger.With(logging.Component("inp"), logging.Session(id))

	start := time.Now()
	timer := logging.StartTimer(logger, "inp read", logging.Count(len(sources)))

	model, err := r.run(m, sources, logger)
	if r.Metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		r.Metrics.RecordInpRead(status, time.Since(start))
	}
	if err != nil {
		timer.EndError(err)
		return nil, err
	}
	timer.End()
	return model, nil
}

func (r *Reader) run(m *network.Model, sources []source, logger logging.Logger) (*network.Model, error) {
	scanned, err := scan(sources)
	if err != nil {
		return nil, err
	}

	// Work on a copy so a failed read leaves the caller's model untouched.
	target := m
	if m == nil {
		m = network.NewModel()
	} else {
		m = m.Clone()
	}
	m.SetLogger(logger)
	if len(scanned.topComments) > 0 {
		m.TopComments = append(m.TopComments, scanned.topComments...)
	}

	s := &session{
		converter:  converter{m: m},
		log:        logger,
		metrics:    r.Metrics,
		sections:   scanned.sections,
		demandSeen: make(map[string]bool),
		newCurves:  make(map[string]bool),
		newPattern: make(map[string]bool),
	}
	if err := s.decodeAll(); err != nil {
		return nil, err
	}

	for range m.FinalizeCurves() {
		s.warned("untyped_curve")
	}
	if err := m.Options.Validate(); err != nil {
		return nil, &ParseError{File: sources[len(sources)-1].name, Section: secOptions, Cause: err}
	}

	v := r.Constraints
	if v == nil {
		v = constraints.DefaultValidator()
	}
	result, err := v.Validate(m)
	if err != nil {
		return nil, err
	}
	result.Log(logger)
	for range result.Violations {
		s.warned("constraint")
	}

	s.recordCounts()
	if target == nil {
		return m, nil
	}
	*target = *m
	return target, nil
}

// session is the state of one read call.
type session struct {
	converter
	log      logging.Logger
	metrics  *metrics.Registry
	sections map[string][]rawLine

	// demandSeen holds junctions whose demands this read has replaced.
	demandSeen map[string]bool
	// newCurves and newPattern hold names created by this read, which later
	// lines of the same section extend.
	newCurves  map[string]bool
	newPattern map[string]bool

	controlCount int
	// at is the line being decoded, for warning locations.
	at rawLine
}

type lineFunc func(l rawLine, f []string, comment string) error

// each runs fn over the data lines of a section, wrapping failures with the
// line's location. Lines without data tokens are skipped.
func (s *session) each(section string, fn lineFunc) error {
	lines := s.sections[section]
	if s.metrics != nil && len(lines) > 0 {
		s.metrics.RecordSectionLines(section, len(lines))
	}
	defer func() { s.at = rawLine{} }()
	for _, l := range lines {
		f, comment := l.fields()
		if len(f) == 0 {
			continue
		}
		s.at = l
		if err := fn(l, f, comment); err != nil {
			return s.wrap(l, section, err)
		}
	}
	return nil
}

func (s *session) wrap(l rawLine, section string, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	return &ParseError{File: l.File, Line: l.Num, Section: section, Cause: err}
}

func (s *session) decodeAll() error {
	decoders := map[string]func() error{
		secOptions:     s.readOptions,
		secTimes:       s.readTimes,
		secCurves:      s.readCurves,
		secPatterns:    s.readPatterns,
		secJunctions:   s.readJunctions,
		secReservoirs:  s.readReservoirs,
		secTanks:       s.readTanks,
		secPipes:       s.readPipes,
		secPumps:       s.readPumps,
		secValves:      s.readValves,
		secCoordinates: s.readCoordinates,
		secSources:     s.readSources,
		secStatus:      s.readStatus,
		secControls:    s.readControls,
		secRules:       s.readRules,
		secReactions:   s.readReactions,
		secTitle:       s.readTitle,
		secEnergy:      s.readEnergy,
		secDemands:     s.readDemands,
		secEmitters:    s.readEmitters,
		secQuality:     s.readQuality,
		secMixing:      s.readMixing,
		secReport:      s.readReport,
		secVertices:    s.readVertices,
		secLabels:      s.readLabels,
		secBackdrop:    s.readBackdrop,
		secTags:        s.readTags,
	}

	// Options are decoded even when the section is absent so that the unit
	// system and default pattern are always resolved.
	for _, sec := range readOrder {
		if _, ok := s.sections[sec]; !ok && sec != secOptions && sec != secPatterns {
			continue
		}
		s.log.Debug("decoding section", logging.Section(sec), logging.Count(len(s.sections[sec])))
		if err := decoders[sec](); err != nil {
			return err
		}
	}
	return nil
}

// warn logs a consistency warning and counts it.
func (s *session) warn(kind, msg string, fields ...logging.Field) {
	if s.at.Num > 0 {
		fields = append(fields, logging.File(s.at.File), logging.Line(s.at.Num))
	}
	s.log.Warn(msg, fields...)
	s.warned(kind)
}

func (s *session) warned(kind string) {
	if s.metrics != nil {
		s.metrics.RecordWarning(kind)
	}
}

func (s *session) recordCounts() {
	if s.metrics == nil {
		return
	}
	c := s.m.Counts()
	s.metrics.SetEntityCount("junction", c.Junctions)
	s.metrics.SetEntityCount("reservoir", c.Reservoirs)
	s.metrics.SetEntityCount("tank", c.Tanks)
	s.metrics.SetEntityCount("pipe", c.Pipes)
	s.metrics.SetEntityCount("pump", c.Pumps)
	s.metrics.SetEntityCount("valve", c.Valves)
	s.metrics.SetEntityCount("curve", c.Curves)
	s.metrics.SetEntityCount("pattern", c.Patterns)
	s.metrics.SetEntityCount("control", c.Controls)
}

// number parses a token and converts it from file units to SI.
func (s *session) number(token string, p units.Param) (float64, error) {
	v, err := parseNumber(token)
	if err != nil {
		return 0, err
	}
	return s.sys.ToSI(v, p), nil
}

// typeCurve assigns a type to a curve on first use, converting its points.
// A missing curve is left for the Add call to report as a reference error.
func (s *session) typeCurve(name string, t network.CurveType, x, y units.Param) error {
	if name == "" {
		return nil
	}
	if _, err := s.m.Curve(name); err != nil {
		return nil
	}
	return s.m.TypeCurve(name, t, s.pointConverter(x, y))
}

// rawParam marks a curve axis that is stored without conversion.
const rawParam units.Param = -1

func (s *session) pointConverter(x, y units.Param) func(network.CurvePoint) network.CurvePoint {
	conv := func(v float64, p units.Param) float64 {
		if p == rawParam {
			return v
		}
		return s.sys.ToSI(v, p)
	}
	return func(p network.CurvePoint) network.CurvePoint {
		return network.CurvePoint{X: conv(p.X, x), Y: conv(p.Y, y)}
	}
}
