package inp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/metrics"
	"github.com/dd0wney/cluso-epanet/pkg/network"
	"github.com/dd0wney/cluso-epanet/pkg/units"
)

// File format versions accepted by Writer.
const (
	Version20 = "2.0"
	Version22 = "2.2"
)

// ErrVersion is returned for a format version other than 2.0 or 2.2.
var ErrVersion = errors.New("inp: unsupported format version")

// Writer encodes a model as INP text.
type Writer struct {
	// Units selects the flow units of the output. Nil keeps the model's.
	// Untyped curves hold values in the units they were read in and are
	// written unconverted; Encode logs a warning for each one when Units
	// differs from the model's flow units.
	Units *units.FlowUnits
	// Version is Version20 or Version22; empty means Version22.
	Version string
	// ForceCoordinates writes [COORDINATES] even when a map file is set.
	ForceCoordinates bool

	Logger  logging.Logger
	Metrics *metrics.Registry
}

// Write encodes m to path with default settings.
func Write(path string, m *network.Model) error {
	return (&Writer{}).Write(path, m)
}

// Write encodes m to a file at path, replacing any existing file.
func (w *Writer) Write(path string, m *network.Model) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("inp: %w", err)
	}
	if err := w.Encode(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes m as INP text to out.
func (w *Writer) Encode(out io.Writer, m *network.Model) error {
	version := w.Version
	if version == "" {
		version = Version22
	}
	if version != Version20 && version != Version22 {
		return fmt.Errorf("%w: %q", ErrVersion, w.Version)
	}

	logger := w.Logger
	if logger == nil {
		logger = &logging.NopLogger{}
	}
	logger = logger.With(logging.Component("inp"), logging.Session(uuid.New().String()))

	flow := m.Options.Hydraulic.Units
	if w.Units != nil {
		flow = *w.Units
	}

	start := time.Now()
	timer := logging.StartTimer(logger, "inp write", logging.String("version", version))

	ws := &writeSession{
		converter: converter{
			m: m,
			sys: units.System{
				Flow:          flow,
				Mass:          m.Options.Quality.Mass,
				DarcyWeisbach: m.Options.Hydraulic.Headloss == "D-W",
			},
		},
		log:     logger,
		b:       bufio.NewWriter(out),
		version: version,
		force:   w.ForceCoordinates,
		reunit:  flow != m.Options.Hydraulic.Units,
	}
	ws.writeAll()
	err := ws.b.Flush()

	if w.Metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		w.Metrics.RecordInpWrite(version, status, time.Since(start))
	}
	if err != nil {
		timer.EndError(err)
		return fmt.Errorf("inp: %w", err)
	}
	timer.End()
	return nil
}

// writeSession is the state of one Encode call.
type writeSession struct {
	converter
	log     logging.Logger
	b       *bufio.Writer
	version string
	force   bool
	// reunit is set when the output flow units differ from the model's.
	reunit bool
}

// writeAll emits every section in the fixed output order. Write errors
// are sticky in the bufio.Writer and surface at Flush.
func (w *writeSession) writeAll() {
	for _, c := range w.m.TopComments {
		w.printf("; %s\n", c)
	}
	writers := []func(){
		w.writeTitle, w.writeJunctions, w.writeReservoirs, w.writeTanks,
		w.writePipes, w.writePumps, w.writeValves, w.writeTags, w.writeDemands,
		w.writeStatus, w.writePatterns, w.writeCurves,
	}
	for _, fn := range writers {
		fn()
	}
	rules := w.writeControls()
	w.writeRules(rules)

	writers = []func(){
		w.writeEnergy, w.writeEmitters, w.writeQuality, w.writeSources,
		w.writeReactions, w.writeMixing, w.writeTimes, w.writeReport,
		w.writeOptions,
	}
	for _, fn := range writers {
		fn()
	}
	if w.m.Options.Graphics.MapFilename == "" || w.force {
		w.writeCoordinates()
	}
	w.writeVertices()
	w.writeLabels()
	w.writeBackdrop()
	w.printf("[%s]\n", secEnd)
}

func (w *writeSession) printf(format string, args ...any) {
	fmt.Fprintf(w.b, format, args...)
}

func (w *writeSession) header(section string, labels ...string) {
	w.printf("[%s]\n", section)
	if len(labels) > 0 {
		cols := make([]string, len(labels))
		for i, l := range labels {
			cols[i] = fmt.Sprintf("%-20s", l)
		}
		w.printf(";%s\n", strings.TrimRight(strings.Join(cols, " "), " "))
	}
}

func (w *writeSession) end() { w.printf("\n") }

func (w *writeSession) from(v float64, p units.Param) float64 { return w.sys.FromSI(v, p) }

func (w *writeSession) nodeActive(name string) bool {
	n, err := w.m.Node(name)
	return err == nil && n.Base().IsActive()
}

func (w *writeSession) linkActive(name string) bool {
	l, err := w.m.Link(name)
	return err == nil && l.Base().IsActive()
}

// controlActive reports whether every entity a control touches is active.
func (w *writeSession) controlActive(c *network.Control) bool {
	nodes, links := c.References()
	for _, n := range nodes {
		if !w.nodeActive(n) {
			return false
		}
	}
	for _, l := range links {
		if !w.linkActive(l) {
			return false
		}
	}
	return true
}

func (w *writeSession) writeTitle() {
	w.header(secTitle)
	for _, l := range w.m.Title {
		w.printf("%s\n", l)
	}
	w.end()
}

// checkDemandPatterns warns about demands without a pattern in a model
// whose default pattern exists. A blank pattern column reads back as the
// default, and INP has no way to say "no pattern".
func (w *writeSession) checkDemandPatterns(j *network.Junction) {
	def := w.m.Options.Hydraulic.Pattern
	if def == "" {
		return
	}
	if _, err := w.m.Pattern(def); err != nil {
		return
	}
	for _, d := range j.Demands {
		if d.Pattern == "" {
			w.log.Warn("demand without pattern will read back on the default pattern",
				logging.Node(j.Name), logging.String("pattern", def))
			return
		}
	}
}

// writeJunctions writes the first demand of each junction. Pattern columns
// are always explicit; a junction without demands gets no demand column.
func (w *writeSession) writeJunctions() {
	w.header(secJunctions, "ID", "Elevation", "Demand", "Pattern")
	for _, j := range w.m.Junctions() {
		if !j.IsActive() {
			continue
		}
		elev := w.from(j.Elevation, units.Elevation)
		if len(j.Demands) == 0 {
			w.printf(" %-20s %15.11g ;\n", j.Name, elev)
			continue
		}
		w.checkDemandPatterns(j)
		d := j.Demands[0]
		w.printf(" %-20s %15.11g %15.11g %-20s ;\n", j.Name, elev, w.from(d.Base, units.Demand), d.Pattern)
	}
	w.end()
}

func (w *writeSession) writeReservoirs() {
	w.header(secReservoirs, "ID", "Head", "Pattern")
	for _, r := range w.m.Reservoirs() {
		if !r.IsActive() {
			continue
		}
		w.printf(" %-20s %15.11g %-20s ;\n", r.Name, w.from(r.BaseHead, units.HydraulicHead), r.HeadPattern)
	}
	w.end()
}

func (w *writeSession) writeTanks() {
	labels := []string{"ID", "Elevation", "InitLevel", "MinLevel", "MaxLevel", "Diameter", "MinVol", "VolCurve"}
	if w.version == Version22 {
		labels = append(labels, "Overflow")
	}
	w.header(secTanks, labels...)
	for _, t := range w.m.Tanks() {
		if !t.IsActive() {
			continue
		}
		w.printf(" %-20s %15.11g %15.11g %15.11g %15.11g %15.11g %15.11g", t.Name,
			w.from(t.Elevation, units.Elevation), w.from(t.InitLevel, units.Length),
			w.from(t.MinLevel, units.Length), w.from(t.MaxLevel, units.Length),
			w.from(t.Diameter, units.TankDiameter), w.from(t.MinVol, units.Volume))
		curve := t.VolCurve
		if w.version == Version22 {
			if curve == "" {
				curve = "*"
			}
			w.printf(" %-20s %s", curve, yesNo(t.Overflow))
		} else if curve != "" {
			w.printf(" %-20s", curve)
		}
		w.printf(" ;\n")
	}
	w.end()
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

func (w *writeSession) writePipes() {
	w.header(secPipes, "ID", "Node1", "Node2", "Length", "Diameter", "Roughness", "MinorLoss", "Status")
	for _, p := range w.m.Pipes() {
		if !p.IsActive() {
			continue
		}
		status := "OPEN"
		switch {
		case p.CheckValve:
			status = "CV"
		case p.InitialStatus == network.Closed:
			status = "CLOSED"
		}
		w.printf(" %-20s %-20s %-20s %15.11g %15.11g %15.11g %15.11g %-8s ;\n",
			p.Name, p.StartNode, p.EndNode,
			w.from(p.Length, units.Length), w.from(p.Diameter, units.PipeDiameter),
			w.from(p.Roughness, units.RoughnessCoeff), p.MinorLoss, status)
	}
	w.end()
}

func (w *writeSession) writePumps() {
	w.header(secPumps, "ID", "Node1", "Node2", "Properties")
	for _, p := range w.m.Pumps() {
		if !p.IsActive() {
			continue
		}
		w.printf(" %-20s %-20s %-20s", p.Name, p.StartNode, p.EndNode)
		if p.Kind == network.PowerPump {
			w.printf(" POWER %s", num(w.from(p.Power, units.Power)))
		} else {
			w.printf(" HEAD %s", p.HeadCurve)
		}
		if p.BaseSpeed != 0 {
			w.printf(" SPEED %s", num(p.BaseSpeed))
		}
		if p.SpeedPattern != "" {
			w.printf(" PATTERN %s", p.SpeedPattern)
		}
		w.printf(" ;\n")
	}
	w.end()
}

func (w *writeSession) writeValves() {
	w.header(secValves, "ID", "Node1", "Node2", "Diameter", "Type", "Setting", "MinorLoss")
	for _, v := range w.m.Valves() {
		if !v.IsActive() {
			continue
		}
		setting := num(w.valveSettingFromSI(v.Kind, v.InitialSetting))
		if v.Kind == network.GPV {
			setting = v.HeadlossCurve
		}
		w.printf(" %-20s %-20s %-20s %15.11g %-4s %15s %15.11g ;\n",
			v.Name, v.StartNode, v.EndNode, w.from(v.Diameter, units.PipeDiameter),
			v.Kind, setting, v.MinorLoss)
	}
	w.end()
}

func (w *writeSession) writeTags() {
	w.header(secTags)
	for _, n := range w.m.Nodes() {
		if b := n.Base(); b.Tag != "" && b.IsActive() {
			w.printf(" NODE %-20s %s\n", b.Name, b.Tag)
		}
	}
	for _, l := range w.m.Links() {
		if b := l.Base(); b.Tag != "" && b.IsActive() {
			w.printf(" LINK %-20s %s\n", b.Name, b.Tag)
		}
	}
	w.end()
}

// writeDemands lists the full demand set of every junction that a
// [JUNCTIONS] row cannot describe.
func (w *writeSession) writeDemands() {
	w.header(secDemands, "Junction", "Demand", "Pattern", "Category")
	for _, j := range w.m.Junctions() {
		if !j.IsActive() || !needsDemands(j) {
			continue
		}
		for _, d := range j.Demands {
			w.printf(" %-20s %15.11g %-20s", j.Name, w.from(d.Base, units.Demand), d.Pattern)
			if d.Category != "" {
				w.printf(" ;%s", d.Category)
			}
			w.printf("\n")
		}
	}
	w.end()
}

func needsDemands(j *network.Junction) bool {
	if len(j.Demands) > 1 {
		return true
	}
	for _, d := range j.Demands {
		if d.Category != "" {
			return true
		}
	}
	return false
}

func (w *writeSession) writeStatus() {
	w.header(secStatus, "ID", "Status/Setting")
	for _, p := range w.m.Pipes() {
		if p.IsActive() && p.CheckValve && p.InitialStatus == network.Closed {
			w.printf(" %-20s CLOSED\n", p.Name)
		}
	}
	for _, p := range w.m.Pumps() {
		if !p.IsActive() {
			continue
		}
		base := p.BaseSpeed
		if base == 0 {
			base = 1
		}
		switch {
		case p.InitialStatus != network.Open:
			w.printf(" %-20s %s\n", p.Name, strings.ToUpper(p.InitialStatus.String()))
		case p.InitialSetting != base:
			w.printf(" %-20s %s\n", p.Name, num(p.InitialSetting))
		}
	}
	for _, v := range w.m.Valves() {
		if v.IsActive() && v.InitialStatus != network.Active {
			w.printf(" %-20s %s\n", v.Name, strings.ToUpper(v.InitialStatus.String()))
		}
	}
	w.end()
}

const multipliersPerLine = 6

func (w *writeSession) writePatterns() {
	w.header(secPatterns, "ID", "Multipliers")
	for _, p := range w.m.Patterns() {
		if len(p.Multipliers) == 0 {
			w.printf(" %-20s\n", p.Name)
			continue
		}
		for i := 0; i < len(p.Multipliers); i += multipliersPerLine {
			end := min(i+multipliersPerLine, len(p.Multipliers))
			w.printf(" %-20s", p.Name)
			for _, v := range p.Multipliers[i:end] {
				w.printf(" %15.11g", v)
			}
			w.printf("\n")
		}
	}
	w.end()
}

// curveLabels are the comment headers written above each typed curve.
var curveLabels = map[network.CurveType]string{
	network.CurveHead:       "PUMP",
	network.CurveEfficiency: "EFFICIENCY",
	network.CurveVolume:     "VOLUME",
	network.CurveHeadloss:   "HEADLOSS",
}

// curveParams returns the axis conversions of a curve type. Untyped curves
// hold file units and are written as stored.
func curveParams(t network.CurveType) (x, y units.Param) {
	switch t {
	case network.CurveHead, network.CurveHeadloss:
		return units.Flow, units.HydraulicHead
	case network.CurveEfficiency:
		return units.Flow, rawParam
	case network.CurveVolume:
		return units.Length, units.Volume
	}
	return rawParam, rawParam
}

func (w *writeSession) writeCurves() {
	w.header(secCurves, "ID", "X-Value", "Y-Value")
	conv := func(v float64, p units.Param) float64 {
		if p == rawParam {
			return v
		}
		return w.from(v, p)
	}
	for _, c := range w.m.Curves() {
		if label, ok := curveLabels[c.Type]; ok {
			w.printf(";%s: %s\n", label, c.Name)
		} else if w.reunit {
			w.log.Warn("untyped curve written without unit conversion",
				logging.Curve(c.Name), logging.String("units", w.sys.Flow.String()))
		}
		xp, yp := curveParams(c.Type)
		for _, p := range c.Points {
			w.printf(" %-20s %15.11g %15.11g\n", c.Name, conv(p.X, xp), conv(p.Y, yp))
		}
	}
	w.end()
}

// writeControls emits the controls expressible on one line and returns the
// rest for [RULES].
func (w *writeSession) writeControls() []*network.Control {
	var rules []*network.Control
	w.header(secControls)
	for _, c := range w.m.Controls() {
		if !w.controlActive(c) {
			continue
		}
		line, ok := w.formatControl(c)
		if !ok {
			rules = append(rules, c)
			continue
		}
		w.printf("%s\n", line)
	}
	w.end()
	return rules
}

func (w *writeSession) writeRules(rules []*network.Control) {
	w.header(secRules)
	for _, c := range rules {
		for _, l := range w.formatRule(c) {
			w.printf("%s\n", l)
		}
		w.printf("\n")
	}
	w.end()
}

func (w *writeSession) writeEnergy() {
	e := w.m.Options.Energy
	w.header(secEnergy)
	w.printf(" GLOBAL EFFICIENCY %s\n", num(e.GlobalEfficiency))
	w.printf(" GLOBAL PRICE %s\n", num(w.from(e.GlobalPrice, units.EnergyPrice)))
	if e.GlobalPattern != "" {
		w.printf(" GLOBAL PATTERN %s\n", e.GlobalPattern)
	}
	w.printf(" DEMAND CHARGE %s\n", num(w.from(e.DemandCharge, units.EnergyPrice)))
	for _, p := range w.m.Pumps() {
		if !p.IsActive() {
			continue
		}
		if p.Efficiency != "" {
			w.printf(" PUMP %-20s EFFIC %s\n", p.Name, p.Efficiency)
		}
		if p.EnergyPrice != nil {
			w.printf(" PUMP %-20s PRICE %s\n", p.Name, num(w.from(*p.EnergyPrice, units.EnergyPrice)))
		}
		if p.EnergyPattern != "" {
			w.printf(" PUMP %-20s PATTERN %s\n", p.Name, p.EnergyPattern)
		}
	}
	w.end()
}

func (w *writeSession) writeEmitters() {
	w.header(secEmitters, "Junction", "Coefficient")
	for _, j := range w.m.Junctions() {
		if j.IsActive() && j.EmitterCoefficient != 0 {
			w.printf(" %-20s %15.11g\n", j.Name, w.from(j.EmitterCoefficient, units.EmitterCoeff))
		}
	}
	w.end()
}

func (w *writeSession) writeQuality() {
	param, convert := w.qualityParam()
	w.header(secQuality, "Node", "InitQual")
	for _, n := range w.m.Nodes() {
		b := n.Base()
		if !b.IsActive() || b.InitialQuality == 0 {
			continue
		}
		v := b.InitialQuality
		if convert {
			v = w.from(v, param)
		}
		w.printf(" %-20s %15.11g\n", b.Name, v)
	}
	w.end()
}

func (w *writeSession) writeSources() {
	w.header(secSources, "Node", "Type", "Quality", "Pattern")
	for _, s := range w.m.Sources() {
		if !w.nodeActive(s.Node) {
			continue
		}
		param := units.Concentration
		if s.Kind == network.Mass {
			param = units.SourceMassInject
		}
		w.printf(" %-20s %-10s %15.11g %s\n", s.Node, s.Kind, w.from(s.Strength, param), s.Pattern)
	}
	w.end()
}

func (w *writeSession) writeReactions() {
	rx := w.m.Options.Reaction
	bulk := func(v float64) string {
		return num(w.sys.ReactionFromSI(v, units.BulkReactionCoeff, rx.BulkOrder))
	}
	wall := func(v float64) string {
		return num(w.sys.ReactionFromSI(v, units.WallReactionCoeff, rx.WallOrder))
	}

	w.header(secReactions)
	w.printf(" ORDER BULK %s\n", num(rx.BulkOrder))
	w.printf(" ORDER TANK %s\n", num(rx.TankOrder))
	w.printf(" ORDER WALL %s\n", num(rx.WallOrder))
	w.printf(" GLOBAL BULK %s\n", bulk(rx.BulkCoeff))
	w.printf(" GLOBAL WALL %s\n", wall(rx.WallCoeff))
	if rx.LimitingPotential != nil {
		w.printf(" LIMITING POTENTIAL %s\n", num(*rx.LimitingPotential))
	}
	if rx.RoughnessCorrelation != nil {
		w.printf(" ROUGHNESS CORRELATION %s\n", num(*rx.RoughnessCorrelation))
	}
	for _, p := range w.m.Pipes() {
		if !p.IsActive() {
			continue
		}
		if p.BulkCoeff != nil {
			w.printf(" BULK %-20s %s\n", p.Name, bulk(*p.BulkCoeff))
		}
		if p.WallCoeff != nil {
			w.printf(" WALL %-20s %s\n", p.Name, wall(*p.WallCoeff))
		}
	}
	for _, t := range w.m.Tanks() {
		if t.IsActive() && t.BulkCoeff != nil {
			w.printf(" TANK %-20s %s\n", t.Name, bulk(*t.BulkCoeff))
		}
	}
	w.end()
}

func (w *writeSession) writeMixing() {
	w.header(secMixing, "Tank", "Model", "Fraction")
	for _, t := range w.m.Tanks() {
		if !t.IsActive() || t.MixingModel == network.MixingNone {
			continue
		}
		if t.MixingModel == network.TwoComp || t.MixingFraction != 0 {
			w.printf(" %-20s %-5s %s\n", t.Name, t.MixingModel, num(t.MixingFraction))
		} else {
			w.printf(" %-20s %s\n", t.Name, t.MixingModel)
		}
	}
	w.end()
}

func (w *writeSession) writeTimes() {
	t := w.m.Options.Time
	w.header(secTimes)
	row := func(key, value string) { w.printf(" %-20s %s\n", key, value) }
	row("DURATION", formatDuration(t.Duration))
	row("HYDRAULIC TIMESTEP", formatDuration(t.HydraulicTimestep))
	row("QUALITY TIMESTEP", formatDuration(t.QualityTimestep))
	row("RULE TIMESTEP", formatDuration(t.RuleTimestep))
	row("PATTERN TIMESTEP", formatDuration(t.PatternTimestep))
	row("PATTERN START", formatDuration(t.PatternStart))
	row("REPORT TIMESTEP", formatDuration(t.ReportTimestep))
	row("REPORT START", formatDuration(t.ReportStart))
	row("START CLOCKTIME", formatClock(t.StartClocktime))
	row("STATISTIC", t.Statistic)
	w.end()
}

func (w *writeSession) writeReport() {
	r := w.m.Options.Report
	w.header(secReport)
	if r.Pagesize > 0 {
		w.printf(" PAGESIZE %d\n", r.Pagesize)
	}
	if r.File != "" {
		w.printf(" FILE %s\n", r.File)
	}
	w.printf(" STATUS %s\n", r.Status)
	w.printf(" SUMMARY %s\n", r.Summary)
	w.printf(" ENERGY %s\n", r.Energy)
	w.writeSelection("NODES", r.AllNodes, r.Nodes)
	w.writeSelection("LINKS", r.AllLinks, r.Links)

	params := make([]string, 0, len(r.Params))
	for k := range r.Params {
		params = append(params, k)
	}
	sort.Strings(params)
	for _, k := range params {
		w.printf(" %-20s %s\n", k, yesNo(r.Params[k]))
	}

	params = params[:0]
	for k := range r.ParamOpts {
		params = append(params, k)
	}
	sort.Strings(params)
	for _, k := range params {
		opts := r.ParamOpts[k]
		for _, opt := range []string{"PRECISION", "ABOVE", "BELOW"} {
			if v, ok := opts[opt]; ok {
				w.printf(" %-20s %-10s %s\n", k, opt, num(v))
			}
		}
	}
	w.end()
}

// writeSelection writes a NODES or LINKS line, splitting long lists.
func (w *writeSession) writeSelection(key string, all bool, names []string) {
	if all {
		w.printf(" %s ALL\n", key)
		return
	}
	for i := 0; i < len(names); i += 10 {
		end := min(i+10, len(names))
		w.printf(" %s %s\n", key, strings.Join(names[i:end], " "))
	}
}

func (w *writeSession) writeOptions() {
	o := w.m.Options
	h := o.Hydraulic
	q := o.Quality
	w.header(secOptions)
	row := func(key, value string) { w.printf(" %-20s %s\n", key, value) }

	row("UNITS", w.sys.Flow.String())
	row("HEADLOSS", h.Headloss)
	row("SPECIFIC GRAVITY", num(h.SpecificGravity))
	row("VISCOSITY", num(h.Viscosity))
	row("TRIALS", fmt.Sprint(h.Trials))
	row("ACCURACY", num(h.Accuracy))
	row("CHECKFREQ", fmt.Sprint(h.CheckFreq))
	row("MAXCHECK", fmt.Sprint(h.MaxCheck))
	row("DAMPLIMIT", num(h.DampLimit))
	if h.Unbalanced == "CONTINUE" && h.UnbalancedValue > 0 {
		row("UNBALANCED", fmt.Sprintf("CONTINUE %d", h.UnbalancedValue))
	} else {
		row("UNBALANCED", h.Unbalanced)
	}
	if h.Pattern != "" {
		row("PATTERN", h.Pattern)
	}
	row("DEMAND MULTIPLIER", num(h.DemandMultiplier))
	row("EMITTER EXPONENT", num(h.EmitterExponent))

	switch q.Parameter {
	case "CHEMICAL":
		row("QUALITY", fmt.Sprintf("%s %s", q.ChemicalName, q.Mass))
	case "TRACE":
		row("QUALITY", "TRACE "+q.TraceNode)
	default:
		row("QUALITY", q.Parameter)
	}
	row("DIFFUSIVITY", num(q.Diffusivity))
	row("TOLERANCE", num(q.Tolerance))
	if h.Hydraulics != "" {
		row("HYDRAULICS", h.Hydraulics+" "+h.HydraulicsFilename)
	}
	if o.Graphics.MapFilename != "" {
		row("MAP", o.Graphics.MapFilename)
	}

	if w.version == Version22 {
		row("HEADERROR", num(w.from(h.HeadError, units.HydraulicHead)))
		row("FLOWCHANGE", num(w.from(h.FlowChange, units.Flow)))
		row("DEMAND MODEL", h.DemandModel)
		row("MINIMUM PRESSURE", num(w.from(h.MinimumPressure, units.Pressure)))
		row("REQUIRED PRESSURE", num(w.from(h.RequiredPressure, units.Pressure)))
		row("PRESSURE EXPONENT", num(h.PressureExponent))
	}
	for _, k := range o.ExtraKeys {
		row(k, o.Extra[k])
	}
	w.end()
}

func (w *writeSession) writeCoordinates() {
	w.header(secCoordinates, "Node", "X-Coord", "Y-Coord")
	for _, n := range w.m.Nodes() {
		b := n.Base()
		if !b.IsActive() {
			continue
		}
		w.printf(" %-20s %15.11g %15.11g\n", b.Name, b.Coordinates.X, b.Coordinates.Y)
	}
	w.end()
}

func (w *writeSession) writeVertices() {
	w.header(secVertices, "Link", "X-Coord", "Y-Coord")
	for _, l := range w.m.Links() {
		b := l.Base()
		if !b.IsActive() {
			continue
		}
		for _, p := range b.Vertices {
			w.printf(" %-20s %15.11g %15.11g\n", b.Name, p.X, p.Y)
		}
	}
	w.end()
}

func (w *writeSession) writeLabels() {
	w.header(secLabels, "X-Coord", "Y-Coord", "Label & Anchor Node")
	for _, l := range w.m.Labels {
		w.printf(" %15.11g %15.11g \"%s\" %s\n", l.X, l.Y, l.Text, l.Anchor)
	}
	w.end()
}

func (w *writeSession) writeBackdrop() {
	g := w.m.Options.Graphics
	w.header(secBackdrop)
	if len(g.Dimensions) == 4 {
		w.printf(" DIMENSIONS %s %s %s %s\n",
			num(g.Dimensions[0]), num(g.Dimensions[1]), num(g.Dimensions[2]), num(g.Dimensions[3]))
	}
	w.printf(" UNITS %s\n", g.Units)
	if g.Image != "" {
		w.printf(" FILE %s\n", g.Image)
	}
	w.printf(" OFFSET %s %s\n", num(g.Offset[0]), num(g.Offset[1]))
	w.end()
}
