package binout

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/units"
)

// decoder is the state of one read. Reads after the first failure are
// no-ops, so each block is checked once when it is complete.
type decoder struct {
	opts *Reader
	log  logging.Logger
	src  *countingReader
	err  error

	head prolog
	sys  units.System
	res  *Results
}

func (d *decoder) read(v any) {
	if d.err != nil {
		return
	}
	d.err = binary.Read(d.src, binary.LittleEndian, v)
}

func (d *decoder) ints(n int32) []int32 {
	out := make([]int32, n)
	d.read(out)
	return out
}

func (d *decoder) floats(n int32) []float64 {
	raw := make([]float32, n)
	d.read(raw)
	out := make([]float64, n)
	for i, v := range raw {
		out[i] = float64(v)
	}
	return out
}

// text reads a fixed-width null-padded field.
func (d *decoder) text(n int) string {
	if d.err != nil {
		return ""
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.src, buf); err != nil {
		d.err = err
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(string(buf), "\x00", ""))
}

func (d *decoder) names(n int32) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = d.text(idLen)
	}
	return out
}

func (d *decoder) run() (*Results, error) {
	if err := d.readProlog(); err != nil {
		return nil, err
	}
	if err := d.readNetwork(); err != nil {
		return nil, err
	}
	if err := d.readEnergy(); err != nil {
		return nil, err
	}
	if err := d.readPeriods(); err != nil {
		return nil, err
	}
	d.readEpilog()
	d.res.Reindex()
	return d.res, nil
}

func (d *decoder) readProlog() error {
	d.read(&d.head)
	if d.err != nil {
		return headerError("prolog", d.err)
	}
	p := d.head
	if err := p.validate(); err != nil {
		return headerError("prolog", err)
	}
	flow, err := units.FlowUnitsFromCode(int(p.FlowUnits))
	if err != nil {
		return headerError("prolog", err)
	}
	if p.PressureUnits < int32(units.PSI) || p.PressureUnits > int32(units.KPA) {
		return headerError("prolog", fmt.Errorf("unknown pressure unit code %d", p.PressureUnits))
	}

	title := d.text(titleLen)
	inpFile := d.text(fileNameLen)
	rptFile := d.text(fileNameLen)
	chemical := d.text(idLen)
	wqUnits := d.text(idLen)
	if d.err != nil {
		return headerError("titles", d.err)
	}

	mass := units.MG
	if prefix, _, _ := strings.Cut(wqUnits, "/"); prefix != "" {
		if m, err := units.ParseMassUnits(prefix); err == nil {
			mass = m
		}
	}
	d.sys = units.System{Flow: flow, Mass: mass, DarcyWeisbach: d.opts.DarcyWeisbach}

	d.res = &Results{
		Title:         title,
		InputFile:     inpFile,
		ReportFile:    rptFile,
		Version:       int(p.Version),
		FlowUnits:     flow,
		PressureUnits: units.PressureUnits(p.PressureUnits),
		MassUnits:     mass,
		Quality:       QualityMode(p.QualityOption),
		Statistics:    StatisticsMode(p.Statistics),
		Converted:     !d.opts.NoConvert,
		ReportStart:   int(p.ReportStart),
		ReportStep:    int(p.ReportStep),
		Duration:      int(p.Duration),
		Integrity:     true,
	}
	if d.res.Quality == QualityChemical {
		d.res.Chemical = chemical
		d.res.QualityUnits = wqUnits
	}

	d.log.Debug("results prolog",
		logging.Int("version", int(p.Version)),
		logging.Int("nodes", int(p.Nodes)),
		logging.Int("links", int(p.Links)),
		logging.String("flow_units", flow.String()),
		logging.String("quality", d.res.Quality.String()))
	return nil
}

func (d *decoder) readNetwork() error {
	p := d.head
	net := &d.res.Network
	net.NodeNames = d.names(p.Nodes)
	net.LinkNames = d.names(p.Links)
	start := d.ints(p.Links)
	end := d.ints(p.Links)
	types := d.ints(p.Links)
	tanks := d.ints(p.Tanks)
	net.TankAreas = d.floats(p.Tanks)
	net.Elevations = d.floats(p.Nodes)
	net.Lengths = d.floats(p.Links)
	net.Diameters = d.floats(p.Links)
	if d.err != nil {
		return headerError("network description", d.err)
	}

	node := func(idx int32) (string, error) {
		if idx < 1 || int(idx) > len(net.NodeNames) {
			return "", headerError("network description", fmt.Errorf("node index %d out of range", idx))
		}
		return net.NodeNames[idx-1], nil
	}
	var err error
	net.LinkStart = make([]string, p.Links)
	net.LinkEnd = make([]string, p.Links)
	net.LinkTypes = make([]LinkType, p.Links)
	for i := range net.LinkNames {
		if net.LinkStart[i], err = node(start[i]); err != nil {
			return err
		}
		if net.LinkEnd[i], err = node(end[i]); err != nil {
			return err
		}
		if types[i] < int32(CVPipe) || types[i] > int32(GPV) {
			return headerError("network description", fmt.Errorf("link %s has type code %d", net.LinkNames[i], types[i]))
		}
		net.LinkTypes[i] = LinkType(types[i])
	}
	net.TankNodes = make([]string, p.Tanks)
	for i, idx := range tanks {
		if net.TankNodes[i], err = node(idx); err != nil {
			return err
		}
	}
	if d.res.Quality == QualityTrace {
		if name, err := node(p.TraceNode); err == nil {
			d.res.TraceNode = name
		}
	}

	if !d.opts.NoConvert {
		length := d.sys.Factor(units.Length)
		scale(net.TankAreas, length*length)
		scale(net.Elevations, d.sys.Factor(units.Elevation))
		scale(net.Lengths, length)
		scale(net.Diameters, d.sys.Factor(units.PipeDiameter))
	}
	return nil
}

func (d *decoder) readEnergy() error {
	for range d.head.Pumps {
		var idx int32
		d.read(&idx)
		v := d.floats(energyFields)
		if d.err != nil {
			return headerError("energy", d.err)
		}
		if idx < 1 || int(idx) > len(d.res.Network.LinkNames) {
			return headerError("energy", fmt.Errorf("pump index %d out of range", idx))
		}
		d.res.Energy = append(d.res.Energy, PumpEnergy{
			Link:        d.res.Network.LinkNames[idx-1],
			Utilization: v[0],
			Efficiency:  v[1],
			KWPerFlow:   v[2],
			AverageKW:   v[3],
			PeakKW:      v[4],
			CostPerDay:  v[5],
		})
	}
	peak := d.floats(1)
	if d.err != nil {
		return headerError("energy", d.err)
	}
	d.res.PeakEnergy = peak[0]
	return nil
}

func (d *decoder) readPeriods() error {
	nn, nl := int(d.head.Nodes), int(d.head.Links)
	times := reportTimes(d.head)
	d.res.ExpectedPeriods = len(times)

	row := make([]float32, nodeRowFields*nn+linkRowFields*nl)
	var rows [][]float32
	for range times {
		if err := binary.Read(d.src, binary.LittleEndian, row); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return fmt.Errorf("binout: period %d: %w", len(rows), err)
		}
		rows = append(rows, append([]float32(nil), row...))
	}

	if len(rows) < len(times) {
		cerr := &ConvergenceError{Time: times[len(rows)], Expected: len(times), Decoded: len(rows)}
		if d.opts.Strict {
			d.log.Error("results truncated", logging.Error(cerr))
			return cerr
		}
		d.log.Warn("results truncated", logging.Error(cerr))
		times = times[:len(rows)]
		d.res.ErrorCode = StatusError
	}
	d.res.ReportTimes = times

	d.res.Nodes = make(map[NodeAttribute]*Frame, len(NodeAttributes))
	for k, attr := range NodeAttributes {
		f := newFrame(len(rows), nn)
		for i, r := range rows {
			for j := range nn {
				f.Rows[i][j] = d.nodeValue(attr, float64(r[k*nn+j]))
			}
		}
		d.res.Nodes[attr] = f
	}

	types := d.res.Network.LinkTypes
	d.res.Links = make(map[LinkAttribute]*Frame, len(LinkAttributes))
	for k, attr := range LinkAttributes {
		f := newFrame(len(rows), nl)
		base := nodeRowFields*nn + k*nl
		for i, r := range rows {
			for j := range nl {
				f.Rows[i][j] = d.linkValue(attr, types[j], float64(r[base+j]))
			}
		}
		d.res.Links[attr] = f
	}
	return nil
}

func (d *decoder) readEpilog() {
	var e epilog
	d.read(&e)
	if d.err != nil {
		d.res.Integrity = false
		d.log.Error("results epilog missing", logging.Error(fmt.Errorf("%w: %v", ErrIntegrity, d.err)))
		return
	}
	for i, v := range e.Averages {
		d.res.Averages[i] = float64(v)
	}
	d.res.WarnFlag = int(e.WarnFlag)
	if e.Magic != d.head.Magic {
		d.res.Integrity = false
		d.log.Error("results magic number mismatch",
			logging.Error(ErrIntegrity),
			logging.Int("prolog_magic", int(d.head.Magic)),
			logging.Int("epilog_magic", int(e.Magic)))
	}
	if e.WarnFlag != 0 {
		d.log.Warn("solver issued warnings", logging.Int("warn_flag", int(e.WarnFlag)))
	}
}

func (d *decoder) nodeValue(attr NodeAttribute, v float64) float64 {
	if d.opts.NoConvert {
		return v
	}
	switch attr {
	case NodeDemand:
		return d.sys.ToSI(v, units.Demand)
	case NodeHead:
		return d.sys.ToSI(v, units.HydraulicHead)
	case NodePressure:
		return v * d.res.PressureUnits.Factor()
	case NodeQuality:
		return d.quality(v)
	}
	return v
}

func (d *decoder) linkValue(attr LinkAttribute, t LinkType, v float64) float64 {
	if attr == LinkStatus {
		if d.opts.RawStatus {
			return v
		}
		return remapStatus(v)
	}
	if d.opts.NoConvert {
		return v
	}
	switch attr {
	case LinkFlow:
		return d.sys.ToSI(v, units.Flow)
	case LinkVelocity:
		return d.sys.ToSI(v, units.Velocity)
	case LinkHeadloss:
		if t.IsPipe() {
			return d.sys.ToSI(v, units.HeadLoss)
		}
		return d.sys.ToSI(v, units.Length)
	case LinkQuality:
		return d.quality(v)
	case LinkSetting:
		switch t {
		case CVPipe, Pipe:
			return d.sys.ToSI(v, units.RoughnessCoeff)
		case PRV, PSV, PBV:
			return v * d.res.PressureUnits.Factor()
		case FCV:
			return d.sys.ToSI(v, units.Flow)
		}
		return v
	case LinkReactionRate:
		return d.sys.ToSI(v, units.ReactionRate)
	}
	return v
}

func (d *decoder) quality(v float64) float64 {
	switch d.res.Quality {
	case QualityChemical:
		return d.sys.ToSI(v, units.Concentration)
	case QualityAge:
		return d.sys.ToSI(v, units.WaterAge)
	}
	return v
}

func scale(vs []float64, f float64) {
	for i := range vs {
		vs[i] *= f
	}
}
