package inp

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/network"
	"github.com/dd0wney/cluso-epanet/pkg/units"
)

func (s *session) readJunctions() error {
	return s.each(secJunctions, func(_ rawLine, f []string, _ string) error {
		if len(f) < 2 || len(f) > 4 {
			return fieldCountError(len(f), "2 to 4")
		}
		elev, err := s.number(f[1], units.Elevation)
		if err != nil {
			return err
		}
		j := &network.Junction{NodeBase: network.NodeBase{Name: f[0]}, Elevation: elev}
		// A row without a demand column declares no demands.
		if len(f) > 2 {
			demand := network.Demand{Pattern: s.defaultPattern()}
			if demand.Base, err = s.number(f[2], units.Demand); err != nil {
				return err
			}
			if len(f) > 3 {
				demand.Pattern = f[3]
			}
			j.Demands = []network.Demand{demand}
		}
		return s.m.AddJunction(j)
	})
}

func (s *session) readReservoirs() error {
	return s.each(secReservoirs, func(_ rawLine, f []string, _ string) error {
		if len(f) < 2 || len(f) > 3 {
			return fieldCountError(len(f), "2 or 3")
		}
		head, err := s.number(f[1], units.HydraulicHead)
		if err != nil {
			return err
		}
		r := &network.Reservoir{NodeBase: network.NodeBase{Name: f[0]}, BaseHead: head}
		if len(f) == 3 {
			r.HeadPattern = f[2]
		}
		return s.m.AddReservoir(r)
	})
}

// tankParams are the conversions of the numeric tank columns after the name.
var tankParams = []units.Param{
	units.Elevation, units.Length, units.Length, units.Length, units.TankDiameter, units.Volume,
}

func (s *session) readTanks() error {
	return s.each(secTanks, func(_ rawLine, f []string, _ string) error {
		if len(f) < 6 || len(f) > 9 {
			return fieldCountError(len(f), "6 to 9")
		}
		var v [6]float64
		for i := 1; i < len(f) && i <= 6; i++ {
			x, err := s.number(f[i], tankParams[i-1])
			if err != nil {
				return err
			}
			v[i-1] = x
		}
		t := &network.Tank{
			NodeBase:  network.NodeBase{Name: f[0]},
			Elevation: v[0],
			InitLevel: v[1],
			MinLevel:  v[2],
			MaxLevel:  v[3],
			Diameter:  v[4],
			MinVol:    v[5],
		}
		if len(f) > 7 && f[7] != "*" {
			t.VolCurve = f[7]
			if err := s.typeCurve(t.VolCurve, network.CurveVolume, units.Length, units.Volume); err != nil {
				return err
			}
		}
		if len(f) > 8 {
			overflow, err := parseYesNo(f[8])
			if err != nil {
				return err
			}
			t.Overflow = overflow
		}
		return s.m.AddTank(t)
	})
}

func (s *session) readCoordinates() error {
	return s.each(secCoordinates, func(_ rawLine, f []string, _ string) error {
		if len(f) != 3 {
			return fieldCountError(len(f), "3")
		}
		n, err := s.m.Node(f[0])
		if err != nil {
			return asReference(err, secCoordinates, "node", f[0])
		}
		x, err := parseNumber(f[1])
		if err != nil {
			return err
		}
		y, err := parseNumber(f[2])
		if err != nil {
			return err
		}
		n.Base().Coordinates = network.Point{X: x, Y: y}
		return nil
	})
}

func (s *session) readSources() error {
	return s.each(secSources, func(_ rawLine, f []string, _ string) error {
		if len(f) < 3 || len(f) > 4 {
			return fieldCountError(len(f), "3 or 4")
		}
		kind, ok := network.ParseSourceKind(f[1])
		if !ok {
			return fmt.Errorf("%w: source type %q", ErrBadKeyword, f[1])
		}
		param := units.Concentration
		if kind == network.Mass {
			param = units.SourceMassInject
		}
		strength, err := s.number(f[2], param)
		if err != nil {
			return err
		}
		src := &network.Source{
			Name:     fmt.Sprintf("INP%d", len(s.m.Sources())+1),
			Node:     f[0],
			Kind:     kind,
			Strength: strength,
		}
		if len(f) == 4 {
			src.Pattern = f[3]
		}
		return s.m.AddSource(src)
	})
}

// readDemands replaces a junction's demands the first time this read names
// it, then appends.
func (s *session) readDemands() error {
	return s.each(secDemands, func(_ rawLine, f []string, comment string) error {
		if len(f) < 2 || len(f) > 3 {
			return fieldCountError(len(f), "2 or 3")
		}
		j, err := s.m.Junction(f[0])
		if err != nil {
			return asReference(err, secDemands, "junction", f[0])
		}
		base, err := s.number(f[1], units.Demand)
		if err != nil {
			return err
		}
		d := network.Demand{Base: base, Pattern: s.defaultPattern(), Category: comment}
		if len(f) == 3 {
			d.Pattern = f[2]
		}
		if d.Pattern != "" && !s.m.HasPattern(d.Pattern) {
			return referenceError(secDemands, "pattern", d.Pattern)
		}

		if !s.demandSeen[j.Name] {
			s.demandSeen[j.Name] = true
			j.Demands = j.Demands[:0]
		}
		j.Demands = append(j.Demands, d)
		return nil
	})
}

func (s *session) readEmitters() error {
	return s.each(secEmitters, func(_ rawLine, f []string, _ string) error {
		if len(f) != 2 {
			return fieldCountError(len(f), "2")
		}
		j, err := s.m.Junction(f[0])
		if err != nil {
			return asReference(err, secEmitters, "junction", f[0])
		}
		j.EmitterCoefficient, err = s.number(f[1], units.EmitterCoeff)
		return err
	})
}

func (s *session) readQuality() error {
	param, convert := s.qualityParam()
	return s.each(secQuality, func(_ rawLine, f []string, _ string) error {
		if len(f) != 2 {
			return fieldCountError(len(f), "2")
		}
		n, err := s.m.Node(f[0])
		if err != nil {
			return asReference(err, secQuality, "node", f[0])
		}
		v, err := parseNumber(f[1])
		if err != nil {
			return err
		}
		if convert {
			v = s.sys.ToSI(v, param)
		}
		n.Base().InitialQuality = v
		return nil
	})
}

func (s *session) readMixing() error {
	return s.each(secMixing, func(_ rawLine, f []string, _ string) error {
		if len(f) < 2 || len(f) > 3 {
			return fieldCountError(len(f), "2 or 3")
		}
		t, err := s.m.Tank(f[0])
		if err != nil {
			return asReference(err, secMixing, "tank", f[0])
		}
		model, ok := network.ParseMixingModel(f[1])
		if !ok {
			return fmt.Errorf("%w: mixing model %q", ErrBadKeyword, f[1])
		}
		t.MixingModel = model
		t.MixingFraction = 0
		if len(f) == 3 {
			if t.MixingFraction, err = parseNumber(f[2]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *session) readTags() error {
	return s.each(secTags, func(_ rawLine, f []string, _ string) error {
		if len(f) != 3 {
			return fieldCountError(len(f), "3")
		}
		switch strings.ToUpper(f[0]) {
		case "NODE":
			n, err := s.m.Node(f[1])
			if err != nil {
				return asReference(err, secTags, "node", f[1])
			}
			n.Base().Tag = f[2]
		case "LINK":
			l, err := s.m.Link(f[1])
			if err != nil {
				return asReference(err, secTags, "link", f[1])
			}
			l.Base().Tag = f[2]
		default:
			s.warn("unknown_tag", "tag for unknown entity kind ignored", logging.String("kind", f[0]))
		}
		return nil
	})
}
