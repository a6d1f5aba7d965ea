package inp

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/network"
	"github.com/dd0wney/cluso-epanet/pkg/units"
)

func (s *session) readPipes() error {
	return s.each(secPipes, func(_ rawLine, f []string, _ string) error {
		if len(f) < 6 || len(f) > 8 {
			return fieldCountError(len(f), "6 to 8")
		}
		p := &network.Pipe{
			LinkBase: network.LinkBase{Name: f[0], StartNode: f[1], EndNode: f[2]},
		}
		var err error
		if p.Length, err = s.number(f[3], units.Length); err != nil {
			return err
		}
		if p.Diameter, err = s.number(f[4], units.PipeDiameter); err != nil {
			return err
		}
		if p.Roughness, err = s.number(f[5], units.RoughnessCoeff); err != nil {
			return err
		}
		if len(f) > 6 {
			if p.MinorLoss, err = parseNumber(f[6]); err != nil {
				return err
			}
		}
		if len(f) > 7 {
			switch status, ok := network.ParseLinkStatus(f[7]); {
			case ok && status == network.CheckValve:
				p.CheckValve = true
			case ok && status != network.Active:
				p.InitialStatus = status
			default:
				s.warn("pipe_status", "unsupported pipe status ignored",
					logging.Link(p.Name), logging.String("status", f[7]))
			}
		}
		return s.m.AddPipe(p)
	})
}

func (s *session) readPumps() error {
	return s.each(secPumps, func(_ rawLine, f []string, _ string) error {
		if len(f) < 5 || len(f)%2 == 0 {
			return fieldCountError(len(f), "3 plus keyword/value pairs")
		}
		p := &network.Pump{
			LinkBase: network.LinkBase{Name: f[0], StartNode: f[1], EndNode: f[2]},
		}
		for i := 3; i < len(f); i += 2 {
			value := f[i+1]
			var err error
			switch kw := strings.ToUpper(f[i]); kw {
			case "HEAD":
				p.Kind = network.HeadPump
				p.HeadCurve = value
				err = s.typeCurve(value, network.CurveHead, units.Flow, units.HydraulicHead)
			case "POWER":
				p.Kind = network.PowerPump
				p.Power, err = s.number(value, units.Power)
			case "SPEED":
				p.BaseSpeed, err = parseNumber(value)
			case "PATTERN":
				p.SpeedPattern = value
			default:
				err = fmt.Errorf("%w: pump keyword %q", ErrBadKeyword, f[i])
			}
			if err != nil {
				return err
			}
		}
		p.InitialSetting = p.BaseSpeed
		if p.InitialSetting == 0 {
			p.InitialSetting = 1
		}
		return s.m.AddPump(p)
	})
}

func (s *session) readValves() error {
	return s.each(secValves, func(_ rawLine, f []string, _ string) error {
		if len(f) < 6 || len(f) > 7 {
			return fieldCountError(len(f), "6 or 7")
		}
		kind, ok := network.ParseValveKind(f[4])
		if !ok {
			return fmt.Errorf("%w: valve type %q", ErrBadKeyword, f[4])
		}
		v := &network.Valve{
			LinkBase: network.LinkBase{Name: f[0], StartNode: f[1], EndNode: f[2], InitialStatus: network.Active},
			Kind:     kind,
		}
		var err error
		if v.Diameter, err = s.number(f[3], units.PipeDiameter); err != nil {
			return err
		}
		if kind == network.GPV {
			v.HeadlossCurve = f[5]
			if err := s.typeCurve(v.HeadlossCurve, network.CurveHeadloss, units.Flow, units.HydraulicHead); err != nil {
				return err
			}
		} else {
			setting, err := parseNumber(f[5])
			if err != nil {
				return err
			}
			v.InitialSetting = s.valveSettingToSI(kind, setting)
		}
		if len(f) == 7 {
			if v.MinorLoss, err = parseNumber(f[6]); err != nil {
				return err
			}
		}
		return s.m.AddValve(v)
	})
}

func (s *session) readStatus() error {
	return s.each(secStatus, func(_ rawLine, f []string, _ string) error {
		if len(f) != 2 {
			return fieldCountError(len(f), "2")
		}
		l, err := s.m.Link(f[0])
		if err != nil {
			return asReference(err, secStatus, "link", f[0])
		}
		if status, ok := network.ParseLinkStatus(f[1]); ok && status != network.CheckValve {
			l.Base().InitialStatus = status
			return nil
		}

		setting, err := parseNumber(f[1])
		if err != nil {
			return fmt.Errorf("%w: status %q", ErrBadKeyword, f[1])
		}
		switch link := l.(type) {
		case *network.Pump:
			link.InitialSetting = setting
			link.InitialStatus = network.Open
		case *network.Valve:
			link.InitialSetting = s.valveSettingToSI(link.Kind, setting)
			link.InitialStatus = network.Active
		default:
			s.warn("pipe_setting", "numeric status on a pipe ignored", logging.Link(f[0]))
		}
		return nil
	})
}

func (s *session) readVertices() error {
	return s.each(secVertices, func(_ rawLine, f []string, _ string) error {
		if len(f) != 3 {
			return fieldCountError(len(f), "3")
		}
		l, err := s.m.Link(f[0])
		if err != nil {
			return asReference(err, secVertices, "link", f[0])
		}
		x, err := parseNumber(f[1])
		if err != nil {
			return err
		}
		y, err := parseNumber(f[2])
		if err != nil {
			return err
		}
		b := l.Base()
		b.Vertices = append(b.Vertices, network.Point{X: x, Y: y})
		return nil
	})
}
