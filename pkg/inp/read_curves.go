package inp

import (
	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// readCurves registers curves untyped with points in file units. Lines
// sharing a name extend the same curve.
func (s *session) readCurves() error {
	return s.each(secCurves, func(_ rawLine, f []string, _ string) error {
		if len(f) != 3 {
			return fieldCountError(len(f), "3")
		}
		x, err := parseNumber(f[1])
		if err != nil {
			return err
		}
		y, err := parseNumber(f[2])
		if err != nil {
			return err
		}

		name := f[0]
		if s.newCurves[name] {
			c, _ := s.m.Curve(name)
			c.Points = append(c.Points, network.CurvePoint{X: x, Y: y})
			return nil
		}
		c := &network.Curve{Name: name, Points: []network.CurvePoint{{X: x, Y: y}}}
		if err := s.m.AddCurve(c); err != nil {
			return err
		}
		s.newCurves[name] = true
		return nil
	})
}

// readPatterns concatenates multipliers of lines sharing a name, then
// resolves the default demand pattern.
func (s *session) readPatterns() error {
	err := s.each(secPatterns, func(_ rawLine, f []string, _ string) error {
		name := f[0]
		values := make([]float64, 0, len(f)-1)
		for _, tok := range f[1:] {
			v, err := parseNumber(tok)
			if err != nil {
				return err
			}
			values = append(values, v)
		}

		if s.newPattern[name] {
			p, _ := s.m.Pattern(name)
			p.Multipliers = append(p.Multipliers, values...)
			return nil
		}
		if err := s.m.AddPattern(&network.Pattern{Name: name, Multipliers: values}); err != nil {
			return err
		}
		s.newPattern[name] = true
		return nil
	})
	if err != nil {
		return err
	}

	h := &s.m.Options.Hydraulic
	if h.Pattern == "" || s.m.HasPattern(h.Pattern) {
		return nil
	}
	if h.Pattern == "1" {
		s.log.Debug("default pattern 1 not defined, demands use no pattern")
		h.Pattern = ""
		return nil
	}
	s.log.Error("default pattern not defined", logging.String("pattern", h.Pattern))
	return &ParseError{Section: secOptions, Cause: referenceError(secOptions, "pattern", h.Pattern)}
}

// defaultPattern is the pattern applied to demands that name none.
func (s *session) defaultPattern() string {
	return s.m.Options.Hydraulic.Pattern
}
