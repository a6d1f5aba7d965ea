package constraints

import (
	"fmt"

	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// CurveConstraint checks curve shape by type. Every curve needs at least
// one point. Head, volume and headloss curves need strictly increasing x
// values, head curves need non-increasing y values and efficiency curves
// need y values within [0, 100].
type CurveConstraint struct{}

// Name returns the constraint name
func (*CurveConstraint) Name() string { return "CurveConstraint" }

// Validate checks every curve in the model
func (cc *CurveConstraint) Validate(m *network.Model) ([]Violation, error) {
	violations := make([]Violation, 0)

	add := func(c *network.Curve, format string, args ...any) {
		violations = append(violations, Violation{
			Type:       InvalidCurve,
			Severity:   Error,
			Curve:      c.Name,
			Constraint: cc.Name(),
			Message:    fmt.Sprintf("Curve %s ", c.Name) + fmt.Sprintf(format, args...),
			Details:    map[string]any{"curve_type": c.Type.String(), "points": len(c.Points)},
		})
	}

	for _, c := range m.Curves() {
		if len(c.Points) == 0 {
			add(c, "has no points")
			continue
		}

		switch c.Type {
		case network.CurveHead, network.CurveVolume, network.CurveHeadloss:
			for i := 1; i < len(c.Points); i++ {
				if c.Points[i].X <= c.Points[i-1].X {
					add(c, "x values not increasing at point %d", i+1)
					break
				}
			}
		}

		switch c.Type {
		case network.CurveHead:
			for i := 1; i < len(c.Points); i++ {
				if c.Points[i].Y > c.Points[i-1].Y {
					add(c, "head rises with flow at point %d", i+1)
					break
				}
			}
		case network.CurveEfficiency:
			for i, p := range c.Points {
				if p.Y < 0 || p.Y > 100 {
					add(c, "efficiency %g outside [0, 100] at point %d", p.Y, i+1)
					break
				}
			}
		}
	}

	return violations, nil
}
