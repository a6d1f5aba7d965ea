package constraints

import (
	"fmt"

	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// TankLevelConstraint checks tank geometry: non-negative levels ordered
// min <= init <= max and a positive diameter unless a volume curve is set.
type TankLevelConstraint struct{}

// Name returns the constraint name
func (*TankLevelConstraint) Name() string { return "TankLevelConstraint" }

// Validate checks every tank in the model
func (tc *TankLevelConstraint) Validate(m *network.Model) ([]Violation, error) {
	violations := make([]Violation, 0)

	for _, t := range m.Tanks() {
		details := map[string]any{
			"min":  t.MinLevel,
			"init": t.InitLevel,
			"max":  t.MaxLevel,
		}
		if t.MinLevel < 0 {
			violations = append(violations, Violation{
				Type:       OutOfRange,
				Severity:   Error,
				Node:       t.Name,
				Constraint: tc.Name(),
				Message:    fmt.Sprintf("Tank %s has negative minimum level %g", t.Name, t.MinLevel),
				Details:    details,
			})
		}
		if t.InitLevel < t.MinLevel || t.InitLevel > t.MaxLevel {
			violations = append(violations, Violation{
				Type:       OutOfRange,
				Severity:   Error,
				Node:       t.Name,
				Constraint: tc.Name(),
				Message: fmt.Sprintf("Tank %s initial level %g outside [%g, %g]",
					t.Name, t.InitLevel, t.MinLevel, t.MaxLevel),
				Details: details,
			})
		}
		if t.VolCurve == "" && t.Diameter <= 0 {
			violations = append(violations, Violation{
				Type:       OutOfRange,
				Severity:   Error,
				Node:       t.Name,
				Constraint: tc.Name(),
				Message:    fmt.Sprintf("Tank %s has non-positive diameter %g and no volume curve", t.Name, t.Diameter),
				Details:    map[string]any{"diameter": t.Diameter},
			})
		}
	}

	return violations, nil
}

// DimensionConstraint checks that pipe and valve dimensions are positive.
type DimensionConstraint struct{}

// Name returns the constraint name
func (*DimensionConstraint) Name() string { return "DimensionConstraint" }

// Validate checks every pipe and valve in the model
func (dc *DimensionConstraint) Validate(m *network.Model) ([]Violation, error) {
	violations := make([]Violation, 0)

	positive := func(link, property string, value float64) {
		if value > 0 {
			return
		}
		violations = append(violations, Violation{
			Type:       OutOfRange,
			Severity:   Error,
			Link:       link,
			Constraint: dc.Name(),
			Message:    fmt.Sprintf("Link %s has non-positive %s %g", link, property, value),
			Details:    map[string]any{"property": property, "value": value},
		})
	}

	for _, p := range m.Pipes() {
		positive(p.Name, "length", p.Length)
		positive(p.Name, "diameter", p.Diameter)
		positive(p.Name, "roughness", p.Roughness)
	}
	for _, v := range m.Valves() {
		positive(v.Name, "diameter", v.Diameter)
	}

	return violations, nil
}
