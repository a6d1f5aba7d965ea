package constraints

import (
	"time"

	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// ValidationResult is the outcome of one Validator run.
type ValidationResult struct {
	// Valid is false when any violation has Error severity.
	Valid      bool
	Violations []Violation
	CheckedAt  time.Time
}

// Filter returns the violations keep accepts, in check order.
func (vr *ValidationResult) Filter(keep func(Violation) bool) []Violation {
	var out []Violation
	for _, v := range vr.Violations {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func (vr *ValidationResult) BySeverity(s Severity) []Violation {
	return vr.Filter(func(v Violation) bool { return v.Severity == s })
}

func (vr *ValidationResult) ByType(t ViolationType) []Violation {
	return vr.Filter(func(v Violation) bool { return v.Type == t })
}

// Log writes each violation with the element it names. Error severity goes
// out at warn level and the rest at info, since the model is still usable.
func (vr *ValidationResult) Log(logger logging.Logger) {
	for _, v := range vr.Violations {
		fields := []logging.Field{
			logging.String("constraint", v.Constraint),
			logging.String("type", v.Type.String()),
		}
		switch {
		case v.Node != "":
			fields = append(fields, logging.Node(v.Node))
		case v.Link != "":
			fields = append(fields, logging.Link(v.Link))
		case v.Curve != "":
			fields = append(fields, logging.Curve(v.Curve))
		}
		if v.Severity == Error {
			logger.Warn(v.Message, fields...)
		} else {
			logger.Info(v.Message, fields...)
		}
	}
}

// Validator runs a fixed list of constraints in order.
type Validator struct {
	constraints []Constraint
}

func NewValidator(cs ...Constraint) *Validator {
	return &Validator{constraints: cs}
}

// DefaultValidator holds every check in this package with its usual
// thresholds.
func DefaultValidator() *Validator {
	return NewValidator(
		&TankLevelConstraint{},
		&DimensionConstraint{},
		&EndpointConstraint{},
		&DegreeConstraint{Min: 1},
		&CurveConstraint{},
		&UniquenessConstraint{},
		&ConnectivityConstraint{},
	)
}

func (v *Validator) Add(cs ...Constraint) {
	v.constraints = append(v.constraints, cs...)
}

func (v *Validator) Constraints() []Constraint {
	return v.constraints
}

// Validate runs every constraint and stops at the first one that fails to
// run. Violations never stop the run.
func (v *Validator) Validate(m *network.Model) (*ValidationResult, error) {
	result := &ValidationResult{Valid: true, CheckedAt: time.Now()}
	for _, c := range v.constraints {
		found, err := c.Validate(m)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if f.Severity == Error {
				result.Valid = false
			}
		}
		result.Violations = append(result.Violations, found...)
	}
	return result, nil
}
