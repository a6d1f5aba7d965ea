// Package constraints checks a network model for physically implausible
// or structurally suspect data that the model itself accepts.
package constraints

import (
	"fmt"

	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// Severity orders violations. Only Error makes a result invalid.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

var severityNames = [...]string{"Info", "Warning", "Error"}

func (s Severity) String() string {
	if s >= 0 && int(s) < len(severityNames) {
		return severityNames[s]
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// ViolationType is the broad class of a violation.
type ViolationType int

const (
	// OutOfRange is a value outside its physical range, such as a
	// non-positive pipe length.
	OutOfRange ViolationType = iota
	// CardinalityViolation is a node with too few or too many links.
	CardinalityViolation
	// InvalidStructure is a link whose end nodes are missing or equal, or
	// part of the network no source can reach.
	InvalidStructure
	// UniquenessViolation is a name shared across element kinds.
	UniquenessViolation
	// InvalidCurve is a curve whose shape does not fit its use.
	InvalidCurve
)

var violationTypeNames = [...]string{
	"OutOfRange", "CardinalityViolation", "InvalidStructure", "UniquenessViolation", "InvalidCurve",
}

func (vt ViolationType) String() string {
	if vt >= 0 && int(vt) < len(violationTypeNames) {
		return violationTypeNames[vt]
	}
	return fmt.Sprintf("ViolationType(%d)", int(vt))
}

// Violation is one finding. At most one of Node, Link and Curve is set.
type Violation struct {
	Type       ViolationType
	Severity   Severity
	Node       string
	Link       string
	Curve      string
	Constraint string
	Message    string
	Details    map[string]any
}

// Subject returns the name of the element the violation is about.
func (v Violation) Subject() string {
	switch {
	case v.Node != "":
		return v.Node
	case v.Link != "":
		return v.Link
	}
	return v.Curve
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %s %s: %s", v.Severity, v.Constraint, v.Subject(), v.Message)
}

// Constraint is one check over a whole model.
type Constraint interface {
	Validate(m *network.Model) ([]Violation, error)
	Name() string
}
