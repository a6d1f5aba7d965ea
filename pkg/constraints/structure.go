package constraints

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-epanet/pkg/algorithms"
	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// EndpointConstraint rejects links that start and end at the same node.
type EndpointConstraint struct{}

// Name returns the constraint name
func (*EndpointConstraint) Name() string { return "EndpointConstraint" }

// Validate checks every link in the model
func (ec *EndpointConstraint) Validate(m *network.Model) ([]Violation, error) {
	violations := make([]Violation, 0)
	for _, l := range m.Links() {
		b := l.Base()
		if b.StartNode != b.EndNode {
			continue
		}
		violations = append(violations, Violation{
			Type:       InvalidStructure,
			Severity:   Error,
			Link:       b.Name,
			Constraint: ec.Name(),
			Message:    fmt.Sprintf("Link %s starts and ends at node %s", b.Name, b.StartNode),
		})
	}
	return violations, nil
}

// DegreeConstraint flags nodes with too few or too many links.
type DegreeConstraint struct {
	Min int // Minimum number of links (0 = no minimum)
	Max int // Maximum number of links (0 = unlimited)
}

// Name returns the constraint name
func (dc *DegreeConstraint) Name() string {
	return fmt.Sprintf("DegreeConstraint([%d,%d])", dc.Min, dc.Max)
}

// Validate counts the links of every node
func (dc *DegreeConstraint) Validate(m *network.Model) ([]Violation, error) {
	violations := make([]Violation, 0)

	for _, name := range m.NodeNames() {
		degree := len(m.LinksFor(name))
		details := map[string]any{"count": degree, "min": dc.Min, "max": dc.Max}

		if dc.Min > 0 && degree < dc.Min {
			violations = append(violations, Violation{
				Type:       CardinalityViolation,
				Severity:   Warning,
				Node:       name,
				Constraint: dc.Name(),
				Message:    fmt.Sprintf("Node %s has %d link(s), minimum is %d", name, degree, dc.Min),
				Details:    details,
			})
		}
		if dc.Max > 0 && degree > dc.Max {
			violations = append(violations, Violation{
				Type:       CardinalityViolation,
				Severity:   Warning,
				Node:       name,
				Constraint: dc.Name(),
				Message:    fmt.Sprintf("Node %s has %d link(s), maximum is %d", name, degree, dc.Max),
				Details:    details,
			})
		}
	}

	return violations, nil
}

// UniquenessConstraint flags names that differ only by letter case, which
// some EPANET versions treat as the same ID.
type UniquenessConstraint struct{}

// Name returns the constraint name
func (*UniquenessConstraint) Name() string { return "UniquenessConstraint" }

// Validate checks node and link names separately
func (uc *UniquenessConstraint) Validate(m *network.Model) ([]Violation, error) {
	violations := make([]Violation, 0)

	check := func(names []string, node bool) {
		seen := make(map[string]string, len(names))
		for _, name := range names {
			key := strings.ToUpper(name)
			first, ok := seen[key]
			if !ok {
				seen[key] = name
				continue
			}
			v := Violation{
				Type:       UniquenessViolation,
				Severity:   Warning,
				Constraint: uc.Name(),
				Message:    fmt.Sprintf("Name %s differs from %s only by case", name, first),
				Details:    map[string]any{"conflicts_with": first},
			}
			if node {
				v.Node = name
			} else {
				v.Link = name
			}
			violations = append(violations, v)
		}
	}

	check(m.NodeNames(), true)
	check(m.LinkNames(), false)

	return violations, nil
}

// ConnectivityConstraint flags nodes that cannot reach a reservoir or tank
// through initially open links.
type ConnectivityConstraint struct{}

// Name returns the constraint name
func (*ConnectivityConstraint) Name() string { return "ConnectivityConstraint" }

// Validate searches the model for isolated nodes
func (cc *ConnectivityConstraint) Validate(m *network.Model) ([]Violation, error) {
	violations := make([]Violation, 0)
	for _, name := range algorithms.IsolatedNodes(m, algorithms.OpenLinks) {
		violations = append(violations, Violation{
			Type:       InvalidStructure,
			Severity:   Warning,
			Node:       name,
			Constraint: cc.Name(),
			Message:    fmt.Sprintf("Node %s is not connected to any reservoir or tank", name),
		})
	}
	return violations, nil
}
