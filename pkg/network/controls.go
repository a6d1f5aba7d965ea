package network

import (
	"fmt"
	"strings"
)

// Relation compares a measured value with a threshold.
type Relation int

const (
	Equal Relation = iota
	NotEqual
	Below
	Above
	AtMost
	AtLeast
)

var relationSymbols = [...]string{"=", "<>", "<", ">", "<=", ">="}

// Symbol returns the rule-language operator for r.
func (r Relation) Symbol() string {
	if int(r) >= 0 && int(r) < len(relationSymbols) {
		return relationSymbols[r]
	}
	return "?"
}

func (r Relation) String() string { return r.Symbol() }

// ParseRelation accepts both symbols and the ABOVE/BELOW/IS/NOT keywords.
func ParseRelation(token string) (Relation, bool) {
	switch strings.ToUpper(token) {
	case "=", "IS", "EQ":
		return Equal, true
	case "<>", "NOT", "NE":
		return NotEqual, true
	case "<", "BELOW", "LT":
		return Below, true
	case ">", "ABOVE", "GT":
		return Above, true
	case "<=", "LE":
		return AtMost, true
	case ">=", "GE":
		return AtLeast, true
	}
	return 0, false
}

// Holds evaluates value r threshold.
func (r Relation) Holds(value, threshold float64) bool {
	switch r {
	case Equal:
		return value == threshold
	case NotEqual:
		return value != threshold
	case Below:
		return value < threshold
	case Above:
		return value > threshold
	case AtMost:
		return value <= threshold
	case AtLeast:
		return value >= threshold
	}
	return false
}

// Attribute names a measurable or settable quantity of a node or link.
type Attribute string

const (
	AttrDemand    Attribute = "DEMAND"
	AttrHead      Attribute = "HEAD"
	AttrLevel     Attribute = "LEVEL"
	AttrPressure  Attribute = "PRESSURE"
	AttrQuality   Attribute = "QUALITY"
	AttrFillTime  Attribute = "FILLTIME"
	AttrDrainTime Attribute = "DRAINTIME"
	AttrFlow      Attribute = "FLOW"
	AttrStatus    Attribute = "STATUS"
	AttrSetting   Attribute = "SETTING"
)

// ParseAttribute normalises an attribute token. GRADE is an alias of HEAD.
func ParseAttribute(token string) (Attribute, bool) {
	t := Attribute(strings.ToUpper(token))
	switch t {
	case "GRADE":
		return AttrHead, true
	case AttrDemand, AttrHead, AttrLevel, AttrPressure, AttrQuality, AttrFillTime,
		AttrDrainTime, AttrFlow, AttrStatus, AttrSetting:
		return t, true
	}
	return "", false
}

// ElementKind says whether a condition watches a node or a link.
type ElementKind int

const (
	NodeElement ElementKind = iota
	LinkElement
)

// Condition is a boolean test evaluated by a control.
type Condition interface {
	// References returns the node and link names the condition depends on.
	References() (nodes, links []string)
	String() string
}

// SimTimeCondition tests elapsed simulation time in seconds.
type SimTimeCondition struct {
	Relation Relation
	Seconds  float64
}

func (c *SimTimeCondition) References() ([]string, []string) { return nil, nil }

func (c *SimTimeCondition) String() string {
	return fmt.Sprintf("SYSTEM TIME %s %g", c.Relation.Symbol(), c.Seconds)
}

// ClockTimeCondition tests time of day in seconds after midnight.
type ClockTimeCondition struct {
	Relation Relation
	Seconds  float64
}

func (c *ClockTimeCondition) References() ([]string, []string) { return nil, nil }

func (c *ClockTimeCondition) String() string {
	return fmt.Sprintf("SYSTEM CLOCKTIME %s %g", c.Relation.Symbol(), c.Seconds)
}

// ValueCondition compares an attribute of a node or link with a threshold in
// SI units, or with a link status when Attribute is AttrStatus.
type ValueCondition struct {
	Element   ElementKind
	Name      string
	Attribute Attribute
	Relation  Relation
	Threshold float64
	Status    LinkStatus
}

func (c *ValueCondition) References() ([]string, []string) {
	if c.Element == LinkElement {
		return nil, []string{c.Name}
	}
	return []string{c.Name}, nil
}

func (c *ValueCondition) String() string {
	if c.Attribute == AttrStatus {
		return fmt.Sprintf("%s %s %s %s", c.Name, c.Attribute, c.Relation.Symbol(), c.Status)
	}
	return fmt.Sprintf("%s %s %s %g", c.Name, c.Attribute, c.Relation.Symbol(), c.Threshold)
}

// AndCondition holds when both sides hold.
type AndCondition struct {
	Left, Right Condition
}

func (c *AndCondition) References() ([]string, []string) { return joinRefs(c.Left, c.Right) }

func (c *AndCondition) String() string {
	return fmt.Sprintf("(%s) AND (%s)", c.Left, c.Right)
}

// OrCondition holds when either side holds.
type OrCondition struct {
	Left, Right Condition
}

func (c *OrCondition) References() ([]string, []string) { return joinRefs(c.Left, c.Right) }

func (c *OrCondition) String() string {
	return fmt.Sprintf("(%s) OR (%s)", c.Left, c.Right)
}

func joinRefs(a, b Condition) ([]string, []string) {
	an, al := a.References()
	bn, bl := b.References()
	return append(an, bn...), append(al, bl...)
}

// Action changes a link's status or setting. Value is in SI units of the
// quantity the link's setting controls.
type Action struct {
	Link      string
	Attribute Attribute
	Value     float64
	Status    LinkStatus
}

func (a Action) String() string {
	if a.Attribute == AttrStatus {
		return fmt.Sprintf("%s STATUS = %s", a.Link, a.Status)
	}
	return fmt.Sprintf("%s %s = %g", a.Link, a.Attribute, a.Value)
}

// ControlKind separates single-line controls from rule blocks.
type ControlKind int

const (
	SimpleControl ControlKind = iota
	RuleControl
)

// Control pairs a condition with actions. Simple controls have exactly one
// Then action and no Else actions.
type Control struct {
	Name      string
	Kind      ControlKind
	Condition Condition
	Then      []Action
	Else      []Action
	Priority  int
}

// References returns every node and link the control touches.
func (c *Control) References() (nodes, links []string) {
	if c.Condition != nil {
		nodes, links = c.Condition.References()
	}
	for _, a := range c.Then {
		links = append(links, a.Link)
	}
	for _, a := range c.Else {
		links = append(links, a.Link)
	}
	return nodes, links
}
