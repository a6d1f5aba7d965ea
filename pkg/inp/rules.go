package inp

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// ruleKeywords start a new clause. Any other word continues the current one.
var ruleKeywords = map[string]bool{
	"RULE": true, "IF": true, "THEN": true, "ELSE": true,
	"AND": true, "OR": true, "PRIORITY": true,
}

type clause struct {
	words []string
	line  rawLine // line holding the clause keyword
}

func (c clause) keyword() string { return strings.ToUpper(c.words[0]) }

// groupClauses regroups the words of a [RULES] section into logical clauses,
// so a clause wrapped over several lines reads as one.
func groupClauses(lines []rawLine) []clause {
	var out []clause
	for _, l := range lines {
		f, _ := l.fields()
		for _, w := range f {
			if ruleKeywords[strings.ToUpper(w)] || len(out) == 0 {
				out = append(out, clause{line: l})
			}
			last := &out[len(out)-1]
			last.words = append(last.words, w)
		}
	}
	return out
}

type rulePhase int

const (
	phaseStart rulePhase = iota
	phaseIf
	phaseThen
	phaseElse
	phaseDone
)

type ruleBuilder struct {
	name     string
	line     rawLine
	phase    rulePhase
	conds    []network.Condition
	then     []network.Action
	els      []network.Action
	priority int
}

// condition folds the accumulated conditions left with AND.
func (b *ruleBuilder) condition() network.Condition {
	var out network.Condition
	for _, c := range b.conds {
		if out == nil {
			out = c
			continue
		}
		out = &network.AndCondition{Left: out, Right: c}
	}
	return out
}

func (s *session) readRules() error {
	lines := s.sections[secRules]
	if s.metrics != nil && len(lines) > 0 {
		s.metrics.RecordSectionLines(secRules, len(lines))
	}

	var cur *ruleBuilder
	for _, c := range groupClauses(lines) {
		if c.keyword() == "RULE" {
			if err := s.finishRule(cur); err != nil {
				return err
			}
			if len(c.words) != 2 {
				return s.wrap(c.line, secRules, fieldCountError(len(c.words), "2"))
			}
			cur = &ruleBuilder{name: c.words[1], line: c.line}
			continue
		}
		if cur == nil {
			return s.wrap(c.line, secRules, fmt.Errorf("%w: %s clause before RULE", ErrBadKeyword, c.keyword()))
		}
		if err := s.ruleClause(cur, c); err != nil {
			return s.wrap(c.line, secRules, err)
		}
	}
	return s.finishRule(cur)
}

// ruleClause applies one clause to the rule under construction.
func (s *session) ruleClause(b *ruleBuilder, c clause) error {
	kw := c.keyword()
	switch {
	case kw == "IF" && b.phase == phaseStart,
		kw == "AND" && b.phase == phaseIf:
		cond, err := s.parseRuleCondition(c.words)
		if err != nil {
			return err
		}
		b.conds = append(b.conds, cond)
		b.phase = phaseIf

	case kw == "OR" && b.phase == phaseIf:
		cond, err := s.parseRuleCondition(c.words)
		if err != nil {
			return err
		}
		last := b.conds[len(b.conds)-1]
		b.conds[len(b.conds)-1] = &network.OrCondition{Left: last, Right: cond}

	case kw == "THEN" && b.phase == phaseIf,
		kw == "AND" && b.phase == phaseThen:
		a, err := s.parseRuleAction(c.words)
		if err != nil {
			return err
		}
		b.then = append(b.then, a)
		b.phase = phaseThen

	case kw == "ELSE" && b.phase == phaseThen,
		kw == "AND" && b.phase == phaseElse:
		a, err := s.parseRuleAction(c.words)
		if err != nil {
			return err
		}
		b.els = append(b.els, a)
		b.phase = phaseElse

	case kw == "PRIORITY" && (b.phase == phaseThen || b.phase == phaseElse):
		if len(c.words) != 2 {
			return fieldCountError(len(c.words), "2")
		}
		v, err := parseNumber(c.words[1])
		if err != nil {
			return err
		}
		b.priority = int(v)
		b.phase = phaseDone

	default:
		return fmt.Errorf("%w: unexpected %s in rule %s", ErrBadKeyword, kw, b.name)
	}
	return nil
}

func (s *session) finishRule(b *ruleBuilder) error {
	if b == nil {
		return nil
	}
	if len(b.conds) == 0 || len(b.then) == 0 {
		return s.wrap(b.line, secRules, fmt.Errorf("%w: rule %s needs IF and THEN clauses", ErrIncompleteRule, b.name))
	}
	if _, err := s.m.Control(b.name); err == nil {
		s.warn("duplicate_control", "duplicate rule skipped", logging.Control(b.name))
		return nil
	}
	err := s.m.AddControl(&network.Control{
		Name:      b.name,
		Kind:      network.RuleControl,
		Condition: b.condition(),
		Then:      b.then,
		Else:      b.els,
		Priority:  b.priority,
	})
	if err != nil {
		return s.wrap(b.line, secRules, err)
	}
	return nil
}

var nodeObjects = map[string]bool{"NODE": true, "JUNCTION": true, "RESERVOIR": true, "TANK": true}
var linkObjects = map[string]bool{"LINK": true, "PIPE": true, "PUMP": true, "VALVE": true}

// parseRuleCondition reads `kw object id attribute relation value` or
// `kw SYSTEM TIME|CLOCKTIME relation value [AM|PM]`.
func (s *session) parseRuleCondition(w []string) (network.Condition, error) {
	if len(w) < 2 {
		return nil, fieldCountError(len(w), "at least 5")
	}
	object := strings.ToUpper(w[1])

	if object == "SYSTEM" {
		if len(w) < 5 {
			return nil, fieldCountError(len(w), "at least 5")
		}
		rel, ok := network.ParseRelation(w[3])
		if !ok {
			return nil, fmt.Errorf("%w: relation %q", ErrBadKeyword, w[3])
		}
		switch strings.ToUpper(w[2]) {
		case "TIME":
			secs, err := parseDuration(w[4:])
			if err != nil {
				return nil, err
			}
			return &network.SimTimeCondition{Relation: rel, Seconds: float64(secs)}, nil
		case "CLOCKTIME":
			secs, err := parseClock(w[4:])
			if err != nil {
				return nil, err
			}
			return &network.ClockTimeCondition{Relation: rel, Seconds: float64(secs)}, nil
		case "DEMAND":
			return nil, fmt.Errorf("%w: SYSTEM DEMAND", ErrUnsupportedCondition)
		}
		return nil, fmt.Errorf("%w: SYSTEM %q", ErrBadKeyword, w[2])
	}

	if len(w) != 6 {
		return nil, fieldCountError(len(w), "6")
	}
	var elem network.ElementKind
	switch {
	case nodeObjects[object]:
		elem = network.NodeElement
		if _, err := s.m.Node(w[2]); err != nil {
			return nil, asReference(err, secRules, "node", w[2])
		}
	case linkObjects[object]:
		elem = network.LinkElement
		if _, err := s.m.Link(w[2]); err != nil {
			return nil, asReference(err, secRules, "link", w[2])
		}
	default:
		return nil, fmt.Errorf("%w: rule object %q", ErrBadKeyword, w[1])
	}

	attr, ok := network.ParseAttribute(w[3])
	if !ok {
		return nil, fmt.Errorf("%w: attribute %q", ErrBadKeyword, w[3])
	}
	rel, ok := network.ParseRelation(w[4])
	if !ok {
		return nil, fmt.Errorf("%w: relation %q", ErrBadKeyword, w[4])
	}
	cond := &network.ValueCondition{Element: elem, Name: w[2], Attribute: attr, Relation: rel}

	if attr == network.AttrStatus {
		if elem != network.LinkElement {
			return nil, fmt.Errorf("%w: STATUS of node %s", ErrBadKeyword, w[2])
		}
		status, ok := network.ParseLinkStatus(w[5])
		if !ok {
			return nil, fmt.Errorf("%w: status %q", ErrBadKeyword, w[5])
		}
		cond.Status = status
		return cond, nil
	}

	v, err := parseNumber(w[5])
	if err != nil {
		return nil, err
	}
	if cond.Threshold, err = s.attrToSI(elem, w[2], attr, v); err != nil {
		return nil, err
	}
	return cond, nil
}

// parseRuleAction reads `kw object id STATUS|SETTING =|IS value`.
func (s *session) parseRuleAction(w []string) (network.Action, error) {
	if len(w) < 6 {
		return network.Action{}, fieldCountError(len(w), "6")
	}
	if !linkObjects[strings.ToUpper(w[1])] {
		return network.Action{}, fmt.Errorf("%w: action object %q", ErrBadKeyword, w[1])
	}
	attr, ok := network.ParseAttribute(w[3])
	if !ok || (attr != network.AttrStatus && attr != network.AttrSetting) {
		return network.Action{}, fmt.Errorf("%w: action attribute %q", ErrBadKeyword, w[3])
	}
	if _, err := s.m.Link(w[2]); err != nil {
		return network.Action{}, asReference(err, secRules, "link", w[2])
	}
	return s.parseAction(w[2], attr, w[5])
}

// formatRule writes a control as a rule block.
func (w *writeSession) formatRule(c *network.Control) []string {
	lines := []string{"RULE " + c.Name}
	if c.Condition != nil {
		for i, part := range flattenCondition(c.Condition, "IF") {
			if i == 0 {
				part.joiner = "IF"
			}
			lines = append(lines, part.joiner+" "+w.formatCondition(part.cond))
		}
	}
	for i, a := range c.Then {
		kw := "THEN"
		if i > 0 {
			kw = "AND"
		}
		lines = append(lines, kw+" "+w.formatRuleAction(a))
	}
	for i, a := range c.Else {
		kw := "ELSE"
		if i > 0 {
			kw = "AND"
		}
		lines = append(lines, kw+" "+w.formatRuleAction(a))
	}
	if c.Priority != 0 {
		lines = append(lines, fmt.Sprintf("PRIORITY %d", c.Priority))
	}
	return lines
}

type joinedCondition struct {
	joiner string
	cond   network.Condition
}

// flattenCondition lists the leaves of an AND/OR tree in order, each with
// the conjunction that joins it to the leaves before it.
func flattenCondition(c network.Condition, joiner string) []joinedCondition {
	switch c := c.(type) {
	case *network.AndCondition:
		return append(flattenCondition(c.Left, joiner), flattenCondition(c.Right, "AND")...)
	case *network.OrCondition:
		return append(flattenCondition(c.Left, joiner), flattenCondition(c.Right, "OR")...)
	}
	return []joinedCondition{{joiner: joiner, cond: c}}
}

func (w *writeSession) formatCondition(c network.Condition) string {
	switch c := c.(type) {
	case *network.SimTimeCondition:
		return fmt.Sprintf("SYSTEM TIME %s %s", c.Relation.Symbol(), formatDuration(int(c.Seconds)))
	case *network.ClockTimeCondition:
		return fmt.Sprintf("SYSTEM CLOCKTIME %s %s", c.Relation.Symbol(), formatClock(int(c.Seconds)))
	case *network.ValueCondition:
		object := w.objectWord(c.Element, c.Name)
		if c.Attribute == network.AttrStatus {
			rel := "IS"
			if c.Relation == network.NotEqual {
				rel = "NOT"
			}
			return fmt.Sprintf("%s %s STATUS %s %s", object, c.Name, rel, strings.ToUpper(c.Status.String()))
		}
		v := w.attrFromSI(c.Element, c.Name, c.Attribute, c.Threshold)
		return fmt.Sprintf("%s %s %s %s %s", object, c.Name, c.Attribute, c.Relation.Symbol(), num(v))
	}
	return c.String()
}

func (w *writeSession) formatRuleAction(a network.Action) string {
	object := w.objectWord(network.LinkElement, a.Link)
	if a.Attribute == network.AttrStatus {
		return fmt.Sprintf("%s %s STATUS IS %s", object, a.Link, w.actionValue(a))
	}
	return fmt.Sprintf("%s %s SETTING = %s", object, a.Link, w.actionValue(a))
}

// objectWord names the type of a rule object.
func (w *writeSession) objectWord(elem network.ElementKind, name string) string {
	if elem == network.LinkElement {
		if l, err := w.m.Link(name); err == nil {
			return strings.ToUpper(l.Type().String())
		}
		return "LINK"
	}
	if n, err := w.m.Node(name); err == nil {
		return strings.ToUpper(n.Type().String())
	}
	return "NODE"
}
