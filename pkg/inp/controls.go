package inp

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// readControls parses single-line [CONTROLS] entries:
//
//	LINK id value AT TIME t
//	LINK id value AT CLOCKTIME t [AM|PM]
//	LINK id value IF NODE id ABOVE|BELOW v
func (s *session) readControls() error {
	return s.each(secControls, func(_ rawLine, f []string, _ string) error {
		s.controlCount++
		name := fmt.Sprintf("control %d", s.controlCount)
		if _, err := s.m.Control(name); err == nil {
			s.warn("duplicate_control", "duplicate control skipped", logging.Control(name))
			return nil
		}

		c, err := s.parseControl(f)
		if err != nil {
			return err
		}
		c.Name = name
		return s.m.AddControl(c)
	})
}

func (s *session) parseControl(f []string) (*network.Control, error) {
	if len(f) < 6 {
		return nil, fieldCountError(len(f), "at least 6")
	}
	if !strings.EqualFold(f[0], "LINK") {
		return nil, fmt.Errorf("%w: control must start with LINK, got %q", ErrBadKeyword, f[0])
	}

	action, err := s.parseAction(f[1], "", f[2])
	if err != nil {
		return nil, err
	}
	c := &network.Control{Kind: network.SimpleControl, Then: []network.Action{action}}

	switch strings.ToUpper(f[3]) {
	case "AT":
		switch strings.ToUpper(f[4]) {
		case "TIME":
			secs, err := parseDuration(f[5:])
			if err != nil {
				return nil, err
			}
			c.Condition = &network.SimTimeCondition{Relation: network.Equal, Seconds: float64(secs)}
		case "CLOCKTIME":
			secs, err := parseClock(f[5:])
			if err != nil {
				return nil, err
			}
			c.Condition = &network.ClockTimeCondition{Relation: network.Equal, Seconds: float64(secs)}
		default:
			return nil, fmt.Errorf("%w: expected TIME or CLOCKTIME, got %q", ErrBadKeyword, f[4])
		}
	case "IF":
		cond, err := s.parseNodeTrigger(f)
		if err != nil {
			return nil, err
		}
		c.Condition = cond
	default:
		return nil, fmt.Errorf("%w: expected AT or IF, got %q", ErrBadKeyword, f[3])
	}
	return c, nil
}

// parseNodeTrigger reads `IF NODE id ABOVE|BELOW v`. The watched attribute
// follows the node type: pressure at junctions, level in tanks and head at
// reservoirs.
func (s *session) parseNodeTrigger(f []string) (network.Condition, error) {
	if len(f) != 8 {
		return nil, fieldCountError(len(f), "8")
	}
	if !strings.EqualFold(f[4], "NODE") {
		return nil, fmt.Errorf("%w: expected NODE, got %q", ErrBadKeyword, f[4])
	}
	n, err := s.m.Node(f[5])
	if err != nil {
		return nil, asReference(err, secControls, "node", f[5])
	}

	var rel network.Relation
	switch strings.ToUpper(f[6]) {
	case "ABOVE":
		rel = network.Above
	case "BELOW":
		rel = network.Below
	default:
		return nil, fmt.Errorf("%w: expected ABOVE or BELOW, got %q", ErrBadKeyword, f[6])
	}

	attr := triggerAttribute(n.Type())
	v, err := parseNumber(f[7])
	if err != nil {
		return nil, err
	}
	threshold, err := s.attrToSI(network.NodeElement, f[5], attr, v)
	if err != nil {
		return nil, err
	}
	return &network.ValueCondition{
		Element:   network.NodeElement,
		Name:      f[5],
		Attribute: attr,
		Relation:  rel,
		Threshold: threshold,
	}, nil
}

func triggerAttribute(t network.NodeType) network.Attribute {
	switch t {
	case network.TankType:
		return network.AttrLevel
	case network.ReservoirType:
		return network.AttrHead
	}
	return network.AttrPressure
}

// parseAction builds an action setting link to a status keyword or a
// numeric setting. attr forces STATUS or SETTING; empty infers it from the
// value.
func (s *session) parseAction(link string, attr network.Attribute, value string) (network.Action, error) {
	if _, err := s.m.Link(link); err != nil {
		return network.Action{}, asReference(err, secControls, "link", link)
	}
	a := network.Action{Link: link}

	if status, ok := network.ParseLinkStatus(value); ok && status != network.CheckValve && attr != network.AttrSetting {
		a.Attribute = network.AttrStatus
		a.Status = status
		return a, nil
	}
	if attr == network.AttrStatus {
		return a, fmt.Errorf("%w: status %q", ErrBadKeyword, value)
	}

	v, err := parseNumber(value)
	if err != nil {
		return a, err
	}
	if a.Value, err = s.settingToSI(link, v); err != nil {
		return a, err
	}
	a.Attribute = network.AttrSetting
	return a, nil
}

// formatControl writes a simple control in [CONTROLS] syntax. It reports
// false for controls that cannot be expressed on one line.
func (w *writeSession) formatControl(c *network.Control) (string, bool) {
	if c.Kind != network.SimpleControl || len(c.Then) != 1 || len(c.Else) != 0 {
		return "", false
	}
	a := c.Then[0]
	head := fmt.Sprintf("LINK %s %s", a.Link, w.actionValue(a))

	switch cond := c.Condition.(type) {
	case *network.SimTimeCondition:
		if cond.Relation != network.Equal {
			return "", false
		}
		return fmt.Sprintf("%s AT TIME %s", head, formatDuration(int(cond.Seconds))), true
	case *network.ClockTimeCondition:
		if cond.Relation != network.Equal {
			return "", false
		}
		return fmt.Sprintf("%s AT CLOCKTIME %s", head, formatClock(int(cond.Seconds))), true
	case *network.ValueCondition:
		if cond.Element != network.NodeElement || (cond.Relation != network.Above && cond.Relation != network.Below) {
			return "", false
		}
		n, err := w.m.Node(cond.Name)
		if err != nil || triggerAttribute(n.Type()) != cond.Attribute {
			return "", false
		}
		word := "ABOVE"
		if cond.Relation == network.Below {
			word = "BELOW"
		}
		v := w.attrFromSI(cond.Element, cond.Name, cond.Attribute, cond.Threshold)
		return fmt.Sprintf("%s IF NODE %s %s %s", head, cond.Name, word, num(v)), true
	}
	return "", false
}

// actionValue is the status keyword or converted setting of an action.
func (w *writeSession) actionValue(a network.Action) string {
	if a.Attribute == network.AttrStatus {
		return strings.ToUpper(a.Status.String())
	}
	return num(w.settingFromSI(a.Link, a.Value))
}
