package network

import (
	"slices"

	"github.com/dd0wney/cluso-epanet/pkg/logging"
)

func (m *Model) controlsReferencing(node, link string) []string {
	var out []string
	for _, name := range m.controlOrder {
		nodes, links := m.controls[name].References()
		if (node != "" && slices.Contains(nodes, node)) || (link != "" && slices.Contains(links, link)) {
			out = append(out, name)
		}
	}
	return out
}

func (m *Model) sourcesAt(node string) []string {
	var out []string
	for _, name := range m.sourceOrder {
		if m.sources[name].Node == node {
			out = append(out, name)
		}
	}
	return out
}

// RemoveNode deletes a node. A node still used by links, controls or sources
// is only removed when force is set, in which case those are removed too.
func (m *Model) RemoveNode(name string, force bool) error {
	if _, ok := m.nodes[name]; !ok {
		return NewError("remove").Entity("node", name).Cause(ErrNotFound).Err()
	}

	links := m.LinksFor(name)
	controls := m.controlsReferencing(name, "")
	sources := m.sourcesAt(name)
	if !force {
		switch {
		case len(links) > 0:
			return NewError("remove").Entity("node", name).Ref("link", links[0]).Cause(ErrInUse).Err()
		case len(controls) > 0:
			return NewError("remove").Entity("node", name).Ref("control", controls[0]).Cause(ErrInUse).Err()
		case len(sources) > 0:
			return NewError("remove").Entity("node", name).Ref("source", sources[0]).Cause(ErrInUse).Err()
		}
	}

	for _, l := range links {
		if err := m.RemoveLink(l, true); err != nil {
			return err
		}
	}
	for _, c := range controls {
		m.dropControl(c)
	}
	for _, s := range sources {
		delete(m.sources, s)
		m.sourceOrder = removeName(m.sourceOrder, s)
	}

	delete(m.nodes, name)
	m.nodeOrder = removeName(m.nodeOrder, name)
	m.invalidate()
	m.logger.Debug("node removed", logging.Node(name), logging.Count(len(links)))
	return nil
}

// RemoveLink deletes a link. A link named by a control is only removed when
// force is set, in which case the controls are removed too.
func (m *Model) RemoveLink(name string, force bool) error {
	if _, ok := m.links[name]; !ok {
		return NewError("remove").Entity("link", name).Cause(ErrNotFound).Err()
	}

	controls := m.controlsReferencing("", name)
	if len(controls) > 0 && !force {
		return NewError("remove").Entity("link", name).Ref("control", controls[0]).Cause(ErrInUse).Err()
	}
	for _, c := range controls {
		m.dropControl(c)
	}

	delete(m.links, name)
	m.linkOrder = removeName(m.linkOrder, name)
	m.invalidate()
	m.logger.Debug("link removed", logging.Link(name))
	return nil
}

// RemoveCurve deletes a curve that no tank, pump or valve uses.
func (m *Model) RemoveCurve(name string) error {
	if _, ok := m.curves[name]; !ok {
		return NewError("remove").Entity("curve", name).Cause(ErrNotFound).Err()
	}
	for _, l := range m.Links() {
		switch v := l.(type) {
		case *Pump:
			if v.HeadCurve == name || v.Efficiency == name {
				return NewError("remove").Entity("curve", name).Ref("pump", v.Name).Cause(ErrInUse).Err()
			}
		case *Valve:
			if v.HeadlossCurve == name {
				return NewError("remove").Entity("curve", name).Ref("valve", v.Name).Cause(ErrInUse).Err()
			}
		}
	}
	for _, t := range m.Tanks() {
		if t.VolCurve == name {
			return NewError("remove").Entity("curve", name).Ref("tank", t.Name).Cause(ErrInUse).Err()
		}
	}
	delete(m.curves, name)
	m.curveOrder = removeName(m.curveOrder, name)
	return nil
}

// RemoveControl deletes a control or rule.
func (m *Model) RemoveControl(name string) error {
	if _, ok := m.controls[name]; !ok {
		return NewError("remove").Entity("control", name).Cause(ErrNotFound).Err()
	}
	m.dropControl(name)
	return nil
}

func (m *Model) dropControl(name string) {
	delete(m.controls, name)
	m.controlOrder = removeName(m.controlOrder, name)
}
