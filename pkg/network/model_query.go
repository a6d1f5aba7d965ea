package network

// Node returns the node with the given name.
func (m *Model) Node(name string) (Node, error) {
	n, ok := m.nodes[name]
	if !ok {
		return nil, notFoundError("node", name)
	}
	return n, nil
}

// Link returns the link with the given name.
func (m *Model) Link(name string) (Link, error) {
	l, ok := m.links[name]
	if !ok {
		return nil, notFoundError("link", name)
	}
	return l, nil
}

func typedNode[T Node](m *Model, kind, name string) (T, error) {
	var zero T
	n, ok := m.nodes[name]
	if !ok {
		return zero, notFoundError(kind, name)
	}
	t, ok := n.(T)
	if !ok {
		return zero, notFoundError(kind, name)
	}
	return t, nil
}

func typedLink[T Link](m *Model, kind, name string) (T, error) {
	var zero T
	l, ok := m.links[name]
	if !ok {
		return zero, notFoundError(kind, name)
	}
	t, ok := l.(T)
	if !ok {
		return zero, notFoundError(kind, name)
	}
	return t, nil
}

// Junction returns the junction with the given name.
func (m *Model) Junction(name string) (*Junction, error) {
	return typedNode[*Junction](m, "junction", name)
}

// Reservoir returns the reservoir with the given name.
func (m *Model) Reservoir(name string) (*Reservoir, error) {
	return typedNode[*Reservoir](m, "reservoir", name)
}

// Tank returns the tank with the given name.
func (m *Model) Tank(name string) (*Tank, error) {
	return typedNode[*Tank](m, "tank", name)
}

// Pipe returns the pipe with the given name.
func (m *Model) Pipe(name string) (*Pipe, error) {
	return typedLink[*Pipe](m, "pipe", name)
}

// Pump returns the pump with the given name.
func (m *Model) Pump(name string) (*Pump, error) {
	return typedLink[*Pump](m, "pump", name)
}

// Valve returns the valve with the given name.
func (m *Model) Valve(name string) (*Valve, error) {
	return typedLink[*Valve](m, "valve", name)
}

// Curve returns the curve with the given name.
func (m *Model) Curve(name string) (*Curve, error) {
	c, ok := m.curves[name]
	if !ok {
		return nil, notFoundError("curve", name)
	}
	return c, nil
}

// Pattern returns the pattern with the given name.
func (m *Model) Pattern(name string) (*Pattern, error) {
	p, ok := m.patterns[name]
	if !ok {
		return nil, notFoundError("pattern", name)
	}
	return p, nil
}

// Source returns the quality source with the given name.
func (m *Model) Source(name string) (*Source, error) {
	s, ok := m.sources[name]
	if !ok {
		return nil, notFoundError("source", name)
	}
	return s, nil
}

// Control returns the control or rule with the given name.
func (m *Model) Control(name string) (*Control, error) {
	c, ok := m.controls[name]
	if !ok {
		return nil, notFoundError("control", name)
	}
	return c, nil
}

// HasPattern reports whether a pattern exists.
func (m *Model) HasPattern(name string) bool {
	_, ok := m.patterns[name]
	return ok
}

// Nodes returns all nodes in insertion order.
func (m *Model) Nodes() []Node {
	out := make([]Node, len(m.nodeOrder))
	for i, n := range m.nodeOrder {
		out[i] = m.nodes[n]
	}
	return out
}

// Links returns all links in insertion order.
func (m *Model) Links() []Link {
	out := make([]Link, len(m.linkOrder))
	for i, n := range m.linkOrder {
		out[i] = m.links[n]
	}
	return out
}

// Junctions returns all junctions in insertion order.
func (m *Model) Junctions() []*Junction {
	names := m.names().junctions
	out := make([]*Junction, len(names))
	for i, n := range names {
		out[i] = m.nodes[n].(*Junction)
	}
	return out
}

// Reservoirs returns all reservoirs in insertion order.
func (m *Model) Reservoirs() []*Reservoir {
	names := m.names().reservoirs
	out := make([]*Reservoir, len(names))
	for i, n := range names {
		out[i] = m.nodes[n].(*Reservoir)
	}
	return out
}

// Tanks returns all tanks in insertion order.
func (m *Model) Tanks() []*Tank {
	names := m.names().tanks
	out := make([]*Tank, len(names))
	for i, n := range names {
		out[i] = m.nodes[n].(*Tank)
	}
	return out
}

// Pipes returns all pipes in insertion order.
func (m *Model) Pipes() []*Pipe {
	names := m.names().pipes
	out := make([]*Pipe, len(names))
	for i, n := range names {
		out[i] = m.links[n].(*Pipe)
	}
	return out
}

// Pumps returns all pumps in insertion order.
func (m *Model) Pumps() []*Pump {
	names := m.names().pumps
	out := make([]*Pump, len(names))
	for i, n := range names {
		out[i] = m.links[n].(*Pump)
	}
	return out
}

// Valves returns all valves in insertion order.
func (m *Model) Valves() []*Valve {
	names := m.names().valves
	out := make([]*Valve, len(names))
	for i, n := range names {
		out[i] = m.links[n].(*Valve)
	}
	return out
}

// Curves returns all curves in insertion order.
func (m *Model) Curves() []*Curve {
	out := make([]*Curve, len(m.curveOrder))
	for i, n := range m.curveOrder {
		out[i] = m.curves[n]
	}
	return out
}

// Patterns returns all patterns in insertion order.
func (m *Model) Patterns() []*Pattern {
	out := make([]*Pattern, len(m.patternOrder))
	for i, n := range m.patternOrder {
		out[i] = m.patterns[n]
	}
	return out
}

// Sources returns all quality sources in insertion order.
func (m *Model) Sources() []*Source {
	out := make([]*Source, len(m.sourceOrder))
	for i, n := range m.sourceOrder {
		out[i] = m.sources[n]
	}
	return out
}

// Controls returns controls and rules in declaration order.
func (m *Model) Controls() []*Control {
	out := make([]*Control, len(m.controlOrder))
	for i, n := range m.controlOrder {
		out[i] = m.controls[n]
	}
	return out
}

// NodeNames returns all node names in insertion order.
func (m *Model) NodeNames() []string { return append([]string(nil), m.nodeOrder...) }

// LinkNames returns all link names in insertion order.
func (m *Model) LinkNames() []string { return append([]string(nil), m.linkOrder...) }

// JunctionNames returns junction names in insertion order.
func (m *Model) JunctionNames() []string { return append([]string(nil), m.names().junctions...) }

// ReservoirNames returns reservoir names in insertion order.
func (m *Model) ReservoirNames() []string { return append([]string(nil), m.names().reservoirs...) }

// TankNames returns tank names in insertion order.
func (m *Model) TankNames() []string { return append([]string(nil), m.names().tanks...) }

// PipeNames returns pipe names in insertion order.
func (m *Model) PipeNames() []string { return append([]string(nil), m.names().pipes...) }

// PumpNames returns pump names in insertion order.
func (m *Model) PumpNames() []string { return append([]string(nil), m.names().pumps...) }

// ValveNames returns valve names in insertion order.
func (m *Model) ValveNames() []string { return append([]string(nil), m.names().valves...) }

// LinksFor returns the names of links that start or end at node.
func (m *Model) LinksFor(node string) []string {
	return append([]string(nil), m.names().adjacency[node]...)
}

// Counts summarises the size of a model.
type Counts struct {
	Junctions, Reservoirs, Tanks int
	Pipes, Pumps, Valves         int
	Curves, Patterns, Controls   int
	Sources                      int
}

// Counts returns entity totals.
func (m *Model) Counts() Counts {
	c := m.names()
	return Counts{
		Junctions:  len(c.junctions),
		Reservoirs: len(c.reservoirs),
		Tanks:      len(c.tanks),
		Pipes:      len(c.pipes),
		Pumps:      len(c.pumps),
		Valves:     len(c.valves),
		Curves:     len(m.curves),
		Patterns:   len(m.patterns),
		Controls:   len(m.controls),
		Sources:    len(m.sources),
	}
}
