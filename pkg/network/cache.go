package network

// nameCache holds per-type name lists and node adjacency. It is rebuilt on
// first use after any node or link mutation.
type nameCache struct {
	junctions, reservoirs, tanks []string
	pipes, pumps, valves         []string
	adjacency                    map[string][]string
}

func (m *Model) names() *nameCache {
	if m.cache != nil {
		return m.cache
	}

	c := &nameCache{adjacency: make(map[string][]string, len(m.nodes))}
	for _, name := range m.nodeOrder {
		switch m.nodes[name].Type() {
		case JunctionType:
			c.junctions = append(c.junctions, name)
		case ReservoirType:
			c.reservoirs = append(c.reservoirs, name)
		case TankType:
			c.tanks = append(c.tanks, name)
		}
	}
	for _, name := range m.linkOrder {
		l := m.links[name]
		switch l.Type() {
		case PipeType:
			c.pipes = append(c.pipes, name)
		case PumpType:
			c.pumps = append(c.pumps, name)
		case ValveType:
			c.valves = append(c.valves, name)
		}
		b := l.Base()
		c.adjacency[b.StartNode] = append(c.adjacency[b.StartNode], name)
		if b.EndNode != b.StartNode {
			c.adjacency[b.EndNode] = append(c.adjacency[b.EndNode], name)
		}
	}

	m.cache = c
	return c
}
