// Package algorithms runs graph searches over a water network.
package algorithms

import (
	"container/list"

	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// Component is one connected group of nodes.
type Component struct {
	ID    int
	Nodes []string
	Size  int
	// HasSource is true when the component holds a reservoir or tank.
	HasSource bool
}

// ComponentResult lists the components of a network.
type ComponentResult struct {
	Components    []*Component
	NodeComponent map[string]int // node name -> component ID
}

// LinkFilter decides whether a link can carry flow during a search.
type LinkFilter func(network.Link) bool

// AllLinks accepts every link.
func AllLinks(network.Link) bool { return true }

// OpenLinks rejects links whose initial status is closed.
func OpenLinks(l network.Link) bool {
	return l.Base().InitialStatus != network.Closed
}

// ConnectedComponents finds the connected components of m, ignoring link
// direction. Only links accepted by filter join nodes.
func ConnectedComponents(m *network.Model, filter LinkFilter) *ComponentResult {
	if filter == nil {
		filter = AllLinks
	}

	visited := make(map[string]bool)
	nodeComponent := make(map[string]int)
	components := make([]*Component, 0)

	// BFS to find each component
	for _, start := range m.NodeNames() {
		if visited[start] {
			continue
		}

		component := &Component{ID: len(components)}

		queue := list.New()
		queue.PushBack(start)
		visited[start] = true

		for queue.Len() > 0 {
			name, ok := queue.Remove(queue.Front()).(string)
			if !ok {
				continue
			}
			component.Nodes = append(component.Nodes, name)
			nodeComponent[name] = component.ID

			if n, err := m.Node(name); err == nil && n.Type() != network.JunctionType {
				component.HasSource = true
			}

			for _, linkName := range m.LinksFor(name) {
				l, err := m.Link(linkName)
				if err != nil || !filter(l) {
					continue
				}
				b := l.Base()
				next := b.EndNode
				if next == name {
					next = b.StartNode
				}
				if !visited[next] {
					visited[next] = true
					queue.PushBack(next)
				}
			}
		}

		component.Size = len(component.Nodes)
		components = append(components, component)
	}

	return &ComponentResult{
		Components:    components,
		NodeComponent: nodeComponent,
	}
}
