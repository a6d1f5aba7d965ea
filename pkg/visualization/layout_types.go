// Package visualization computes map coordinates for network nodes that
// have none, so written INP files carry a usable [COORDINATES] section.
package visualization

import (
	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Number of iterations for iterative algorithms
	Padding    float64 // Padding from edges
	Seed       uint64  // Seed for the initial random placement
}

// Layout places the named nodes of a model on the configured canvas.
type Layout interface {
	ComputeLayout(m *network.Model, nodes []string) (map[string]network.Point, error)
}

// neighbours returns, for every name in nodes, the other members of nodes
// it shares a link with.
func neighbours(m *network.Model, nodes []string) map[string][]string {
	in := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		in[n] = true
	}
	adj := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		for _, name := range m.LinksFor(n) {
			l, err := m.Link(name)
			if err != nil {
				continue
			}
			b := l.Base()
			other := b.EndNode
			if other == n {
				other = b.StartNode
			}
			if other != n && in[other] {
				adj[n] = append(adj[n], other)
			}
		}
	}
	return adj
}
