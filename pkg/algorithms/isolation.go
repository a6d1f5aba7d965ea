package algorithms

import (
	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// IsolatedNodes returns the nodes that cannot reach any reservoir or tank
// through links accepted by filter, in insertion order.
func IsolatedNodes(m *network.Model, filter LinkFilter) []string {
	res := ConnectedComponents(m, filter)
	var out []string
	for _, name := range m.NodeNames() {
		if !res.Components[res.NodeComponent[name]].HasSource {
			out = append(out, name)
		}
	}
	return out
}

// IsolatedLinks returns the links with at least one isolated end node.
func IsolatedLinks(m *network.Model, isolated []string) []string {
	set := make(map[string]bool, len(isolated))
	for _, n := range isolated {
		set[n] = true
	}
	var out []string
	for _, l := range m.Links() {
		b := l.Base()
		if set[b.StartNode] || set[b.EndNode] {
			out = append(out, b.Name)
		}
	}
	return out
}

// MarkIsolated flags isolated nodes and the links touching them as inactive
// so writers skip them, and re-activates everything else. It returns the
// number of nodes and links marked inactive.
func MarkIsolated(m *network.Model, filter LinkFilter) (nodes, links int) {
	isolated := IsolatedNodes(m, filter)
	isolatedLinks := IsolatedLinks(m, isolated)

	off := make(map[string]bool, len(isolated))
	for _, n := range isolated {
		off[n] = true
	}
	for _, n := range m.Nodes() {
		n.Base().SetActive(!off[n.Base().Name])
	}

	offLinks := make(map[string]bool, len(isolatedLinks))
	for _, l := range isolatedLinks {
		offLinks[l] = true
	}
	for _, l := range m.Links() {
		l.Base().SetActive(!offLinks[l.Base().Name])
	}

	if len(isolated) > 0 {
		m.Logger().Info("isolated entities marked inactive",
			logging.Int("nodes", len(isolated)),
			logging.Int("links", len(isolatedLinks)))
	}
	return len(isolated), len(isolatedLinks)
}
