package visualization

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// Layout names accepted by New.
const (
	Force        = "force"
	Circular     = "circular"
	Hierarchical = "hierarchical"
)

// New returns the layout called name.
func New(name string, config *LayoutConfig) (Layout, error) {
	switch strings.ToLower(name) {
	case Force:
		return NewForceDirectedLayout(config), nil
	case Circular:
		return NewCircularLayout(config), nil
	case Hierarchical:
		return NewHierarchicalLayout(config), nil
	}
	return nil, fmt.Errorf("visualization: unknown layout %q", name)
}

// Unplaced returns the nodes whose coordinates are still the zero point,
// in insertion order.
func Unplaced(m *network.Model) []string {
	var out []string
	for _, n := range m.Nodes() {
		if n.Base().Coordinates == (network.Point{}) {
			out = append(out, n.Base().Name)
		}
	}
	return out
}

// FillCoordinates gives every unplaced node a position from l and returns
// how many were placed. Nodes that already have coordinates keep them; when
// there are any, the new positions are mapped into their bounding box.
func FillCoordinates(m *network.Model, l Layout, logger logging.Logger) (int, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	unplaced := Unplaced(m)
	if len(unplaced) == 0 {
		return 0, nil
	}

	positions, err := l.ComputeLayout(m, unplaced)
	if err != nil {
		return 0, err
	}

	placed := len(unplaced) < len(m.NodeNames())
	if placed {
		positions = fitInto(positions, placedExtent(m))
	}
	for name, p := range positions {
		if n, err := m.Node(name); err == nil {
			n.Base().Coordinates = p
		}
	}
	logger.Info("coordinates generated",
		logging.Count(len(positions)),
		logging.Bool("fitted", placed))
	return len(positions), nil
}

// placedExtent bounds the nodes that already have coordinates.
func placedExtent(m *network.Model) extent {
	e := emptyExtent()
	for _, n := range m.Nodes() {
		if p := n.Base().Coordinates; p != (network.Point{}) {
			e.add(p)
		}
	}
	return e
}

// fitInto rescales positions to span e. A degenerate extent gets a unit
// width or height.
func fitInto(positions map[string]network.Point, e extent) map[string]network.Point {
	w, h := e.size(1)
	out := normalizePositions(positions, w, h, 0)
	for name, p := range out {
		out[name] = network.Point{X: e.minX + p.X, Y: e.minY + p.Y}
	}
	return out
}
