package visualization

import (
	"math"

	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// CircularLayout puts nodes on one ring, walking outward from the sources
// so that linked nodes tend to sit next to each other.
type CircularLayout struct {
	config *LayoutConfig
}

func NewCircularLayout(config *LayoutConfig) *CircularLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &CircularLayout{config: config}
}

func (cl *CircularLayout) ComputeLayout(m *network.Model, nodes []string) (map[string]network.Point, error) {
	positions := make(map[string]network.Point, len(nodes))
	if len(nodes) == 0 {
		return positions, nil
	}

	var ring []string
	for _, level := range levels(m, nodes) {
		ring = append(ring, level...)
	}

	cx, cy := cl.config.Width/2, cl.config.Height/2
	r := math.Min(cx, cy) - cl.config.Padding
	step := 2 * math.Pi / float64(len(ring))
	for i, name := range ring {
		sin, cos := math.Sincos(float64(i) * step)
		positions[name] = network.Point{X: cx + r*cos, Y: cy + r*sin}
	}
	return positions, nil
}
