package visualization

import (
	"math"
	"math/rand/v2"

	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// ForceDirectedLayout implements force-directed graph layout
type ForceDirectedLayout struct {
	config *LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config *LayoutConfig) *ForceDirectedLayout {
	if config.Iterations == 0 {
		config.Iterations = 50
	}
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &ForceDirectedLayout{config: config}
}

// ComputeLayout computes positions using a spring-embedder over the links
// between the given nodes. Equal seeds give equal layouts.
func (fdl *ForceDirectedLayout) ComputeLayout(m *network.Model, nodes []string) (map[string]network.Point, error) {
	cfg := fdl.config
	if len(nodes) == 0 {
		return make(map[string]network.Point), nil
	}
	if len(nodes) == 1 {
		return map[string]network.Point{
			nodes[0]: {X: cfg.Width / 2, Y: cfg.Height / 2},
		}, nil
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	positions := make(map[string]network.Point, len(nodes))
	for _, name := range nodes {
		positions[name] = network.Point{
			X: rng.Float64()*(cfg.Width-2*cfg.Padding) + cfg.Padding,
			Y: rng.Float64()*(cfg.Height-2*cfg.Padding) + cfg.Padding,
		}
	}
	adj := neighbours(m, nodes)

	k := math.Sqrt((cfg.Width * cfg.Height) / float64(len(nodes))) // optimal distance
	temperature := cfg.Width / 10.0

	for iter := 0; iter < cfg.Iterations; iter++ {
		forces := make(map[string]network.Point, len(nodes))

		// Repulsion between all pairs
		for i, a := range nodes {
			for _, b := range nodes[i+1:] {
				dx := positions[a].X - positions[b].X
				dy := positions[a].Y - positions[b].Y
				dist := math.Max(math.Sqrt(dx*dx+dy*dy), 0.01)

				force := (k * k) / dist
				fx := (dx / dist) * force
				fy := (dy / dist) * force
				forces[a] = network.Point{X: forces[a].X + fx, Y: forces[a].Y + fy}
				forces[b] = network.Point{X: forces[b].X - fx, Y: forces[b].Y - fy}
			}
		}

		// Attraction along links
		for _, a := range nodes {
			for _, b := range adj[a] {
				dx := positions[a].X - positions[b].X
				dy := positions[a].Y - positions[b].Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < 0.01 {
					continue
				}
				force := (dist * dist) / k
				forces[a] = network.Point{
					X: forces[a].X - (dx/dist)*force,
					Y: forces[a].Y - (dy/dist)*force,
				}
			}
		}

		cool := 1.0 - float64(iter)/float64(cfg.Iterations)
		for _, name := range nodes {
			f := forces[name]
			force := math.Sqrt(f.X*f.X + f.Y*f.Y)
			if force > 0 {
				step := math.Min(force, temperature) * cool
				positions[name] = network.Point{
					X: positions[name].X + (f.X/force)*step,
					Y: positions[name].Y + (f.Y/force)*step,
				}
			}
		}
		temperature *= 0.95
	}

	return normalizePositions(positions, cfg.Width, cfg.Height, cfg.Padding), nil
}
