package visualization

import (
	"math"

	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// extent is an axis-aligned bounding box in map units.
type extent struct{ minX, minY, maxX, maxY float64 }

func emptyExtent() extent {
	return extent{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
}

func (e *extent) add(p network.Point) {
	e.minX, e.maxX = math.Min(e.minX, p.X), math.Max(e.maxX, p.X)
	e.minY, e.maxY = math.Min(e.minY, p.Y), math.Max(e.maxY, p.Y)
}

// size returns the width and height, with spans under floor raised to
// floor so collinear or single points still scale.
func (e extent) size(floor float64) (w, h float64) {
	return math.Max(e.maxX-e.minX, floor), math.Max(e.maxY-e.minY, floor)
}

// normalizePositions maps positions onto [padding, width-padding] by
// [padding, height-padding].
func normalizePositions(positions map[string]network.Point, width, height, padding float64) map[string]network.Point {
	if len(positions) == 0 {
		return positions
	}
	e := emptyExtent()
	for _, p := range positions {
		e.add(p)
	}
	spanX, spanY := e.size(0.01)
	sx := (width - 2*padding) / spanX
	sy := (height - 2*padding) / spanY

	out := make(map[string]network.Point, len(positions))
	for name, p := range positions {
		out[name] = network.Point{
			X: padding + (p.X-e.minX)*sx,
			Y: padding + (p.Y-e.minY)*sy,
		}
	}
	return out
}

func distance(a, b network.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// levels groups nodes by link hops from the reservoirs and tanks among
// them, or from the first node when there are none. Nodes no source reaches
// form a final group in input order.
func levels(m *network.Model, nodes []string) [][]string {
	if len(nodes) == 0 {
		return nil
	}
	var roots []string
	for _, name := range nodes {
		if n, err := m.Node(name); err == nil && n.Type() != network.JunctionType {
			roots = append(roots, name)
		}
	}
	if len(roots) == 0 {
		roots = nodes[:1]
	}

	adj := neighbours(m, nodes)
	seen := make(map[string]bool, len(nodes))
	for _, r := range roots {
		seen[r] = true
	}
	var out [][]string
	for level := roots; len(level) > 0; {
		out = append(out, level)
		var next []string
		for _, name := range level {
			for _, other := range adj[name] {
				if !seen[other] {
					seen[other] = true
					next = append(next, other)
				}
			}
		}
		level = next
	}

	var cut []string
	for _, name := range nodes {
		if !seen[name] {
			cut = append(cut, name)
		}
	}
	if len(cut) > 0 {
		out = append(out, cut)
	}
	return out
}
