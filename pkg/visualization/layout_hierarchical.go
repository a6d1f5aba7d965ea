package visualization

import (
	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// HierarchicalLayout arranges nodes in rows by link distance from the
// nearest reservoir or tank, sources in the top row.
type HierarchicalLayout struct {
	config *LayoutConfig
}

// NewHierarchicalLayout creates a new hierarchical layout
func NewHierarchicalLayout(config *LayoutConfig) *HierarchicalLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &HierarchicalLayout{config: config}
}

// ComputeLayout arranges nodes hierarchically
func (hl *HierarchicalLayout) ComputeLayout(m *network.Model, nodes []string) (map[string]network.Point, error) {
	positions := make(map[string]network.Point, len(nodes))
	if len(nodes) == 0 {
		return positions, nil
	}

	rows := levels(m, nodes)
	// Y grows upward on maps, so row 0 is placed highest.
	rowHeight := (hl.config.Height - 2*hl.config.Padding) / float64(len(rows))
	rowWidth := hl.config.Width - 2*hl.config.Padding
	for r, row := range rows {
		y := hl.config.Height - hl.config.Padding - float64(r)*rowHeight - rowHeight/2
		spacing := rowWidth / float64(len(row)+1)
		for i, name := range row {
			positions[name] = network.Point{X: hl.config.Padding + spacing*float64(i+1), Y: y}
		}
	}
	return positions, nil
}
