package visualization

import (
	"sort"

	"github.com/dd0wney/conet/pkg/graph"
)

// HierarchicalLayout arranges nodes in one row per timepoint, earliest on
// top. Within a row ARGs come before MGEs, each ordered by entity ID.
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

// ComputeLayout arranges nodes hierarchically by timepoint. Links are
// ignored; temporal edges always point down the page.
func (hl *HierarchicalLayout) ComputeLayout(nodes []graph.NodeKey, _ []Link) map[graph.NodeKey]Position {
	positions := make(map[graph.NodeKey]Position, len(nodes))
	if len(nodes) == 0 {
		return positions
	}

	levels := make(map[graph.Timepoint][]graph.NodeKey)
	for _, k := range nodes {
		levels[k.Timepoint] = append(levels[k.Timepoint], k)
	}
	order := make([]graph.Timepoint, 0, len(levels))
	for tp := range levels {
		order = append(order, tp)
	}
	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	levelHeight := (hl.config.Height - 2*hl.config.Padding) / float64(len(order))
	levelWidth := hl.config.Width - 2*hl.config.Padding

	for levelIdx, tp := range order {
		level := levels[tp]
		sort.Slice(level, func(i, j int) bool {
			if level[i].IsARG != level[j].IsARG {
				return level[i].IsARG
			}
			return level[i].EntityID < level[j].EntityID
		})

		y := hl.config.Padding + float64(levelIdx)*levelHeight + levelHeight/2
		spacing := levelWidth / float64(len(level)+1)
		for nodeIdx, k := range level {
			positions[k] = Position{X: hl.config.Padding + spacing*float64(nodeIdx+1), Y: y}
		}
	}
	return positions
}
