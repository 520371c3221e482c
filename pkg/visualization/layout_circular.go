package visualization

import (
	"math"

	"github.com/dd0wney/conet/pkg/graph"
)

// CircularLayout arranges nodes in a circle
type CircularLayout struct {
	config *LayoutConfig
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout(config *LayoutConfig) *CircularLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &CircularLayout{config: config}
}

// ComputeLayout places nodes evenly on a circle in the order given. Links
// are ignored.
func (cl *CircularLayout) ComputeLayout(nodes []graph.NodeKey, _ []Link) map[graph.NodeKey]Position {
	positions := make(map[graph.NodeKey]Position, len(nodes))
	if len(nodes) == 0 {
		return positions
	}

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	radius := math.Min(centerX, centerY) - cl.config.Padding

	angleStep := 2 * math.Pi / float64(len(nodes))
	for i, k := range nodes {
		angle := float64(i) * angleStep
		positions[k] = Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}
	return positions
}
