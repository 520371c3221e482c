// Package visualization computes 2D positions for graph exports.
package visualization

import (
	"errors"
	"fmt"

	"github.com/dd0wney/conet/pkg/graph"
)

var ErrUnknownLayout = errors.New("unknown layout")

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Number of iterations for iterative algorithms
	Padding    float64 // Padding from edges
	Seed       int64   // Seed for randomized starting positions
}

// Link is an undirected connection between two laid-out nodes.
type Link struct {
	A, B graph.NodeKey
}

// Layout interface for different layout algorithms
type Layout interface {
	ComputeLayout(nodes []graph.NodeKey, links []Link) map[graph.NodeKey]Position
}

// Layout names accepted by New.
const (
	LayoutCircular     = "circular"
	LayoutForce        = "force"
	LayoutHierarchical = "hierarchical"
)

// New returns the layout registered under name.
func New(name string, config *LayoutConfig) (Layout, error) {
	if config.Width == 0 {
		config.Width = 1000
	}
	if config.Height == 0 {
		config.Height = 1000
	}
	switch name {
	case LayoutCircular, "":
		return NewCircularLayout(config), nil
	case LayoutForce:
		return NewForceDirectedLayout(config), nil
	case LayoutHierarchical:
		return NewHierarchicalLayout(config), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
}
