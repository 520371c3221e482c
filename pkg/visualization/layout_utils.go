package visualization

import (
	"math"

	"github.com/dd0wney/conet/pkg/graph"
)

// LinksOf returns one link per edge of g whose endpoints are both in keep.
// A nil keep accepts every edge.
func LinksOf(g *graph.Graph, keep map[graph.NodeKey]bool) []Link {
	edges := g.Edges()
	links := make([]Link, 0, len(edges))
	for _, e := range edges {
		if keep != nil && (!keep[e.Source] || !keep[e.Target]) {
			continue
		}
		links = append(links, Link{A: e.Source, B: e.Target})
	}
	return links
}

// normalizePositions scales positions to fit within bounds
func normalizePositions(positions map[graph.NodeKey]Position, width, height, padding float64) map[graph.NodeKey]Position {
	if len(positions) == 0 {
		return positions
	}

	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	for _, pos := range positions {
		minX = math.Min(minX, pos.X)
		maxX = math.Max(maxX, pos.X)
		minY = math.Min(minY, pos.Y)
		maxY = math.Max(maxY, pos.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX < 0.01 {
		rangeX = 1
	}
	if rangeY < 0.01 {
		rangeY = 1
	}

	targetWidth := width - 2*padding
	targetHeight := height - 2*padding

	normalized := make(map[graph.NodeKey]Position, len(positions))
	for k, pos := range positions {
		normalized[k] = Position{
			X: padding + ((pos.X-minX)/rangeX)*targetWidth,
			Y: padding + ((pos.Y-minY)/rangeY)*targetHeight,
		}
	}
	return normalized
}
