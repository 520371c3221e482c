package export

import (
	"fmt"
	"io"

	"github.com/dd0wney/conet/pkg/graph"
)

// DOTOptions caps the size of a DOT export. Zero means no cap.
type DOTOptions struct {
	MaxNodes int
	MaxEdges int
}

// DOTStats reports what a DOT export contained.
type DOTStats struct {
	Nodes int
	Edges int
}

// dotNodeColor fills nodes by phase.
func dotNodeColor(tp graph.Timepoint) string {
	switch {
	case tp.IsDonor():
		return "yellow"
	case tp.IsPreFMT():
		return "blue"
	}
	return "green"
}

// WriteDOT writes g as an undirected Graphviz graph. Nodes are taken in key
// order up to MaxNodes; an edge is written only when both endpoints were,
// up to MaxEdges. ARGs are circles and MGEs boxes; colocalization edges are
// solid blue and temporal edges dashed red.
func WriteDOT(w io.Writer, g *graph.Graph, opts DOTOptions) (DOTStats, error) {
	var stats DOTStats
	ew := &errWriter{w: w}

	ew.printf("graph G {\n")
	ew.printf("  layout=circo;\n")
	ew.printf("  node [style=filled];\n")

	included := make(map[graph.NodeKey]bool)
	for _, n := range g.Nodes() {
		if opts.MaxNodes > 0 && stats.Nodes >= opts.MaxNodes {
			break
		}
		shape := "box"
		if n.IsARG {
			shape = "circle"
		}
		ew.printf("  %s [label=\"\", shape=%s, fixedsize=true, width=0.5, height=0.5, fillcolor=%s]\n",
			NodeID(n.NodeKey), shape, dotNodeColor(n.Timepoint))
		included[n.NodeKey] = true
		stats.Nodes++
	}

	for _, e := range g.Edges() {
		if opts.MaxEdges > 0 && stats.Edges >= opts.MaxEdges {
			break
		}
		if !included[e.Source] || !included[e.Target] {
			continue
		}
		style, color := "solid", "blue"
		if !e.IsColo {
			style, color = "dashed", "red"
		}
		ew.printf("  %s -- %s [style=%s, color=%s]\n", NodeID(e.Source), NodeID(e.Target), style, color)
		stats.Edges++
	}

	ew.printf("}\n")
	return stats, ew.err
}

// errWriter remembers the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
