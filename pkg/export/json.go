package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/dd0wney/conet/pkg/graph"
	"github.com/dd0wney/conet/pkg/visualization"
)

// Meta identifies the run that produced a document.
type Meta struct {
	RunID  string `json:"run_id,omitempty"`
	Layout string `json:"layout,omitempty"`
	Nodes  int    `json:"nodes"`
	Links  int    `json:"links"`
}

// JSONNode is one node of a node-link document.
type JSONNode struct {
	ID        string          `json:"id"`
	Label     string          `json:"label"`
	IsARG     bool            `json:"isARG"`
	EntityID  int             `json:"entityId"`
	Timepoint graph.Timepoint `json:"timepoint"`
	Color     string          `json:"color"`
	Shape     string          `json:"shape"`
	X         *float64        `json:"x,omitempty"`
	Y         *float64        `json:"y,omitempty"`
}

// JSONLink is one edge of a node-link document.
type JSONLink struct {
	Source          string  `json:"source"`
	Target          string  `json:"target"`
	IndividualCount int     `json:"individualCount"`
	Style           string  `json:"style"`
	Color           string  `json:"color"`
	PenWidth        float64 `json:"penwidth"`
	IsColo          bool    `json:"isColo"`
	Type            string  `json:"type"`
}

// Document is a node-link graph as read by d3 and similar tools.
type Document struct {
	Meta  Meta       `json:"meta"`
	Nodes []JSONNode `json:"nodes"`
	Links []JSONLink `json:"links"`
}

// JSONOptions controls the interaction and parent graph exports.
type JSONOptions struct {
	RunID string
	// Layout, when set, adds x/y coordinates to every node.
	Layout     visualization.Layout
	LayoutName string
	// HideLabels blanks parent node labels.
	HideLabels bool
}

// TimepointColor is the JSON fill colour of a timepoint: donor yellow,
// pre-FMT red and post-FMT in three blues by day.
func TimepointColor(tp graph.Timepoint) string {
	switch {
	case tp.IsDonor():
		return "yellow"
	case tp.IsPreFMT():
		return "red"
	case tp <= 30:
		return "#99D2FF"
	case tp <= 60:
		return "#4D9DFF"
	}
	return "#3A6EFF"
}

// TransitionColor colours a temporal link by the phases it joins.
func TransitionColor(from, to graph.Timepoint) string {
	switch {
	case from.IsDonor() && to.IsPreFMT():
		return "#006400"
	case from.IsDonor() && to.IsPostFMT():
		return "#4B0082"
	case from.IsPreFMT() && to.IsPostFMT():
		return "orange"
	}
	return "black"
}

// GroupShape maps an MGE group to a node shape.
func GroupShape(group string) string {
	switch group {
	case "Plasmid", "plasmid":
		return "box"
	case "IS", "Insertion Sequence", "insertion_sequence":
		return "diamond"
	case "ICE", "Transposon", "transposon":
		return "hexagon"
	case "Integron", "integron":
		return "triangle"
	case "Phage", "phage", "Prophage":
		return "star"
	}
	return "ellipse"
}

// penWidth grows with the number of contributing patients, from 4 to 10.
func penWidth(count int) float64 {
	w := 4.0
	if count > 1 {
		w += float64(count-1) * 2
	}
	return math.Min(10, w)
}

// BuildInteractionDocument converts g into a node-link document. Only nodes
// touched by an edge are included.
func BuildInteractionDocument(g *graph.Graph, names Namer, opts JSONOptions) Document {
	edges := g.Edges()
	doc := Document{Nodes: []JSONNode{}, Links: make([]JSONLink, 0, len(edges))}
	active := make(map[graph.NodeKey]bool)

	for _, e := range edges {
		if e.Source == e.Target {
			continue
		}
		active[e.Source] = true
		active[e.Target] = true

		link := JSONLink{
			Source:          NodeID(e.Source),
			Target:          NodeID(e.Target),
			IndividualCount: e.Patients.Len(),
			IsColo:          e.IsColo,
		}
		if e.IsColo {
			link.Style, link.Color, link.Type = "solid", "#696969", "colocalization"
			link.PenWidth = penWidth(e.Patients.Len())
		} else {
			link.Style, link.Type = "dashed", "temporal"
			link.Color = TransitionColor(e.Source.Timepoint, e.Target.Timepoint)
			link.PenWidth = penWidth(e.Weight)
		}
		doc.Links = append(doc.Links, link)
	}

	keys := make([]graph.NodeKey, 0, len(active))
	for k := range active {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	var positions map[graph.NodeKey]visualization.Position
	if opts.Layout != nil {
		positions = opts.Layout.ComputeLayout(keys, visualization.LinksOf(g, active))
	}

	for _, k := range keys {
		shape := "circle"
		if !k.IsARG {
			shape = GroupShape(names.MGEGroup(k.EntityID))
		}
		node := JSONNode{
			ID:        NodeID(k),
			Label:     Label(names, k),
			IsARG:     k.IsARG,
			EntityID:  k.EntityID,
			Timepoint: k.Timepoint,
			Color:     TimepointColor(k.Timepoint),
			Shape:     shape,
		}
		if pos, ok := positions[k]; ok {
			x, y := pos.X, pos.Y
			node.X, node.Y = &x, &y
		}
		doc.Nodes = append(doc.Nodes, node)
	}

	doc.Meta = Meta{RunID: opts.RunID, Layout: opts.LayoutName, Nodes: len(doc.Nodes), Links: len(doc.Links)}
	return doc
}

// ParentNode is one (ARG, MGE, timepoint) colocalization.
type ParentNode struct {
	ID        string          `json:"id"`
	Label     string          `json:"label"`
	ARGID     int             `json:"argId"`
	MGEID     int             `json:"mgeId"`
	Timepoint graph.Timepoint `json:"timepoint"`
	Patients  int             `json:"patients"`
	Color     string          `json:"color"`
	Shape     string          `json:"shape"`
}

// ParentLink joins consecutive parents of one pair.
type ParentLink struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Style    string  `json:"style"`
	Color    string  `json:"color"`
	PenWidth float64 `json:"penwidth"`
	IsColo   bool    `json:"isColo"`
	Type     string  `json:"type"`
}

// ParentDocument is the collapsed graph in which each colocalization is a
// node and time runs along the links.
type ParentDocument struct {
	Meta  Meta         `json:"meta"`
	Nodes []ParentNode `json:"nodes"`
	Links []ParentLink `json:"links"`
}

// BuildParentDocument collapses every colocalization edge of g into a
// parent node named Parent_<n> in edge order, then links the parents of
// each (ARG, MGE) pair in chronological order.
func BuildParentDocument(g *graph.Graph, names Namer, opts JSONOptions) ParentDocument {
	doc := ParentDocument{Nodes: []ParentNode{}, Links: []ParentLink{}}

	type pair struct{ arg, mge int }
	type parent struct {
		id string
		tp graph.Timepoint
	}
	byPair := make(map[pair][]parent)
	var pairs []pair

	for _, e := range g.ColocalizationEdges() {
		argKey, mgeKey, ok := e.Endpoints()
		if !ok || argKey.Timepoint != mgeKey.Timepoint {
			continue
		}
		tp := argKey.Timepoint
		id := fmt.Sprintf("Parent_%d", len(doc.Nodes)+1)

		label := ""
		if !opts.HideLabels {
			label = names.ARGName(argKey.EntityID) + "\n" + names.MGELabel(mgeKey.EntityID) + "\n" + tp.String()
		}
		doc.Nodes = append(doc.Nodes, ParentNode{
			ID:        id,
			Label:     label,
			ARGID:     argKey.EntityID,
			MGEID:     mgeKey.EntityID,
			Timepoint: tp,
			Patients:  e.Patients.Len(),
			Color:     TimepointColor(tp),
			Shape:     GroupShape(names.MGEGroup(mgeKey.EntityID)),
		})

		p := pair{argKey.EntityID, mgeKey.EntityID}
		if _, seen := byPair[p]; !seen {
			pairs = append(pairs, p)
		}
		byPair[p] = append(byPair[p], parent{id: id, tp: tp})
	}

	for _, p := range pairs {
		parents := byPair[p]
		sort.SliceStable(parents, func(i, j int) bool { return parents[i].tp.Before(parents[j].tp) })
		for i := 0; i+1 < len(parents); i++ {
			from, to := parents[i], parents[i+1]
			doc.Links = append(doc.Links, ParentLink{
				Source:   from.id,
				Target:   to.id,
				Style:    "dashed",
				Color:    TransitionColor(from.tp, to.tp),
				PenWidth: 5,
				Type:     "temporal",
			})
		}
	}

	doc.Meta = Meta{RunID: opts.RunID, Nodes: len(doc.Nodes), Links: len(doc.Links)}
	return doc
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
