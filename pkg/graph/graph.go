// Package graph implements the typed multigraph of ARG and MGE observations:
// nodes are (entity, kind, timepoint) triples, colocalization edges join an
// ARG and an MGE seen together in a patient at one timepoint, and temporal
// edges follow one entity forward in time.
//
// # Lifecycle
//
// A Graph is filled by a Builder (colocalization edges) and then by
// SynthesizeTemporalEdges, once per run. After that it is treated as
// read-only; none of its methods are safe for concurrent mutation.
package graph

import (
	"sort"
)

// Graph holds deduplicated node and edge containers. Every edge endpoint is
// a node of the graph.
type Graph struct {
	nodes map[NodeKey]*Node
	edges map[EdgeKey]*Edge
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[NodeKey]*Node),
		edges: make(map[EdgeKey]*Edge),
	}
}

// AddNode inserts n unless a node with the same identity exists, and returns
// the stored node. The first insertion wins; nodes are immutable.
func (g *Graph) AddNode(n Node) *Node {
	if existing, ok := g.nodes[n.NodeKey]; ok {
		return existing
	}
	stored := n
	g.nodes[n.NodeKey] = &stored
	return &stored
}

// Node looks up a node by identity.
func (g *Graph) Node(k NodeKey) (*Node, bool) {
	n, ok := g.nodes[k]
	return n, ok
}

// HasNode reports whether k is in the graph.
func (g *Graph) HasNode(k NodeKey) bool {
	_, ok := g.nodes[k]
	return ok
}

func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns every node ordered by NodeKey.Less.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NodeKey.Less(out[j].NodeKey) })
	return out
}

// Edges returns every edge ordered by EdgeKey.Less.
func (g *Graph) Edges() []*Edge {
	return g.collectEdges(func(*Edge) bool { return true })
}

// ColocalizationEdges returns the colocalization edges in key order.
func (g *Graph) ColocalizationEdges() []*Edge {
	return g.collectEdges(func(e *Edge) bool { return e.IsColo })
}

// TemporalEdges returns the temporal edges in key order.
func (g *Graph) TemporalEdges() []*Edge {
	return g.collectEdges(func(e *Edge) bool { return !e.IsColo })
}

func (g *Graph) collectEdges(keep func(*Edge) bool) []*Edge {
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key().Less(out[j].Key()) })
	return out
}

// colocKey canonicalizes a colocalization: the ARG end is the source. For a
// malformed pair of the same kind the smaller key is the source.
func colocKey(a, b NodeKey) EdgeKey {
	switch {
	case a.IsARG && !b.IsARG:
		return EdgeKey{Source: a, Target: b, IsColo: true}
	case !a.IsARG && b.IsARG:
		return EdgeKey{Source: b, Target: a, IsColo: true}
	case b.Less(a):
		return EdgeKey{Source: b, Target: a, IsColo: true}
	}
	return EdgeKey{Source: a, Target: b, IsColo: true}
}

// Edge looks up an edge. Colocalization edges are found from either
// direction, so Edge(b, a, true) returns the same record as Edge(a, b, true).
func (g *Graph) Edge(source, target NodeKey, isColo bool) (*Edge, bool) {
	key := EdgeKey{Source: source, Target: target, IsColo: isColo}
	if isColo {
		key = colocKey(source, target)
	}
	e, ok := g.edges[key]
	return e, ok
}

// addColocalization inserts or updates the colocalization between a and b
// and adds patient to its patient set. Both endpoints must exist. It
// reports whether the patient set changed.
func (g *Graph) addColocalization(a, b NodeKey, patient int) (*Edge, bool, error) {
	key := colocKey(a, b)
	if key.Source.IsARG == key.Target.IsARG || a.Timepoint != b.Timepoint {
		return nil, false, NewError("AddColocalization").Edge(key).
			Context("endpoints must be one ARG and one MGE at the same timepoint").
			Cause(ErrInvalidEdge).Err()
	}
	if err := g.requireEndpoints("AddColocalization", key); err != nil {
		return nil, false, err
	}

	e, ok := g.edges[key]
	if !ok {
		e = &Edge{Source: key.Source, Target: key.Target, IsColo: true, Patients: make(PatientSet)}
		g.edges[key] = e
	}
	return e, e.Patients.Add(patient), nil
}

// addTemporal inserts or updates the temporal edge from -> to and records
// the contributing patients. Weight counts distinct contributing patients;
// an edge added with no patients has weight zero.
func (g *Graph) addTemporal(from, to NodeKey, patients ...int) (*Edge, error) {
	key := EdgeKey{Source: from, Target: to}
	if !from.SameEntity(to) || !from.Timepoint.Before(to.Timepoint) {
		return nil, NewError("AddTemporal").Edge(key).
			Context("endpoints must be one entity, earlier to later").
			Cause(ErrInvalidEdge).Err()
	}
	if err := g.requireEndpoints("AddTemporal", key); err != nil {
		return nil, err
	}

	e, ok := g.edges[key]
	if !ok {
		e = &Edge{Source: from, Target: to, Patients: make(PatientSet)}
		g.edges[key] = e
	}
	for _, p := range patients {
		if e.Patients.Add(p) {
			e.Weight++
		}
	}
	return e, nil
}

func (g *Graph) requireEndpoints(op string, key EdgeKey) error {
	for _, k := range []NodeKey{key.Source, key.Target} {
		if !g.HasNode(k) {
			return NewError(op).Node(k).Cause(ErrNodeNotFound).Err()
		}
	}
	return nil
}

// AddEdge copies e into the graph without structural checks, merging the
// patient set and keeping the larger weight when the edge exists. Both
// endpoints must already be nodes of the graph. It is used for subgraph
// extraction and for loading edges produced elsewhere; malformed edges
// inserted this way are rejected later by traversal.
func (g *Graph) AddEdge(e Edge) (*Edge, error) {
	key := e.Key()
	if e.IsColo {
		key = colocKey(e.Source, e.Target)
	}
	if err := g.requireEndpoints("AddEdge", key); err != nil {
		return nil, err
	}

	stored, ok := g.edges[key]
	if !ok {
		stored = &Edge{Source: key.Source, Target: key.Target, IsColo: key.IsColo, Patients: make(PatientSet)}
		g.edges[key] = stored
	}
	for id := range e.Patients {
		stored.Patients.Add(id)
	}
	if e.Weight > stored.Weight {
		stored.Weight = e.Weight
	}
	return stored, nil
}

// Patients returns every patient appearing on any colocalization edge, in
// ascending order.
func (g *Graph) Patients() []int {
	seen := make(PatientSet)
	for _, e := range g.edges {
		if !e.IsColo {
			continue
		}
		for id := range e.Patients {
			seen.Add(id)
		}
	}
	return seen.Sorted()
}

// NodePatients maps every node that is an endpoint of a colocalization edge
// to the union of the patient sets of those edges.
func (g *Graph) NodePatients() map[NodeKey]PatientSet {
	out := make(map[NodeKey]PatientSet)
	for _, e := range g.edges {
		if !e.IsColo {
			continue
		}
		for _, k := range []NodeKey{e.Source, e.Target} {
			set, ok := out[k]
			if !ok {
				set = make(PatientSet)
				out[k] = set
			}
			for id := range e.Patients {
				set.Add(id)
			}
		}
	}
	return out
}
