package graph

import (
	"fmt"
	"sort"
)

// Adjacency maps each node to the nodes one edge away, in either direction
// and over both edge kinds. It is derived from a Graph and never mutated on
// its own; rebuild it after the graph changes.
type Adjacency struct {
	neighbors map[NodeKey][]NodeKey
}

// BuildAdjacency derives the adjacency index of g. Every node of g gets an
// entry, isolated nodes included. Neighbor lists are sorted and duplicate
// free. g is not modified.
func BuildAdjacency(g *Graph) *Adjacency {
	sets := make(map[NodeKey]map[NodeKey]struct{}, g.NodeCount())
	for k := range g.nodes {
		sets[k] = make(map[NodeKey]struct{})
	}
	link := func(a, b NodeKey) {
		if _, ok := sets[a]; !ok {
			sets[a] = make(map[NodeKey]struct{})
		}
		sets[a][b] = struct{}{}
	}
	for _, e := range g.edges {
		link(e.Source, e.Target)
		link(e.Target, e.Source)
	}

	adj := &Adjacency{neighbors: make(map[NodeKey][]NodeKey, len(sets))}
	for k, set := range sets {
		list := make([]NodeKey, 0, len(set))
		for n := range set {
			list = append(list, n)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Less(list[j]) })
		adj.neighbors[k] = list
	}
	return adj
}

// Neighbors returns the neighbors of k and whether k has an entry.
func (a *Adjacency) Neighbors(k NodeKey) ([]NodeKey, bool) {
	list, ok := a.neighbors[k]
	return list, ok
}

// MustNeighbors is Neighbors for nodes known to be in the graph the index was
// built from. A missing entry means the index is stale and it panics.
func (a *Adjacency) MustNeighbors(k NodeKey) []NodeKey {
	list, ok := a.neighbors[k]
	if !ok {
		panic(fmt.Sprintf("graph: adjacency has no entry for %s", k))
	}
	return list
}

// Len returns the number of nodes with an entry.
func (a *Adjacency) Len() int { return len(a.neighbors) }

// Degree returns the number of distinct neighbors of k.
func (a *Adjacency) Degree(k NodeKey) int { return len(a.neighbors[k]) }

// Keys returns every node with an entry, sorted.
func (a *Adjacency) Keys() []NodeKey {
	out := make([]NodeKey, 0, len(a.neighbors))
	for k := range a.neighbors {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
