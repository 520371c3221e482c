package graph

import (
	"fmt"
	"sort"
	"strings"
)

// TemporalStrategy selects how temporal edges are derived from the
// colocalization edges.
type TemporalStrategy int

const (
	// TemporalAdjacent links, for each patient, only chronologically
	// consecutive observations of an entity.
	TemporalAdjacent TemporalStrategy = iota
	// TemporalAllPairs links every earlier observation of an entity to every
	// later one, regardless of patient. An edge's patients are those seen at
	// both ends.
	TemporalAllPairs
)

func (s TemporalStrategy) String() string {
	switch s {
	case TemporalAdjacent:
		return "adjacent"
	case TemporalAllPairs:
		return "all_pairs"
	}
	return fmt.Sprintf("TemporalStrategy(%d)", int(s))
}

// ParseTemporalStrategy accepts "adjacent" (or "") and "all_pairs".
func ParseTemporalStrategy(s string) (TemporalStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "adjacent":
		return TemporalAdjacent, nil
	case "all_pairs", "all-pairs", "allpairs":
		return TemporalAllPairs, nil
	}
	return 0, fmt.Errorf("graph: unknown temporal strategy %q", s)
}

type entityKey struct {
	id    int
	isARG bool
}

func entityOf(k NodeKey) entityKey { return entityKey{id: k.EntityID, isARG: k.IsARG} }

// SynthesizeTemporalEdges adds temporal edges derived from the colocalization
// edges already in g and returns how many new edges were created. Calling it
// again on the same graph adds nothing.
func SynthesizeTemporalEdges(g *Graph, strategy TemporalStrategy) int {
	before := g.EdgeCount()
	switch strategy {
	case TemporalAllPairs:
		synthesizeAllPairs(g)
	default:
		synthesizeAdjacent(g)
	}
	return g.EdgeCount() - before
}

func synthesizeAdjacent(g *Graph) {
	perPatient := make(map[int]map[NodeKey]struct{})
	for _, e := range g.ColocalizationEdges() {
		if _, _, ok := e.Endpoints(); !ok {
			continue
		}
		for p := range e.Patients {
			nodes, ok := perPatient[p]
			if !ok {
				nodes = make(map[NodeKey]struct{})
				perPatient[p] = nodes
			}
			nodes[e.Source] = struct{}{}
			nodes[e.Target] = struct{}{}
		}
	}

	patients := make([]int, 0, len(perPatient))
	for p := range perPatient {
		patients = append(patients, p)
	}
	sort.Ints(patients)

	for _, p := range patients {
		for _, series := range groupByEntity(perPatient[p]) {
			for i := 1; i < len(series); i++ {
				// Endpoints exist and series is strictly increasing in time.
				_, _ = g.addTemporal(series[i-1], series[i], p)
			}
		}
	}
}

func synthesizeAllPairs(g *Graph) {
	nodePatients := g.NodePatients()
	nodes := make(map[NodeKey]struct{}, len(nodePatients))
	for k := range nodePatients {
		nodes[k] = struct{}{}
	}

	for _, series := range groupByEntity(nodes) {
		for i := 0; i < len(series); i++ {
			for j := i + 1; j < len(series); j++ {
				var shared []int
				for _, p := range nodePatients[series[i]].Sorted() {
					if nodePatients[series[j]].Has(p) {
						shared = append(shared, p)
					}
				}
				_, _ = g.addTemporal(series[i], series[j], shared...)
			}
		}
	}
}

// groupByEntity buckets nodes by (entity, kind) and returns each bucket in
// chronological order. Buckets come back in a deterministic order.
func groupByEntity(nodes map[NodeKey]struct{}) [][]NodeKey {
	groups := make(map[entityKey][]NodeKey)
	for k := range nodes {
		ek := entityOf(k)
		groups[ek] = append(groups[ek], k)
	}

	keys := make([]entityKey, 0, len(groups))
	for ek := range groups {
		keys = append(keys, ek)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].id != keys[j].id {
			return keys[i].id < keys[j].id
		}
		return !keys[i].isARG && keys[j].isARG
	})

	out := make([][]NodeKey, 0, len(keys))
	for _, ek := range keys {
		series := groups[ek]
		sort.Slice(series, func(i, j int) bool { return series[i].Timepoint < series[j].Timepoint })
		out = append(out, series)
	}
	return out
}
