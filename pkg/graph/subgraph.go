package graph

import (
	"github.com/dd0wney/conet/pkg/catalog"
	"github.com/dd0wney/conet/pkg/logging"
)

// NameResolver maps entity names to catalog IDs.
type NameResolver interface {
	ResolveID(kind catalog.Kind, name string) (int, error)
}

// FilterByARGName returns the colocalization edges touching the named ARG
// at any timepoint, together with their endpoints. An unknown name yields
// an empty graph and a warning.
func FilterByARGName(g *Graph, res NameResolver, name string, logger logging.Logger) *Graph {
	return filterByEntityName(g, res, catalog.KindARG, name, logger)
}

// FilterByMGEName is FilterByARGName for MGEs.
func FilterByMGEName(g *Graph, res NameResolver, name string, logger logging.Logger) *Graph {
	return filterByEntityName(g, res, catalog.KindMGE, name, logger)
}

func filterByEntityName(g *Graph, res NameResolver, kind catalog.Kind, name string, logger logging.Logger) *Graph {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	id, err := res.ResolveID(kind, name)
	if err != nil {
		logger.Warn("entity not found, returning empty subgraph",
			logging.String("kind", kind.String()),
			logging.String("name", name),
			logging.Error(err),
		)
		return New()
	}

	isARG := kind == catalog.KindARG
	touches := func(k NodeKey) bool { return k.EntityID == id && k.IsARG == isARG }

	sub := New()
	for _, e := range g.ColocalizationEdges() {
		if touches(e.Source) || touches(e.Target) {
			copyEdge(g, sub, e, e.Patients)
		}
	}
	return sub
}

// FilterByPatients restricts g to the given cohort. Edges keep only the
// cohort's patients and are dropped when none remain; nodes survive only as
// endpoints of kept edges. Temporal edge weights are recomputed from the
// remaining patients.
func FilterByPatients(g *Graph, patients PatientSet) *Graph {
	sub := New()
	for _, e := range g.Edges() {
		kept := make(PatientSet)
		for p := range e.Patients {
			if patients.Has(p) {
				kept.Add(p)
			}
		}
		if kept.Len() == 0 {
			continue
		}
		copyEdge(g, sub, e, kept)
	}
	return sub
}

func copyEdge(from, to *Graph, e *Edge, patients PatientSet) {
	for _, k := range []NodeKey{e.Source, e.Target} {
		if n, ok := from.Node(k); ok {
			to.AddNode(*n)
		} else {
			to.AddNode(Node{NodeKey: k})
		}
	}
	weight := 0
	if !e.IsColo {
		weight = patients.Len()
	}
	// Endpoints were just added.
	_, _ = to.AddEdge(Edge{
		Source:   e.Source,
		Target:   e.Target,
		IsColo:   e.IsColo,
		Patients: patients.Clone(),
		Weight:   weight,
	})
}
