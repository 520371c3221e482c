package traversal

import (
	"sort"

	"github.com/dd0wney/conet/pkg/graph"
	"github.com/dd0wney/conet/pkg/logging"
)

func nopIfNil(logger logging.Logger) logging.Logger {
	if logger == nil {
		return logging.NewNopLogger()
	}
	return logger
}

// wellFormed yields the colocalization edges of g with one ARG and one MGE
// end, in key order. Malformed edges are reported once each through logger
// and left out.
func wellFormed(g *graph.Graph, logger logging.Logger, visit func(e *graph.Edge, arg, mge graph.NodeKey)) {
	for _, e := range g.ColocalizationEdges() {
		arg, mge, ok := e.Endpoints()
		if !ok || arg.Timepoint != mge.Timepoint {
			logger.Warn("skipping malformed colocalization edge",
				logging.String("edge", e.Key().String()),
				logging.Int("patients", e.Patients.Len()),
			)
			continue
		}
		visit(e, arg, mge)
	}
}

// TraverseGraph reads the timeline directly off the colocalization edges:
// for each edge and each patient on it, the edge's timepoint is recorded
// under (patient, ARG, MGE).
func TraverseGraph(g *graph.Graph, logger logging.Logger) Timeline {
	logger = nopIfNil(logger)
	out := make(Timeline)
	wellFormed(g, logger, func(e *graph.Edge, arg, mge graph.NodeKey) {
		for p := range e.Patients {
			out.Add(TripleKey{PatientID: p, ARGID: arg.EntityID, MGEID: mge.EntityID}, arg.Timepoint)
		}
	})
	return out
}

// FirstOccurrences returns, for each (patient, ARG, MGE) triple, the
// earliest timepoint at which that patient carried the pair.
func FirstOccurrences(g *graph.Graph, logger logging.Logger) map[TripleKey]graph.Timepoint {
	logger = nopIfNil(logger)
	out := make(map[TripleKey]graph.Timepoint)
	wellFormed(g, logger, func(e *graph.Edge, arg, mge graph.NodeKey) {
		for p := range e.Patients {
			key := TripleKey{PatientID: p, ARGID: arg.EntityID, MGEID: mge.EntityID}
			if first, ok := out[key]; !ok || arg.Timepoint < first {
				out[key] = arg.Timepoint
			}
		}
	})
	return out
}

// pairFirstOccurrences is FirstOccurrences without the patient.
func pairFirstOccurrences(g *graph.Graph, logger logging.Logger) map[PairKey]graph.Timepoint {
	out := make(map[PairKey]graph.Timepoint)
	wellFormed(g, logger, func(e *graph.Edge, arg, mge graph.NodeKey) {
		key := PairKey{ARGID: arg.EntityID, MGEID: mge.EntityID}
		if first, ok := out[key]; !ok || arg.Timepoint < first {
			out[key] = arg.Timepoint
		}
	})
	return out
}

// TraverseByIndividual builds the timeline by walking the graph. For each
// (patient, ARG, MGE) triple it starts at the ARG node of the first
// occurrence and walks breadth first over edges carrying that patient,
// staying on the triple's ARG and MGE and never stepping back in time.
// Every colocalization edge of the pair crossed on the way contributes its
// timepoint.
//
// adj must have been built from g; a node without an adjacency entry
// panics.
func TraverseByIndividual(g *graph.Graph, adj *graph.Adjacency, logger logging.Logger) Timeline {
	logger = nopIfNil(logger)
	out := make(Timeline)
	firsts := FirstOccurrences(g, logger)

	keys := make([]TripleKey, 0, len(firsts))
	for k := range firsts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	for _, key := range keys {
		w := walker{
			g:       g,
			adj:     adj,
			argID:   key.ARGID,
			mgeID:   key.MGEID,
			patient: key.PatientID,
			scoped:  true,
		}
		for _, tp := range w.walk(graph.ARGNode(key.ARGID, firsts[key])) {
			out.Add(key, tp)
		}
	}
	return out
}

// TraversePairs is TraverseByIndividual without patient scoping: it starts
// each ARG-MGE pair at its earliest occurrence in any patient and follows
// edges of every patient. The result holds the timepoints reachable from
// that first occurrence.
func TraversePairs(g *graph.Graph, adj *graph.Adjacency, logger logging.Logger) PairTimeline {
	logger = nopIfNil(logger)
	out := make(PairTimeline)
	firsts := pairFirstOccurrences(g, logger)

	keys := make([]PairKey, 0, len(firsts))
	for k := range firsts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	for _, key := range keys {
		w := walker{g: g, adj: adj, argID: key.ARGID, mgeID: key.MGEID}
		for _, tp := range w.walk(graph.ARGNode(key.ARGID, firsts[key])) {
			out.add(key, tp)
		}
	}
	return out
}

type walker struct {
	g       *graph.Graph
	adj     *graph.Adjacency
	argID   int
	mgeID   int
	patient int
	scoped  bool
}

func (w *walker) onPair(k graph.NodeKey) bool {
	if k.IsARG {
		return k.EntityID == w.argID
	}
	return k.EntityID == w.mgeID
}

func (w *walker) carries(e *graph.Edge) bool {
	return !w.scoped || e.HasPatient(w.patient)
}

// step returns the edge usable to move from u to v, or nil.
func (w *walker) step(u, v graph.NodeKey) (*graph.Edge, bool) {
	if u.IsARG != v.IsARG {
		e, ok := w.g.Edge(u, v, true)
		if !ok || !w.carries(e) {
			return nil, false
		}
		if _, _, wf := e.Endpoints(); !wf {
			return nil, false
		}
		return e, true
	}
	e, ok := w.g.Edge(u, v, false)
	if !ok || !w.carries(e) {
		return nil, false
	}
	return e, false
}

// walk runs the forward-in-time BFS from start and returns the timepoints of
// the pair's colocalization edges it crossed, in the order first seen.
func (w *walker) walk(start graph.NodeKey) []graph.Timepoint {
	visited := map[graph.NodeKey]bool{start: true}
	queue := []graph.NodeKey{start}
	recorded := make(TimepointSet)
	var order []graph.Timepoint

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for _, v := range w.adj.MustNeighbors(u) {
			if v.Timepoint < u.Timepoint || !w.onPair(v) {
				continue
			}
			e, colo := w.step(u, v)
			if e == nil {
				continue
			}
			if colo && !recorded.Has(u.Timepoint) {
				recorded.Add(u.Timepoint)
				order = append(order, u.Timepoint)
			}
			if visited[v] {
				continue
			}
			visited[v] = true
			queue = append(queue, v)
		}
	}
	return order
}
