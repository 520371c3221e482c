package graph

import (
	"testing"

	"github.com/dd0wney/conet/pkg/logging"
)

func sampleGraph(t *testing.T) *Graph {
	g := New()
	colo(t, g, 1, 10, 20, PreFMT)
	colo(t, g, 1, 10, 20, PostFMT(7))
	colo(t, g, 2, 11, 20, PreFMT)
	colo(t, g, 2, 11, 21, PostFMT(7))
	colo(t, g, 3, 10, 21, Donor)
	SynthesizeTemporalEdges(g, TemporalAdjacent)
	return g
}

func TestFilterByARGName(t *testing.T) {
	g := sampleGraph(t)
	sub := FilterByARGName(g, testCatalog(t), "tetM", nil)

	if got := len(sub.ColocalizationEdges()); got != 3 {
		t.Errorf("colocalization edges = %d, want 3", got)
	}
	if got := len(sub.TemporalEdges()); got != 0 {
		t.Errorf("temporal edges = %d, want 0", got)
	}
	for _, e := range sub.Edges() {
		if e.Source.EntityID != 10 {
			t.Errorf("edge %s does not touch tetM", e.Key())
		}
	}
	if !sub.HasNode(MGENode(21, Donor)) {
		t.Error("endpoint node missing")
	}
}

func TestFilterByMGEName(t *testing.T) {
	g := sampleGraph(t)
	sub := FilterByMGEName(g, testCatalog(t), "IS26", nil)

	if got := len(sub.ColocalizationEdges()); got != 2 {
		t.Errorf("colocalization edges = %d, want 2", got)
	}
	if sub.NodeCount() != 4 {
		t.Errorf("nodes = %d, want 4", sub.NodeCount())
	}
}

func TestFilterByUnknownNameWarns(t *testing.T) {
	rec := logging.NewRecorder(logging.DebugLevel)
	sub := FilterByARGName(sampleGraph(t), testCatalog(t), "nope", rec)

	if sub.NodeCount() != 0 || sub.EdgeCount() != 0 {
		t.Error("unknown name produced a non-empty subgraph")
	}
	if rec.Count(logging.WarnLevel) != 1 {
		t.Error("expected one warning")
	}
}

func TestFilterByPatients(t *testing.T) {
	g := sampleGraph(t)
	sub := FilterByPatients(g, NewPatientSet(1))

	if got := sub.Patients(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("patients = %v, want [1]", got)
	}
	if got := len(sub.ColocalizationEdges()); got != 2 {
		t.Errorf("colocalization edges = %d, want 2", got)
	}
	e, ok := sub.Edge(ARGNode(10, PreFMT), ARGNode(10, PostFMT(7)), false)
	if !ok || e.Weight != 1 {
		t.Errorf("temporal edge = %+v, %v", e, ok)
	}
	if sub.HasNode(ARGNode(11, PreFMT)) {
		t.Error("node of another patient kept")
	}

	if empty := FilterByPatients(g, NewPatientSet()); empty.NodeCount() != 0 {
		t.Error("empty cohort kept nodes")
	}
}

func TestComputeStatistics(t *testing.T) {
	g := sampleGraph(t)
	adj := BuildAdjacency(g)
	s := ComputeStatistics(g, adj)

	want := Statistics{
		TotalNodes:          g.NodeCount(),
		TotalEdges:          g.EdgeCount(),
		ARGNodes:            5,
		MGENodes:            4,
		ColocalizationEdges: 5,
		TemporalEdges:       g.EdgeCount() - 5,
		AdjacencyNodes:      g.NodeCount(),
		Patients:            3,
	}
	if s != want {
		t.Errorf("statistics = %+v, want %+v", s, want)
	}
	if len(s.Header()) != len(s.Row()) {
		t.Error("header and row lengths differ")
	}
}
