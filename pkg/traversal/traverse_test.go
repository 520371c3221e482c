package traversal

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/conet/pkg/catalog"
	"github.com/dd0wney/conet/pkg/graph"
	"github.com/dd0wney/conet/pkg/logging"
)

func testCatalog(t testing.TB) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(
		[]catalog.ARG{
			{ID: 10, Name: "tetM", Class: catalog.ClassDrugs},
			{ID: 11, Name: "ermB", Class: catalog.ClassDrugs},
		},
		[]catalog.MGE{
			{ID: 20, Name: "Tn916"},
			{ID: 21, Name: "IS26"},
			{ID: 22, Name: "pUC"},
		},
	)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return cat
}

func rec(patient, arg, mge int, tp graph.Timepoint) graph.Record {
	return graph.Record{PatientID: patient, ARGID: arg, MGEID: mge, Timepoint: tp, Present: true}
}

func build(t testing.TB, records ...graph.Record) (*graph.Graph, *graph.Adjacency) {
	t.Helper()
	b := graph.NewBuilder(testCatalog(t), graph.BuildOptions{}, nil)
	b.AddAll(records)
	g := b.Finish(graph.TemporalAdjacent)
	return g, graph.BuildAdjacency(g)
}

func TestWorkedExample(t *testing.T) {
	g, adj := build(t,
		rec(1, 10, 20, graph.Donor),
		rec(1, 10, 20, graph.PreFMT),
		rec(1, 10, 20, graph.PostFMT(7)),
	)
	key := TripleKey{PatientID: 1, ARGID: 10, MGEID: 20}
	expected := NewTimepointSet(graph.Donor, graph.PreFMT, graph.PostFMT(7))

	tests := []struct {
		name string
		tl   Timeline
	}{
		{"direct", TraverseGraph(g, nil)},
		{"walk", TraverseByIndividual(g, adj, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.tl) != 1 {
				t.Fatalf("timeline has %d keys, want 1", len(tt.tl))
			}
			if got := tt.tl[key]; !got.Equal(expected) {
				t.Errorf("timeline[%s] = %s, want %s", key, got, expected)
			}
		})
	}
}

func TestFirstOccurrences(t *testing.T) {
	g, _ := build(t,
		rec(1, 10, 20, graph.PostFMT(7)),
		rec(1, 10, 20, graph.PreFMT),
		rec(2, 10, 20, graph.PostFMT(30)),
		rec(2, 11, 21, graph.Donor),
	)
	got := FirstOccurrences(g, nil)

	want := map[TripleKey]graph.Timepoint{
		{PatientID: 1, ARGID: 10, MGEID: 20}: graph.PreFMT,
		{PatientID: 2, ARGID: 10, MGEID: 20}: graph.PostFMT(30),
		{PatientID: 2, ARGID: 11, MGEID: 21}: graph.Donor,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for k, tp := range want {
		if got[k] != tp {
			t.Errorf("first[%s] = %v, want %v", k, got[k], tp)
		}
	}
}

func TestTraverseByIndividualIsPatientScoped(t *testing.T) {
	g, adj := build(t,
		rec(1, 10, 20, graph.PreFMT),
		rec(1, 10, 20, graph.PostFMT(7)),
		rec(2, 10, 20, graph.Donor),
		rec(2, 10, 20, graph.PostFMT(30)),
		rec(2, 10, 21, graph.PostFMT(7)),
	)
	tl := TraverseByIndividual(g, adj, nil)

	p1 := tl[TripleKey{PatientID: 1, ARGID: 10, MGEID: 20}]
	if !p1.Equal(NewTimepointSet(graph.PreFMT, graph.PostFMT(7))) {
		t.Errorf("patient 1 = %s", p1)
	}
	p2 := tl[TripleKey{PatientID: 2, ARGID: 10, MGEID: 20}]
	if !p2.Equal(NewTimepointSet(graph.Donor, graph.PostFMT(30))) {
		t.Errorf("patient 2 = %s", p2)
	}
	if !tl.Equal(TraverseGraph(g, nil)) {
		t.Error("walk and direct timelines differ")
	}
}

func TestTraversePairs(t *testing.T) {
	g, adj := build(t,
		rec(1, 10, 20, graph.PreFMT),
		rec(1, 10, 20, graph.PostFMT(7)),
		rec(2, 10, 21, graph.PostFMT(7)),
		rec(2, 10, 20, graph.PostFMT(30)),
	)
	pairs := TraversePairs(g, adj, nil)

	got := pairs[PairKey{ARGID: 10, MGEID: 20}]
	want := NewTimepointSet(graph.PreFMT, graph.PostFMT(7), graph.PostFMT(30))
	if !got.Equal(want) {
		t.Errorf("pair (10,20) = %s, want %s", got, want)
	}
	if got := pairs[PairKey{ARGID: 10, MGEID: 21}]; !got.Equal(NewTimepointSet(graph.PostFMT(7))) {
		t.Errorf("pair (10,21) = %s", got)
	}
}

func TestMalformedEdgesAreSkipped(t *testing.T) {
	g, _ := build(t, rec(1, 10, 20, graph.PreFMT))
	g.AddNode(graph.Node{NodeKey: graph.ARGNode(11, graph.PreFMT)})
	if _, err := g.AddEdge(graph.Edge{
		Source:   graph.ARGNode(10, graph.PreFMT),
		Target:   graph.ARGNode(11, graph.PreFMT),
		IsColo:   true,
		Patients: graph.NewPatientSet(1),
	}); err != nil {
		t.Fatal(err)
	}
	adj := graph.BuildAdjacency(g)

	logs := logging.NewRecorder(logging.DebugLevel)
	direct := TraverseGraph(g, logs)
	if logs.Count(logging.WarnLevel) != 1 {
		t.Errorf("warnings = %d, want 1", logs.Count(logging.WarnLevel))
	}
	if len(direct) != 1 {
		t.Errorf("direct timeline = %v", direct.Keys())
	}

	walked := TraverseByIndividual(g, adj, logging.NewRecorder(logging.DebugLevel))
	if !walked.Equal(direct) {
		t.Errorf("walk picked up the malformed edge: %v", walked.Keys())
	}
	if got := FirstOccurrences(g, nil); len(got) != 1 {
		t.Errorf("first occurrences = %v", got)
	}
}

func TestStaleAdjacencyPanics(t *testing.T) {
	g, _ := build(t, rec(1, 10, 20, graph.PreFMT))
	stale := graph.BuildAdjacency(graph.New())

	defer func() {
		if recover() == nil {
			t.Error("expected panic on missing adjacency entry")
		}
	}()
	TraverseByIndividual(g, stale, nil)
}

func TestEmptyGraph(t *testing.T) {
	g := graph.New()
	adj := graph.BuildAdjacency(g)
	if tl := TraverseByIndividual(g, adj, nil); len(tl) != 0 {
		t.Error("empty graph produced timeline entries")
	}
	if pairs := TraversePairs(g, adj, nil); len(pairs) != 0 {
		t.Error("empty graph produced pair entries")
	}
}

var testTimepoints = []graph.Timepoint{graph.Donor, graph.PreFMT, graph.PostFMT(0), graph.PostFMT(7), graph.PostFMT(30)}

func decode(n int) graph.Record {
	tp := testTimepoints[n%5]
	n /= 5
	patient := 1 + n%3
	n /= 3
	mge := 20 + n%3
	n /= 3
	return rec(patient, 10+n%2, mge, tp)
}

func TestTraversalProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	codes := gen.SliceOf(gen.IntRange(0, 89))

	properties.Property("walk reaches every observation of a triple", prop.ForAll(
		func(cs []int) bool {
			records := make([]graph.Record, len(cs))
			for i, c := range cs {
				records[i] = decode(c)
			}
			g, adj := build(t, records...)
			return TraverseByIndividual(g, adj, nil).Equal(TraverseGraph(g, nil))
		},
		codes,
	))

	properties.Property("no timepoint precedes the first occurrence", prop.ForAll(
		func(cs []int) bool {
			records := make([]graph.Record, len(cs))
			for i, c := range cs {
				records[i] = decode(c)
			}
			g, adj := build(t, records...)
			firsts := FirstOccurrences(g, nil)
			for k, set := range TraverseByIndividual(g, adj, nil) {
				earliest, ok := set.Earliest()
				if !ok || earliest != firsts[k] {
					return false
				}
			}
			return true
		},
		codes,
	))

	properties.Property("pair walk stays within the pair's observations", prop.ForAll(
		func(cs []int) bool {
			records := make([]graph.Record, len(cs))
			for i, c := range cs {
				records[i] = decode(c)
			}
			g, adj := build(t, records...)
			union := TraverseGraph(g, nil).ByPair()
			for k, set := range TraversePairs(g, adj, nil) {
				for tp := range set {
					if !union[k].Has(tp) {
						return false
					}
				}
			}
			return true
		},
		codes,
	))

	properties.TestingRun(t)
}
