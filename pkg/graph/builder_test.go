package graph

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/conet/pkg/logging"
)

func TestAddColocalization(t *testing.T) {
	cat := testCatalog(t)

	tests := []struct {
		name    string
		arg     int
		mge     int
		tp      Timepoint
		opts    BuildOptions
		want    Outcome
		inGraph bool
	}{
		{"drug ARG", 10, 20, PreFMT, BuildOptions{}, OutcomeAdded, true},
		{"unknown ARG", 99, 20, PreFMT, BuildOptions{}, OutcomeUnknownARG, false},
		{"unknown MGE", 10, 99, PreFMT, BuildOptions{}, OutcomeUnknownMGE, false},
		{"SNP ARG kept", 12, 20, Donor, BuildOptions{}, OutcomeAdded, true},
		{"SNP ARG excluded", 12, 20, Donor, BuildOptions{ExcludeSNPConfirmed: true}, OutcomeSNPExcluded, false},
		{"metal ARG kept", 13, 21, PostFMT(7), BuildOptions{}, OutcomeAdded, true},
		{"metal ARG excluded", 13, 21, PostFMT(7), BuildOptions{ExcludeNonDrugARGs: true}, OutcomeNonDrugExcluded, false},
		{"invalid timepoint", 10, 20, Timepoint(-5), BuildOptions{}, OutcomeInvalidTimepoint, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			got := AddColocalization(g, cat, tt.arg, tt.mge, tt.tp, 1, tt.opts)
			if got != tt.want {
				t.Fatalf("outcome = %v, want %v", got, tt.want)
			}
			_, ok := g.Edge(ARGNode(tt.arg, tt.tp), MGENode(tt.mge, tt.tp), true)
			if ok != tt.inGraph {
				t.Errorf("edge present = %v, want %v", ok, tt.inGraph)
			}
			if !tt.inGraph && (g.NodeCount() != 0 || g.EdgeCount() != 0) {
				t.Errorf("skipped insert left %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
			}
		})
	}
}

func TestAddColocalizationSNPAttribute(t *testing.T) {
	g := New()
	AddColocalization(g, testCatalog(t), 12, 20, PreFMT, 1, BuildOptions{})

	n, ok := g.Node(ARGNode(12, PreFMT))
	if !ok {
		t.Fatal("ARG node missing")
	}
	if !n.RequiresSNPConfirmation {
		t.Error("SNP attribute not carried onto node")
	}
}

func TestAddColocalizationMergesPatients(t *testing.T) {
	cat := testCatalog(t)
	g := New()

	if got := AddColocalization(g, cat, 10, 20, PreFMT, 1, BuildOptions{}); got != OutcomeAdded {
		t.Fatalf("first insert = %v", got)
	}
	if got := AddColocalization(g, cat, 10, 20, PreFMT, 1, BuildOptions{}); got != OutcomeDuplicate {
		t.Fatalf("repeat insert = %v", got)
	}
	if got := AddColocalization(g, cat, 10, 20, PreFMT, 2, BuildOptions{}); got != OutcomeAdded {
		t.Fatalf("second patient = %v", got)
	}

	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Fatalf("got %d nodes, %d edges; want 2, 1", g.NodeCount(), g.EdgeCount())
	}
	fwd, _ := g.Edge(ARGNode(10, PreFMT), MGENode(20, PreFMT), true)
	rev, _ := g.Edge(MGENode(20, PreFMT), ARGNode(10, PreFMT), true)
	if fwd != rev {
		t.Fatal("reverse lookup returned a different record")
	}
	if !fwd.Patients.Equal(NewPatientSet(1, 2)) {
		t.Errorf("patients = %v, want {1, 2}", fwd.Patients.Sorted())
	}
}

func TestBuilderStats(t *testing.T) {
	rec := logging.NewRecorder(logging.DebugLevel)
	b := NewBuilder(testCatalog(t), BuildOptions{ExcludeNonDrugARGs: true}, rec)

	b.AddAll([]Record{
		{PatientID: 1, ARGID: 10, MGEID: 20, Timepoint: PreFMT, Present: true},
		{PatientID: 1, ARGID: 10, MGEID: 20, Timepoint: PreFMT, Present: true},
		{PatientID: 1, ARGID: 10, MGEID: 20, Timepoint: PostFMT(7), Present: false},
		{PatientID: 1, ARGID: 99, MGEID: 20, Timepoint: PreFMT, Present: true},
		{PatientID: 1, ARGID: 13, MGEID: 20, Timepoint: PreFMT, Present: true},
	})

	s := b.Stats()
	if s.Records != 5 {
		t.Errorf("Records = %d, want 5", s.Records)
	}
	if s.Added() != 1 {
		t.Errorf("Added = %d, want 1", s.Added())
	}
	if s.Outcomes[OutcomeDuplicate] != 1 || s.Outcomes[OutcomeAbsent] != 1 {
		t.Errorf("outcomes = %v", s.Outcomes)
	}
	if s.Skipped() != 3 {
		t.Errorf("Skipped = %d, want 3", s.Skipped())
	}
	if n := rec.Count(logging.DebugLevel); n != 2 {
		t.Errorf("debug entries = %d, want 2 (unknown ARG, non-drug)", n)
	}

	b.Finish(TemporalAdjacent)
	if rec.Count(logging.InfoLevel) != 1 {
		t.Error("Finish did not log the build summary")
	}
}

func TestBuilderProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	codes := gen.SliceOf(gen.IntRange(0, recordSpace-1))

	properties.Property("replaying records leaves the graph unchanged", prop.ForAll(
		func(cs []int) bool {
			once := buildFrom(t, cs, TemporalAdjacent)
			twice := buildFrom(t, append(append([]int{}, cs...), cs...), TemporalAdjacent)
			return sameGraph(once, twice)
		},
		codes,
	))

	properties.Property("colocalization edges read the same from both ends", prop.ForAll(
		func(cs []int) bool {
			g := buildFrom(t, cs, TemporalAdjacent)
			for _, e := range g.ColocalizationEdges() {
				rev, ok := g.Edge(e.Target, e.Source, true)
				if !ok || rev != e || !rev.Patients.Equal(e.Patients) {
					return false
				}
			}
			return true
		},
		codes,
	))

	properties.Property("every edge endpoint is a node", prop.ForAll(
		func(cs []int) bool {
			g := buildFrom(t, cs, TemporalAllPairs)
			for _, e := range g.Edges() {
				if !g.HasNode(e.Source) || !g.HasNode(e.Target) {
					return false
				}
			}
			return true
		},
		codes,
	))

	properties.TestingRun(t)
}

func sameGraph(a, b *Graph) bool {
	if a.NodeCount() != b.NodeCount() || a.EdgeCount() != b.EdgeCount() {
		return false
	}
	for _, e := range a.Edges() {
		o, ok := b.edges[e.Key()]
		if !ok || o.Weight != e.Weight || !o.Patients.Equal(e.Patients) {
			return false
		}
	}
	return true
}
