package visualization

import (
	"errors"
	"math"
	"testing"

	"github.com/dd0wney/conet/pkg/graph"
)

var (
	argPre   = graph.ARGNode(10, graph.PreFMT)
	mgePre   = graph.MGENode(20, graph.PreFMT)
	argPost  = graph.ARGNode(10, graph.PostFMT(7))
	mgePost  = graph.MGENode(20, graph.PostFMT(7))
	argDonor = graph.ARGNode(11, graph.Donor)
)

func distance(a, b Position) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// TestForceDirectedLayout tests the force-directed layout algorithm
func TestForceDirectedLayout(t *testing.T) {
	nodes := []graph.NodeKey{argPre, mgePre, argPost}
	links := []Link{{A: argPre, B: mgePre}, {A: mgePre, B: argPost}}

	layout := NewForceDirectedLayout(&LayoutConfig{Width: 800, Height: 600, Iterations: 50, Seed: 1})
	positions := layout.ComputeLayout(nodes, links)

	if len(positions) != 3 {
		t.Fatalf("Expected 3 positions, got %d", len(positions))
	}
	for k, pos := range positions {
		if pos.X < 0 || pos.X > 800 || pos.Y < 0 || pos.Y > 600 {
			t.Errorf("%s position %+v out of bounds", k, pos)
		}
	}

	// The two ends of the chain are not linked and should be furthest apart
	d12 := distance(positions[argPre], positions[mgePre])
	d23 := distance(positions[mgePre], positions[argPost])
	d13 := distance(positions[argPre], positions[argPost])
	if d13 < d12 || d13 < d23 {
		t.Errorf("unlinked nodes not separated: d12=%.1f d23=%.1f d13=%.1f", d12, d23, d13)
	}

	again := NewForceDirectedLayout(&LayoutConfig{Width: 800, Height: 600, Iterations: 50, Seed: 1}).
		ComputeLayout(nodes, links)
	for k, pos := range positions {
		if again[k] != pos {
			t.Errorf("same seed gave %+v then %+v for %s", pos, again[k], k)
		}
	}
}

// TestCircularLayout tests circular layout algorithm
func TestCircularLayout(t *testing.T) {
	nodes := []graph.NodeKey{argPre, mgePre, argPost, mgePost, argDonor}
	positions := NewCircularLayout(&LayoutConfig{Width: 800, Height: 800}).ComputeLayout(nodes, nil)

	if len(positions) != len(nodes) {
		t.Fatalf("Expected %d positions, got %d", len(nodes), len(positions))
	}

	center := Position{X: 400, Y: 400}
	want := 400.0 - 50
	for k, pos := range positions {
		if d := distance(pos, center); math.Abs(d-want) > 1e-6 {
			t.Errorf("%s at distance %f from center, want %f", k, d, want)
		}
	}
}

func TestHierarchicalLayout(t *testing.T) {
	nodes := []graph.NodeKey{mgePost, argPost, mgePre, argPre, argDonor}
	positions := NewHierarchicalLayout(&LayoutConfig{Width: 600, Height: 600}).ComputeLayout(nodes, nil)

	if !(positions[argDonor].Y < positions[argPre].Y && positions[argPre].Y < positions[argPost].Y) {
		t.Errorf("rows not ordered by timepoint: donor=%f pre=%f post=%f",
			positions[argDonor].Y, positions[argPre].Y, positions[argPost].Y)
	}
	if positions[argPre].Y != positions[mgePre].Y {
		t.Errorf("same timepoint on different rows")
	}
	if positions[argPre].X >= positions[mgePre].X {
		t.Errorf("ARG should be left of MGE within a row")
	}
}

func TestLayoutNormalization(t *testing.T) {
	positions := map[graph.NodeKey]Position{
		argPre:  {X: -100, Y: -100},
		mgePre:  {X: 100, Y: 100},
		argPost: {X: 0, Y: 0},
	}

	normalized := normalizePositions(positions, 800, 600, 50)

	if got := normalized[argPre]; got.X != 50 || got.Y != 50 {
		t.Errorf("min corner = %+v, want {50 50}", got)
	}
	if got := normalized[mgePre]; got.X != 750 || got.Y != 550 {
		t.Errorf("max corner = %+v, want {750 550}", got)
	}
	if got := normalized[argPost]; got.X != 400 || got.Y != 300 {
		t.Errorf("midpoint = %+v, want {400 300}", got)
	}
}

func TestEmptyGraph(t *testing.T) {
	for _, name := range []string{LayoutCircular, LayoutForce, LayoutHierarchical} {
		layout, err := New(name, &LayoutConfig{})
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if got := layout.ComputeLayout(nil, nil); len(got) != 0 {
			t.Errorf("%s: expected no positions, got %d", name, len(got))
		}
	}
}

func TestNewUnknownLayout(t *testing.T) {
	if _, err := New("spiral", &LayoutConfig{}); !errors.Is(err, ErrUnknownLayout) {
		t.Errorf("expected ErrUnknownLayout, got %v", err)
	}
}

func TestLinksOf(t *testing.T) {
	g := graph.New()
	for _, k := range []graph.NodeKey{argPre, mgePre, argPost} {
		g.AddNode(graph.Node{NodeKey: k})
	}
	if _, err := g.AddEdge(graph.Edge{Source: argPre, Target: mgePre, IsColo: true, Patients: graph.NewPatientSet(1)}); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddEdge(graph.Edge{Source: argPre, Target: argPost, Weight: 1, Patients: graph.NewPatientSet(1)}); err != nil {
		t.Fatal(err)
	}

	if got := len(LinksOf(g, nil)); got != 2 {
		t.Errorf("LinksOf(nil) = %d links, want 2", got)
	}
	if got := LinksOf(g, map[graph.NodeKey]bool{argPre: true, mgePre: true}); len(got) != 1 || got[0].B != mgePre {
		t.Errorf("LinksOf(filtered) = %+v", got)
	}
}
