package graph

import (
	"errors"
	"testing"
)

func TestAddNodeFirstInsertionWins(t *testing.T) {
	g := New()
	first := g.AddNode(Node{NodeKey: ARGNode(12, PreFMT), RequiresSNPConfirmation: true})
	second := g.AddNode(Node{NodeKey: ARGNode(12, PreFMT)})

	if first != second {
		t.Error("AddNode returned a different record for the same identity")
	}
	if !second.RequiresSNPConfirmation {
		t.Error("second insertion overwrote node metadata")
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want 1", g.NodeCount())
	}
}

func TestNodeIdentity(t *testing.T) {
	tests := []struct {
		name string
		a, b NodeKey
		same bool
	}{
		{"identical", ARGNode(10, PreFMT), ARGNode(10, PreFMT), true},
		{"kind differs", ARGNode(10, PreFMT), MGENode(10, PreFMT), false},
		{"timepoint differs", ARGNode(10, PreFMT), ARGNode(10, Donor), false},
		{"id differs", ARGNode(10, PreFMT), ARGNode(11, PreFMT), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if (tt.a == tt.b) != tt.same {
				t.Errorf("%s == %s: got %v", tt.a, tt.b, tt.a == tt.b)
			}
		})
	}
}

func TestAddColocalizationRejectsMalformedEdges(t *testing.T) {
	g := New()
	g.AddNode(Node{NodeKey: ARGNode(10, PreFMT)})
	g.AddNode(Node{NodeKey: ARGNode(11, PreFMT)})
	g.AddNode(Node{NodeKey: MGENode(20, PostFMT(7))})

	tests := []struct {
		name string
		a, b NodeKey
		want error
	}{
		{"two ARGs", ARGNode(10, PreFMT), ARGNode(11, PreFMT), ErrInvalidEdge},
		{"timepoints differ", ARGNode(10, PreFMT), MGENode(20, PostFMT(7)), ErrInvalidEdge},
		{"missing endpoint", ARGNode(10, PreFMT), MGENode(21, PreFMT), ErrNodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := g.addColocalization(tt.a, tt.b, 1)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var ge *GraphError
			if !errors.As(err, &ge) || ge.Op != "AddColocalization" {
				t.Errorf("error is not a GraphError for AddColocalization: %v", err)
			}
		})
	}
	if g.EdgeCount() != 0 {
		t.Errorf("rejected inserts left %d edges", g.EdgeCount())
	}
}

func TestAddTemporalRejectsBackwardEdges(t *testing.T) {
	g := New()
	g.AddNode(Node{NodeKey: ARGNode(10, PreFMT)})
	g.AddNode(Node{NodeKey: ARGNode(10, PostFMT(7))})
	g.AddNode(Node{NodeKey: ARGNode(11, PostFMT(7))})

	if _, err := g.addTemporal(ARGNode(10, PostFMT(7)), ARGNode(10, PreFMT), 1); !IsInvalidEdge(err) {
		t.Errorf("backward edge: err = %v", err)
	}
	if _, err := g.addTemporal(ARGNode(10, PreFMT), ARGNode(11, PostFMT(7)), 1); !IsInvalidEdge(err) {
		t.Errorf("cross-entity edge: err = %v", err)
	}
	if _, err := g.addTemporal(ARGNode(10, PreFMT), ARGNode(10, PreFMT), 1); !IsInvalidEdge(err) {
		t.Errorf("self edge: err = %v", err)
	}
}

func TestAddEdgeAllowsMalformedColocalization(t *testing.T) {
	g := New()
	g.AddNode(Node{NodeKey: ARGNode(10, PreFMT)})
	g.AddNode(Node{NodeKey: ARGNode(11, PreFMT)})

	e, err := g.AddEdge(Edge{Source: ARGNode(11, PreFMT), Target: ARGNode(10, PreFMT), IsColo: true, Patients: NewPatientSet(1)})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, ok := e.Endpoints(); ok {
		t.Error("Endpoints reported a same-kind edge as well formed")
	}
	if e.Source != ARGNode(10, PreFMT) {
		t.Errorf("same-kind edge not canonicalized: source %s", e.Source)
	}

	if _, err := g.AddEdge(Edge{Source: ARGNode(10, PreFMT), Target: MGENode(99, PreFMT), IsColo: true}); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("dangling AddEdge: err = %v", err)
	}
}

func TestGraphErrorMessage(t *testing.T) {
	err := NewError("AddEdge").Node(ARGNode(10, PreFMT)).Cause(ErrNodeNotFound).Err()
	if !errors.Is(err, ErrNodeNotFound) {
		t.Fatal("cause not unwrapped")
	}
	if err.Error() == "" {
		t.Error("empty message")
	}
}
