package graph

import (
	"fmt"
	"sort"
)

// NodeKey is the identity of an entity observation. Two nodes are the same
// iff all three fields match; NodeKey is comparable and used directly as a
// map key.
type NodeKey struct {
	EntityID  int
	IsARG     bool
	Timepoint Timepoint
}

// ARGNode and MGENode build keys for the two entity families.
func ARGNode(id int, tp Timepoint) NodeKey { return NodeKey{EntityID: id, IsARG: true, Timepoint: tp} }
func MGENode(id int, tp Timepoint) NodeKey { return NodeKey{EntityID: id, IsARG: false, Timepoint: tp} }

// Less orders keys by entity id, then timepoint, then MGE before ARG.
func (k NodeKey) Less(o NodeKey) bool {
	if k.EntityID != o.EntityID {
		return k.EntityID < o.EntityID
	}
	if k.Timepoint != o.Timepoint {
		return k.Timepoint < o.Timepoint
	}
	return !k.IsARG && o.IsARG
}

// Kind returns "ARG" or "MGE".
func (k NodeKey) Kind() string {
	if k.IsARG {
		return "ARG"
	}
	return "MGE"
}

// SameEntity reports whether both keys observe the same ARG or MGE.
func (k NodeKey) SameEntity(o NodeKey) bool {
	return k.EntityID == o.EntityID && k.IsARG == o.IsARG
}

func (k NodeKey) String() string {
	return fmt.Sprintf("%s:%d@%s", k.Kind(), k.EntityID, k.Timepoint)
}

// Node is an entity observation. RequiresSNPConfirmation is metadata and
// does not take part in identity. Nodes are never modified after insertion.
type Node struct {
	NodeKey
	RequiresSNPConfirmation bool
}

// Key returns the identity of the node.
func (n *Node) Key() NodeKey { return n.NodeKey }

// PatientSet is a set of patient IDs.
type PatientSet map[int]struct{}

// NewPatientSet returns a set holding ids.
func NewPatientSet(ids ...int) PatientSet {
	s := make(PatientSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id and reports whether it was new.
func (s PatientSet) Add(id int) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

func (s PatientSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

func (s PatientSet) Len() int { return len(s) }

// Sorted returns the ids in ascending order.
func (s PatientSet) Sorted() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Clone returns an independent copy.
func (s PatientSet) Clone() PatientSet {
	c := make(PatientSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Equal reports whether both sets hold the same ids.
func (s PatientSet) Equal(o PatientSet) bool {
	if len(s) != len(o) {
		return false
	}
	for id := range s {
		if !o.Has(id) {
			return false
		}
	}
	return true
}

// EdgeKey is the identity of an edge.
type EdgeKey struct {
	Source NodeKey
	Target NodeKey
	IsColo bool
}

// Less orders edge keys by source, target, then temporal before colocalization.
func (k EdgeKey) Less(o EdgeKey) bool {
	if k.Source != o.Source {
		return k.Source.Less(o.Source)
	}
	if k.Target != o.Target {
		return k.Target.Less(o.Target)
	}
	return !k.IsColo && o.IsColo
}

// Reverse swaps source and target.
func (k EdgeKey) Reverse() EdgeKey {
	return EdgeKey{Source: k.Target, Target: k.Source, IsColo: k.IsColo}
}

func (k EdgeKey) String() string {
	arrow := "->"
	if k.IsColo {
		arrow = "<->"
	}
	return k.Source.String() + arrow + k.Target.String()
}

// Edge links two nodes.
//
// A colocalization edge (IsColo) joins an ARG and an MGE observed at the same
// timepoint; Patients holds every patient exhibiting the pair there. It is
// stored once with the ARG as Source and is reachable from either direction.
//
// A temporal edge joins two observations of one entity, earlier to later.
// Weight counts the patients whose consecutive observations produced it and
// Patients records who they were.
type Edge struct {
	Source   NodeKey
	Target   NodeKey
	IsColo   bool
	Patients PatientSet
	Weight   int
}

// Key returns the identity of the edge.
func (e *Edge) Key() EdgeKey {
	return EdgeKey{Source: e.Source, Target: e.Target, IsColo: e.IsColo}
}

// Endpoints returns the ARG and MGE ends of a colocalization edge. ok is false
// when both ends have the same kind.
func (e *Edge) Endpoints() (arg, mge NodeKey, ok bool) {
	switch {
	case e.Source.IsARG && !e.Target.IsARG:
		return e.Source, e.Target, true
	case !e.Source.IsARG && e.Target.IsARG:
		return e.Target, e.Source, true
	}
	return NodeKey{}, NodeKey{}, false
}

// Other returns the endpoint opposite to k.
func (e *Edge) Other(k NodeKey) NodeKey {
	if e.Source == k {
		return e.Target
	}
	return e.Source
}

// HasPatient reports whether patient contributed to the edge.
func (e *Edge) HasPatient(patient int) bool {
	return e.Patients.Has(patient)
}
