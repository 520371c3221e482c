package query

import (
	"fmt"
	"sort"

	"github.com/dd0wney/conet/pkg/graph"
	"github.com/dd0wney/conet/pkg/traversal"
)

// EntityCount is a ranked ARG or MGE.
type EntityCount struct {
	ID    int
	Count int
}

// TopEntities ranks the ARGs (isARG) or MGEs by the number of distinct
// patients observed carrying them on any colocalization edge. Ties go to
// the smaller ID; k <= 0 returns all.
func TopEntities(g *graph.Graph, isARG bool, k int) []EntityCount {
	patients := make(map[int]graph.PatientSet)
	for _, e := range g.ColocalizationEdges() {
		arg, mge, ok := e.Endpoints()
		if !ok {
			continue
		}
		id := mge.EntityID
		if isARG {
			id = arg.EntityID
		}
		set, ok := patients[id]
		if !ok {
			set = make(graph.PatientSet)
			patients[id] = set
		}
		for p := range e.Patients {
			set.Add(p)
		}
	}

	out := make([]EntityCount, 0, len(patients))
	for id, set := range patients {
		out = append(out, EntityCount{ID: id, Count: set.Len()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ID < out[j].ID
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// ConnectedARG is an ARG colocalized with a given MGE.
type ConnectedARG struct {
	ARGID      int
	Timepoints []graph.Timepoint
	Patients   int
}

// ConnectedARGs lists the ARGs colocalized with mgeID, ordered by ARG ID,
// with the timepoints of colocalization and the number of distinct patients.
func ConnectedARGs(g *graph.Graph, mgeID int) []ConnectedARG {
	tps := make(map[int]traversal.TimepointSet)
	patients := make(map[int]graph.PatientSet)
	for _, e := range g.ColocalizationEdges() {
		arg, mge, ok := e.Endpoints()
		if !ok || mge.EntityID != mgeID {
			continue
		}
		if _, ok := tps[arg.EntityID]; !ok {
			tps[arg.EntityID] = make(traversal.TimepointSet)
			patients[arg.EntityID] = make(graph.PatientSet)
		}
		tps[arg.EntityID].Add(arg.Timepoint)
		for p := range e.Patients {
			patients[arg.EntityID].Add(p)
		}
	}

	out := make([]ConnectedARG, 0, len(tps))
	for id, set := range tps {
		out = append(out, ConnectedARG{ARGID: id, Timepoints: set.Sorted(), Patients: patients[id].Len()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ARGID < out[j].ARGID })
	return out
}

// ByCohort splits tl by the cohort label of each patient. Patients without a
// label are collected under unlabeled.
func ByCohort(tl traversal.Timeline, cohorts map[int]string, unlabeled string) map[string]traversal.Timeline {
	out := make(map[string]traversal.Timeline)
	for k, set := range tl {
		label, ok := cohorts[k.PatientID]
		if !ok {
			label = unlabeled
		}
		sub, ok := out[label]
		if !ok {
			sub = make(traversal.Timeline)
			out[label] = sub
		}
		sub[k] = set
	}
	return out
}

// Dynamics classifies how a patient's carriage of a pair changed across the
// transplant.
type Dynamics int

const (
	// Emerge: seen only after transplant.
	Emerge Dynamics = iota
	// Disappear: seen before transplant, gone after.
	Disappear
	// Transfer: seen in the donor and after transplant but not before.
	Transfer
	// Persist: seen both before and after transplant.
	Persist
)

// AllDynamics lists the classes in report order.
func AllDynamics() []Dynamics { return []Dynamics{Emerge, Disappear, Transfer, Persist} }

func (d Dynamics) String() string {
	switch d {
	case Emerge:
		return "emerge"
	case Disappear:
		return "disappear"
	case Transfer:
		return "transfer"
	case Persist:
		return "persist"
	}
	return "unknown"
}

// ParseDynamics is the inverse of Dynamics.String.
func ParseDynamics(s string) (Dynamics, error) {
	for _, d := range AllDynamics() {
		if s == d.String() {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown dynamics class %q", s)
}

// DynamicsOf classifies a timepoint set. ok is false for sets that fit no
// class, such as donor-only carriage.
func DynamicsOf(set traversal.TimepointSet) (d Dynamics, ok bool) {
	c := PresenceOf(set)
	switch {
	case c.PreFMT && c.PostFMT:
		return Persist, true
	case c.PreFMT:
		return Disappear, true
	case c.Donor && c.PostFMT:
		return Transfer, true
	case c.PostFMT:
		return Emerge, true
	}
	return 0, false
}

// ClassifyDynamics splits tl into the dynamics classes. Every class is
// present in the result, possibly empty; unclassifiable entries are left
// out.
func ClassifyDynamics(tl traversal.Timeline) map[Dynamics]traversal.Timeline {
	out := make(map[Dynamics]traversal.Timeline, 4)
	for _, d := range AllDynamics() {
		out[d] = make(traversal.Timeline)
	}
	for k, set := range tl {
		if d, ok := DynamicsOf(set); ok {
			out[d][k] = set
		}
	}
	return out
}

// GroupNamer resolves the structural group of an MGE.
type GroupNamer interface {
	MGEGroup(id int) string
}

// GroupCount aggregates timeline entries by MGE group.
type GroupCount struct {
	Group    string
	Pairs    int // distinct ARG-MGE pairs
	Patients int // distinct patients
	Entries  int // (patient, ARG, MGE) entries
}

// MGEGroupSummary aggregates tl by the group of each entry's MGE, ordered by
// entry count descending, then group name.
func MGEGroupSummary(tl traversal.Timeline, groups GroupNamer) []GroupCount {
	type acc struct {
		pairs    map[traversal.PairKey]struct{}
		patients graph.PatientSet
		entries  int
	}
	byGroup := make(map[string]*acc)
	for k := range tl {
		name := groups.MGEGroup(k.MGEID)
		a, ok := byGroup[name]
		if !ok {
			a = &acc{pairs: make(map[traversal.PairKey]struct{}), patients: make(graph.PatientSet)}
			byGroup[name] = a
		}
		a.pairs[k.Pair()] = struct{}{}
		a.patients.Add(k.PatientID)
		a.entries++
	}

	out := make([]GroupCount, 0, len(byGroup))
	for name, a := range byGroup {
		out = append(out, GroupCount{Group: name, Pairs: len(a.pairs), Patients: a.patients.Len(), Entries: a.entries})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Entries != out[j].Entries {
			return out[i].Entries > out[j].Entries
		}
		return out[i].Group < out[j].Group
	})
	return out
}

// Namer renders entity IDs. Missing IDs render as "Unknown ARG ID <n>" or
// "Unknown MGE ID <n>".
type Namer interface {
	ARGName(id int) string
	MGEName(id int) string
}

// PairLabel renders a pair as "ARG - MGE".
func PairLabel(n Namer, p traversal.PairKey) string {
	return n.ARGName(p.ARGID) + " - " + n.MGEName(p.MGEID)
}
