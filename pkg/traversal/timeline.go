// Package traversal turns a colocalization graph into timelines: for every
// (patient, ARG, MGE) triple, the set of timepoints at which that patient
// carried the ARG together with the MGE.
package traversal

import (
	"fmt"
	"sort"

	"github.com/dd0wney/conet/pkg/graph"
)

// TripleKey identifies one patient's ARG-MGE pair.
type TripleKey struct {
	PatientID int
	ARGID     int
	MGEID     int
}

// Pair drops the patient.
func (k TripleKey) Pair() PairKey { return PairKey{ARGID: k.ARGID, MGEID: k.MGEID} }

// Less orders by patient, then ARG, then MGE.
func (k TripleKey) Less(o TripleKey) bool {
	if k.PatientID != o.PatientID {
		return k.PatientID < o.PatientID
	}
	if k.ARGID != o.ARGID {
		return k.ARGID < o.ARGID
	}
	return k.MGEID < o.MGEID
}

func (k TripleKey) String() string {
	return fmt.Sprintf("(%d,%d,%d)", k.PatientID, k.ARGID, k.MGEID)
}

// PairKey identifies an ARG-MGE pair regardless of patient.
type PairKey struct {
	ARGID int
	MGEID int
}

// Less orders by ARG, then MGE.
func (k PairKey) Less(o PairKey) bool {
	if k.ARGID != o.ARGID {
		return k.ARGID < o.ARGID
	}
	return k.MGEID < o.MGEID
}

func (k PairKey) String() string {
	return fmt.Sprintf("(%d,%d)", k.ARGID, k.MGEID)
}

// TimepointSet is a set of timepoints.
type TimepointSet map[graph.Timepoint]struct{}

// NewTimepointSet returns a set holding tps.
func NewTimepointSet(tps ...graph.Timepoint) TimepointSet {
	s := make(TimepointSet, len(tps))
	for _, tp := range tps {
		s[tp] = struct{}{}
	}
	return s
}

func (s TimepointSet) Add(tp graph.Timepoint) { s[tp] = struct{}{} }

func (s TimepointSet) Has(tp graph.Timepoint) bool {
	_, ok := s[tp]
	return ok
}

func (s TimepointSet) Len() int { return len(s) }

// Sorted returns the timepoints in chronological order.
func (s TimepointSet) Sorted() []graph.Timepoint {
	out := make([]graph.Timepoint, 0, len(s))
	for tp := range s {
		out = append(out, tp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Earliest returns the first timepoint, or false for an empty set.
func (s TimepointSet) Earliest() (graph.Timepoint, bool) {
	if len(s) == 0 {
		return 0, false
	}
	first := true
	var earliest graph.Timepoint
	for tp := range s {
		if first || tp < earliest {
			earliest, first = tp, false
		}
	}
	return earliest, true
}

// Union adds every timepoint of o to s.
func (s TimepointSet) Union(o TimepointSet) {
	for tp := range o {
		s[tp] = struct{}{}
	}
}

func (s TimepointSet) Equal(o TimepointSet) bool {
	if len(s) != len(o) {
		return false
	}
	for tp := range s {
		if !o.Has(tp) {
			return false
		}
	}
	return true
}

// Presence reports whether the set holds a Donor, a PreFMT and any
// post-FMT timepoint.
func (s TimepointSet) Presence() (donor, pre, post bool) {
	for tp := range s {
		switch {
		case tp.IsDonor():
			donor = true
		case tp.IsPreFMT():
			pre = true
		case tp.IsPostFMT():
			post = true
		}
	}
	return donor, pre, post
}

func (s TimepointSet) String() string {
	return fmt.Sprint(s.Sorted())
}

// Timeline maps each (patient, ARG, MGE) triple to the timepoints at which
// the patient carried the pair. Entries are never empty.
type Timeline map[TripleKey]TimepointSet

// Add records tp under key.
func (t Timeline) Add(key TripleKey, tp graph.Timepoint) {
	set, ok := t[key]
	if !ok {
		set = make(TimepointSet)
		t[key] = set
	}
	set.Add(tp)
}

// Keys returns the triples in TripleKey.Less order.
func (t Timeline) Keys() []TripleKey {
	out := make([]TripleKey, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Filter returns the entries for which keep is true. The sets are shared
// with t.
func (t Timeline) Filter(keep func(TripleKey, TimepointSet) bool) Timeline {
	out := make(Timeline)
	for k, set := range t {
		if keep(k, set) {
			out[k] = set
		}
	}
	return out
}

// Equal reports whether both timelines hold the same triples with the same
// timepoints.
func (t Timeline) Equal(o Timeline) bool {
	if len(t) != len(o) {
		return false
	}
	for k, set := range t {
		other, ok := o[k]
		if !ok || !set.Equal(other) {
			return false
		}
	}
	return true
}

// Patients returns the distinct patients in ascending order.
func (t Timeline) Patients() []int {
	seen := make(map[int]struct{})
	for k := range t {
		seen[k.PatientID] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// PairTimeline maps ARG-MGE pairs to timepoints, ignoring patients.
type PairTimeline map[PairKey]TimepointSet

// Keys returns the pairs in PairKey.Less order.
func (t PairTimeline) Keys() []PairKey {
	out := make([]PairKey, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func (t PairTimeline) add(key PairKey, tp graph.Timepoint) {
	set, ok := t[key]
	if !ok {
		set = make(TimepointSet)
		t[key] = set
	}
	set.Add(tp)
}

// ByPair unions each pair's timepoints across patients.
func (t Timeline) ByPair() PairTimeline {
	out := make(PairTimeline)
	for k, set := range t {
		for tp := range set {
			out.add(k.Pair(), tp)
		}
	}
	return out
}
