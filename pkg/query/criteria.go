// Package query filters and ranks colocalization timelines by which of the
// Donor, PreFMT and post-FMT phases a pair was observed in.
package query

import (
	"fmt"

	"github.com/dd0wney/conet/pkg/graph"
	"github.com/dd0wney/conet/pkg/traversal"
)

// IsDonor, IsPreFMT and IsPostFMT partition the timepoints: every timepoint
// satisfies exactly one of them.
func IsDonor(tp graph.Timepoint) bool   { return tp.IsDonor() }
func IsPreFMT(tp graph.Timepoint) bool  { return tp.IsPreFMT() }
func IsPostFMT(tp graph.Timepoint) bool { return !tp.IsDonor() && !tp.IsPreFMT() }

// Criteria is a presence pattern. A timepoint set matches when its presence
// in each phase equals the corresponding flag exactly.
type Criteria struct {
	Donor   bool
	PreFMT  bool
	PostFMT bool
}

// PresenceOf computes the pattern a set of timepoints exhibits.
func PresenceOf(set traversal.TimepointSet) Criteria {
	var c Criteria
	for tp := range set {
		switch {
		case IsDonor(tp):
			c.Donor = true
		case IsPreFMT(tp):
			c.PreFMT = true
		default:
			c.PostFMT = true
		}
	}
	return c
}

// Matches reports whether set exhibits exactly this pattern.
func (c Criteria) Matches(set traversal.TimepointSet) bool {
	return PresenceOf(set) == c
}

// Label names the pattern the way reports print it.
func (c Criteria) Label() string {
	switch c {
	case Criteria{Donor: true}:
		return "Donor Only"
	case Criteria{PreFMT: true}:
		return "PreFMT Only"
	case Criteria{PostFMT: true}:
		return "PostFMT Only"
	case Criteria{Donor: true, PreFMT: true}:
		return "Donor & PreFMT Only"
	case Criteria{PreFMT: true, PostFMT: true}:
		return "PreFMT & PostFMT Only"
	case Criteria{Donor: true, PostFMT: true}:
		return "Donor & PostFMT Only"
	case Criteria{Donor: true, PreFMT: true, PostFMT: true}:
		return "PreFMT, Donor & PostFMT"
	}
	return "None"
}

// Slug is a file-name friendly form of Label.
func (c Criteria) Slug() string {
	s := ""
	add := func(on bool, part string) {
		if !on {
			return
		}
		if s != "" {
			s += "_"
		}
		s += part
	}
	add(c.Donor, "donor")
	add(c.PreFMT, "pre")
	add(c.PostFMT, "post")
	if s == "" {
		return "none"
	}
	return s
}

// ParseCriteria is the inverse of Slug. It also accepts a pattern's Label.
func ParseCriteria(s string) (Criteria, error) {
	for _, c := range AllPatterns() {
		if s == c.Slug() || s == c.Label() {
			return c, nil
		}
	}
	return Criteria{}, fmt.Errorf("unknown presence pattern %q", s)
}

// AllPatterns lists the eight patterns, the seven non-empty ones first in
// the order reports print them.
func AllPatterns() []Criteria {
	return []Criteria{
		{PostFMT: true},
		{PreFMT: true},
		{Donor: true},
		{Donor: true, PreFMT: true},
		{PreFMT: true, PostFMT: true},
		{Donor: true, PreFMT: true, PostFMT: true},
		{Donor: true, PostFMT: true},
		{},
	}
}

// FilterByPresenceCriteria keeps the timeline entries whose timepoints match
// c exactly. The result shares sets with tl.
func FilterByPresenceCriteria(tl traversal.Timeline, c Criteria) traversal.Timeline {
	return tl.Filter(func(_ traversal.TripleKey, set traversal.TimepointSet) bool {
		return c.Matches(set)
	})
}

// Presence is a tri-state requirement on one phase.
type Presence int

const (
	Absent Presence = iota
	Present
	Any
)

func (p Presence) accepts(seen bool) bool {
	switch p {
	case Present:
		return seen
	case Absent:
		return !seen
	}
	return true
}

// Selector generalizes Criteria with don't-care phases.
type Selector struct {
	Donor   Presence
	PreFMT  Presence
	PostFMT Presence
}

// SelectorFor returns the selector equivalent to c.
func SelectorFor(c Criteria) Selector {
	of := func(b bool) Presence {
		if b {
			return Present
		}
		return Absent
	}
	return Selector{Donor: of(c.Donor), PreFMT: of(c.PreFMT), PostFMT: of(c.PostFMT)}
}

// Matches reports whether set satisfies every phase requirement.
func (s Selector) Matches(set traversal.TimepointSet) bool {
	c := PresenceOf(set)
	return s.Donor.accepts(c.Donor) && s.PreFMT.accepts(c.PreFMT) && s.PostFMT.accepts(c.PostFMT)
}

// FilterBySelector keeps the entries that satisfy s.
func FilterBySelector(tl traversal.Timeline, s Selector) traversal.Timeline {
	return tl.Filter(func(_ traversal.TripleKey, set traversal.TimepointSet) bool {
		return s.Matches(set)
	})
}
