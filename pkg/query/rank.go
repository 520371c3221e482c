package query

import (
	"sort"

	"github.com/dd0wney/conet/pkg/graph"
	"github.com/dd0wney/conet/pkg/traversal"
)

// PairCount is a ranked ARG-MGE pair.
type PairCount struct {
	Pair  traversal.PairKey
	Count int
}

// rank sorts counts descending with ties broken by pair order, then cuts to
// topN. topN <= 0 keeps everything.
func rank(counts map[traversal.PairKey]int, topN int) []PairCount {
	out := make([]PairCount, 0, len(counts))
	for pair, n := range counts {
		out = append(out, PairCount{Pair: pair, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Pair.Less(out[j].Pair)
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// RankPairsByFrequency counts, per ARG-MGE pair, how many (patient, ARG,
// MGE) entries of tl collapse onto it.
func RankPairsByFrequency(tl traversal.Timeline, topN int) []PairCount {
	counts := make(map[traversal.PairKey]int)
	for k := range tl {
		counts[k.Pair()]++
	}
	return rank(counts, topN)
}

// RankPairsByFrequencyExcludingDonor ranks as RankPairsByFrequency after
// removing Donor timepoints. Entries observed only in the donor drop out.
func RankPairsByFrequencyExcludingDonor(tl traversal.Timeline, topN int) []PairCount {
	return RankPairsByFrequency(WithoutDonor(tl), topN)
}

// WithoutDonor returns a copy of tl with Donor timepoints removed and
// emptied entries dropped.
func WithoutDonor(tl traversal.Timeline) traversal.Timeline {
	out := make(traversal.Timeline)
	for k, set := range tl {
		for tp := range set {
			if !IsDonor(tp) {
				out.Add(k, tp)
			}
		}
	}
	return out
}

// PairPatients maps ARG-MGE pairs to the patients counted for them.
type PairPatients map[traversal.PairKey]graph.PatientSet

// CollectPairPatients builds the pair to patient map for pattern c in two
// stages. A pair is eligible only if the union of its timepoints over all
// patients matches c; for eligible pairs, a patient is counted only if the
// patient's own timepoints for the pair also match c.
func CollectPairPatients(tl traversal.Timeline, c Criteria) PairPatients {
	eligible := make(map[traversal.PairKey]bool)
	for pair, set := range tl.ByPair() {
		if c.Matches(set) {
			eligible[pair] = true
		}
	}

	out := make(PairPatients)
	for k, set := range tl {
		pair := k.Pair()
		if !eligible[pair] || !c.Matches(set) {
			continue
		}
		patients, ok := out[pair]
		if !ok {
			patients = make(graph.PatientSet)
			out[pair] = patients
		}
		patients.Add(k.PatientID)
	}
	return out
}

// RankPairsByUniquePatientCount ranks pairs by the size of their patient
// sets.
func RankPairsByUniquePatientCount(pairToPatients PairPatients, topN int) []PairCount {
	counts := make(map[traversal.PairKey]int, len(pairToPatients))
	for pair, patients := range pairToPatients {
		counts[pair] = patients.Len()
	}
	return rank(counts, topN)
}
