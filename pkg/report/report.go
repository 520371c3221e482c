// Package report writes analysis results as CSV files and renders the
// terminal run summary.
package report

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/dd0wney/conet/pkg/graph"
	"github.com/dd0wney/conet/pkg/query"
	"github.com/dd0wney/conet/pkg/traversal"
)

// AllCohorts labels rows computed over every patient.
const AllCohorts = "All"

// Unlabeled is the cohort of patients without a disease label.
const Unlabeled = "Unlabeled"

// Names renders catalog IDs. *catalog.Catalog implements it.
type Names interface {
	ARGName(id int) string
	MGEName(id int) string
	ARGGroup(id int) string
	MGEGroup(id int) string
}

// PatternRow is one pair matching one presence pattern in one cohort.
type PatternRow struct {
	Cohort   string
	Pattern  query.Criteria
	Pair     traversal.PairKey
	Patients int
}

// PatternRows evaluates every presence pattern over tl. Within a pattern,
// pairs are ordered by patient count descending.
func PatternRows(cohort string, tl traversal.Timeline) []PatternRow {
	var rows []PatternRow
	for _, c := range query.AllPatterns() {
		ranked := query.RankPairsByUniquePatientCount(query.CollectPairPatients(tl, c), 0)
		for _, pc := range ranked {
			rows = append(rows, PatternRow{Cohort: cohort, Pattern: c, Pair: pc.Pair, Patients: pc.Count})
		}
	}
	return rows
}

// CohortPatternRows evaluates the patterns separately for each cohort label,
// in label order. Patients missing from cohorts fall under Unlabeled.
func CohortPatternRows(tl traversal.Timeline, cohorts map[int]string) []PatternRow {
	split := query.ByCohort(tl, cohorts, Unlabeled)
	labels := make([]string, 0, len(split))
	for label := range split {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var rows []PatternRow
	for _, label := range labels {
		rows = append(rows, PatternRows(label, split[label])...)
	}
	return rows
}

// PatternHeader is the header of pattern and disease files.
var PatternHeader = []string{"Cohort", "Pattern", "ARG", "ARG Group", "MGE", "MGE Group", "Patients"}

// WritePatterns writes rows as CSV. With no rows only the header is written.
func WritePatterns(w io.Writer, names Names, rows []PatternRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PatternHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			r.Cohort,
			r.Pattern.Label(),
			names.ARGName(r.Pair.ARGID),
			names.ARGGroup(r.Pair.ARGID),
			names.MGEName(r.Pair.MGEID),
			names.MGEGroup(r.Pair.MGEID),
			strconv.Itoa(r.Patients),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DynamicsHeader is the header of the per-dynamics files.
var DynamicsHeader = []string{"Patient", "ARG", "MGE", "Timepoints"}

// WriteDynamics writes one row per (patient, ARG, MGE) entry of tl in key
// order. The timepoint column lists the entry's timepoints separated by
// semicolons.
func WriteDynamics(w io.Writer, names Names, tl traversal.Timeline) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(DynamicsHeader); err != nil {
		return err
	}
	for _, k := range tl.Keys() {
		if err := cw.Write([]string{
			strconv.Itoa(k.PatientID),
			names.ARGName(k.ARGID),
			names.MGEName(k.MGEID),
			joinTimepoints(tl[k].Sorted()),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func joinTimepoints(tps []graph.Timepoint) string {
	var b []byte
	for i, tp := range tps {
		if i > 0 {
			b = append(b, ';')
		}
		b = append(b, tp.String()...)
	}
	return string(b)
}

// GroupHeader is the header of the MGE group file.
var GroupHeader = []string{"MGE Group", "Pairs", "Patients", "Entries"}

// WriteGroups writes an MGE group summary.
func WriteGroups(w io.Writer, groups []query.GroupCount) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(GroupHeader); err != nil {
		return err
	}
	for _, g := range groups {
		if err := cw.Write([]string{
			g.Group,
			strconv.Itoa(g.Pairs),
			strconv.Itoa(g.Patients),
			strconv.Itoa(g.Entries),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStatistics writes the one-row graph statistics file.
func WriteStatistics(w io.Writer, s graph.Statistics) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll([][]string{s.Header(), s.Row()}); err != nil {
		return err
	}
	return cw.Error()
}

// RankingHeader is the header of ranking output.
var RankingHeader = []string{"Rank", "ARG", "MGE", "Count"}

// WriteRanking writes ranked pairs with 1-based ranks.
func WriteRanking(w io.Writer, names Names, ranked []query.PairCount) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RankingHeader); err != nil {
		return err
	}
	for i, pc := range ranked {
		if err := cw.Write([]string{
			strconv.Itoa(i + 1),
			names.ARGName(pc.Pair.ARGID),
			names.MGEName(pc.Pair.MGEID),
			strconv.Itoa(pc.Count),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EntityRankingHeader is the header of ARG or MGE ranking output.
var EntityRankingHeader = []string{"Rank", "Kind", "Name", "Group", "Patients"}

// WriteEntityRanking writes ranked ARGs (isARG) or MGEs with 1-based ranks.
func WriteEntityRanking(w io.Writer, names Names, isARG bool, ranked []query.EntityCount) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(EntityRankingHeader); err != nil {
		return err
	}
	for i, ec := range ranked {
		kind, name, group := "MGE", names.MGEName(ec.ID), names.MGEGroup(ec.ID)
		if isARG {
			kind, name, group = "ARG", names.ARGName(ec.ID), names.ARGGroup(ec.ID)
		}
		if err := cw.Write([]string{strconv.Itoa(i + 1), kind, name, group, strconv.Itoa(ec.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
