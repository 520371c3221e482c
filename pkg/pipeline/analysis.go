package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/dd0wney/conet/pkg/logging"
	"github.com/dd0wney/conet/pkg/query"
	"github.com/dd0wney/conet/pkg/report"
	"github.com/dd0wney/conet/pkg/traversal"
)

// Analysis holds the query results reported for a run.
type Analysis struct {
	// Patterns evaluates every presence pattern over all patients;
	// CohortPatterns repeats it per disease label.
	Patterns       []report.PatternRow
	CohortPatterns []report.PatternRow
	// Entries counts timeline entries per pattern over all patients.
	Entries map[query.Criteria]int

	Dynamics map[query.Dynamics]traversal.Timeline
	Groups   []query.GroupCount

	TopPairs               []query.PairCount
	TopPairsExcludingDonor []query.PairCount
	TopARGs                []query.EntityCount
	TopMGEs                []query.EntityCount
}

// Analyze evaluates the presence patterns, dynamics, group summary and
// rankings over the run's timeline.
func (r *Run) Analyze(ctx context.Context) (*Analysis, error) {
	a := &Analysis{}
	topN := r.Config.Query.TopN

	err := r.stage(ctx, StageAnalyze, func() ([]logging.Field, error) {
		a.Patterns = report.PatternRows(report.AllCohorts, r.Timeline)
		a.CohortPatterns = report.CohortPatternRows(r.Timeline, r.Cohorts)
		a.Entries = patternEntries(r.Timeline)
		a.Dynamics = query.ClassifyDynamics(r.Timeline)
		a.Groups = query.MGEGroupSummary(r.Timeline, r.Catalog)
		a.TopPairs = query.RankPairsByFrequency(r.Timeline, topN)
		a.TopPairsExcludingDonor = query.RankPairsByFrequencyExcludingDonor(r.Timeline, topN)
		a.TopARGs = query.TopEntities(r.Graph, true, topN)
		a.TopMGEs = query.TopEntities(r.Graph, false, topN)
		return []logging.Field{
			logging.Int("pattern_rows", len(a.Patterns)),
			logging.Int("cohort_rows", len(a.CohortPatterns)),
			logging.Int("groups", len(a.Groups)),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	if r.metrics != nil {
		r.recordAnalysis(a)
	}
	return a, nil
}

func patternEntries(tl traversal.Timeline) map[query.Criteria]int {
	out := make(map[query.Criteria]int)
	for _, set := range tl {
		out[query.PresenceOf(set)]++
	}
	return out
}

func (r *Run) recordAnalysis(a *Analysis) {
	cohorts := query.ByCohort(r.Timeline, r.Cohorts, report.Unlabeled)
	cohorts[report.AllCohorts] = r.Timeline

	pairs := make(map[string]map[query.Criteria]int)
	for _, rows := range [][]report.PatternRow{a.Patterns, a.CohortPatterns} {
		for _, row := range rows {
			if pairs[row.Cohort] == nil {
				pairs[row.Cohort] = make(map[query.Criteria]int)
			}
			pairs[row.Cohort][row.Pattern]++
		}
	}

	for label, tl := range cohorts {
		r.metrics.SetTimelineEntries(label, len(tl))
		entries := patternEntries(tl)
		for _, c := range query.AllPatterns() {
			r.metrics.RecordPattern(label, c.Slug(), entries[c], pairs[label][c])
		}
	}
	for _, d := range query.AllDynamics() {
		r.metrics.SetDynamics(d.String(), len(a.Dynamics[d]))
	}
}

// PairLines renders ranked pairs as "ARG - MGE (count)".
func (r *Run) PairLines(ranked []query.PairCount) []string {
	out := make([]string, 0, len(ranked))
	for _, pc := range ranked {
		out = append(out, fmt.Sprintf("%s (%d)", query.PairLabel(r.Catalog, pc.Pair), pc.Count))
	}
	return out
}

// Summary assembles the terminal summary of a finished run.
func (r *Run) Summary(a *Analysis, outputs []Output) report.Summary {
	paths := make([]string, 0, len(outputs))
	for _, o := range outputs {
		paths = append(paths, o.Path)
	}
	sort.Strings(paths)
	return report.Summary{
		RunID:    r.ID,
		Stats:    r.Statistics,
		Build:    r.Build,
		Timeline: len(r.Timeline),
		Patterns: report.PatternTotals(a.Patterns, a.Entries),
		TopPairs: r.PairLines(a.TopPairs),
		Outputs:  paths,
	}
}
