package graphql

import (
	"fmt"
	"sort"
	"sync"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/conet/pkg/catalog"
	"github.com/dd0wney/conet/pkg/export"
	"github.com/dd0wney/conet/pkg/graph"
	"github.com/dd0wney/conet/pkg/query"
	"github.com/dd0wney/conet/pkg/report"
	"github.com/dd0wney/conet/pkg/traversal"
)

// nodeKeyField carries the graph key of a node map to nested resolvers.
// It is not part of the schema.
const nodeKeyField = "_key"

type resolver struct {
	data   *Data
	limits *LimitConfig

	byCohort       map[string]traversal.Timeline
	patientsByNode map[graph.NodeKey]graph.PatientSet

	pairsOnce sync.Once
	pairs     traversal.PairTimeline
}

func newResolver(d *Data, limits *LimitConfig) *resolver {
	tl := d.Timeline
	if tl == nil {
		tl = make(traversal.Timeline)
	}
	return &resolver{
		data:           d,
		limits:         limits,
		byCohort:       query.ByCohort(tl, d.Cohorts, report.Unlabeled),
		patientsByNode: d.Graph.NodePatients(),
	}
}

// scope returns the timeline of one cohort. "" and "All" select every
// patient; a known label with no entries yields an empty timeline.
func (r *resolver) scope(cohort string) (traversal.Timeline, error) {
	if cohort == "" || cohort == report.AllCohorts {
		return r.data.Timeline, nil
	}
	if tl, ok := r.byCohort[cohort]; ok {
		return tl, nil
	}
	for _, label := range r.data.Cohorts {
		if label == cohort {
			return traversal.Timeline{}, nil
		}
	}
	return nil, fmt.Errorf("unknown cohort %q", cohort)
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

func intArg(p graphql.ResolveParams, name string) (int, bool) {
	n, ok := p.Args[name].(int)
	return n, ok
}

// limitArg reads the limit argument through the limit config; an absent
// argument takes the default.
func (r *resolver) limitArg(p graphql.ResolveParams) int {
	requested := -1
	if n, ok := intArg(p, "limit"); ok {
		requested = n
	}
	return applyLimit(requested, r.limits)
}

// window slices [offset, offset+limit) out of n items.
func (r *resolver) window(p graphql.ResolveParams, n int) (lo, hi int) {
	lo, _ = intArg(p, "offset")
	if lo < 0 {
		lo = 0
	}
	if lo > n {
		lo = n
	}
	hi = lo + r.limitArg(p)
	if hi > n {
		hi = n
	}
	return lo, hi
}

func (r *resolver) entity(id int, isARG bool) map[string]any {
	cat := r.data.Catalog
	if isARG {
		m := map[string]any{
			"id":    id,
			"kind":  catalog.KindARG.String(),
			"name":  cat.ARGName(id),
			"group": cat.ARGGroup(id),
		}
		if a, ok := cat.LookupARG(id); ok {
			m["class"] = a.Class
		}
		return m
	}
	return map[string]any{
		"id":    id,
		"kind":  catalog.KindMGE.String(),
		"name":  cat.MGEName(id),
		"group": cat.MGEGroup(id),
		"label": cat.MGELabel(id),
	}
}

func (r *resolver) node(k graph.NodeKey) map[string]any {
	m := map[string]any{
		"id":         export.NodeID(k),
		"entity":     r.entity(k.EntityID, k.IsARG),
		"timepoint":  k.Timepoint.String(),
		nodeKeyField: k,
	}
	if day, ok := k.Timepoint.Day(); ok {
		m["day"] = day
	}
	return m
}

func timepointNames(tps []graph.Timepoint) []string {
	out := make([]string, len(tps))
	for i, tp := range tps {
		out[i] = tp.String()
	}
	return out
}

func (r *resolver) entry(k traversal.TripleKey, set traversal.TimepointSet) map[string]any {
	m := map[string]any{
		"patient":    k.PatientID,
		"arg":        r.entity(k.ARGID, true),
		"mge":        r.entity(k.MGEID, false),
		"timepoints": timepointNames(set.Sorted()),
		"pattern":    query.PresenceOf(set).Label(),
	}
	if label, ok := r.data.Cohorts[k.PatientID]; ok {
		m["cohort"] = label
	}
	if d, ok := query.DynamicsOf(set); ok {
		m["dynamics"] = d.String()
	}
	return m
}

func (r *resolver) pairCount(pc query.PairCount) map[string]any {
	return map[string]any{
		"arg":   r.entity(pc.Pair.ARGID, true),
		"mge":   r.entity(pc.Pair.MGEID, false),
		"label": query.PairLabel(r.data.Catalog, pc.Pair),
		"count": pc.Count,
	}
}

func (r *resolver) pairCounts(ranked []query.PairCount) []map[string]any {
	out := make([]map[string]any, 0, len(ranked))
	for _, pc := range ranked {
		out = append(out, r.pairCount(pc))
	}
	return out
}

// entries renders tl in key order, windowed by offset and limit.
func (r *resolver) entries(p graphql.ResolveParams, tl traversal.Timeline) []map[string]any {
	keys := tl.Keys()
	lo, hi := r.window(p, len(keys))
	out := make([]map[string]any, 0, hi-lo)
	for _, k := range keys[lo:hi] {
		out = append(out, r.entry(k, tl[k]))
	}
	return out
}

func (r *resolver) statistics(graphql.ResolveParams) (any, error) {
	s := r.data.Statistics
	return map[string]any{
		"runId":               r.data.RunID,
		"totalNodes":          s.TotalNodes,
		"totalEdges":          s.TotalEdges,
		"argNodes":            s.ARGNodes,
		"mgeNodes":            s.MGENodes,
		"colocalizationEdges": s.ColocalizationEdges,
		"temporalEdges":       s.TemporalEdges,
		"adjacencyNodes":      s.AdjacencyNodes,
		"patients":            s.Patients,
		"timelineEntries":     len(r.data.Timeline),
	}, nil
}

func (r *resolver) cohorts(graphql.ResolveParams) (any, error) {
	patients := make(map[string]graph.PatientSet)
	for id, label := range r.data.Cohorts {
		if patients[label] == nil {
			patients[label] = make(graph.PatientSet)
		}
		patients[label].Add(id)
	}
	if tl, ok := r.byCohort[report.Unlabeled]; ok {
		patients[report.Unlabeled] = graph.NewPatientSet(tl.Patients()...)
	}

	labels := make([]string, 0, len(patients))
	for label := range patients {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	out := make([]map[string]any, 0, len(labels))
	for _, label := range labels {
		out = append(out, map[string]any{
			"label":    label,
			"patients": patients[label].Sorted(),
			"entries":  len(r.byCohort[label]),
		})
	}
	return out, nil
}

func (r *resolver) nodes(p graphql.ResolveParams) (any, error) {
	kind := stringArg(p, "kind")
	name := stringArg(p, "name")
	var (
		tp    graph.Timepoint
		byTP  bool
		parse error
	)
	if s := stringArg(p, "timepoint"); s != "" {
		tp, parse = graph.ParseTimepoint(s)
		if parse != nil {
			return nil, parse
		}
		byTP = true
	}

	var keep []graph.NodeKey
	for _, n := range r.data.Graph.Nodes() {
		k := n.NodeKey
		if kind != "" && k.IsARG != (kind == catalog.KindARG.String()) {
			continue
		}
		if byTP && k.Timepoint != tp {
			continue
		}
		if name != "" && r.entity(k.EntityID, k.IsARG)["name"] != name {
			continue
		}
		keep = append(keep, k)
	}

	lo, hi := r.window(p, len(keep))
	out := make([]map[string]any, 0, hi-lo)
	for _, k := range keep[lo:hi] {
		out = append(out, r.node(k))
	}
	return out, nil
}

func (r *resolver) nodePatients(p graphql.ResolveParams) (any, error) {
	m, ok := p.Source.(map[string]any)
	if !ok {
		return nil, nil
	}
	k, ok := m[nodeKeyField].(graph.NodeKey)
	if !ok {
		return nil, nil
	}
	return r.patientsByNode[k].Sorted(), nil
}

func (r *resolver) edges(p graphql.ResolveParams) (any, error) {
	kind := stringArg(p, "kind")
	patient, byPatient := intArg(p, "patient")

	var keep []*graph.Edge
	for _, e := range r.data.Graph.Edges() {
		if (kind == edgeColocalization && !e.IsColo) || (kind == edgeTemporal && e.IsColo) {
			continue
		}
		if byPatient && !e.HasPatient(patient) {
			continue
		}
		keep = append(keep, e)
	}

	lo, hi := r.window(p, len(keep))
	out := make([]map[string]any, 0, hi-lo)
	for _, e := range keep[lo:hi] {
		m := map[string]any{
			"kind":     edgeTemporal,
			"source":   r.node(e.Source),
			"target":   r.node(e.Target),
			"patients": e.Patients.Sorted(),
		}
		if e.IsColo {
			m["kind"] = edgeColocalization
			m["weight"] = e.Patients.Len()
		} else {
			m["weight"] = e.Weight
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *resolver) timeline(p graphql.ResolveParams) (any, error) {
	tl, err := r.scope(stringArg(p, "cohort"))
	if err != nil {
		return nil, err
	}

	var filters []func(traversal.TripleKey, traversal.TimepointSet) bool
	if patient, ok := intArg(p, "patient"); ok {
		filters = append(filters, func(k traversal.TripleKey, _ traversal.TimepointSet) bool {
			return k.PatientID == patient
		})
	}
	if s := stringArg(p, "pattern"); s != "" {
		c, err := query.ParseCriteria(s)
		if err != nil {
			return nil, err
		}
		filters = append(filters, func(_ traversal.TripleKey, set traversal.TimepointSet) bool {
			return c.Matches(set)
		})
	}
	if sel, ok := selectorArg(p); ok {
		tl = query.FilterBySelector(tl, sel)
	}
	for _, kind := range []catalog.Kind{catalog.KindARG, catalog.KindMGE} {
		arg := "arg"
		if kind == catalog.KindMGE {
			arg = "mge"
		}
		name := stringArg(p, arg)
		if name == "" {
			continue
		}
		id, err := r.data.Catalog.ResolveID(kind, name)
		if err != nil {
			return nil, err
		}
		isARG := kind == catalog.KindARG
		filters = append(filters, func(k traversal.TripleKey, _ traversal.TimepointSet) bool {
			if isARG {
				return k.ARGID == id
			}
			return k.MGEID == id
		})
	}

	filtered := tl.Filter(func(k traversal.TripleKey, set traversal.TimepointSet) bool {
		for _, keep := range filters {
			if !keep(k, set) {
				return false
			}
		}
		return true
	})
	return r.entries(p, filtered), nil
}

// selectorArg reads the per-phase presence arguments. Phases left out are
// don't-care; ok is false when none was given.
func selectorArg(p graphql.ResolveParams) (sel query.Selector, ok bool) {
	sel = query.Selector{Donor: query.Any, PreFMT: query.Any, PostFMT: query.Any}
	for name, dst := range map[string]*query.Presence{
		"donor":   &sel.Donor,
		"preFMT":  &sel.PreFMT,
		"postFMT": &sel.PostFMT,
	} {
		if v, set := p.Args[name].(string); set {
			*dst = presenceValues[v]
			ok = true
		}
	}
	return sel, ok
}

// pairTimeline walks every pair from its earliest occurrence across all
// patients. The walk runs once per schema.
func (r *resolver) pairTimeline(p graphql.ResolveParams) (any, error) {
	r.pairsOnce.Do(func() {
		adj := r.data.Adjacency
		if adj == nil {
			adj = graph.BuildAdjacency(r.data.Graph)
		}
		r.pairs = traversal.TraversePairs(r.data.Graph, adj, nil)
	})

	argID, mgeID := -1, -1
	if name := stringArg(p, "arg"); name != "" {
		id, err := r.data.Catalog.ResolveID(catalog.KindARG, name)
		if err != nil {
			return nil, err
		}
		argID = id
	}
	if name := stringArg(p, "mge"); name != "" {
		id, err := r.data.Catalog.ResolveID(catalog.KindMGE, name)
		if err != nil {
			return nil, err
		}
		mgeID = id
	}

	var keep []traversal.PairKey
	for _, k := range r.pairs.Keys() {
		if (argID >= 0 && k.ARGID != argID) || (mgeID >= 0 && k.MGEID != mgeID) {
			continue
		}
		keep = append(keep, k)
	}

	lo, hi := r.window(p, len(keep))
	out := make([]map[string]any, 0, hi-lo)
	for _, k := range keep[lo:hi] {
		set := r.pairs[k]
		out = append(out, map[string]any{
			"arg":        r.entity(k.ARGID, true),
			"mge":        r.entity(k.MGEID, false),
			"label":      query.PairLabel(r.data.Catalog, k),
			"timepoints": timepointNames(set.Sorted()),
			"pattern":    query.PresenceOf(set).Label(),
		})
	}
	return out, nil
}

func (r *resolver) dynamics(p graphql.ResolveParams) (any, error) {
	d, err := query.ParseDynamics(stringArg(p, "class"))
	if err != nil {
		return nil, err
	}
	tl, err := r.scope(stringArg(p, "cohort"))
	if err != nil {
		return nil, err
	}
	return r.entries(p, query.ClassifyDynamics(tl)[d]), nil
}

func (r *resolver) patterns(p graphql.ResolveParams) (any, error) {
	cohort := stringArg(p, "cohort")
	tl, err := r.scope(cohort)
	if err != nil {
		return nil, err
	}
	if cohort == "" {
		cohort = report.AllCohorts
	}

	patterns := query.AllPatterns()
	if s := stringArg(p, "pattern"); s != "" {
		c, err := query.ParseCriteria(s)
		if err != nil {
			return nil, err
		}
		patterns = []query.Criteria{c}
	}

	limit := r.limitArg(p)
	out := make([]map[string]any, 0, len(patterns))
	for _, c := range patterns {
		var pairs []query.PairCount
		if limit > 0 {
			pairs = query.RankPairsByUniquePatientCount(query.CollectPairPatients(tl, c), limit)
		}
		out = append(out, map[string]any{
			"cohort":  cohort,
			"pattern": c.Label(),
			"slug":    c.Slug(),
			"entries": len(query.FilterByPresenceCriteria(tl, c)),
			"pairs":   r.pairCounts(pairs),
		})
	}
	return out, nil
}

func (r *resolver) topPairs(p graphql.ResolveParams) (any, error) {
	limit := r.limitArg(p)
	if limit == 0 {
		return []map[string]any{}, nil
	}
	var ranked []query.PairCount
	if exclude, _ := p.Args["excludeDonor"].(bool); exclude {
		ranked = query.RankPairsByFrequencyExcludingDonor(r.data.Timeline, limit)
	} else {
		ranked = query.RankPairsByFrequency(r.data.Timeline, limit)
	}
	return r.pairCounts(ranked), nil
}

func (r *resolver) topEntities(p graphql.ResolveParams) (any, error) {
	limit := r.limitArg(p)
	if limit == 0 {
		return []map[string]any{}, nil
	}
	isARG := stringArg(p, "kind") == catalog.KindARG.String()
	ranked := query.TopEntities(r.data.Graph, isARG, limit)
	out := make([]map[string]any, 0, len(ranked))
	for _, ec := range ranked {
		out = append(out, map[string]any{
			"entity": r.entity(ec.ID, isARG),
			"count":  ec.Count,
		})
	}
	return out, nil
}

func (r *resolver) connectedARGs(p graphql.ResolveParams) (any, error) {
	id, err := r.data.Catalog.ResolveID(catalog.KindMGE, stringArg(p, "mge"))
	if err != nil {
		return nil, err
	}
	connected := query.ConnectedARGs(r.data.Graph, id)
	out := make([]map[string]any, 0, len(connected))
	for _, c := range connected {
		out = append(out, map[string]any{
			"arg":        r.entity(c.ARGID, true),
			"timepoints": timepointNames(c.Timepoints),
			"patients":   c.Patients,
		})
	}
	return out, nil
}

func (r *resolver) mgeGroups(p graphql.ResolveParams) (any, error) {
	tl, err := r.scope(stringArg(p, "cohort"))
	if err != nil {
		return nil, err
	}
	groups := query.MGEGroupSummary(tl, r.data.Catalog)
	out := make([]map[string]any, 0, len(groups))
	for _, g := range groups {
		out = append(out, map[string]any{
			"group":    g.Group,
			"pairs":    g.Pairs,
			"patients": g.Patients,
			"entries":  g.Entries,
		})
	}
	return out, nil
}
