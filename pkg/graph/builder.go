package graph

import (
	"github.com/dd0wney/conet/pkg/catalog"
	"github.com/dd0wney/conet/pkg/logging"
)

// Resolver is the catalog view the builder needs.
type Resolver interface {
	LookupARG(id int) (catalog.ARG, bool)
	LookupMGE(id int) (catalog.MGE, bool)
}

// Record is one presence observation: patient, ARG, MGE, timepoint and
// whether the pair was detected there.
type Record struct {
	PatientID int       `json:"patient" validate:"gte=0"`
	ARGID     int       `json:"arg" validate:"gte=0"`
	MGEID     int       `json:"mge" validate:"gte=0"`
	Timepoint Timepoint `json:"timepoint" validate:"timepoint"`
	Present   bool      `json:"present"`
}

// BuildOptions controls which ARGs enter the graph.
type BuildOptions struct {
	// ExcludeSNPConfirmed drops ARGs whose resistance needs SNP confirmation.
	ExcludeSNPConfirmed bool
	// ExcludeNonDrugARGs drops ARGs whose resistance class is not "Drugs"
	// (metal and biocide resistance).
	ExcludeNonDrugARGs bool
}

// Outcome describes what happened to one colocalization insert.
type Outcome int

const (
	OutcomeAdded Outcome = iota
	OutcomeDuplicate
	OutcomeAbsent
	OutcomeUnknownARG
	OutcomeUnknownMGE
	OutcomeSNPExcluded
	OutcomeNonDrugExcluded
	OutcomeInvalidTimepoint
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAdded:
		return "added"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeAbsent:
		return "absent"
	case OutcomeUnknownARG:
		return "unknown_arg"
	case OutcomeUnknownMGE:
		return "unknown_mge"
	case OutcomeSNPExcluded:
		return "snp_excluded"
	case OutcomeNonDrugExcluded:
		return "non_drug_excluded"
	case OutcomeInvalidTimepoint:
		return "invalid_timepoint"
	}
	return "unknown"
}

// Skipped reports whether the record left the graph untouched for a reason
// other than being a repeat.
func (o Outcome) Skipped() bool {
	return o != OutcomeAdded && o != OutcomeDuplicate
}

// AddColocalization records that patientID carries argID together with
// mgeID at tp. Records whose IDs do not resolve, or whose ARG is excluded by
// opts, are skipped without error. Repeating an insert has no further
// effect and reports OutcomeDuplicate.
func AddColocalization(g *Graph, res Resolver, argID, mgeID int, tp Timepoint, patientID int, opts BuildOptions) Outcome {
	if !tp.Valid() {
		return OutcomeInvalidTimepoint
	}
	arg, ok := res.LookupARG(argID)
	if !ok {
		return OutcomeUnknownARG
	}
	if _, ok := res.LookupMGE(mgeID); !ok {
		return OutcomeUnknownMGE
	}
	if opts.ExcludeSNPConfirmed && arg.RequiresSNPConfirmation {
		return OutcomeSNPExcluded
	}
	if opts.ExcludeNonDrugARGs && arg.Class != catalog.ClassDrugs {
		return OutcomeNonDrugExcluded
	}

	argNode := g.AddNode(Node{NodeKey: ARGNode(argID, tp), RequiresSNPConfirmation: arg.RequiresSNPConfirmation})
	mgeNode := g.AddNode(Node{NodeKey: MGENode(mgeID, tp)})

	// Cannot fail: the endpoints were just inserted and are ARG/MGE at tp.
	_, changed, _ := g.addColocalization(argNode.NodeKey, mgeNode.NodeKey, patientID)
	if !changed {
		return OutcomeDuplicate
	}
	return OutcomeAdded
}

// BuildStats counts builder outcomes.
type BuildStats struct {
	Records  int
	Outcomes map[Outcome]int
}

// Added returns the number of records that changed the graph.
func (s BuildStats) Added() int { return s.Outcomes[OutcomeAdded] }

// Skipped returns the number of records skipped for any reason other than
// being a repeat.
func (s BuildStats) Skipped() int {
	n := 0
	for o, c := range s.Outcomes {
		if o.Skipped() {
			n += c
		}
	}
	return n
}

// Builder feeds presence records into a graph.
type Builder struct {
	graph    *Graph
	resolver Resolver
	opts     BuildOptions
	logger   logging.Logger
	stats    BuildStats
}

// NewBuilder creates a builder over a fresh graph.
func NewBuilder(res Resolver, opts BuildOptions, logger logging.Logger) *Builder {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Builder{
		graph:    New(),
		resolver: res,
		opts:     opts,
		logger:   logger.With(logging.Component("builder")),
		stats:    BuildStats{Outcomes: make(map[Outcome]int)},
	}
}

// Add applies one record. Absent records are counted and ignored.
func (b *Builder) Add(rec Record) Outcome {
	b.stats.Records++
	outcome := OutcomeAbsent
	if rec.Present {
		outcome = AddColocalization(b.graph, b.resolver, rec.ARGID, rec.MGEID, rec.Timepoint, rec.PatientID, b.opts)
	}
	b.stats.Outcomes[outcome]++
	if outcome.Skipped() && outcome != OutcomeAbsent {
		b.logger.Debug("record skipped",
			logging.String("reason", outcome.String()),
			logging.Patient(rec.PatientID),
			logging.ARG(rec.ARGID),
			logging.MGE(rec.MGEID),
			logging.Timepoint(rec.Timepoint.String()),
		)
	}
	return outcome
}

// AddAll applies records in order.
func (b *Builder) AddAll(records []Record) {
	for _, rec := range records {
		b.Add(rec)
	}
}

// Graph returns the graph under construction.
func (b *Builder) Graph() *Graph { return b.graph }

// Stats returns a snapshot of the outcome counters.
func (b *Builder) Stats() BuildStats {
	out := BuildStats{Records: b.stats.Records, Outcomes: make(map[Outcome]int, len(b.stats.Outcomes))}
	for o, c := range b.stats.Outcomes {
		out.Outcomes[o] = c
	}
	return out
}

// Finish synthesizes temporal edges and returns the completed graph.
func (b *Builder) Finish(strategy TemporalStrategy) *Graph {
	added := SynthesizeTemporalEdges(b.graph, strategy)
	b.logger.Info("graph built",
		logging.Int("records", b.stats.Records),
		logging.Int("skipped", b.stats.Skipped()),
		logging.Int("nodes", b.graph.NodeCount()),
		logging.Int("edges", b.graph.EdgeCount()),
		logging.Int("temporal_edges", added),
		logging.String("temporal_strategy", strategy.String()),
	)
	return b.graph
}
