// Package pipeline runs an analysis end to end: it loads the catalog and
// presence table named by a config.Config, builds the colocalization graph,
// traverses it and hands back a Run for reporting, export and querying.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/conet/pkg/catalog"
	"github.com/dd0wney/conet/pkg/config"
	"github.com/dd0wney/conet/pkg/graph"
	"github.com/dd0wney/conet/pkg/ingest"
	"github.com/dd0wney/conet/pkg/logging"
	"github.com/dd0wney/conet/pkg/metrics"
	"github.com/dd0wney/conet/pkg/traversal"
)

// Stage names, used in logs and the conet_stage_* metrics.
const (
	StageCatalog   = "catalog"
	StageIngest    = "ingest"
	StageBuild     = "build"
	StageTemporal  = "temporal"
	StageAdjacency = "adjacency"
	StageTraverse  = "traverse"
	StageAnalyze   = "analyze"
	StageOutputs   = "outputs"
)

// Options carries the collaborators of a run. All fields are optional.
type Options struct {
	Logger  logging.Logger
	Metrics *metrics.Registry
	// S3 overrides the client built from the config for s3:// inputs.
	S3 ingest.ObjectGetter
}

// Run is a built and traversed graph together with its inputs.
type Run struct {
	ID         string
	Started    time.Time
	Config     *config.Config
	Catalog    *catalog.Catalog
	Cohorts    ingest.Cohorts
	Ingest     ingest.Stats
	Build      graph.BuildStats
	Graph      *graph.Graph
	Adjacency  *graph.Adjacency
	Timeline   traversal.Timeline
	Statistics graph.Statistics

	logger  logging.Logger
	metrics *metrics.Registry
}

// Logger returns the run-scoped logger.
func (r *Run) Logger() logging.Logger { return r.logger }

// Metrics returns the registry the run records into, or nil.
func (r *Run) Metrics() *metrics.Registry { return r.metrics }

func newRun(cfg *config.Config, opts Options) *Run {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	id := uuid.NewString()
	r := &Run{
		ID:      id,
		Started: time.Now(),
		Config:  cfg,
		logger:  logger.With(logging.RunID(id)),
		metrics: opts.Metrics,
	}
	if r.metrics != nil {
		r.metrics.SetRunInfo(id, cfg.TemporalStrategy().String(), r.Started)
	}
	return r
}

// stage times fn, logs its outcome and records it in metrics.
func (r *Run) stage(ctx context.Context, name string, fn func() ([]logging.Field, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timer := logging.StartTimer(r.logger, "stage "+name, logging.Stage(name))
	fields, err := fn()
	var elapsed time.Duration
	if err != nil {
		elapsed = timer.EndError(err)
	} else {
		elapsed = timer.End(fields...)
	}
	if r.metrics != nil {
		r.metrics.RecordStage(name, err, elapsed)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Load reads the configured inputs and builds a Run.
func Load(ctx context.Context, cfg *config.Config, opts Options) (*Run, error) {
	r := newRun(cfg, opts)

	opener := ingest.Opener{S3: opts.S3}
	if opener.S3 == nil && cfg.UsesS3() {
		client, err := ingest.NewS3Client(ctx, ingest.S3Options{
			Region:          cfg.Input.S3.Region,
			Endpoint:        cfg.Input.S3.Endpoint,
			AccessKeyID:     cfg.Input.S3.AccessKeyID,
			SecretAccessKey: cfg.Input.S3.SecretAccessKey,
			UsePathStyle:    cfg.Input.S3.UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		opener.S3 = client
	}

	var cat *catalog.Catalog
	err := r.stage(ctx, StageCatalog, func() ([]logging.Field, error) {
		rc, err := opener.Open(ctx, cfg.Input.Catalog)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		cat, err = catalog.Read(rc, cfg.Input.Catalog)
		if err != nil {
			return nil, err
		}
		args, mges := cat.Len()
		return []logging.Field{logging.Int("args", args), logging.Int("mges", mges)}, nil
	})
	if err != nil {
		return nil, err
	}

	var table *ingest.Table
	err = r.stage(ctx, StageIngest, func() ([]logging.Field, error) {
		rc, err := opener.Open(ctx, cfg.Input.Data)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		table, err = ingest.NewReader(cat, r.logger).Read(rc)
		if err != nil {
			return nil, err
		}
		return []logging.Field{logging.Path(cfg.Input.Data), logging.Count(len(table.Records))}, nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.assemble(ctx, cat, table); err != nil {
		return nil, err
	}
	return r, nil
}

// FromTable builds a Run from an already loaded catalog and table.
func FromTable(ctx context.Context, cfg *config.Config, cat *catalog.Catalog, table *ingest.Table, opts Options) (*Run, error) {
	r := newRun(cfg, opts)
	if err := r.assemble(ctx, cat, table); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Run) assemble(ctx context.Context, cat *catalog.Catalog, table *ingest.Table) error {
	r.Catalog = cat
	r.Cohorts = table.Cohorts
	r.Ingest = table.Stats
	if r.metrics != nil {
		r.metrics.RecordIngest(table.Stats.Rows, table.Stats.Bytes)
	}

	builder := graph.NewBuilder(cat, r.Config.BuildOptions(), r.logger)
	err := r.stage(ctx, StageBuild, func() ([]logging.Field, error) {
		builder.AddAll(table.Records)
		r.Build = builder.Stats()
		opts := r.Config.BuildOptions()
		return []logging.Field{
			logging.Int("added", r.Build.Added()),
			logging.Int("skipped", r.Build.Skipped()),
			logging.Bool("exclude_snp_confirmed", opts.ExcludeSNPConfirmed),
			logging.Bool("exclude_non_drug", opts.ExcludeNonDrugARGs),
		}, nil
	})
	if err != nil {
		return err
	}
	if r.metrics != nil {
		outcomes := make(map[string]int, len(r.Build.Outcomes))
		for o, n := range r.Build.Outcomes {
			outcomes[o.String()] = n
		}
		r.metrics.RecordOutcomes(outcomes)
	}

	err = r.stage(ctx, StageTemporal, func() ([]logging.Field, error) {
		r.Graph = builder.Finish(r.Config.TemporalStrategy())
		return []logging.Field{logging.Int("edges", r.Graph.EdgeCount())}, nil
	})
	if err != nil {
		return err
	}

	err = r.stage(ctx, StageAdjacency, func() ([]logging.Field, error) {
		r.Adjacency = graph.BuildAdjacency(r.Graph)
		return []logging.Field{logging.Int("nodes", r.Adjacency.Len())}, nil
	})
	if err != nil {
		return err
	}

	err = r.stage(ctx, StageTraverse, func() ([]logging.Field, error) {
		r.Timeline = traversal.TraverseByIndividual(r.Graph, r.Adjacency, r.logger)
		return []logging.Field{logging.Int("entries", len(r.Timeline))}, nil
	})
	if err != nil {
		return err
	}

	r.Statistics = graph.ComputeStatistics(r.Graph, r.Adjacency)
	if r.metrics != nil {
		s := r.Statistics
		r.metrics.UpdateGraphMetrics(s.ARGNodes, s.MGENodes, s.ColocalizationEdges, s.TemporalEdges, s.Patients, s.AdjacencyNodes)
	}
	return nil
}
