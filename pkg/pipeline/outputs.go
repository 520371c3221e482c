package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dd0wney/conet/pkg/export"
	"github.com/dd0wney/conet/pkg/logging"
	"github.com/dd0wney/conet/pkg/query"
	"github.com/dd0wney/conet/pkg/report"
	"github.com/dd0wney/conet/pkg/visualization"
)

// maxConcurrentWrites bounds the number of output files written at once.
const maxConcurrentWrites = 4

// Output is one file written by WriteOutputs.
type Output struct {
	Kind  string
	Path  string
	Bytes int64
}

type job struct {
	kind  string
	path  string
	write func(io.Writer) error
}

// format names the metrics label of a path: "csv", "json", "dot", with a
// "+snappy" suffix for compressed files.
func format(path string) string {
	base := strings.TrimSuffix(path, export.CompressedExt)
	f := strings.TrimPrefix(filepath.Ext(base), ".")
	if base != path {
		f += "+snappy"
	}
	return f
}

func (r *Run) reportJobs(a *Analysis) []job {
	cfg := r.Config
	out := cfg.Output
	jobs := []job{
		{kind: "statistics", path: cfg.OutputPath(out.Statistics), write: func(w io.Writer) error {
			return report.WriteStatistics(w, r.Statistics)
		}},
		{kind: "patterns", path: cfg.OutputPath(out.Patterns), write: func(w io.Writer) error {
			return report.WritePatterns(w, r.Catalog, a.Patterns)
		}},
		{kind: "disease_type", path: cfg.OutputPath(out.DiseaseType), write: func(w io.Writer) error {
			return report.WritePatterns(w, r.Catalog, a.CohortPatterns)
		}},
		{kind: "mge_group", path: cfg.OutputPath(out.MGEGroup), write: func(w io.Writer) error {
			return report.WriteGroups(w, a.Groups)
		}},
	}

	dyn := out.TemporalDynamics
	names := map[query.Dynamics]string{
		query.Emerge:    dyn.Emerge,
		query.Disappear: dyn.Disappear,
		query.Transfer:  dyn.Transfer,
		query.Persist:   dyn.Persist,
	}
	for _, d := range query.AllDynamics() {
		tl := a.Dynamics[d]
		jobs = append(jobs, job{kind: d.String(), path: cfg.OutputPath(names[d]), write: func(w io.Writer) error {
			return report.WriteDynamics(w, r.Catalog, tl)
		}})
	}
	return jobs
}

func (r *Run) exportJobs() []job {
	cfg := r.Config
	viz := cfg.Viz

	opts := export.JSONOptions{RunID: r.ID}
	if viz.Layout != "none" {
		layout, err := visualization.New(viz.Layout, &visualization.LayoutConfig{Seed: 1})
		if err != nil {
			r.logger.Warn("layout disabled", logging.Error(err))
		} else {
			opts.Layout, opts.LayoutName = layout, viz.Layout
		}
	}

	return []job{
		{kind: "dot", path: cfg.OutputPath(viz.DOT), write: func(w io.Writer) error {
			stats, err := export.WriteDOT(w, r.Graph, export.DOTOptions{MaxNodes: viz.MaxNodes, MaxEdges: viz.MaxEdges})
			if err == nil && (stats.Nodes < r.Graph.NodeCount() || stats.Edges < r.Graph.EdgeCount()) {
				r.logger.Info("dot export truncated",
					logging.Int("nodes", stats.Nodes), logging.Int("edges", stats.Edges))
			}
			return err
		}},
		{kind: "interaction_json", path: cfg.OutputPath(viz.InteractionJSON), write: func(w io.Writer) error {
			return export.WriteJSON(w, export.BuildInteractionDocument(r.Graph, r.Catalog, opts))
		}},
		{kind: "parent_json", path: cfg.OutputPath(viz.ParentJSON), write: func(w io.Writer) error {
			return export.WriteJSON(w, export.BuildParentDocument(r.Graph, r.Catalog, opts))
		}},
	}
}

// WriteOutputs writes every configured report and export concurrently, then
// the metrics textfile. Disabled outputs are skipped. The returned outputs
// are in job order.
func (r *Run) WriteOutputs(ctx context.Context, a *Analysis) ([]Output, error) {
	jobs := append(r.reportJobs(a), r.exportJobs()...)
	return r.writeJobs(ctx, jobs)
}

// WriteExports writes only the graph exports.
func (r *Run) WriteExports(ctx context.Context) ([]Output, error) {
	return r.writeJobs(ctx, r.exportJobs())
}

func (r *Run) writeJobs(ctx context.Context, jobs []job) ([]Output, error) {
	results := make([]Output, len(jobs))
	err := r.stage(ctx, StageOutputs, func() ([]logging.Field, error) {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrentWrites)
		for i, j := range jobs {
			if j.path == "" {
				continue
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				n, err := export.WriteFile(j.path, j.write)
				if err != nil {
					return err
				}
				results[i] = Output{Kind: j.kind, Path: j.path, Bytes: n}
				if r.metrics != nil {
					r.metrics.RecordExport(format(j.path), n)
				}
				r.logger.Debug("output written", logging.String("kind", j.kind), logging.Path(j.path), logging.Int("bytes", int(n)))
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return []logging.Field{logging.Count(len(jobs))}, nil
	})
	if err != nil {
		return nil, err
	}

	written := results[:0]
	for _, o := range results {
		if o.Path != "" {
			written = append(written, o)
		}
	}

	if path := r.Config.OutputPath(r.Config.Output.Metrics); path != "" && r.metrics != nil {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
		}
		if err := r.metrics.WriteTextfile(path); err != nil {
			return written, err
		}
		written = append(written, Output{Kind: "metrics", Path: path})
	}
	return written, nil
}
