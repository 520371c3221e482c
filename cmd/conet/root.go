package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/conet/pkg/config"
	"github.com/dd0wney/conet/pkg/graph"
	"github.com/dd0wney/conet/pkg/logging"
	"github.com/dd0wney/conet/pkg/metrics"
	"github.com/dd0wney/conet/pkg/pipeline"
	"github.com/dd0wney/conet/pkg/query"
	"github.com/dd0wney/conet/pkg/report"
	"github.com/dd0wney/conet/pkg/traversal"
)

const defaultConfigFile = "conet.yaml"

// app holds the global flags shared by every subcommand.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	data       string
	catalog    string
	output     string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "conet",
		Short:         "Co-occurrence network analysis of ARGs and MGEs across FMT timepoints",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	f := root.PersistentFlags()
	f.StringVarP(&a.configPath, "config", "c", defaultConfigFile, "configuration file; skipped when the default is missing")
	f.StringVar(&a.logLevel, "log-level", os.Getenv("LOG_LEVEL"), "log level (debug, info, warn, error); defaults to $LOG_LEVEL, then log.level")
	f.StringVar(&a.data, "data", "", "presence table path or s3:// URI")
	f.StringVar(&a.catalog, "catalog", "", "entity catalog path or s3:// URI")
	f.StringVar(&a.output, "output", "", "output directory")

	root.AddCommand(
		newAnalyzeCmd(a),
		newRankCmd(a),
		newExportCmd(a),
		newQueryCmd(a),
		newStatsCmd(a),
	)
	return root
}

// loadConfig resolves the configuration file and flag overrides. The
// default file is optional; one named with --config is not.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Resolve(a.configPath, cmd.Flag("config").Changed, config.Overrides{
		Data:       a.data,
		Catalog:    a.catalog,
		OutputBase: a.output,
		LogLevel:   a.logLevel,
	})
}

// load builds a run from the resolved configuration. Logs go to stderr as
// JSON lines.
func (a *app) load(cmd *cobra.Command, reg *metrics.Registry) (*pipeline.Run, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSONLogger(a.stderr, logging.ParseLevel(cfg.Log.Level))
	return pipeline.Load(cmd.Context(), cfg, pipeline.Options{Logger: logger, Metrics: reg})
}

// cohortTimeline returns the timeline entries of patients labelled cohort.
// The empty label and "All" select every patient.
func cohortTimeline(run *pipeline.Run, cohort string) (traversal.Timeline, error) {
	if cohort == "" || cohort == report.AllCohorts {
		return run.Timeline, nil
	}
	if tl, ok := query.ByCohort(run.Timeline, run.Cohorts, report.Unlabeled)[cohort]; ok {
		return tl, nil
	}
	// A labelled cohort can still have no entries once its rows are absent
	// or excluded.
	if slices.Contains(run.Cohorts.Labels(), cohort) {
		return traversal.Timeline{}, nil
	}
	return nil, unknownCohort(run, cohort)
}

// cohortGraph restricts the run's graph to the patients labelled cohort.
func cohortGraph(run *pipeline.Run, cohort string) (*graph.Graph, error) {
	if cohort == "" || cohort == report.AllCohorts {
		return run.Graph, nil
	}
	patients := graph.NewPatientSet()
	for id, label := range run.Cohorts {
		if label == cohort {
			patients.Add(id)
		}
	}
	if patients.Len() == 0 {
		return nil, unknownCohort(run, cohort)
	}
	return graph.FilterByPatients(run.Graph, patients), nil
}

func unknownCohort(run *pipeline.Run, cohort string) error {
	return fmt.Errorf("unknown cohort %q (known: %s)", cohort, strings.Join(run.Cohorts.Labels(), ", "))
}
