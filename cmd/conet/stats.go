package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/conet/pkg/graph"
	"github.com/dd0wney/conet/pkg/report"
)

func newStatsCmd(a *app) *cobra.Command {
	var arg, mge, cohort string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print graph statistics as CSV",
		Long: `Print node and edge totals of the network. --arg and --mge restrict the
graph to the colocalizations of one entity, --cohort to one disease label.
Adjacency totals are only reported for the whole graph.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if arg != "" && mge != "" {
				return fmt.Errorf("--arg and --mge are mutually exclusive")
			}
			run, err := a.load(cmd, nil)
			if err != nil {
				return err
			}

			g, err := cohortGraph(run, cohort)
			if err != nil {
				return err
			}
			switch {
			case arg != "":
				g = graph.FilterByARGName(g, run.Catalog, arg, run.Logger())
			case mge != "":
				g = graph.FilterByMGEName(g, run.Catalog, mge, run.Logger())
			}

			stats := run.Statistics
			if g != run.Graph {
				stats = graph.ComputeStatistics(g, nil)
			}
			return report.WriteStatistics(a.stdout, stats)
		},
	}

	f := cmd.Flags()
	f.StringVar(&arg, "arg", "", "restrict to colocalizations of this ARG")
	f.StringVar(&mge, "mge", "", "restrict to colocalizations of this MGE")
	f.StringVar(&cohort, "cohort", "", "restrict to one disease label")
	return cmd
}
