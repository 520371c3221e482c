package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/conet/pkg/metrics"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		layout   string
		maxNodes int
		maxEdges int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the DOT and JSON graph exports only",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			run, err := a.load(cmd, metrics.NewRegistry())
			if err != nil {
				return err
			}
			viz := &run.Config.Viz
			if cmd.Flags().Changed("layout") {
				viz.Layout = layout
			}
			if cmd.Flags().Changed("max-nodes") {
				viz.MaxNodes = maxNodes
			}
			if cmd.Flags().Changed("max-edges") {
				viz.MaxEdges = maxEdges
			}
			if err := run.Config.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			outputs, err := run.WriteExports(cmd.Context())
			if err != nil {
				return err
			}
			for _, o := range outputs {
				if _, err := fmt.Fprintf(a.stdout, "%s\t%s\t%d\n", o.Kind, o.Path, o.Bytes); err != nil {
					return err
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&layout, "layout", "", "node layout: circular, force, hierarchical or none")
	f.IntVar(&maxNodes, "max-nodes", 0, "DOT node cap")
	f.IntVar(&maxEdges, "max-edges", 0, "DOT edge cap")
	return cmd
}
