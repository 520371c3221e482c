package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/conet/pkg/metrics"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full analysis and write every report and export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			run, err := a.load(cmd, metrics.NewRegistry())
			if err != nil {
				return err
			}
			analysis, err := run.Analyze(cmd.Context())
			if err != nil {
				return err
			}
			outputs, err := run.WriteOutputs(cmd.Context(), analysis)
			if err != nil {
				return err
			}

			summary := run.Summary(analysis, outputs)
			summary.Unstyled = plain
			_, err = fmt.Fprintln(a.stdout, summary.Render())
			return err
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print the summary without colours or borders")
	return cmd
}
