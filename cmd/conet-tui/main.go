// Command conet-tui browses an analysed network interactively: run
// statistics, presence patterns, pair rankings and a GraphQL console.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dd0wney/conet/pkg/config"
	"github.com/dd0wney/conet/pkg/graphql"
	"github.com/dd0wney/conet/pkg/logging"
	"github.com/dd0wney/conet/pkg/pipeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		overrides  config.Overrides
	)

	cmd := &cobra.Command{
		Use:           "conet-tui",
		Short:         "Interactive browser for a CoNet run",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Resolve(configPath, cmd.Flag("config").Changed, overrides)
			if err != nil {
				return err
			}
			// The alternate screen owns the terminal once the program starts,
			// so only the load is logged.
			logger := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(cfg.Log.Level))

			run, err := pipeline.Load(cmd.Context(), cfg, pipeline.Options{Logger: logger})
			if err != nil {
				return err
			}
			analysis, err := run.Analyze(cmd.Context())
			if err != nil {
				return err
			}
			schema, err := graphql.GenerateSchema(graphql.FromRun(run), nil)
			if err != nil {
				return err
			}

			p := tea.NewProgram(newModel(run, analysis, schema), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "conet.yaml", "configuration file; skipped when the default is missing")
	f.StringVar(&overrides.Data, "data", "", "presence table path or s3:// URI")
	f.StringVar(&overrides.Catalog, "catalog", "", "entity catalog path or s3:// URI")
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	f.StringVar(&overrides.LogLevel, "log-level", level, "log level while loading")
	return cmd
}
