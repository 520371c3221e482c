package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/conet/pkg/graphql"
)

func newQueryCmd(a *app) *cobra.Command {
	var (
		vars     string
		maxDepth int
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "query <graphql>",
		Short: "Answer a GraphQL query over the analysed network",
		Example: `  conet query '{ statistics { totalNodes temporalEdges } }'
  conet query 'query($p: String) { patterns(pattern: $p) { pattern pairs { label count } } }' --vars '{"p":"pre_post"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var variables map[string]any
			if vars != "" {
				if err := json.Unmarshal([]byte(vars), &variables); err != nil {
					return fmt.Errorf("parse --vars: %w", err)
				}
			}

			run, err := a.load(cmd, nil)
			if err != nil {
				return err
			}
			limits := graphql.DefaultLimits()
			if limit > 0 {
				limits.DefaultLimit = limit
				if limits.MaxLimit < limit {
					limits.MaxLimit = limit
				}
			}
			schema, err := graphql.GenerateSchema(graphql.FromRun(run), limits)
			if err != nil {
				return err
			}

			result := graphql.Execute(cmd.Context(), schema, args[0], variables, maxDepth)
			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
			if result.HasErrors() {
				return fmt.Errorf("query failed: %v", result.Errors[0].Message)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&vars, "vars", "", "query variables as a JSON object")
	f.IntVar(&maxDepth, "max-depth", graphql.DefaultMaxDepth, "maximum selection depth; 0 disables the check")
	f.IntVar(&limit, "limit", 0, "default list limit (default 100)")
	return cmd
}
