package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/conet/pkg/query"
	"github.com/dd0wney/conet/pkg/report"
)

type rankOptions struct {
	by           string
	top          int
	excludeDonor bool
	pattern      string
	cohort       string
}

func newRankCmd(a *app) *cobra.Command {
	var opts rankOptions

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank ARG-MGE pairs, ARGs or MGEs and print them as CSV",
		Long: `Rank ARG-MGE pairs by the number of timeline entries they appear in,
or ARGs and MGEs by the number of distinct patients observed with them.

With --pattern, pairs are ranked by the number of distinct patients whose
entries match that presence pattern (for example "pre_post" or "donor").`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			run, err := a.load(cmd, nil)
			if err != nil {
				return err
			}
			top := opts.top
			if !cmd.Flags().Changed("top") {
				top = run.Config.Query.TopN
			}

			switch opts.by {
			case "pairs":
				tl, err := cohortTimeline(run, opts.cohort)
				if err != nil {
					return err
				}
				var ranked []query.PairCount
				switch {
				case opts.pattern != "":
					c, err := query.ParseCriteria(opts.pattern)
					if err != nil {
						return err
					}
					if opts.excludeDonor {
						tl = query.WithoutDonor(tl)
					}
					ranked = query.RankPairsByUniquePatientCount(query.CollectPairPatients(tl, c), top)
				case opts.excludeDonor:
					ranked = query.RankPairsByFrequencyExcludingDonor(tl, top)
				default:
					ranked = query.RankPairsByFrequency(tl, top)
				}
				return report.WriteRanking(a.stdout, run.Catalog, ranked)

			case "args", "mges":
				if opts.pattern != "" || opts.excludeDonor {
					return fmt.Errorf("--pattern and --exclude-donor apply to --by pairs only")
				}
				g, err := cohortGraph(run, opts.cohort)
				if err != nil {
					return err
				}
				isARG := opts.by == "args"
				return report.WriteEntityRanking(a.stdout, run.Catalog, isARG, query.TopEntities(g, isARG, top))
			}
			return fmt.Errorf("unknown ranking %q (want pairs, args or mges)", opts.by)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.by, "by", "pairs", "what to rank: pairs, args or mges")
	f.IntVarP(&opts.top, "top", "n", 0, "number of results; 0 ranks everything (default query.top_n)")
	f.BoolVar(&opts.excludeDonor, "exclude-donor", false, "ignore Donor timepoints")
	f.StringVar(&opts.pattern, "pattern", "", "rank pairs by patients matching a presence pattern")
	f.StringVar(&opts.cohort, "cohort", "", "restrict to one disease label")
	return cmd
}
