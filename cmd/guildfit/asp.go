package main

import (
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seastock/guildfit"
)

func newASPCmd(flags *rootFlags) *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "asp",
		Short: "Print the joined guild table with annual surplus production",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(flags.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			cfg, err := guildfit.LoadConfig(flags.configPath)
			if err != nil {
				return err
			}

			g, err := guildfit.LoadGuild(cfg, logger)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "Year\tSSB\tCatch\tASP")
			for i, year := range g.Years {
				// No successor biomass in the final year, no one-year
				// transition across a join gap.
				asp := "-"
				if i < len(g.Production) && !math.IsNaN(g.Production[i]) {
					asp = fmt.Sprintf("%.6g", g.Production[i])
				}
				fmt.Fprintf(w, "%d\t%.6g\t%.6g\t%s\n", year, g.SSB[i], g.Catch[i], asp)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if summary {
				summaries, err := g.Summary()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout())
				for _, s := range summaries {
					fmt.Fprintln(cmd.OutOrStdout(), s)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false,
		"append descriptive statistics per series")

	return cmd
}
