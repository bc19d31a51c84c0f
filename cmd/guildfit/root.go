package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "guildfit",
		Short: "Surplus-production analysis for multispecies stock guilds",
		Long: `guildfit loads per-stock assessment tables (Year, SSB, Catch),
joins them into a guild on common years, derives annual surplus
production, and fits Schaefer or Pella-Tomlinson production curves
by maximum likelihood.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "guild.yaml",
		"guild definition YAML")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false,
		"debug logging")

	cmd.AddCommand(newFitCmd(flags))
	cmd.AddCommand(newASPCmd(flags))

	return cmd
}

// newLogger builds the CLI logger; the verbose flag switches the level.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}
