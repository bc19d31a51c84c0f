package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seastock/guildfit"
	"github.com/seastock/guildfit/figure"
	"github.com/seastock/guildfit/fit"
)

func newFitCmd(flags *rootFlags) *cobra.Command {
	var (
		modelName  string
		methodName string
		floor      float64
		maxEvals   int
		figurePath string
	)

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a production curve to the guild",
		RunE: func(cmd *cobra.Command, args []string) error {
			model := fit.ModelFromString(modelName)
			if model < 0 {
				return fmt.Errorf("unknown model %q (schaefer, pella-tomlinson)", modelName)
			}
			method := fit.MethodFromString(methodName)
			if method < 0 {
				return fmt.Errorf("unknown method %q (nelder-mead, lbfgs)", methodName)
			}

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
			logger.Info("guild assembled",
				zap.String("guild", cfg.Guild),
				zap.Int("stocks", len(g.Stocks)),
				zap.Int("years", len(g.Years)))

			result, err := guildfit.Fit(g, model,
				fit.WithMethod(method),
				fit.WithFloor(floor),
				fit.WithMaxEvaluations(maxEvals))
			if err != nil {
				return err
			}

			printResult(cmd, cfg.Guild, result)

			if figurePath != "" {
				biomass, production := g.Observations()
				obs, err := fit.NewObservations(biomass, production)
				if err != nil {
					return err
				}
				p, err := figure.ProductionCurve(obs, result.Params, cfg.Guild)
				if err != nil {
					return err
				}
				if err := figure.Save(p, figurePath); err != nil {
					return err
				}
				logger.Info("figure written", zap.String("path", figurePath))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&modelName, "model", "m", "schaefer",
		"production model: schaefer or pella-tomlinson")
	cmd.Flags().StringVar(&methodName, "method", "nelder-mead",
		"optimizer: nelder-mead or lbfgs")
	cmd.Flags().Float64Var(&floor, "floor", fit.DefaultFloor,
		"positivity floor on predicted production")
	cmd.Flags().IntVar(&maxEvals, "max-evals", 10000,
		"objective evaluation budget")
	cmd.Flags().StringVar(&figurePath, "figure", "",
		"write a production-curve figure (png/svg/pdf by extension)")

	return cmd
}

func printResult(cmd *cobra.Command, guildName string, result *fit.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "guild:   %s\n", guildName)
	fmt.Fprintf(out, "model:   %s\n", result.Model)
	fmt.Fprintf(out, "status:  %s (optimizer: %s, %d evaluations)\n",
		result.Status, result.OptStatus, result.Evaluations)
	fmt.Fprintf(out, "params:  %s\n", result.Params)
	fmt.Fprintf(out, "nll:     %.6g\n", result.NLL)
	fmt.Fprintf(out, "prefit:  alpha=%.6g beta=%.6g (least squares baseline)\n",
		result.Prefit.Alpha, result.Prefit.Beta)

	if k := result.Params.CarryingCapacity(); !math.IsNaN(k) {
		fmt.Fprintf(out, "K:       %.6g\n", k)
	} else {
		fmt.Fprintln(out, "K:       undefined")
	}

	if result.StdErr != nil {
		fmt.Fprintf(out, "stderr:  alpha=%.3g beta=%.3g nu=%.3g sigma=%.3g\n",
			result.StdErr.Alpha, result.StdErr.Beta, result.StdErr.Nu, result.StdErr.Sigma)
	} else {
		fmt.Fprintln(out, "stderr:  unavailable")
	}

	if result.Floored > 0 || result.Excluded > 0 {
		fmt.Fprintf(out, "note:    %d floored predictions, %d excluded observations\n",
			result.Floored, result.Excluded)
	}
}
