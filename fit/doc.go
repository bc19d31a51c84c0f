// Package fit estimates surplus-production curves for a stock guild.
//
// Two model families are supported. The Schaefer model is the quadratic
//
//	P(B) = alpha*B + beta*B²
//
// and the Pella-Tomlinson model generalizes the exponent:
//
//	P(B) = alpha*B + beta*B^nu
//
// Parameters are estimated by maximum likelihood assuming multiplicative
// log-normal observation error: log(observed production) is Normal around
// log(predicted production) with standard deviation sigma. Predictions are
// floored at a small positive value before the logarithm, and observations
// whose log-density is undefined are excluded from the sum rather than
// aborting the fit.
//
// # Basic Usage
//
//	obs, err := fit.NewObservations(biomass, production)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := fit.FitPellaTomlinson(obs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("alpha=%.4f beta=%.6f nu=%.3f K=%.0f\n",
//	    result.Params.Alpha, result.Params.Beta,
//	    result.Params.Nu, result.Params.CarryingCapacity())
//	if result.Status != fit.StatusOK {
//	    fmt.Printf("diagnostics: %s\n", result.Status)
//	}
//
// # Diagnostics
//
// Optimizer outcomes are surfaced on Result.Status instead of being
// assumed: non-convergence within the evaluation budget, a boundary
// degenerate beta (carrying capacity undefined), a floor-dominated loss
// (the fit is uninformative), and a Pella-Tomlinson exponent that has
// collapsed onto the Schaefer value. Re-fitting from different initial
// values is the caller's decision; the package never retries on its own.
//
// Every fit is a pure function of its inputs and configuration, so
// independent fits may run concurrently without coordination.
package fit
