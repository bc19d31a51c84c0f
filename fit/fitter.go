package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/seastock/guildfit/internal/options"
)

// ErrBadInit indicates no usable initial guess: the Schaefer pre-fit
// failed and the caller supplied none.
var ErrBadInit = errors.New("cannot build initial guess")

// StdErrors holds approximate standard errors from the inverse numerical
// Hessian at the optimum. Nu is NaN for the Schaefer family.
type StdErrors struct {
	Alpha float64
	Beta  float64
	Nu    float64
	Sigma float64
}

// Result is the outcome of a production-curve fit.
type Result struct {
	// Model is the fitted family.
	Model Model
	// Params are the maximum-likelihood estimates.
	Params Parameters
	// NLL is the achieved negative log-likelihood.
	NLL float64
	// Status carries the fit diagnostics; StatusOK means a clean fit.
	Status Status
	// OptStatus is the optimizer's own termination status, for reporting.
	OptStatus string
	// Evaluations is the number of objective evaluations spent.
	Evaluations int
	// Prefit is the closed-form Schaefer baseline used to initialize the
	// optimizer (Nu pinned at 2, Sigma unset).
	Prefit Parameters
	// StdErr holds approximate standard errors, nil when the Hessian was
	// disabled or could not be inverted.
	StdErr *StdErrors
	// Floored counts predictions clamped to the floor at the optimum.
	Floored int
	// Excluded counts observations excluded from the likelihood at the
	// optimum because their log-density was undefined.
	Excluded int
}

// FitSchaefer fits the quadratic Schaefer model by maximum likelihood.
//
// The shape exponent is pinned at 2; free parameters are alpha, beta and
// sigma. See FitPellaTomlinson for the generalized family.
func FitSchaefer(obs Observations, opts ...Option) (*Result, error) {
	return fitModel(ModelSchaefer, obs, opts...)
}

// FitPellaTomlinson fits the generalized production model with a free
// shape exponent.
//
// Free parameters are alpha, beta, nu and sigma. The optimizer is
// initialized from the closed-form Schaefer pre-fit (nu = 2) unless
// WithInitial overrides it.
func FitPellaTomlinson(obs Observations, opts ...Option) (*Result, error) {
	return fitModel(ModelPellaTomlinson, obs, opts...)
}

func fitModel(model Model, obs Observations, opts ...Option) (*Result, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	init, prefit, err := initialGuess(model, obs, cfg)
	if err != nil {
		return nil, err
	}

	// Optimize over log(sigma) so sigma stays strictly positive for every
	// point the optimizer visits.
	objective := func(x []float64) float64 {
		p := unpack(model, x)
		nll, _ := negLogLikelihood(obs, p.Alpha, p.Beta, p.Nu, p.Sigma, cfg.Floor)

		return nll
	}

	problem := optimize.Problem{Func: objective}
	settings := &optimize.Settings{FuncEvaluations: cfg.MaxEvaluations}

	res, optErr := optimize.Minimize(problem, pack(model, init), settings, cfg.Method.toGonum())
	if res == nil {
		return nil, fmt.Errorf("optimization failed to produce a result: %w", optErr)
	}

	params := unpack(model, res.X)
	nll, diag := negLogLikelihood(obs, params.Alpha, params.Beta, params.Nu, params.Sigma, cfg.Floor)

	result := &Result{
		Model:       model,
		Params:      params,
		NLL:         nll,
		OptStatus:   res.Status.String(),
		Evaluations: res.Stats.FuncEvaluations,
		Prefit:      prefit,
		Floored:     diag.floored,
		Excluded:    diag.excluded,
	}

	if optErr != nil || !converged(res.Status) {
		result.Status |= StatusNotConverged
	}
	if degenerateBeta(params, obs) {
		result.Status |= StatusDegenerateBeta
	}
	if diag.floored == obs.Len() {
		result.Status |= StatusFloorDominated
	}
	if model == ModelPellaTomlinson && math.Abs(params.Nu-2) < cfg.ShapeTol {
		result.Status |= StatusShapeCollapsed
	}

	if cfg.Hessian {
		result.StdErr = standardErrors(model, objective, res.X, params.Sigma)
	}

	return result, nil
}

// initialGuess builds the optimizer starting point from the configured
// override or the Schaefer pre-fit, with a residual-based sigma guess.
func initialGuess(model Model, obs Observations, cfg Config) (Parameters, Parameters, error) {
	alpha, beta, prefitErr := SchaeferPrefit(obs)
	prefit := Parameters{Alpha: alpha, Beta: beta, Nu: 2}

	init := prefit
	if cfg.Initial != nil {
		init = *cfg.Initial
		if model == ModelSchaefer {
			init.Nu = 2
		}
	} else if prefitErr != nil {
		return Parameters{}, Parameters{}, fmt.Errorf("%w: %v", ErrBadInit, prefitErr)
	}
	if init.Nu == 0 {
		init.Nu = 2
	}

	if init.Sigma <= 0 {
		init.Sigma = sigmaGuess(obs, init, cfg.Floor)
	}

	return init, prefit, nil
}

// sigmaGuess estimates the log-residual spread of the initial curve,
// falling back to 0.5 when too few residuals are defined.
func sigmaGuess(obs Observations, p Parameters, floor float64) float64 {
	var sum, sumSq float64
	var n int
	for i := range obs.Biomass {
		y := obs.Production[i]
		if y <= 0 {
			continue
		}
		pred := p.Production(obs.Biomass[i])
		if pred < floor {
			pred = floor
		}
		r := math.Log(y) - math.Log(pred)
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		sum += r
		sumSq += r * r
		n++
	}

	if n < 2 {
		return 0.5
	}
	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance <= 0 {
		return 0.5
	}

	return math.Sqrt(variance)
}

// pack maps Parameters onto the optimizer vector; sigma travels as its
// logarithm.
func pack(model Model, p Parameters) []float64 {
	if model == ModelPellaTomlinson {
		return []float64{p.Alpha, p.Beta, p.Nu, math.Log(p.Sigma)}
	}

	return []float64{p.Alpha, p.Beta, math.Log(p.Sigma)}
}

// unpack is the inverse of pack.
func unpack(model Model, x []float64) Parameters {
	if model == ModelPellaTomlinson {
		return Parameters{Alpha: x[0], Beta: x[1], Nu: x[2], Sigma: math.Exp(x[3])}
	}

	return Parameters{Alpha: x[0], Beta: x[1], Nu: 2, Sigma: math.Exp(x[2])}
}

func converged(s optimize.Status) bool {
	switch s {
	case optimize.Success,
		optimize.FunctionThreshold,
		optimize.FunctionConvergence,
		optimize.GradientThreshold,
		optimize.StepConvergence,
		optimize.MethodConverge:
		return true
	default:
		return false
	}
}

// degenerateBeta reports whether the beta term is negligible across the
// observed biomass range, leaving the carrying capacity undefined.
func degenerateBeta(p Parameters, obs Observations) bool {
	if p.Beta == 0 {
		return true
	}

	maxB := 0.0
	for _, b := range obs.Biomass {
		if b > maxB {
			maxB = b
		}
	}
	if maxB == 0 {
		return true
	}

	// Compare the two terms of the curve at the largest observed biomass.
	return math.Abs(p.Beta)*math.Pow(maxB, p.Nu-1) < 1e-4*math.Abs(p.Alpha)
}

// standardErrors inverts the numerical Hessian of the objective at the
// optimum. The sigma entry is mapped back from the log scale by the delta
// method. Returns nil when the Hessian is singular or produces negative
// variances, which the caller reports as "no uncertainty estimate".
func standardErrors(model Model, objective func([]float64) float64, x []float64, sigma float64) *StdErrors {
	dim := len(x)
	hess := mat.NewSymDense(dim, nil)
	fd.Hessian(hess, objective, x, nil)

	var inv mat.Dense
	if err := inv.Inverse(hess); err != nil {
		return nil
	}

	se := make([]float64, dim)
	for i := 0; i < dim; i++ {
		v := inv.At(i, i)
		if v < 0 || math.IsNaN(v) {
			return nil
		}
		se[i] = math.Sqrt(v)
	}

	if model == ModelPellaTomlinson {
		return &StdErrors{Alpha: se[0], Beta: se[1], Nu: se[2], Sigma: sigma * se[3]}
	}

	return &StdErrors{Alpha: se[0], Beta: se[1], Nu: math.NaN(), Sigma: sigma * se[2]}
}
