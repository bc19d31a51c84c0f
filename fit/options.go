package fit

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/optimize"

	"github.com/seastock/guildfit/internal/options"
)

// Method selects the numerical optimizer driving the likelihood fit.
type Method int

const (
	// MethodNelderMead is the derivative-free simplex method (default).
	MethodNelderMead Method = iota
	// MethodLBFGS is the limited-memory quasi-Newton method with
	// finite-difference gradients.
	MethodLBFGS
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodNelderMead:
		return "nelder-mead"
	case MethodLBFGS:
		return "lbfgs"
	default:
		return "unknown"
	}
}

// MethodFromString returns the Method for a given name, or Method(-1) for
// unknown names.
func MethodFromString(name string) Method {
	switch strings.ToLower(name) {
	case "nelder-mead", "neldermead", "simplex":
		return MethodNelderMead
	case "lbfgs", "l-bfgs":
		return MethodLBFGS
	default:
		return Method(-1)
	}
}

func (m Method) toGonum() optimize.Method {
	switch m {
	case MethodLBFGS:
		return &optimize.LBFGS{}
	default:
		return &optimize.NelderMead{}
	}
}

// Config holds the fitting configuration shared by both model families.
type Config struct {
	// Method is the optimizer (default Nelder-Mead).
	Method Method
	// Floor is the positivity floor on predicted production (default 1e-5).
	Floor float64
	// MaxEvaluations bounds objective evaluations (default 10000).
	MaxEvaluations int
	// Initial overrides the automatic initial guess. Sigma <= 0 leaves the
	// sigma guess automatic.
	Initial *Parameters
	// Hessian enables numerical standard errors at the optimum (default on).
	Hessian bool
	// ShapeTol is the |nu-2| tolerance below which a Pella-Tomlinson fit
	// is flagged as collapsed onto Schaefer (default 0.05).
	ShapeTol float64
}

func defaultConfig() Config {
	return Config{
		Method:         MethodNelderMead,
		Floor:          DefaultFloor,
		MaxEvaluations: 10000,
		Hessian:        true,
		ShapeTol:       0.05,
	}
}

// Option is a functional option for Config.
type Option = options.Option[*Config]

// WithMethod selects the optimizer.
func WithMethod(m Method) Option {
	return options.New(func(cfg *Config) error {
		if m != MethodNelderMead && m != MethodLBFGS {
			return fmt.Errorf("unknown optimization method: %d", m)
		}
		cfg.Method = m

		return nil
	})
}

// WithFloor sets the positivity floor applied to predictions before the
// logarithm.
func WithFloor(floor float64) Option {
	return options.New(func(cfg *Config) error {
		if floor <= 0 {
			return fmt.Errorf("floor must be strictly positive, got %g", floor)
		}
		cfg.Floor = floor

		return nil
	})
}

// WithMaxEvaluations bounds the optimizer's objective evaluation budget.
func WithMaxEvaluations(n int) Option {
	return options.New(func(cfg *Config) error {
		if n <= 0 {
			return fmt.Errorf("evaluation budget must be positive, got %d", n)
		}
		cfg.MaxEvaluations = n

		return nil
	})
}

// WithInitial overrides the automatic initial guess. For the Schaefer
// family the Nu field is ignored; Sigma <= 0 keeps the automatic sigma
// guess.
func WithInitial(p Parameters) Option {
	return options.NoError(func(cfg *Config) {
		cfg.Initial = &p
	})
}

// WithoutHessian disables the numerical Hessian and standard errors.
func WithoutHessian() Option {
	return options.NoError(func(cfg *Config) {
		cfg.Hessian = false
	})
}

// WithShapeTolerance sets the |nu-2| threshold for the shape-collapse flag.
func WithShapeTolerance(tol float64) Option {
	return options.New(func(cfg *Config) error {
		if tol < 0 {
			return fmt.Errorf("shape tolerance must be non-negative, got %g", tol)
		}
		cfg.ShapeTol = tol

		return nil
	})
}
