package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultFloor is the positive floor applied to predicted production
// before taking logarithms.
const DefaultFloor = 1e-5

var (
	// ErrObsLenMismatch indicates biomass and production series differ in length.
	ErrObsLenMismatch = errors.New("biomass and production have different lengths")
	// ErrNegativeBiomass indicates a biomass observation below zero, for
	// which b^nu is undefined.
	ErrNegativeBiomass = errors.New("biomass must be non-negative")
	// ErrTooFewObservations indicates fewer valid pairs than free parameters.
	ErrTooFewObservations = errors.New("not enough observations to fit")
)

// Observations holds aligned (biomass, production) pairs ready for fitting.
//
// Construction drops pairs with non-finite entries; the retained series
// contain only finite values with non-negative biomass. Production may be
// negative: the likelihood excludes such points term by term since their
// logarithm is undefined.
type Observations struct {
	Biomass    []float64
	Production []float64
	// Dropped counts the non-finite input pairs removed during construction.
	Dropped int
}

// NewObservations builds an observation set from co-indexed series.
//
// Returns ErrObsLenMismatch for unaligned input, ErrNegativeBiomass when a
// finite biomass is below zero, and ErrTooFewObservations when fewer than
// 3 finite pairs remain.
func NewObservations(biomass, production []float64) (Observations, error) {
	if len(biomass) != len(production) {
		return Observations{}, fmt.Errorf("%w: %d biomass, %d production",
			ErrObsLenMismatch, len(biomass), len(production))
	}

	obs := Observations{
		Biomass:    make([]float64, 0, len(biomass)),
		Production: make([]float64, 0, len(production)),
	}
	for i := range biomass {
		b, y := biomass[i], production[i]
		if math.IsNaN(b) || math.IsInf(b, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
			obs.Dropped++
			continue
		}
		if b < 0 {
			return Observations{}, fmt.Errorf("%w: biomass[%d] = %g", ErrNegativeBiomass, i, b)
		}
		obs.Biomass = append(obs.Biomass, b)
		obs.Production = append(obs.Production, y)
	}

	if obs.Len() < 3 {
		return Observations{}, fmt.Errorf("%w: %d valid pairs", ErrTooFewObservations, obs.Len())
	}

	return obs, nil
}

// Len returns the number of retained pairs.
func (o Observations) Len() int {
	return len(o.Biomass)
}

// lossDiag carries per-evaluation bookkeeping out of the likelihood.
type lossDiag struct {
	// floored counts predictions clamped to the positivity floor.
	floored int
	// excluded counts observations whose log-density was non-finite.
	excluded int
}

// negLogLikelihood evaluates the negative log-likelihood of the model
// parameters on the observation set.
//
// Predicted production is floored at floor before the logarithm, so the
// returned value is finite even when the curve predicts zero or negative
// production. Terms with a non-finite log-density (the observed production
// itself may be non-positive) are excluded from the sum and counted in the
// diagnostics. The function is pure: it modifies nothing and depends only
// on its arguments.
func negLogLikelihood(obs Observations, alpha, beta, nu, sigma, floor float64) (float64, lossDiag) {
	var diag lossDiag

	if sigma <= 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return math.Inf(1), diag
	}

	dist := distuv.Normal{Sigma: sigma}
	sum := 0.0
	for i := range obs.Biomass {
		pred := Production(obs.Biomass[i], alpha, beta, nu)
		if pred < floor || math.IsNaN(pred) {
			pred = floor
			diag.floored++
		}

		dist.Mu = math.Log(pred)
		ll := dist.LogProb(math.Log(obs.Production[i]))
		if math.IsNaN(ll) || math.IsInf(ll, 0) {
			diag.excluded++
			continue
		}
		sum += ll
	}

	return -sum, diag
}
