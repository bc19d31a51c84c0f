package fit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewObservations(t *testing.T) {
	obs, err := NewObservations(
		[]float64{10, 20, 30, 40},
		[]float64{5, 8, 6, -2},
	)
	require.NoError(t, err)
	assert.Equal(t, 4, obs.Len())
	assert.Zero(t, obs.Dropped)
}

func TestNewObservationsDropsNonFinite(t *testing.T) {
	obs, err := NewObservations(
		[]float64{10, math.NaN(), 30, 40},
		[]float64{5, 8, math.Inf(1), 7},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, obs.Dropped)
	assert.Equal(t, []float64{10, 40}, obs.Biomass)
	assert.Equal(t, []float64{5, 7}, obs.Production)
}

func TestNewObservationsErrors(t *testing.T) {
	_, err := NewObservations([]float64{1, 2}, []float64{1})
	require.ErrorIs(t, err, ErrObsLenMismatch)

	_, err = NewObservations([]float64{1, -2, 3}, []float64{1, 2, 3})
	require.ErrorIs(t, err, ErrNegativeBiomass)

	_, err = NewObservations([]float64{1, 2}, []float64{1, 2})
	require.ErrorIs(t, err, ErrTooFewObservations)
}

func TestNegLogLikelihoodFinite(t *testing.T) {
	obs, err := NewObservations(
		[]float64{10, 20, 30},
		[]float64{5, 8, 6},
	)
	require.NoError(t, err)

	nll, diag := negLogLikelihood(obs, 1, -1.0/30, 2, 0.5, DefaultFloor)
	assert.False(t, math.IsNaN(nll))
	assert.False(t, math.IsInf(nll, 0))
	assert.Zero(t, diag.floored)
	assert.Zero(t, diag.excluded)
}

func TestNegLogLikelihoodFloorsNegativePredictions(t *testing.T) {
	obs, err := NewObservations(
		[]float64{10, 20, 30},
		[]float64{5, 8, 6},
	)
	require.NoError(t, err)

	// alpha negative makes every prediction negative; flooring must keep
	// the loss finite rather than producing NaN or -Inf.
	nll, diag := negLogLikelihood(obs, -1, -1, 2, 0.5, DefaultFloor)
	assert.False(t, math.IsNaN(nll))
	assert.False(t, math.IsInf(nll, 0))
	assert.Equal(t, obs.Len(), diag.floored)
}

func TestNegLogLikelihoodExcludesUndefinedTerms(t *testing.T) {
	// Negative observed production has no logarithm; the term must be
	// excluded, not abort the whole computation.
	obs, err := NewObservations(
		[]float64{10, 20, 30},
		[]float64{5, -3, 6},
	)
	require.NoError(t, err)

	nll, diag := negLogLikelihood(obs, 1, -1.0/30, 2, 0.5, DefaultFloor)
	assert.False(t, math.IsNaN(nll))
	assert.False(t, math.IsInf(nll, 0))
	assert.Equal(t, 1, diag.excluded)
}

func TestNegLogLikelihoodRejectsBadSigma(t *testing.T) {
	obs, err := NewObservations(
		[]float64{10, 20, 30},
		[]float64{5, 8, 6},
	)
	require.NoError(t, err)

	for _, sigma := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		nll, _ := negLogLikelihood(obs, 1, -1.0/30, 2, sigma, DefaultFloor)
		assert.True(t, math.IsInf(nll, 1), "sigma=%v", sigma)
	}
}

func TestNegLogLikelihoodMinimizedNearTruth(t *testing.T) {
	// On noiseless data the loss at the generating parameters must beat
	// nearby perturbations.
	alpha, beta := 1.0, -1.0/30
	biomass := []float64{5, 10, 15, 20, 25}
	production := make([]float64, len(biomass))
	for i, b := range biomass {
		production[i] = Production(b, alpha, beta, 2)
	}
	obs, err := NewObservations(biomass, production)
	require.NoError(t, err)

	atTruth, _ := negLogLikelihood(obs, alpha, beta, 2, 0.1, DefaultFloor)
	perturbed, _ := negLogLikelihood(obs, alpha*1.2, beta, 2, 0.1, DefaultFloor)
	assert.Less(t, atTruth, perturbed)
}
