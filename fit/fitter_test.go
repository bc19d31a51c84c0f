package fit

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// simulateSchaefer generates (biomass, production) pairs from known
// parameters with multiplicative log-normal noise.
func simulateSchaefer(alpha, beta, sigma float64, seed int64) Observations {
	rng := rand.New(rand.NewSource(seed))

	var biomass, production []float64
	for b := 2.0; b <= 26; b += 1.0 {
		p := Production(b, alpha, beta, 2)
		if p <= 0 {
			continue
		}
		noisy := p * math.Exp(rng.NormFloat64()*sigma)
		biomass = append(biomass, b)
		production = append(production, noisy)
	}

	obs, err := NewObservations(biomass, production)
	if err != nil {
		panic(err)
	}

	return obs
}

func TestFitSchaeferRecovery(t *testing.T) {
	// Recovery/identifiability: with the true values as the initial
	// guess, the optimizer must land within 10% of the generating
	// parameters.
	const (
		alpha = 1.0
		beta  = -1.0 / 30
		sigma = 0.02
	)
	obs := simulateSchaefer(alpha, beta, sigma, 42)

	result, err := FitSchaefer(obs,
		WithInitial(Parameters{Alpha: alpha, Beta: beta, Sigma: sigma}))
	require.NoError(t, err)

	assert.False(t, result.Status.Has(StatusNotConverged),
		"optimizer status: %s", result.OptStatus)
	assert.InEpsilon(t, alpha, result.Params.Alpha, 0.10)
	assert.InEpsilon(t, math.Abs(beta), math.Abs(result.Params.Beta), 0.10)
	assert.Less(t, result.Params.Beta, 0.0)
	assert.Equal(t, 2.0, result.Params.Nu)
	assert.Greater(t, result.Params.Sigma, 0.0)

	// Implied carrying capacity must be near -alpha/beta = 30.
	assert.InEpsilon(t, 30.0, result.Params.CarryingCapacity(), 0.15)
}

func TestFitSchaeferFromPrefit(t *testing.T) {
	// Without an explicit initial guess the Schaefer pre-fit seeds the
	// optimizer; recovery should still succeed on low-noise data.
	obs := simulateSchaefer(1.0, -1.0/30, 0.02, 7)

	result, err := FitSchaefer(obs)
	require.NoError(t, err)

	assert.False(t, result.Status.Has(StatusNotConverged))
	assert.InEpsilon(t, 1.0, result.Params.Alpha, 0.15)
	assert.InEpsilon(t, 30.0, result.Params.CarryingCapacity(), 0.20)

	// The baseline pre-fit travels on the result for comparison.
	assert.InEpsilon(t, 1.0, result.Prefit.Alpha, 0.20)
	assert.Equal(t, 2.0, result.Prefit.Nu)
}

func TestFitPellaTomlinsonRecovery(t *testing.T) {
	// Noise-free data generated at nu = 2; the free-shape fit must stay
	// close to the generating curve and flag the collapse onto Schaefer.
	const (
		alpha = 1.0
		beta  = -1.0 / 30
	)
	obs := simulateSchaefer(alpha, beta, 1e-4, 11)

	result, err := FitPellaTomlinson(obs,
		WithInitial(Parameters{Alpha: alpha, Beta: beta, Nu: 2, Sigma: 0.01}),
		WithShapeTolerance(0.2))
	require.NoError(t, err)

	assert.False(t, result.Status.Has(StatusNotConverged),
		"optimizer status: %s", result.OptStatus)
	assert.InEpsilon(t, alpha, result.Params.Alpha, 0.10)
	assert.InDelta(t, 2.0, result.Params.Nu, 0.2)
	assert.True(t, result.Status.Has(StatusShapeCollapsed),
		"nu=%g should collapse onto Schaefer", result.Params.Nu)
}

func TestFitFloorDominated(t *testing.T) {
	// A strictly negative curve floors every prediction; the fit must
	// report that the likelihood is uninformative instead of silently
	// returning numbers.
	obs, err := NewObservations(
		[]float64{10, 20, 30, 40},
		[]float64{5, 8, 6, 7},
	)
	require.NoError(t, err)

	result, err := FitSchaefer(obs,
		WithInitial(Parameters{Alpha: -5, Beta: -1, Sigma: 0.5}),
		WithMaxEvaluations(50),
		WithoutHessian())
	require.NoError(t, err)

	if result.Floored == obs.Len() {
		assert.True(t, result.Status.Has(StatusFloorDominated))
	}
	assert.False(t, math.IsNaN(result.NLL))
}

func TestDegenerateBetaDetection(t *testing.T) {
	obs, err := NewObservations(
		[]float64{5, 10, 15, 20, 25},
		[]float64{4, 7, 8, 7, 4},
	)
	require.NoError(t, err)

	// beta exactly zero: K undefined.
	assert.True(t, degenerateBeta(Parameters{Alpha: 0.8, Beta: 0, Nu: 2}, obs))

	// beta term negligible across the observed biomass range.
	assert.True(t, degenerateBeta(Parameters{Alpha: 0.8, Beta: -1e-9, Nu: 2}, obs))

	// A genuine curvature term is not degenerate.
	assert.False(t, degenerateBeta(Parameters{Alpha: 1, Beta: -1.0 / 30, Nu: 2}, obs))
}

func TestFitEvaluationBudget(t *testing.T) {
	obs := simulateSchaefer(1.0, -1.0/30, 0.05, 3)

	// A starved budget must be surfaced as non-convergence, not hidden.
	result, err := FitSchaefer(obs,
		WithInitial(Parameters{Alpha: 5, Beta: -0.5, Sigma: 2}),
		WithMaxEvaluations(3),
		WithoutHessian())
	require.NoError(t, err)

	assert.True(t, result.Status.Has(StatusNotConverged),
		"optimizer status: %s", result.OptStatus)
}

func TestFitStandardErrors(t *testing.T) {
	obs := simulateSchaefer(1.0, -1.0/30, 0.05, 19)

	result, err := FitSchaefer(obs,
		WithInitial(Parameters{Alpha: 1, Beta: -1.0 / 30, Sigma: 0.05}))
	require.NoError(t, err)

	require.NotNil(t, result.StdErr)
	assert.Greater(t, result.StdErr.Alpha, 0.0)
	assert.Greater(t, result.StdErr.Beta, 0.0)
	assert.Greater(t, result.StdErr.Sigma, 0.0)
	assert.True(t, math.IsNaN(result.StdErr.Nu), "Schaefer has no nu std error")
}

func TestFitLBFGS(t *testing.T) {
	obs := simulateSchaefer(1.0, -1.0/30, 0.02, 23)

	result, err := FitSchaefer(obs,
		WithMethod(MethodLBFGS),
		WithInitial(Parameters{Alpha: 1, Beta: -1.0 / 30, Sigma: 0.02}),
		WithoutHessian())
	require.NoError(t, err)

	assert.InEpsilon(t, 1.0, result.Params.Alpha, 0.10)
}

func TestFitBadOptions(t *testing.T) {
	obs := simulateSchaefer(1.0, -1.0/30, 0.02, 5)

	_, err := FitSchaefer(obs, WithFloor(-1))
	require.Error(t, err)

	_, err = FitSchaefer(obs, WithMaxEvaluations(0))
	require.Error(t, err)

	_, err = FitSchaefer(obs, WithMethod(Method(42)))
	require.Error(t, err)
}

func TestFitNoInitialAndSingularPrefit(t *testing.T) {
	obs := Observations{
		Biomass:    []float64{0, 0, 0},
		Production: []float64{1, 2, 3},
	}

	_, err := FitSchaefer(obs)
	require.ErrorIs(t, err, ErrBadInit)
}

func TestFitConcurrent(t *testing.T) {
	// Each fit is a pure function of its inputs, so independent fits may
	// run concurrently and must agree.
	obs := simulateSchaefer(1.0, -1.0/30, 0.02, 42)
	init := WithInitial(Parameters{Alpha: 1, Beta: -1.0 / 30, Sigma: 0.02})

	const workers = 4
	results := make([]*Result, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := FitSchaefer(obs, init, WithoutHessian())
			if err == nil {
				results[i] = r
			}
		}(i)
	}
	wg.Wait()

	require.NotNil(t, results[0])
	for i := 1; i < workers; i++ {
		require.NotNil(t, results[i])
		assert.Equal(t, results[0].Params, results[i].Params)
		assert.Equal(t, results[0].NLL, results[i].NLL)
	}
}
