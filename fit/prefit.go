package fit

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrSingularDesign indicates the pre-fit design matrix is numerically
// singular (e.g. constant or zero biomass series).
var ErrSingularDesign = errors.New("singular design matrix in pre-fit")

// SchaeferPrefit fits production on (B, B²) by least squares with the
// intercept forced to zero.
//
// The closed-form regression through the origin serves as the initializer
// for the likelihood fits and as a baseline comparison. It has no
// iterative state; the only failure mode is a numerically singular design
// matrix, reported as ErrSingularDesign.
func SchaeferPrefit(obs Observations) (alpha, beta float64, err error) {
	n := obs.Len()
	if n < 2 {
		return 0, 0, fmt.Errorf("%w: %d observations", ErrTooFewObservations, n)
	}

	design := mat.NewDense(n, 2, nil)
	response := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		b := obs.Biomass[i]
		design.Set(i, 0, b)
		design.Set(i, 1, b*b)
		response.SetVec(i, obs.Production[i])
	}

	var qr mat.QR
	qr.Factorize(design)

	var coef mat.VecDense
	if err := qr.SolveVecTo(&coef, false, response); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrSingularDesign, err)
	}

	return coef.AtVec(0), coef.AtVec(1), nil
}
