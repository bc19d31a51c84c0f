package fit

import (
	"fmt"
	"math"
	"strings"
)

// Model identifies a production-curve family.
type Model int

const (
	// ModelSchaefer is the quadratic model with the exponent pinned at 2.
	ModelSchaefer Model = iota
	// ModelPellaTomlinson frees the shape exponent nu.
	ModelPellaTomlinson
)

// String returns the model family name.
func (m Model) String() string {
	switch m {
	case ModelSchaefer:
		return "schaefer"
	case ModelPellaTomlinson:
		return "pella-tomlinson"
	default:
		return "unknown"
	}
}

// ModelFromString returns the Model for a given name, or Model(-1) for
// unknown names.
func ModelFromString(name string) Model {
	switch strings.ToLower(name) {
	case "schaefer":
		return ModelSchaefer
	case "pella-tomlinson", "pellatomlinson":
		return ModelPellaTomlinson
	default:
		return Model(-1)
	}
}

// Production evaluates the production curve alpha*b + beta*b^nu.
//
// nu = 2 reduces to the Schaefer quadratic exactly. The caller must
// guarantee b >= 0; b^nu is undefined for negative biomass with a
// non-integer exponent.
func Production(b, alpha, beta, nu float64) float64 {
	if nu == 2 {
		return alpha*b + beta*b*b
	}

	return alpha*b + beta*math.Pow(b, nu)
}

// Parameters holds an estimated production curve.
//
// Alpha and Beta jointly determine the implied carrying capacity; Sigma is
// the log-scale observation-error standard deviation. For the Schaefer
// family Nu is always 2.
type Parameters struct {
	Alpha float64
	Beta  float64
	Nu    float64
	Sigma float64
}

// Production evaluates the parameterized curve at biomass b.
func (p Parameters) Production(b float64) float64 {
	return Production(b, p.Alpha, p.Beta, p.Nu)
}

// CarryingCapacity returns the biomass at which production crosses zero,
// the nonzero root of alpha*K + beta*K^nu = 0:
//
//	K = (-alpha/beta)^(1/(nu-1))
//
// which reduces to -alpha/beta for the Schaefer family. Returns NaN when
// beta is zero or the root is undefined; see StatusDegenerateBeta.
func (p Parameters) CarryingCapacity() float64 {
	if p.Beta == 0 || p.Nu == 1 {
		return math.NaN()
	}
	ratio := -p.Alpha / p.Beta
	if ratio <= 0 {
		return math.NaN()
	}

	return math.Pow(ratio, 1/(p.Nu-1))
}

// String formats the parameters as a single report line.
func (p Parameters) String() string {
	return fmt.Sprintf("alpha=%.6g beta=%.6g nu=%.4g sigma=%.4g",
		p.Alpha, p.Beta, p.Nu, p.Sigma)
}

// Status reports fit diagnostics as a set of flags.
//
// A zero Status means the optimizer converged and no degeneracy was
// detected. Flags are surfaced on the Result instead of being raised as
// errors so the caller can inspect the fit and re-attempt with different
// initial values.
type Status uint

const (
	// StatusOK is the empty flag set.
	StatusOK Status = 0
	// StatusNotConverged indicates the optimizer did not converge within
	// its iteration/evaluation budget.
	StatusNotConverged Status = 1 << iota
	// StatusDegenerateBeta indicates beta is indistinguishable from zero,
	// leaving the carrying capacity undefined.
	StatusDegenerateBeta
	// StatusFloorDominated indicates every prediction was clamped to the
	// positivity floor, so the likelihood carries no information.
	StatusFloorDominated
	// StatusShapeCollapsed indicates the Pella-Tomlinson exponent is
	// indistinguishable from the Schaefer value of 2.
	StatusShapeCollapsed
)

// Has reports whether all flags in mask are set.
func (s Status) Has(mask Status) bool {
	return s&mask == mask
}

// String lists the set flags, or "ok" for an empty set.
func (s Status) String() string {
	if s == StatusOK {
		return "ok"
	}

	var parts []string
	if s.Has(StatusNotConverged) {
		parts = append(parts, "not-converged")
	}
	if s.Has(StatusDegenerateBeta) {
		parts = append(parts, "degenerate-beta")
	}
	if s.Has(StatusFloorDominated) {
		parts = append(parts, "floor-dominated")
	}
	if s.Has(StatusShapeCollapsed) {
		parts = append(parts, "shape-collapsed")
	}

	return strings.Join(parts, ",")
}
