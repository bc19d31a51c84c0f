package stock

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
)

var (
	// ErrLengthMismatch indicates the year, SSB and catch series differ in length.
	ErrLengthMismatch = errors.New("stock series have mismatched lengths")
	// ErrNoObservations indicates a stock has no valid rows after coercion.
	ErrNoObservations = errors.New("stock has no valid observations")
	// ErrDuplicateYear indicates a year appears in more than one row.
	ErrDuplicateYear = errors.New("duplicate assessment year")
)

// Stock holds one stock's year-indexed assessment series.
//
// Years, SSB and Catch are aligned: index i of each slice belongs to the
// same assessment year. Entries may be NaN for years where the assessment
// reports no value; DropMissing removes such rows before analysis.
type Stock struct {
	// Name identifies the stock (e.g. "her.27.3a47d").
	Name string
	// Years is the assessment year for each row, strictly increasing.
	Years []int
	// SSB is spawning stock biomass per year, in guild-common units.
	SSB []float64
	// Catch is reported catch per year, in guild-common units.
	Catch []float64
	// Fingerprint is the xxHash64 of the source table bytes, zero for
	// stocks built in memory.
	Fingerprint uint64
}

// New constructs a Stock from aligned series.
//
// Returns ErrLengthMismatch when the series lengths differ,
// ErrNoObservations for empty input and ErrDuplicateYear when a year
// appears more than once. Year uniqueness is what makes the join in the
// guild package well defined.
func New(name string, years []int, ssb, catch []float64) (*Stock, error) {
	if len(years) != len(ssb) || len(years) != len(catch) {
		return nil, fmt.Errorf("%w: %d years, %d SSB, %d catch",
			ErrLengthMismatch, len(years), len(ssb), len(catch))
	}
	if len(years) == 0 {
		return nil, ErrNoObservations
	}
	seen := make(map[int]struct{}, len(years))
	for _, year := range years {
		if _, dup := seen[year]; dup {
			return nil, fmt.Errorf("%w: %s year %d", ErrDuplicateYear, name, year)
		}
		seen[year] = struct{}{}
	}

	return &Stock{
		Name:  name,
		Years: years,
		SSB:   ssb,
		Catch: catch,
	}, nil
}

// Len returns the number of rows.
func (s *Stock) Len() int {
	return len(s.Years)
}

// Scale multiplies SSB and Catch in place by a per-source unit factor.
//
// Some assessments report tonnes where others report thousand tonnes; the
// factor reconciles them before cross-stock summation. The factor is
// configuration for each source and is never inferred from the data.
func (s *Stock) Scale(factor float64) {
	for i := range s.SSB {
		s.SSB[i] *= factor
		s.Catch[i] *= factor
	}
}

// DropMissing returns a copy of the stock without rows where SSB or Catch
// is NaN, reporting the excluded years on the given logger.
//
// Exclusion is an explicit step so that missing observations are visible
// in the analysis log instead of vanishing inside later arithmetic.
// Returns ErrNoObservations when no valid rows remain.
func (s *Stock) DropMissing(logger *zap.Logger) (*Stock, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	kept := &Stock{Name: s.Name, Fingerprint: s.Fingerprint}
	var excluded []int
	for i, year := range s.Years {
		if math.IsNaN(s.SSB[i]) || math.IsNaN(s.Catch[i]) {
			excluded = append(excluded, year)
			continue
		}
		kept.Years = append(kept.Years, year)
		kept.SSB = append(kept.SSB, s.SSB[i])
		kept.Catch = append(kept.Catch, s.Catch[i])
	}

	if len(excluded) > 0 {
		logger.Info("excluded years with missing observations",
			zap.String("stock", s.Name),
			zap.Ints("years", excluded))
	}
	if kept.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", s.Name, ErrNoObservations)
	}

	return kept, nil
}
