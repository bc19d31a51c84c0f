package guild

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/seastock/guildfit/stock"
)

var (
	// ErrNoStocks indicates Join was called without any stocks.
	ErrNoStocks = errors.New("no stocks to join")
	// ErrEmptyJoin indicates the stocks share no assessment years.
	ErrEmptyJoin = errors.New("joined year range is empty")
	// ErrTooShort indicates the joined range has no year-to-year
	// transition, so no surplus production can be computed.
	ErrTooShort = errors.New("joined year range too short for surplus production")
)

// Guild holds the year-aligned series for a set of jointly analyzed stocks.
//
// All slices are indexed by the joined year range. Production series are
// one element shorter than the biomass series: the final year has no
// successor biomass.
type Guild struct {
	// Stocks are the member stocks restricted to the joined years,
	// in the order passed to Join.
	Stocks []*stock.Stock
	// Years is the sorted intersection of the member stocks' years.
	Years []int
	// SSB is guild biomass per joined year (sum over stocks).
	SSB []float64
	// Catch is guild catch per joined year (sum over stocks).
	Catch []float64
	// Production is guild annual surplus production for Years[:len(Years)-1].
	// Entries where the joined range skips calendar years are NaN: the
	// biomass difference would span more than one annual transition.
	Production []float64
}

// Join builds a Guild from already-normalized stocks.
//
// The join is a strict inner join on Year: a year survives only if every
// stock reports it. Returns ErrEmptyJoin when the intersection is empty
// and ErrTooShort when fewer than two years survive, since surplus
// production needs a successor year.
//
// Stocks with NaN entries should be passed through DropMissing first;
// Join treats every row it is given as a valid observation. When the
// intersection skips interior years, the Production entries spanning a
// gap are NaN rather than a multi-year biomass difference.
func Join(stocks ...*stock.Stock) (*Guild, error) {
	if len(stocks) == 0 {
		return nil, ErrNoStocks
	}

	years := joinYears(stocks)
	if len(years) == 0 {
		return nil, fmt.Errorf("%w: %d stocks share no years", ErrEmptyJoin, len(stocks))
	}
	if len(years) < 2 {
		return nil, fmt.Errorf("%w: only year %d joined", ErrTooShort, years[0])
	}

	g := &Guild{
		Years: years,
		SSB:   make([]float64, len(years)),
		Catch: make([]float64, len(years)),
	}

	for _, s := range stocks {
		restricted := restrict(s, years)
		g.Stocks = append(g.Stocks, restricted)
		floats.Add(g.SSB, restricted.SSB)
		floats.Add(g.Catch, restricted.Catch)
	}

	g.Production = surplusOverYears(g.Years, g.SSB, g.Catch)

	return g, nil
}

// SurplusProduction computes the annual surplus production series
// ASP[t] = B[t+1] - B[t] + C[t] for consecutive years.
//
// The result has len(ssb)-1 entries; the last year is excluded because it
// has no successor biomass. The literature's correction factor on catch is
// deliberately not applied, matching the assessment convention this
// analysis follows.
func SurplusProduction(ssb, catch []float64) []float64 {
	if len(ssb) < 2 {
		return nil
	}

	asp := make([]float64, len(ssb)-1)
	for t := range asp {
		asp[t] = ssb[t+1] - ssb[t] + catch[t]
	}

	return asp
}

// surplusOverYears computes the surplus production of a year-indexed
// series, marking transitions that span more than one calendar year as
// NaN. Such gaps arise when the inner join drops interior years; the
// fitting layer excludes NaN pairs on construction.
func surplusOverYears(years []int, ssb, catch []float64) []float64 {
	asp := SurplusProduction(ssb, catch)
	for t := range asp {
		if years[t+1] != years[t]+1 {
			asp[t] = math.NaN()
		}
	}

	return asp
}

// StockProduction returns the annual surplus production of a single member
// stock over the joined years, NaN across gaps in the joined range.
func (g *Guild) StockProduction(i int) []float64 {
	s := g.Stocks[i]

	return surplusOverYears(s.Years, s.SSB, s.Catch)
}

// ProductionYears returns the years the Production series belongs to,
// i.e. the joined years without the final one.
func (g *Guild) ProductionYears() []int {
	return g.Years[:len(g.Years)-1]
}

// Observations returns the aligned (biomass, production) pairs used for
// production-curve fitting: guild SSB in year t against guild surplus
// production attributed to year t.
func (g *Guild) Observations() (biomass, production []float64) {
	return g.SSB[:len(g.SSB)-1], g.Production
}

// joinYears returns the sorted intersection of the stocks' year sets.
// Each stock contributes a year at most once, so a malformed series with
// a repeated row cannot vote a year into the intersection on behalf of a
// stock that never reported it.
func joinYears(stocks []*stock.Stock) []int {
	counts := make(map[int]int)
	for _, s := range stocks {
		seen := make(map[int]struct{}, len(s.Years))
		for _, year := range s.Years {
			if _, dup := seen[year]; dup {
				continue
			}
			seen[year] = struct{}{}
			counts[year]++
		}
	}

	var years []int
	for year, n := range counts {
		if n == len(stocks) {
			years = append(years, year)
		}
	}
	slices.Sort(years)

	return years
}

// restrict returns a copy of the stock limited to the given years, which
// must all be present in the stock.
func restrict(s *stock.Stock, years []int) *stock.Stock {
	index := make(map[int]int, s.Len())
	for i, year := range s.Years {
		index[year] = i
	}

	r := &stock.Stock{
		Name:        s.Name,
		Years:       years,
		SSB:         make([]float64, len(years)),
		Catch:       make([]float64, len(years)),
		Fingerprint: s.Fingerprint,
	}
	for i, year := range years {
		j := index[year]
		r.SSB[i] = s.SSB[j]
		r.Catch[i] = s.Catch[j]
	}

	return r
}
