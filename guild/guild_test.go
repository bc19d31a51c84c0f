package guild

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seastock/guildfit/stock"
)

func mustStock(t *testing.T, name string, years []int, ssb, catch []float64) *stock.Stock {
	t.Helper()
	s, err := stock.New(name, years, ssb, catch)
	require.NoError(t, err)

	return s
}

func TestSurplusProduction(t *testing.T) {
	// Literal series from the single-stock definition:
	// ASP[t] = B[t+1] - B[t] + C[t].
	asp := SurplusProduction(
		[]float64{100, 120, 90},
		[]float64{10, 15, 5},
	)

	assert.Equal(t, []float64{30, -15}, asp)
}

func TestSurplusProductionTooShort(t *testing.T) {
	assert.Nil(t, SurplusProduction([]float64{100}, []float64{10}))
	assert.Nil(t, SurplusProduction(nil, nil))
}

func TestJoinSingleStock(t *testing.T) {
	g, err := Join(mustStock(t, "herring",
		[]int{1990, 1991, 1992},
		[]float64{100, 120, 90},
		[]float64{10, 15, 5}))
	require.NoError(t, err)

	assert.Equal(t, []int{1990, 1991, 1992}, g.Years)
	assert.Equal(t, []float64{100, 120, 90}, g.SSB)
	assert.Equal(t, []float64{30, -15}, g.Production)
	assert.Equal(t, []int{1990, 1991}, g.ProductionYears())
}

func TestJoinIntersection(t *testing.T) {
	herring := mustStock(t, "herring",
		[]int{1990, 1991, 1992, 1993},
		[]float64{100, 120, 90, 95},
		[]float64{10, 15, 5, 7})
	sprat := mustStock(t, "sprat",
		[]int{1991, 1992, 1993, 1994},
		[]float64{50, 60, 55, 52},
		[]float64{4, 6, 5, 3})

	g, err := Join(herring, sprat)
	require.NoError(t, err)

	// Only the overlapping years survive.
	assert.Equal(t, []int{1991, 1992, 1993}, g.Years)

	// Guild series are elementwise sums over the intersection.
	assert.Equal(t, []float64{120 + 50, 90 + 60, 95 + 55}, g.SSB)
	assert.Equal(t, []float64{15 + 4, 5 + 6, 7 + 5}, g.Catch)

	// Guild production comes from the summed series.
	wantASP := []float64{
		(90 + 60) - (120 + 50) + (15 + 4),
		(95 + 55) - (90 + 60) + (5 + 6),
	}
	assert.Equal(t, wantASP, g.Production)
}

func TestJoinScalingOneStock(t *testing.T) {
	years := []int{1990, 1991, 1992}
	herring := mustStock(t, "herring", years,
		[]float64{100, 120, 90}, []float64{10, 15, 5})
	sprat := mustStock(t, "sprat", years,
		[]float64{50, 60, 55}, []float64{4, 6, 5})

	base, err := Join(herring, sprat)
	require.NoError(t, err)

	// Scaling one stock by k changes only that stock's contribution.
	const k = 1000.0
	scaled := mustStock(t, "sprat", years,
		[]float64{50, 60, 55}, []float64{4, 6, 5})
	scaled.Scale(k)

	g, err := Join(herring, scaled)
	require.NoError(t, err)

	for i := range years {
		assert.InDelta(t, herring.SSB[i]+k*sprat.SSB[i], g.SSB[i], 1e-9)
		assert.InDelta(t, herring.Catch[i]+k*sprat.Catch[i], g.Catch[i], 1e-9)
		// Base guild minus sprat contribution is untouched.
		assert.InDelta(t, base.SSB[i]-sprat.SSB[i], g.SSB[i]-k*sprat.SSB[i], 1e-9)
	}
}

func TestJoinIgnoresDuplicateYearRows(t *testing.T) {
	// A malformed series with a repeated year must not vote that year
	// into the intersection for stocks that never reported it. Built as
	// a literal because the stock constructor rejects duplicates.
	herring := &stock.Stock{
		Name:  "herring",
		Years: []int{1990, 1990, 1991, 1992, 1993},
		SSB:   []float64{100, 105, 120, 90, 95},
		Catch: []float64{10, 11, 15, 5, 7},
	}
	sprat := mustStock(t, "sprat",
		[]int{1991, 1992, 1993},
		[]float64{50, 60, 55},
		[]float64{4, 6, 5})

	g, err := Join(herring, sprat)
	require.NoError(t, err)

	require.NotContains(t, g.Years, 1990)
	assert.Equal(t, []int{1991, 1992, 1993}, g.Years)
	assert.Equal(t, []float64{120 + 50, 90 + 60, 95 + 55}, g.SSB)
}

func TestJoinGapYears(t *testing.T) {
	years := []int{1990, 1991, 1993, 1994}
	herring := mustStock(t, "herring", years,
		[]float64{100, 120, 90, 95}, []float64{10, 15, 5, 7})
	sprat := mustStock(t, "sprat", years,
		[]float64{50, 60, 55, 52}, []float64{4, 6, 5, 3})

	g, err := Join(herring, sprat)
	require.NoError(t, err)
	require.Equal(t, years, g.Years)

	// 1991 -> 1993 is not a one-year transition; its entry is undefined
	// instead of a two-year biomass difference.
	require.Len(t, g.Production, 3)
	assert.False(t, math.IsNaN(g.Production[0]))
	assert.True(t, math.IsNaN(g.Production[1]))
	assert.False(t, math.IsNaN(g.Production[2]))

	assert.True(t, math.IsNaN(g.StockProduction(0)[1]))

	// Summaries skip the undefined entry.
	summaries, err := g.Summary()
	require.NoError(t, err)
	assert.False(t, math.IsNaN(summaries[2].Mean))
}

func TestJoinEmptyIntersection(t *testing.T) {
	herring := mustStock(t, "herring", []int{1990, 1991},
		[]float64{100, 120}, []float64{10, 15})
	sprat := mustStock(t, "sprat", []int{2000, 2001},
		[]float64{50, 60}, []float64{4, 6})

	_, err := Join(herring, sprat)
	require.ErrorIs(t, err, ErrEmptyJoin)
}

func TestJoinSingleYearIntersection(t *testing.T) {
	herring := mustStock(t, "herring", []int{1990, 1991},
		[]float64{100, 120}, []float64{10, 15})
	sprat := mustStock(t, "sprat", []int{1991, 1992},
		[]float64{50, 60}, []float64{4, 6})

	_, err := Join(herring, sprat)
	require.ErrorIs(t, err, ErrTooShort)
}

func TestJoinNoStocks(t *testing.T) {
	_, err := Join()
	require.ErrorIs(t, err, ErrNoStocks)
}

func TestStockProduction(t *testing.T) {
	herring := mustStock(t, "herring", []int{1990, 1991, 1992},
		[]float64{100, 120, 90}, []float64{10, 15, 5})
	sprat := mustStock(t, "sprat", []int{1990, 1991, 1992},
		[]float64{50, 60, 55}, []float64{4, 6, 5})

	g, err := Join(herring, sprat)
	require.NoError(t, err)

	assert.Equal(t, []float64{30, -15}, g.StockProduction(0))
	assert.Equal(t, []float64{60 - 50 + 4, 55 - 60 + 6}, g.StockProduction(1))
}

func TestSummary(t *testing.T) {
	g, err := Join(mustStock(t, "herring",
		[]int{1990, 1991, 1992},
		[]float64{100, 120, 90},
		[]float64{10, 15, 5}))
	require.NoError(t, err)

	summaries, err := g.Summary()
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	ssb := summaries[0]
	assert.Equal(t, "ssb", ssb.Name)
	assert.InDelta(t, (100.0+120+90)/3, ssb.Mean, 1e-9)
	assert.InDelta(t, 90, ssb.Min, 1e-9)
	assert.InDelta(t, 120, ssb.Max, 1e-9)
	assert.InDelta(t, 100, ssb.Median, 1e-9)

	prod := summaries[2]
	assert.Equal(t, "production", prod.Name)
	assert.InDelta(t, (30.0-15)/2, prod.Mean, 1e-9)
}
