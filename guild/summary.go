package guild

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// SeriesSummary holds descriptive statistics for one guild series.
type SeriesSummary struct {
	Name   string
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Median float64
}

// String formats the summary as a single report line.
func (s SeriesSummary) String() string {
	return fmt.Sprintf("%s: mean=%.4g sd=%.4g min=%.4g max=%.4g median=%.4g",
		s.Name, s.Mean, s.StdDev, s.Min, s.Max, s.Median)
}

// Summary computes descriptive statistics for the guild SSB, catch and
// surplus-production series, in that order.
func (g *Guild) Summary() ([]SeriesSummary, error) {
	series := []struct {
		name string
		data []float64
	}{
		{"ssb", g.SSB},
		{"catch", g.Catch},
		{"production", g.Production},
	}

	summaries := make([]SeriesSummary, 0, len(series))
	for _, s := range series {
		summary, err := summarize(s.name, s.data)
		if err != nil {
			return nil, fmt.Errorf("failed to summarize %s: %w", s.name, err)
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func summarize(name string, data []float64) (SeriesSummary, error) {
	// Production carries NaN across gaps in the joined years; summarize
	// the defined entries only.
	finite := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	d := stats.Float64Data(finite)

	mean, err := d.Mean()
	if err != nil {
		return SeriesSummary{}, err
	}
	sd, err := d.StandardDeviation()
	if err != nil {
		return SeriesSummary{}, err
	}
	minVal, err := d.Min()
	if err != nil {
		return SeriesSummary{}, err
	}
	maxVal, err := d.Max()
	if err != nil {
		return SeriesSummary{}, err
	}
	median, err := d.Median()
	if err != nil {
		return SeriesSummary{}, err
	}

	return SeriesSummary{
		Name:   name,
		Mean:   mean,
		StdDev: sd,
		Min:    minVal,
		Max:    maxVal,
		Median: median,
	}, nil
}
