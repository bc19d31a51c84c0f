// Package figure renders production-curve figures for fitted guilds.
package figure

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/seastock/guildfit/fit"
)

// curveSamples is the number of points used to draw the fitted curve.
const curveSamples = 200

// ProductionCurve builds a figure with the observed (biomass, production)
// scatter and the fitted production curve drawn from zero to just past
// the largest observed biomass.
func ProductionCurve(obs fit.Observations, params fit.Parameters, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Guild SSB"
	p.Y.Label.Text = "Annual surplus production"

	points := make(plotter.XYs, obs.Len())
	maxB := 0.0
	for i := range obs.Biomass {
		points[i].X = obs.Biomass[i]
		points[i].Y = obs.Production[i]
		if obs.Biomass[i] > maxB {
			maxB = obs.Biomass[i]
		}
	}

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return nil, fmt.Errorf("failed to build scatter: %w", err)
	}
	p.Add(scatter)
	p.Legend.Add("observed", scatter)

	curve := plotter.NewFunction(params.Production)
	curve.XMin = 0
	curve.XMax = maxB * 1.05
	curve.Samples = curveSamples
	p.Add(curve)
	p.Legend.Add(params.String(), curve)

	return p, nil
}

// Save renders the figure to path, with the image format chosen from the
// extension (.png, .svg, .pdf).
func Save(p *plot.Plot, path string) error {
	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save figure: %w", err)
	}

	return nil
}
