// Package guildfit estimates multispecies surplus-production relationships
// for a guild of fish stocks.
//
// The library loads per-stock assessment tables (Year, SSB, Catch), joins
// them on year, derives annual surplus production, and fits Schaefer or
// Pella-Tomlinson production curves by maximum likelihood. The heavy
// lifting lives in the subpackages:
//
//   - stock: table loading, unit normalization, missing-value handling
//   - guild: inner join, surplus production, guild aggregates
//   - fit: production models, likelihood, optimizer driver
//   - figure: production-curve figures
//
// This package ties them together for the common case of a YAML guild
// definition:
//
//	cfg, err := guildfit.LoadConfig("pelagics.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	g, err := guildfit.LoadGuild(cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := guildfit.Fit(g, fit.ModelPellaTomlinson)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Params, result.Status)
package guildfit

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/seastock/guildfit/fit"
	"github.com/seastock/guildfit/guild"
	"github.com/seastock/guildfit/stock"
)

var (
	// ErrNoStocksConfigured indicates a guild definition without stocks.
	ErrNoStocksConfigured = errors.New("no stocks configured")
	// ErrUnknownModel indicates a Model value outside the supported families.
	ErrUnknownModel = errors.New("unknown production model")
)

// StockSource describes one stock table in a guild definition.
type StockSource struct {
	// Name overrides the stock name derived from the file name.
	Name string `yaml:"name"`
	// Path is the table location; compressed files are handled by extension.
	Path string `yaml:"path"`
	// Scale is the per-source unit factor (0 and 1 both mean unscaled).
	Scale float64 `yaml:"scale"`
}

// Config is a YAML guild definition.
type Config struct {
	// Guild names the analyzed guild, used in reports and figure titles.
	Guild string `yaml:"guild"`
	// Stocks lists the member stock tables.
	Stocks []StockSource `yaml:"stocks"`
}

// LoadConfig reads a guild definition from a YAML file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read guild config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse guild config: %w", err)
	}
	if len(cfg.Stocks) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoStocksConfigured)
	}

	return &cfg, nil
}

// LoadGuild loads, cleans and joins all stocks of a guild definition.
//
// Each table is loaded with its configured scale factor, rows with missing
// observations are dropped with a log line per stock, and the survivors
// are inner-joined on year.
func LoadGuild(cfg *Config, logger *zap.Logger) (*guild.Guild, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.Stocks) == 0 {
		return nil, ErrNoStocksConfigured
	}

	stocks := make([]*stock.Stock, 0, len(cfg.Stocks))
	for _, src := range cfg.Stocks {
		opts := []stock.LoadOption{stock.WithLogger(logger)}
		if src.Name != "" {
			opts = append(opts, stock.WithName(src.Name))
		}
		if src.Scale != 0 && src.Scale != 1 {
			opts = append(opts, stock.WithScale(src.Scale))
		}

		s, err := stock.Load(src.Path, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load stock %q: %w", src.Path, err)
		}

		clean, err := s.DropMissing(logger)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, clean)
	}

	return guild.Join(stocks...)
}

// Fit estimates a production curve for the guild's summed biomass and
// surplus production.
func Fit(g *guild.Guild, model fit.Model, opts ...fit.Option) (*fit.Result, error) {
	biomass, production := g.Observations()
	obs, err := fit.NewObservations(biomass, production)
	if err != nil {
		return nil, err
	}

	switch model {
	case ModelSchaefer:
		return fit.FitSchaefer(obs, opts...)
	case ModelPellaTomlinson:
		return fit.FitPellaTomlinson(obs, opts...)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownModel, model)
	}
}

// Re-exported model identifiers for callers that only import the root
// package.
const (
	ModelSchaefer       = fit.ModelSchaefer
	ModelPellaTomlinson = fit.ModelPellaTomlinson
)
