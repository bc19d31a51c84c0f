package stock

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/seastock/guildfit/internal/options"
)

// LoadConfig holds configuration for loading a stock table.
type LoadConfig struct {
	// Name overrides the stock name derived from the file name.
	Name string
	// Scale multiplies SSB and Catch after parsing (default 1).
	Scale float64
	// YearColumn, SSBColumn and CatchColumn are the expected header names,
	// matched case-insensitively after trimming.
	YearColumn  string
	SSBColumn   string
	CatchColumn string
	// Logger receives the per-table load report (default no-op).
	Logger *zap.Logger
}

func defaultLoadConfig() LoadConfig {
	return LoadConfig{
		Scale:       1.0,
		YearColumn:  "Year",
		SSBColumn:   "SSB",
		CatchColumn: "Catch",
		Logger:      zap.NewNop(),
	}
}

// LoadOption is a functional option for LoadConfig.
type LoadOption = options.Option[*LoadConfig]

// WithName overrides the stock name derived from the file name.
func WithName(name string) LoadOption {
	return options.NoError(func(cfg *LoadConfig) {
		cfg.Name = name
	})
}

// WithScale sets the per-source unit scale factor applied to SSB and Catch.
func WithScale(factor float64) LoadOption {
	return options.New(func(cfg *LoadConfig) error {
		if factor <= 0 {
			return fmt.Errorf("scale factor must be positive, got %g", factor)
		}
		cfg.Scale = factor

		return nil
	})
}

// WithColumns overrides the expected header names for the three required
// columns.
func WithColumns(year, ssb, catch string) LoadOption {
	return options.NoError(func(cfg *LoadConfig) {
		cfg.YearColumn = year
		cfg.SSBColumn = ssb
		cfg.CatchColumn = catch
	})
}

// WithLogger sets the logger the load report is written to.
func WithLogger(logger *zap.Logger) LoadOption {
	return options.NoError(func(cfg *LoadConfig) {
		cfg.Logger = logger
	})
}
