package stock

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/seastock/guildfit/compress"
	"github.com/seastock/guildfit/internal/hash"
	"github.com/seastock/guildfit/internal/options"
)

var (
	// ErrMissingColumn indicates a required header column was not found.
	ErrMissingColumn = errors.New("required column not found in header")
	// ErrBadField indicates a required numeric field could not be coerced.
	ErrBadField = errors.New("cannot coerce field to numeric")
	// ErrEmptyTable indicates the table has a header but no data rows.
	ErrEmptyTable = errors.New("table has no data rows")
)

// Load reads a stock table from a comma-delimited file.
//
// The file must have a header row containing the Year, SSB and Catch
// columns (configurable via WithColumns); extra columns are ignored.
// Compressed files (.gz, .zst, .s2, .lz4) are decompressed before parsing.
// The per-source scale factor from WithScale is applied to SSB and Catch
// after coercion. A year appearing in more than one row fails the load
// with ErrDuplicateYear.
//
// Example:
//
//	sandeel, err := stock.Load("data/sandeel.csv.gz",
//	    stock.WithScale(1000),
//	    stock.WithLogger(logger),
//	)
func Load(path string, opts ...LoadOption) (*Stock, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stock table: %w", err)
	}

	codec, err := compress.ForPath(path)
	if err != nil {
		return nil, err
	}
	raw, err = codec.Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
	}

	name := stockNameFromPath(path)
	opts = append([]LoadOption{WithName(name)}, opts...)

	return Parse(bytes.NewReader(raw), opts...)
}

// Parse reads a stock table from an uncompressed CSV stream.
//
// This is the reader-based core of Load, usable directly for tables that
// do not live on disk.
func Parse(r io.Reader, opts ...LoadOption) (*Stock, error) {
	cfg := defaultLoadConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read stock table: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	yearIdx, err := columnIndex(header, cfg.YearColumn)
	if err != nil {
		return nil, err
	}
	ssbIdx, err := columnIndex(header, cfg.SSBColumn)
	if err != nil {
		return nil, err
	}
	catchIdx, err := columnIndex(header, cfg.CatchColumn)
	if err != nil {
		return nil, err
	}

	s := &Stock{Name: cfg.Name, Fingerprint: hash.Fingerprint(raw)}
	seen := make(map[int]int)
	row := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", row, err)
		}
		row++

		year, err := parseYear(record, yearIdx, cfg.YearColumn, row)
		if err != nil {
			return nil, err
		}
		if first, dup := seen[year]; dup {
			return nil, fmt.Errorf("%w: year %d in rows %d and %d",
				ErrDuplicateYear, year, first, row)
		}
		seen[year] = row
		ssb, err := parseValue(record, ssbIdx, cfg.SSBColumn, row)
		if err != nil {
			return nil, err
		}
		catch, err := parseValue(record, catchIdx, cfg.CatchColumn, row)
		if err != nil {
			return nil, err
		}

		s.Years = append(s.Years, year)
		s.SSB = append(s.SSB, ssb*cfg.Scale)
		s.Catch = append(s.Catch, catch*cfg.Scale)
	}

	if s.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", cfg.Name, ErrEmptyTable)
	}

	cfg.Logger.Info("loaded stock",
		zap.String("stock", s.Name),
		zap.Uint64("id", hash.ID(s.Name)),
		zap.Uint64("fingerprint", s.Fingerprint),
		zap.Int("years", s.Len()))

	return s, nil
}

// columnIndex finds a header column by trimmed, case-insensitive name.
func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, nil
		}
	}

	return 0, fmt.Errorf("%w: %q (header: %v)", ErrMissingColumn, name, header)
}

// parseYear coerces a year field; years are required for every row.
func parseYear(record []string, idx int, column string, row int) (int, error) {
	field := fieldAt(record, idx)
	year, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("%w: column %q row %d value %q", ErrBadField, column, row, field)
	}

	return year, nil
}

// parseValue coerces a numeric field. Empty fields become NaN (missing
// observation); any other unparseable value fails the load.
func parseValue(record []string, idx int, column string, row int) (float64, error) {
	field := fieldAt(record, idx)
	if field == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: column %q row %d value %q", ErrBadField, column, row, field)
	}

	return v, nil
}

func fieldAt(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[idx])
}

// stockNameFromPath strips the directory and all extensions, so
// "data/her.27.3a47d.csv.gz" stays "her.27.3a47d".
func stockNameFromPath(path string) string {
	name := filepath.Base(path)
	for {
		ext := filepath.Ext(name)
		switch strings.ToLower(ext) {
		case ".csv", ".gz", ".gzip", ".zst", ".zstd", ".s2", ".lz4":
			name = strings.TrimSuffix(name, ext)
		default:
			return name
		}
	}
}
