// Package stock loads per-stock assessment tables for surplus-production
// analysis.
//
// A stock table is a comma-delimited file with a header row and at least
// the columns Year, SSB (spawning stock biomass) and Catch. Numeric fields
// may carry extraneous whitespace; the loader trims and coerces them, and
// fails the load when a required field cannot be parsed. Gzip, Zstd, S2 and
// LZ4 compressed files are decompressed transparently based on extension.
//
// Different assessments report biomass and catch in different units. The
// per-source scale factor is configuration, never inferred:
//
//	herring, err := stock.Load("herring.csv", stock.WithScale(1000))
//
// Rows with missing observations are not silently dropped by arithmetic;
// DropMissing removes them explicitly and reports the excluded years
// through the configured logger.
package stock
