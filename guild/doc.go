// Package guild assembles a multispecies guild from individual stocks.
//
// Stocks are joined on assessment year with strict inner-join semantics:
// only years present in every stock survive. Per-stock annual surplus
// production for year t is
//
//	ASP[t] = B[t+1] - B[t] + C[t]
//
// attributing the biomass change to the year whose catch was taken; the
// final joined year has no successor and is excluded from the production
// series. Guild-level biomass, catch and production are per-year sums over
// the joined stocks.
//
// Unit normalization happens upstream in the stock package: all stocks
// must already be in common units before Join, otherwise the sums are
// meaningless.
package guild
