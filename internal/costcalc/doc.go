// Package costcalc computes the unit cost of a library item from its material,
// labour and equipment factors.
//
// Everything here is pure: callers load the factors, catalogue entries and
// project rate table, and the package only does arithmetic on them. The same
// functions back the interactive preview, batch recalculation and price
// snapshots so the three never drift apart.
//
// Arithmetic runs on decimal.Decimal at full precision. Rounding to cents
// happens once, when the CalculationResult fields are filled in.
package costcalc
