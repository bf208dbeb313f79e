package costcalc

import (
	"github.com/costbook/backend/internal/model"
	"github.com/shopspring/decimal"
)

// Adjustments holds the unrounded pipeline terms for one direct cost.
type Adjustments struct {
	Direct       decimal.Decimal
	Indirect     decimal.Decimal
	Overhead     decimal.Decimal
	Contingency  decimal.Decimal
	BulkDiscount decimal.Decimal // zero or negative
	Location     decimal.Decimal
	Seasonal     decimal.Decimal
	Total        decimal.Decimal
}

// ApplyAdjustments runs the adjustment pipeline on a direct cost. Each term
// is taken on the running subtotal, in this order: indirect, overhead,
// contingency, bulk discount, location, seasonal. Disabled or neutral terms
// are zero.
func ApplyAdjustments(direct decimal.Decimal, opts model.CalculationOptions) Adjustments {
	a := Adjustments{Direct: direct}
	running := direct

	if opts.IncludeIndirectCosts {
		a.Indirect = percentOf(running, opts.IndirectCostPercentage)
		running = running.Add(a.Indirect)
	}
	if opts.IncludeOverheads {
		a.Overhead = percentOf(running, opts.OverheadPercentage)
		running = running.Add(a.Overhead)
	}
	if opts.IncludeContingency {
		a.Contingency = percentOf(running, opts.ContingencyPercentage)
		running = running.Add(a.Contingency)
	}
	if opts.BulkDiscountPercentage.IsPositive() {
		a.BulkDiscount = percentOf(running, opts.BulkDiscountPercentage).Neg()
		running = running.Add(a.BulkDiscount)
	}
	if f := opts.LocationAdjustmentFactor; !isNeutral(f) {
		a.Location = running.Mul(f.Sub(one))
		running = running.Add(a.Location)
	}
	if f := opts.SeasonalAdjustmentFactor; !isNeutral(f) {
		a.Seasonal = running.Mul(f.Sub(one))
		running = running.Add(a.Seasonal)
	}

	a.Total = running
	return a
}

func percentOf(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred)
}

// isNeutral treats an unset (zero) factor the same as 1.0.
func isNeutral(f decimal.Decimal) bool {
	return f.IsZero() || f.Equal(one)
}
