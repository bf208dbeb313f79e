package costcalc

import (
	"fmt"

	"github.com/costbook/backend/internal/model"
	"github.com/shopspring/decimal"
)

var (
	zero    = decimal.Zero
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// ValidateOptions rejects negative percentages, a bulk discount above 100%
// and negative location or seasonal factors.
func ValidateOptions(opts model.CalculationOptions) error {
	percentages := []struct {
		field string
		value decimal.Decimal
	}{
		{"indirect_cost_percentage", opts.IndirectCostPercentage},
		{"overhead_percentage", opts.OverheadPercentage},
		{"contingency_percentage", opts.ContingencyPercentage},
		{"bulk_discount_percentage", opts.BulkDiscountPercentage},
	}
	for _, p := range percentages {
		if p.value.IsNegative() {
			return invalid(p.field, "must not be negative, got %s", p.value)
		}
	}
	if opts.BulkDiscountPercentage.GreaterThan(hundred) {
		return invalid("bulk_discount_percentage", "must not exceed 100, got %s", opts.BulkDiscountPercentage)
	}
	if opts.LocationAdjustmentFactor.IsNegative() {
		return invalid("location_adjustment_factor", "must not be negative, got %s", opts.LocationAdjustmentFactor)
	}
	if opts.SeasonalAdjustmentFactor.IsNegative() {
		return invalid("seasonal_adjustment_factor", "must not be negative, got %s", opts.SeasonalAdjustmentFactor)
	}
	return nil
}

// ValidateQuantity rejects a negative extension quantity.
func ValidateQuantity(q decimal.Decimal) error {
	if q.IsNegative() {
		return invalid("quantity", "must not be negative, got %s", q)
	}
	return nil
}

// ValidateFactors rejects out-of-range factor figures. Missing values that
// have a documented default are not errors.
func ValidateFactors(f *model.ItemFactors) error {
	if f == nil {
		return nil
	}
	for _, m := range f.Materials {
		if m.QuantityPerUnit.IsNegative() {
			return invalid(factorField("material", m.ID, "quantity_per_unit"), "must not be negative, got %s", m.QuantityPerUnit)
		}
		if m.WastagePercentage.IsNegative() || m.WastagePercentage.GreaterThan(hundred) {
			return invalid(factorField("material", m.ID, "wastage_percentage"), "must be between 0 and 100, got %s", m.WastagePercentage)
		}
	}
	for _, l := range f.Labor {
		if l.HoursPerUnit.IsNegative() {
			return invalid(factorField("labor", l.ID, "hours_per_unit"), "must not be negative, got %s", l.HoursPerUnit)
		}
	}
	for _, e := range f.Equipment {
		if e.HoursPerUnit.IsNegative() {
			return invalid(factorField("equipment", e.ID, "hours_per_unit"), "must not be negative, got %s", e.HoursPerUnit)
		}
		if e.UtilizationFactor != nil && e.UtilizationFactor.IsNegative() {
			return invalid(factorField("equipment", e.ID, "utilization_factor"), "must not be negative, got %s", *e.UtilizationFactor)
		}
	}
	return nil
}

func factorField(kind, id, field string) string {
	return fmt.Sprintf("%s factor %s %s", kind, id, field)
}
