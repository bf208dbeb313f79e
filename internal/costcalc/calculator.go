package costcalc

import (
	"github.com/costbook/backend/internal/model"
	"github.com/shopspring/decimal"
)

// Input is everything a single-item calculation needs. Catalogue must hold
// the entries referenced by Factors; entries absent from it are reported as
// missing.
type Input struct {
	Item      *model.LibraryItem
	Factors   *model.ItemFactors
	Catalogue model.Catalogue
	Rates     *model.ProjectRates
	Options   model.CalculationOptions
	ProjectID string
	// Quantity scales the unit cost into ExtendedCost.
	Quantity decimal.Decimal
}

// Calculate prices one library item. It only fails on invalid input; data
// problems are recovered and reported as warnings on the result.
func Calculate(in Input) (*model.CalculationResult, error) {
	if err := ValidateQuantity(in.Quantity); err != nil {
		return nil, err
	}
	if err := ValidateOptions(in.Options); err != nil {
		return nil, err
	}
	if err := ValidateFactors(in.Factors); err != nil {
		return nil, err
	}

	factors := in.Factors
	if factors == nil {
		factors = &model.ItemFactors{}
	}

	mat := materialCosts(factors.Materials, in.Catalogue, in.Rates)
	lab := laborCosts(factors.Labor, in.Catalogue, in.Rates)
	eqp := equipmentCosts(factors.Equipment, in.Catalogue, in.Rates)

	direct := mat.subtotal.Add(lab.subtotal).Add(eqp.subtotal)
	adj := ApplyAdjustments(direct, in.Options)

	res := &model.CalculationResult{
		ProjectID: in.ProjectID,
		Quantity:  in.Quantity,

		MaterialCost:  round(mat.subtotal),
		LaborCost:     round(lab.subtotal),
		EquipmentCost: round(eqp.subtotal),
		DirectCost:    round(direct),

		IndirectCost:       round(adj.Indirect),
		Overhead:           round(adj.Overhead),
		Contingency:        round(adj.Contingency),
		BulkDiscount:       round(adj.BulkDiscount),
		LocationAdjustment: round(adj.Location),
		SeasonalAdjustment: round(adj.Seasonal),

		UnitCost:     round(adj.Total),
		ExtendedCost: round(adj.Total.Mul(in.Quantity)),

		Breakdown: make([]model.LineItem, 0, len(mat.lines)+len(lab.lines)+len(eqp.lines)),
	}
	if in.Item != nil {
		res.ItemID = in.Item.ID
		res.ItemCode = in.Item.Code
		res.ItemName = in.Item.Name
		res.Unit = in.Item.Unit
	} else {
		res.ItemID = factors.ItemID
	}

	for _, c := range []categoryCost{mat, lab, eqp} {
		res.Breakdown = append(res.Breakdown, c.lines...)
		res.Warnings = append(res.Warnings, c.warnings...)
	}
	return res, nil
}

// MissingReferences returns the warnings that name an absent catalogue entry
// or factor link, which callers treat as "unable to calculate".
func MissingReferences(res *model.CalculationResult) []model.Warning {
	var out []model.Warning
	for _, w := range res.Warnings {
		if w.Code == model.WarningMissingCatalogueEntry || w.Code == model.WarningMissingReference {
			out = append(out, w)
		}
	}
	return out
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
