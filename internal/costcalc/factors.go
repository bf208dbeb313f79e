package costcalc

import (
	"fmt"

	"github.com/costbook/backend/internal/model"
	"github.com/shopspring/decimal"
)

// MaterialQuantity is the quantity per unit grossed up for wastage.
func MaterialQuantity(quantityPerUnit, wastagePercentage decimal.Decimal) decimal.Decimal {
	return quantityPerUnit.Mul(one.Add(wastagePercentage.Div(hundred)))
}

// LaborHours is hours per unit divided by productivity and multiplied by crew.
// Callers pass productivity > 0; see effectiveProductivity.
func LaborHours(hoursPerUnit, productivity, crewSize decimal.Decimal) decimal.Decimal {
	return hoursPerUnit.Div(productivity).Mul(crewSize)
}

// EquipmentHours is hours per unit scaled by the utilization factor.
func EquipmentHours(hoursPerUnit, utilization decimal.Decimal) decimal.Decimal {
	return hoursPerUnit.Mul(utilization)
}

// categoryCost is the outcome for one factor kind.
type categoryCost struct {
	lines    []model.LineItem
	subtotal decimal.Decimal
	warnings []model.Warning
}

func (c *categoryCost) add(line model.LineItem) {
	c.lines = append(c.lines, line)
	c.subtotal = c.subtotal.Add(line.Cost)
}

func (c *categoryCost) warn(w model.Warning) {
	c.warnings = append(c.warnings, w)
}

// priceLine resolves the catalogue entry and rate for a factor and appends
// the line. An unusable entry yields a zero-cost line plus a warning.
func priceLine(c *categoryCost, category model.Category, factorID, entryID string, base, effective decimal.Decimal, cat model.Catalogue, rates *model.ProjectRates) {
	line := model.LineItem{
		Category:          category,
		FactorID:          factorID,
		CatalogueEntryID:  entryID,
		BaseQuantity:      base,
		EffectiveQuantity: effective,
		RateSource:        model.RateSourceNone,
	}

	if entryID == "" {
		c.warn(model.Warning{
			Code:     model.WarningMissingReference,
			Category: category,
			FactorID: factorID,
			Message:  fmt.Sprintf("%s factor %s has no linked catalogue entry", category, factorID),
		})
		c.add(line)
		return
	}

	entry, ok := cat.Lookup(category, entryID)
	if !ok {
		c.warn(model.Warning{
			Code:             model.WarningMissingCatalogueEntry,
			Category:         category,
			FactorID:         factorID,
			CatalogueEntryID: entryID,
			Message:          fmt.Sprintf("%s catalogue entry %s not found", category, entryID),
		})
		c.add(line)
		return
	}
	line.Code = entry.Code
	line.Name = entry.Name
	line.Unit = entry.Unit

	if !entry.Active {
		c.warn(model.Warning{
			Code:             model.WarningInactiveCatalogueEntry,
			Category:         category,
			FactorID:         factorID,
			CatalogueEntryID: entryID,
			Message:          fmt.Sprintf("%s catalogue entry %s (%s) is inactive", category, entry.Code, entryID),
		})
		c.add(line)
		return
	}

	line.Rate, line.RateSource = ResolveRate(entryID, category, rates, &entry.Rate)
	line.Cost = effective.Mul(line.Rate)
	c.add(line)
}

func materialCosts(factors []model.MaterialFactor, cat model.Catalogue, rates *model.ProjectRates) categoryCost {
	var c categoryCost
	for _, f := range factors {
		qty := MaterialQuantity(f.QuantityPerUnit, f.WastagePercentage)
		priceLine(&c, model.CategoryMaterial, f.ID, f.MaterialID, f.QuantityPerUnit, qty, cat, rates)
	}
	return c
}

func laborCosts(factors []model.LaborFactor, cat model.Catalogue, rates *model.ProjectRates) categoryCost {
	var c categoryCost
	for _, f := range factors {
		productivity := one
		if f.ProductivityFactor != nil && f.ProductivityFactor.IsPositive() {
			productivity = *f.ProductivityFactor
		} else {
			c.warn(model.Warning{
				Code:             model.WarningDefaultProductivity,
				Category:         model.CategoryLabor,
				FactorID:         f.ID,
				CatalogueEntryID: f.LaborID,
				Message:          fmt.Sprintf("labor factor %s has no positive productivity factor, using 1", f.ID),
			})
		}

		crew := one
		if f.CrewSize != nil && f.CrewSize.IsPositive() {
			crew = *f.CrewSize
		} else {
			c.warn(model.Warning{
				Code:             model.WarningDefaultCrewSize,
				Category:         model.CategoryLabor,
				FactorID:         f.ID,
				CatalogueEntryID: f.LaborID,
				Message:          fmt.Sprintf("labor factor %s has no positive crew size, using 1", f.ID),
			})
		}

		hours := LaborHours(f.HoursPerUnit, productivity, crew)
		priceLine(&c, model.CategoryLabor, f.ID, f.LaborID, f.HoursPerUnit, hours, cat, rates)
	}
	return c
}

func equipmentCosts(factors []model.EquipmentFactor, cat model.Catalogue, rates *model.ProjectRates) categoryCost {
	var c categoryCost
	for _, f := range factors {
		utilization := one
		if f.UtilizationFactor != nil {
			utilization = *f.UtilizationFactor
		} else {
			c.warn(model.Warning{
				Code:             model.WarningDefaultUtilization,
				Category:         model.CategoryEquipment,
				FactorID:         f.ID,
				CatalogueEntryID: f.EquipmentID,
				Message:          fmt.Sprintf("equipment factor %s has no utilization factor, using 1", f.ID),
			})
		}
		hours := EquipmentHours(f.HoursPerUnit, utilization)
		priceLine(&c, model.CategoryEquipment, f.ID, f.EquipmentID, f.HoursPerUnit, hours, cat, rates)
	}
	return c
}
