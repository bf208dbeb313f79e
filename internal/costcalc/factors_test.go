package costcalc

import (
	"testing"

	"github.com/costbook/backend/internal/model"
	"github.com/shopspring/decimal"
)

func TestMaterialCosts_ZeroWastageIsQuantityTimesRate(t *testing.T) {
	cat := catalogue(entry(model.CategoryMaterial, "m1", "12.34"))
	for _, qty := range []string{"0", "1", "2.5", "0.333", "1000"} {
		c := materialCosts([]model.MaterialFactor{
			{ID: "f1", MaterialID: "m1", QuantityPerUnit: dec(qty), WastagePercentage: decimal.Zero},
		}, cat, nil)
		assertDec(t, "cost qty="+qty, c.subtotal, dec(qty).Mul(dec("12.34")).String())
	}
}

func TestMaterialCosts_WastageAppliedOnce(t *testing.T) {
	cat := catalogue(entry(model.CategoryMaterial, "m1", "10"))
	c := materialCosts([]model.MaterialFactor{
		{ID: "f1", MaterialID: "m1", QuantityPerUnit: dec("2"), WastagePercentage: dec("5")},
	}, cat, nil)

	assertDec(t, "effective quantity", c.lines[0].EffectiveQuantity, "2.1")
	assertDec(t, "cost", c.subtotal, "21")
	if len(c.warnings) != 0 {
		t.Errorf("expected no warnings, got %v", c.warnings)
	}
}

func TestLaborCosts_NeutralFactorsIsHoursTimesRate(t *testing.T) {
	cat := catalogue(entry(model.CategoryLabor, "l1", "35"))
	c := laborCosts([]model.LaborFactor{
		{ID: "f1", LaborID: "l1", HoursPerUnit: dec("1.75"), ProductivityFactor: decPtr("1"), CrewSize: decPtr("1")},
	}, cat, nil)

	assertDec(t, "cost", c.subtotal, "61.25")
	if len(c.warnings) != 0 {
		t.Errorf("expected no warnings, got %v", c.warnings)
	}
}

func TestLaborCosts_ProductivityAndCrew(t *testing.T) {
	cat := catalogue(entry(model.CategoryLabor, "l1", "20"))
	c := laborCosts([]model.LaborFactor{
		{ID: "f1", LaborID: "l1", HoursPerUnit: dec("1.5"), ProductivityFactor: decPtr("0.75"), CrewSize: decPtr("2")},
	}, cat, nil)

	// 1.5h / 0.75 = 2h per worker, x2 crew = 4h, x20 = 80
	assertDec(t, "effective hours", c.lines[0].EffectiveQuantity, "4")
	assertDec(t, "cost", c.subtotal, "80")
}

func TestLaborCosts_ZeroProductivityDefaultsToOne(t *testing.T) {
	cat := catalogue(entry(model.CategoryLabor, "l1", "20"))
	c := laborCosts([]model.LaborFactor{
		{ID: "f1", LaborID: "l1", HoursPerUnit: dec("2"), ProductivityFactor: decPtr("0"), CrewSize: decPtr("1")},
		{ID: "f2", LaborID: "l1", HoursPerUnit: dec("1"), ProductivityFactor: nil, CrewSize: nil},
	}, cat, nil)

	assertDec(t, "cost", c.subtotal, "60")
	if !hasWarning(c.warnings, model.WarningDefaultProductivity) {
		t.Errorf("expected %s warning, got %v", model.WarningDefaultProductivity, c.warnings)
	}
	if !hasWarning(c.warnings, model.WarningDefaultCrewSize) {
		t.Errorf("expected %s warning, got %v", model.WarningDefaultCrewSize, c.warnings)
	}
}

func TestEquipmentCosts_Utilization(t *testing.T) {
	cat := catalogue(entry(model.CategoryEquipment, "e1", "50"))
	c := equipmentCosts([]model.EquipmentFactor{
		{ID: "f1", EquipmentID: "e1", HoursPerUnit: dec("0.5"), UtilizationFactor: decPtr("0.8")},
		{ID: "f2", EquipmentID: "e1", HoursPerUnit: dec("1")},
	}, cat, nil)

	assertDec(t, "first line", c.lines[0].Cost, "20")
	assertDec(t, "second line (default utilization)", c.lines[1].Cost, "50")
	assertDec(t, "subtotal", c.subtotal, "70")
	if !hasWarning(c.warnings, model.WarningDefaultUtilization) {
		t.Errorf("expected %s warning", model.WarningDefaultUtilization)
	}
}

func TestPriceLine_ProjectOverride(t *testing.T) {
	cat := catalogue(entry(model.CategoryMaterial, "m1", "10"))
	rates := &model.ProjectRates{Materials: map[string]decimal.Decimal{"m1": dec("0")}}

	c := materialCosts([]model.MaterialFactor{
		{ID: "f1", MaterialID: "m1", QuantityPerUnit: dec("3")},
	}, cat, rates)

	if c.lines[0].RateSource != model.RateSourceProject {
		t.Errorf("expected project rate source, got %q", c.lines[0].RateSource)
	}
	assertDec(t, "cost", c.subtotal, "0")
}

func TestPriceLine_MissingAndInactiveEntries(t *testing.T) {
	inactive := entry(model.CategoryMaterial, "m-old", "99")
	inactive.Active = false
	cat := catalogue(entry(model.CategoryMaterial, "m1", "10"), inactive)

	c := materialCosts([]model.MaterialFactor{
		{ID: "f1", MaterialID: "m1", QuantityPerUnit: dec("1")},
		{ID: "f2", MaterialID: "m-deleted", QuantityPerUnit: dec("5")},
		{ID: "f3", MaterialID: "m-old", QuantityPerUnit: dec("5")},
		{ID: "f4", MaterialID: "", QuantityPerUnit: dec("5")},
	}, cat, nil)

	if len(c.lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(c.lines))
	}
	assertDec(t, "subtotal", c.subtotal, "10")
	for _, code := range []string{
		model.WarningMissingCatalogueEntry,
		model.WarningInactiveCatalogueEntry,
		model.WarningMissingReference,
	} {
		if !hasWarning(c.warnings, code) {
			t.Errorf("expected %s warning, got %v", code, c.warnings)
		}
	}
	for _, i := range []int{1, 2, 3} {
		if !c.lines[i].Cost.IsZero() {
			t.Errorf("line %d: expected zero cost, got %s", i, c.lines[i].Cost)
		}
	}
}
