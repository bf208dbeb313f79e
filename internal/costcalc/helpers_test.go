package costcalc

import (
	"testing"

	"github.com/costbook/backend/internal/model"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertDec(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func entry(category model.Category, id, rate string) *model.CatalogueEntry {
	return &model.CatalogueEntry{
		ID:       id,
		Category: category,
		Code:     "C-" + id,
		Name:     "entry " + id,
		Rate:     dec(rate),
		Active:   true,
	}
}

func catalogue(entries ...*model.CatalogueEntry) model.Catalogue {
	c := model.Catalogue{}
	c.Put(entries...)
	return c
}

func hasWarning(ws []model.Warning, code string) bool {
	for _, w := range ws {
		if w.Code == code {
			return true
		}
	}
	return false
}
