package costcalc

import (
	"github.com/costbook/backend/internal/model"
	"github.com/shopspring/decimal"
)

// ResolveRate picks the rate for a catalogue entry. A project override wins
// whenever its key is present, including an override of 0. Otherwise the
// catalogue default is used; with neither, the rate is 0.
func ResolveRate(entryID string, category model.Category, rates *model.ProjectRates, defaultRate *decimal.Decimal) (decimal.Decimal, model.RateSource) {
	if override, ok := rates.RatesFor(category)[entryID]; ok {
		return override, model.RateSourceProject
	}
	if defaultRate != nil {
		return *defaultRate, model.RateSourceCatalogue
	}
	return decimal.Zero, model.RateSourceNone
}
