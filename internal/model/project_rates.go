package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectRates is one effective version of a project's rate overrides.
// The zero value means "no overrides".
type ProjectRates struct {
	ID            string                     `json:"id,omitempty"`
	ProjectID     string                     `json:"project_id,omitempty"`
	EffectiveDate time.Time                  `json:"effective_date"`
	Materials     map[string]decimal.Decimal `json:"materials"`
	Labor         map[string]decimal.Decimal `json:"labor"`
	Equipment     map[string]decimal.Decimal `json:"equipment"`
}

// RatesFor returns the override mapping for a category (nil when absent).
func (r *ProjectRates) RatesFor(c Category) map[string]decimal.Decimal {
	if r == nil {
		return nil
	}
	switch c {
	case CategoryMaterial:
		return r.Materials
	case CategoryLabor:
		return r.Labor
	case CategoryEquipment:
		return r.Equipment
	}
	return nil
}

// IsEmpty reports whether no override is recorded in any category.
func (r *ProjectRates) IsEmpty() bool {
	return r == nil || (len(r.Materials) == 0 && len(r.Labor) == 0 && len(r.Equipment) == 0)
}
