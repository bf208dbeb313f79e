package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LibraryItemStatus は単価の確度を表す。計算ロジックでは参照しない。
type LibraryItemStatus string

const (
	LibraryItemDraft     LibraryItemStatus = "draft"
	LibraryItemConfirmed LibraryItemStatus = "confirmed"
	LibraryItemActual    LibraryItemStatus = "actual"
)

// LibraryItem is a priced, reusable unit of construction work.
type LibraryItem struct {
	ID        string            `json:"id"`
	Code      string            `json:"code"`
	Name      string            `json:"name"`
	Unit      string            `json:"unit"`
	Status    LibraryItemStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// MaterialFactor attaches a material catalogue entry to a library item.
type MaterialFactor struct {
	ID                string          `json:"id"`
	MaterialID        string          `json:"material_id"`
	QuantityPerUnit   decimal.Decimal `json:"quantity_per_unit"`
	WastagePercentage decimal.Decimal `json:"wastage_percentage"`
}

// LaborFactor attaches a labour catalogue entry to a library item.
// Nil ProductivityFactor / CrewSize mean the value was not recorded.
type LaborFactor struct {
	ID                 string           `json:"id"`
	LaborID            string           `json:"labor_id"`
	HoursPerUnit       decimal.Decimal  `json:"hours_per_unit"`
	ProductivityFactor *decimal.Decimal `json:"productivity_factor,omitempty"`
	CrewSize           *decimal.Decimal `json:"crew_size,omitempty"`
}

// EquipmentFactor attaches an equipment catalogue entry to a library item.
type EquipmentFactor struct {
	ID                string           `json:"id"`
	EquipmentID       string           `json:"equipment_id"`
	HoursPerUnit      decimal.Decimal  `json:"hours_per_unit"`
	UtilizationFactor *decimal.Decimal `json:"utilization_factor,omitempty"`
}

// ItemFactors groups every factor attached to one library item.
type ItemFactors struct {
	ItemID    string            `json:"item_id"`
	Materials []MaterialFactor  `json:"materials"`
	Labor     []LaborFactor     `json:"labor"`
	Equipment []EquipmentFactor `json:"equipment"`
}

// CatalogueIDs returns the referenced catalogue entry ids per category.
func (f *ItemFactors) CatalogueIDs() map[Category][]string {
	ids := make(map[Category][]string, 3)
	for _, m := range f.Materials {
		if m.MaterialID != "" {
			ids[CategoryMaterial] = append(ids[CategoryMaterial], m.MaterialID)
		}
	}
	for _, l := range f.Labor {
		if l.LaborID != "" {
			ids[CategoryLabor] = append(ids[CategoryLabor], l.LaborID)
		}
	}
	for _, e := range f.Equipment {
		if e.EquipmentID != "" {
			ids[CategoryEquipment] = append(ids[CategoryEquipment], e.EquipmentID)
		}
	}
	return ids
}
