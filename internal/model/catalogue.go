package model

import "github.com/shopspring/decimal"

// Category identifies which catalogue a factor points into.
type Category string

const (
	CategoryMaterial  Category = "material"
	CategoryLabor     Category = "labor"
	CategoryEquipment Category = "equipment"
)

// Categories lists every category in breakdown order.
var Categories = []Category{CategoryMaterial, CategoryLabor, CategoryEquipment}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryMaterial, CategoryLabor, CategoryEquipment:
		return true
	}
	return false
}

// CatalogueEntry is a priced reference resource with a default rate.
type CatalogueEntry struct {
	ID       string          `json:"id"`
	Category Category        `json:"category"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	Rate     decimal.Decimal `json:"rate"`
	Active   bool            `json:"active"`
}

// CatalogueKey identifies an entry across the three catalogues.
type CatalogueKey struct {
	Category Category
	ID       string
}

// Catalogue is an in-memory view of the entries needed for one calculation.
type Catalogue map[CatalogueKey]*CatalogueEntry

// Lookup returns the entry for (category, id), if present.
func (c Catalogue) Lookup(category Category, id string) (*CatalogueEntry, bool) {
	e, ok := c[CatalogueKey{Category: category, ID: id}]
	return e, ok
}

// Put adds entries to the catalogue, keyed by their category and id.
func (c Catalogue) Put(entries ...*CatalogueEntry) {
	for _, e := range entries {
		if e == nil {
			continue
		}
		c[CatalogueKey{Category: e.Category, ID: e.ID}] = e
	}
}
