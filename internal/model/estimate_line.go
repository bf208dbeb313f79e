package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EstimateLine represents one line in a project's bill of quantities.
type EstimateLine struct {
	ID            string          `json:"id"`
	ProjectID     string          `json:"project_id"`
	LibraryItemID string          `json:"library_item_id"`
	Description   string          `json:"description,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	SortOrder     int             `json:"sort_order"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// DistinctItemIDs returns the library item ids of lines, first occurrence order.
func DistinctItemIDs(lines []*EstimateLine) []string {
	seen := make(map[string]bool, len(lines))
	var ids []string
	for _, l := range lines {
		if l.LibraryItemID == "" || seen[l.LibraryItemID] {
			continue
		}
		seen[l.LibraryItemID] = true
		ids = append(ids, l.LibraryItemID)
	}
	return ids
}

// QuantitiesByItem sums line quantities per library item.
func QuantitiesByItem(lines []*EstimateLine) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(lines))
	for _, l := range lines {
		out[l.LibraryItemID] = out[l.LibraryItemID].Add(l.Quantity)
	}
	return out
}
