package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsageEvent records a library item being used in a project estimate.
type UsageEvent struct {
	ItemID     string          `json:"item_id"`
	ProjectID  string          `json:"project_id"`
	ElementID  string          `json:"element_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// PairedItem is an item commonly used alongside another one.
type PairedItem struct {
	ItemID         string `json:"item_id"`
	SharedProjects int    `json:"shared_projects"`
}

// PopularityUpdate is the aggregated usage of one library item over a window.
type PopularityUpdate struct {
	ItemID             string          `json:"item_id"`
	UsageCount         int             `json:"usage_count"`
	ProjectCount       int             `json:"project_count"`
	TotalQuantity      decimal.Decimal `json:"total_quantity"`
	LastUsedAt         time.Time       `json:"last_used_at"`
	PopularityScore    float64         `json:"popularity_score"`
	CommonlyPairedWith []PairedItem    `json:"commonly_paired_with"`
}
