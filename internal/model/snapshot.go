package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSnapshot is a persisted, point-in-time capture of a project's cost basis.
type PriceSnapshot struct {
	ID          string               `json:"id"`
	ProjectID   string               `json:"project_id"`
	CapturedAt  time.Time            `json:"captured_at"`
	Rates       ProjectRates         `json:"rates"`
	Items       []*CalculationResult `json:"items"`
	TotalCost   decimal.Decimal      `json:"total_cost"`
	ItemsFailed int                  `json:"items_failed"`
	ArchiveURL  string               `json:"archive_url,omitempty"`
}

// SnapshotSummary is a snapshot without its item results, for listings.
type SnapshotSummary struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"project_id"`
	CapturedAt  time.Time       `json:"captured_at"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	ItemCount   int             `json:"item_count"`
	ItemsFailed int             `json:"items_failed"`
	ArchiveURL  string          `json:"archive_url,omitempty"`
}
