package service

import (
	"context"

	"github.com/costbook/backend/internal/model"
	"github.com/shopspring/decimal"
)

// ItemQuantity is one library item and the quantity to extend its unit cost by.
type ItemQuantity struct {
	ItemID   string
	Quantity decimal.Decimal
}

// CostService は単価計算（プレビュー・一括）のインターフェース
type CostService interface {
	// CalculateItemCost prices a single item for the estimate editor preview.
	CalculateItemCost(ctx context.Context, itemID, projectID string, quantity decimal.Decimal, opts model.CalculationOptions) (*model.CalculationResult, error)
	// CalculateMany prices many items at unit quantity; per-item failures are
	// reported on the results, not returned.
	CalculateMany(ctx context.Context, itemIDs []string, projectID string, opts model.CalculationOptions) (*model.BatchResult, error)
	// CalculateLines is CalculateMany with a quantity per item.
	CalculateLines(ctx context.Context, lines []ItemQuantity, projectID string, opts model.CalculationOptions) (*model.BatchResult, error)
}
