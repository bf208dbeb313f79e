package handler

import (
	"context"

	"github.com/costbook/backend/internal/model"
	"github.com/costbook/backend/internal/service"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Mock services
// ---------------------------------------------------------------------------

type mockCostService struct {
	calculateItemCostFunc func(ctx context.Context, itemID, projectID string, quantity decimal.Decimal, opts model.CalculationOptions) (*model.CalculationResult, error)
	calculateManyFunc     func(ctx context.Context, itemIDs []string, projectID string, opts model.CalculationOptions) (*model.BatchResult, error)
	calculateLinesFunc    func(ctx context.Context, lines []service.ItemQuantity, projectID string, opts model.CalculationOptions) (*model.BatchResult, error)
}

func (m *mockCostService) CalculateItemCost(ctx context.Context, itemID, projectID string, quantity decimal.Decimal, opts model.CalculationOptions) (*model.CalculationResult, error) {
	if m.calculateItemCostFunc != nil {
		return m.calculateItemCostFunc(ctx, itemID, projectID, quantity, opts)
	}
	return &model.CalculationResult{ItemID: itemID}, nil
}

func (m *mockCostService) CalculateMany(ctx context.Context, itemIDs []string, projectID string, opts model.CalculationOptions) (*model.BatchResult, error) {
	if m.calculateManyFunc != nil {
		return m.calculateManyFunc(ctx, itemIDs, projectID, opts)
	}
	return &model.BatchResult{}, nil
}

func (m *mockCostService) CalculateLines(ctx context.Context, lines []service.ItemQuantity, projectID string, opts model.CalculationOptions) (*model.BatchResult, error) {
	if m.calculateLinesFunc != nil {
		return m.calculateLinesFunc(ctx, lines, projectID, opts)
	}
	return &model.BatchResult{}, nil
}

type mockSnapshotService struct {
	captureFunc    func(ctx context.Context, projectID string, opts model.CalculationOptions) (*model.PriceSnapshot, error)
	captureAllFunc func(ctx context.Context, opts model.CalculationOptions) (int, error)
	listFunc       func(ctx context.Context, projectID string, limit int) ([]*model.SnapshotSummary, error)
	getFunc        func(ctx context.Context, id string) (*model.PriceSnapshot, error)
}

func (m *mockSnapshotService) Capture(ctx context.Context, projectID string, opts model.CalculationOptions) (*model.PriceSnapshot, error) {
	if m.captureFunc != nil {
		return m.captureFunc(ctx, projectID, opts)
	}
	return &model.PriceSnapshot{ProjectID: projectID}, nil
}

func (m *mockSnapshotService) CaptureAll(ctx context.Context, opts model.CalculationOptions) (int, error) {
	if m.captureAllFunc != nil {
		return m.captureAllFunc(ctx, opts)
	}
	return 0, nil
}

func (m *mockSnapshotService) List(ctx context.Context, projectID string, limit int) ([]*model.SnapshotSummary, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, projectID, limit)
	}
	return nil, nil
}

func (m *mockSnapshotService) Get(ctx context.Context, id string) (*model.PriceSnapshot, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, nil
}

type mockPopularityService struct {
	aggregateFunc func(ctx context.Context, windowDays, retentionDays int) ([]*model.PopularityUpdate, error)
}

func (m *mockPopularityService) AggregatePopularity(ctx context.Context, windowDays, retentionDays int) ([]*model.PopularityUpdate, error) {
	if m.aggregateFunc != nil {
		return m.aggregateFunc(ctx, windowDays, retentionDays)
	}
	return []*model.PopularityUpdate{}, nil
}
