package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/costbook/backend/internal/costcalc"
	"github.com/costbook/backend/internal/model"
	"github.com/costbook/backend/internal/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const defaultBatchConcurrency = 8

// CostServiceDeps はコスト計算サービスの依存関係
type CostServiceDeps struct {
	Items     repository.LibraryItemRepository
	Factors   repository.FactorRepository
	Catalogue repository.CatalogueRepository
	Rates     repository.ProjectRateRepository
	Projects  repository.ProjectRepository

	// Concurrency bounds how many items of a batch are loaded at once.
	Concurrency int
	// Now defaults to time.Now.
	Now func() time.Time
}

// CostServiceImpl は CostService の実装
type CostServiceImpl struct {
	deps CostServiceDeps
}

// NewCostService は CostServiceImpl を生成する
func NewCostService(deps CostServiceDeps) CostService {
	if deps.Concurrency < 1 {
		deps.Concurrency = defaultBatchConcurrency
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &CostServiceImpl{deps: deps}
}

// calcRun holds what every item of one call shares: the resolved options,
// the project's rate table and the catalogue cache.
type calcRun struct {
	projectID string
	opts      model.CalculationOptions
	rates     *model.ProjectRates
	cache     *lookupCache
	at        time.Time
}

// CalculateItemCost はプレビュー用に 1 項目を計算する
func (s *CostServiceImpl) CalculateItemCost(ctx context.Context, itemID, projectID string, quantity decimal.Decimal, opts model.CalculationOptions) (*model.CalculationResult, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, &costcalc.ValidationError{Field: "item_id", Reason: "required"}
	}
	if err := costcalc.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	if err := costcalc.ValidateOptions(opts); err != nil {
		return nil, err
	}

	run, err := s.prepare(ctx, projectID, opts)
	if err != nil {
		return nil, err
	}
	res, err := s.calculateOne(ctx, run, itemID, quantity)
	if res != nil && err != nil {
		res.Error = err.Error()
	}
	return res, err
}

// CalculateMany は項目を数量 1 で一括計算する
func (s *CostServiceImpl) CalculateMany(ctx context.Context, itemIDs []string, projectID string, opts model.CalculationOptions) (*model.BatchResult, error) {
	lines := make([]ItemQuantity, len(itemIDs))
	for i, id := range itemIDs {
		lines[i] = ItemQuantity{ItemID: id, Quantity: decimal.NewFromInt(1)}
	}
	return s.CalculateLines(ctx, lines, projectID, opts)
}

// CalculateLines は項目ごとの数量付きで一括計算する。
// 入力検証は計算開始前に全体に対して行い、以降の失敗は項目ごとの Error に記録する。
func (s *CostServiceImpl) CalculateLines(ctx context.Context, lines []ItemQuantity, projectID string, opts model.CalculationOptions) (*model.BatchResult, error) {
	if len(lines) == 0 {
		return nil, &costcalc.ValidationError{Field: "item_ids", Reason: "must not be empty"}
	}
	for i, l := range lines {
		if strings.TrimSpace(l.ItemID) == "" {
			return nil, &costcalc.ValidationError{Field: fmt.Sprintf("item_ids[%d]", i), Reason: "must not be blank"}
		}
		if err := costcalc.ValidateQuantity(l.Quantity); err != nil {
			return nil, err
		}
	}
	if err := costcalc.ValidateOptions(opts); err != nil {
		return nil, err
	}

	results := make([]*model.CalculationResult, len(lines))
	batch := &model.BatchResult{ProjectID: projectID, Results: results, PricedAt: s.deps.Now()}

	run, err := s.prepare(ctx, projectID, opts)
	if err != nil {
		// rate table or project unavailable: every item is affected
		slog.Warn("batch: prepare failed", "project_id", projectID, "error", err)
		for i, l := range lines {
			results[i] = failedResult(l, projectID, err)
		}
		batch.Summary = summarize(results)
		return batch, nil
	}
	batch.Rates = run.rates
	batch.PricedAt = run.at

	var g errgroup.Group
	g.SetLimit(s.deps.Concurrency)
	for i, l := range lines {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := s.calculateOne(ctx, run, l.ItemID, l.Quantity)
			if err != nil {
				slog.Warn("batch: item failed", "item_id", l.ItemID, "project_id", projectID, "error", err)
				if res == nil {
					res = failedResult(l, projectID, err)
				}
				res.Error = err.Error()
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	for i, l := range lines {
		if results[i] == nil {
			results[i] = failedResult(l, projectID, fmt.Errorf("%w: %v", ErrCalculationCancelled, ctx.Err()))
		}
	}
	batch.Summary = summarize(results)
	slog.Info("batch calculated",
		"project_id", projectID,
		"items_requested", batch.Summary.ItemsRequested,
		"items_failed", batch.Summary.ItemsFailed,
	)
	return batch, nil
}

// prepare resolves options and loads the rate table once per call.
func (s *CostServiceImpl) prepare(ctx context.Context, projectID string, opts model.CalculationOptions) (*calcRun, error) {
	run := &calcRun{
		projectID: projectID,
		opts:      opts,
		rates:     &model.ProjectRates{ProjectID: projectID},
		cache:     newLookupCache(s.deps.Catalogue),
		at:        s.deps.Now(),
	}
	if projectID == "" {
		return run, nil
	}

	if opts.UseProjectDefaults && s.deps.Projects != nil {
		project, err := s.deps.Projects.GetByID(ctx, projectID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("project %s: %w", projectID, err)
		}
		if err != nil {
			return nil, &UpstreamLookupError{Resource: "project", ID: projectID, Err: err}
		}
		run.opts = project.Defaults.ApplyTo(opts)
		if err := costcalc.ValidateOptions(run.opts); err != nil {
			return nil, err
		}
	}

	rates, err := s.deps.Rates.CurrentForProject(ctx, projectID, run.at)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return nil, &UpstreamLookupError{Resource: "project rates", ID: projectID, Err: err}
	default:
		run.rates = rates
	}
	return run, nil
}

// calculateOne loads one item's data and prices it. A MissingDataError is
// returned together with the (partial) result.
func (s *CostServiceImpl) calculateOne(ctx context.Context, run *calcRun, itemID string, quantity decimal.Decimal) (*model.CalculationResult, error) {
	item, err := s.deps.Items.GetByID(ctx, itemID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("library item %s: %w", itemID, err)
	}
	if err != nil {
		return nil, &UpstreamLookupError{Resource: "library item", ID: itemID, Err: err}
	}

	factors, err := s.deps.Factors.ListByItemID(ctx, itemID)
	if err != nil {
		return nil, &UpstreamLookupError{Resource: "factors", ID: itemID, Err: err}
	}
	if factors == nil {
		factors = &model.ItemFactors{ItemID: itemID}
	}

	cat, err := run.cache.load(ctx, factors.CatalogueIDs())
	if err != nil {
		return nil, err
	}

	res, err := costcalc.Calculate(costcalc.Input{
		Item:      item,
		Factors:   factors,
		Catalogue: cat,
		Rates:     run.rates,
		Options:   run.opts,
		ProjectID: run.projectID,
		Quantity:  quantity,
	})
	if err != nil {
		return nil, fmt.Errorf("library item %s: %w", itemID, err)
	}

	if missing := costcalc.MissingReferences(res); len(missing) > 0 && !run.opts.AllowPartial {
		return res, &MissingDataError{ItemID: itemID, Missing: missing}
	}
	return res, nil
}

func failedResult(l ItemQuantity, projectID string, err error) *model.CalculationResult {
	return &model.CalculationResult{
		ItemID:    l.ItemID,
		ProjectID: projectID,
		Quantity:  l.Quantity,
		Breakdown: []model.LineItem{},
		Error:     err.Error(),
	}
}

// summarize counts failed items' cost as zero.
func summarize(results []*model.CalculationResult) model.BatchSummary {
	sum := model.BatchSummary{ItemsRequested: len(results)}
	for _, r := range results {
		if r.Failed() {
			sum.ItemsFailed++
			continue
		}
		sum.ItemsCalculated++
		sum.TotalCost = sum.TotalCost.Add(r.ExtendedCost)
	}
	if sum.ItemsCalculated > 0 {
		sum.AverageCost = sum.TotalCost.Div(decimal.NewFromInt(int64(sum.ItemsCalculated))).Round(2)
	}
	return sum
}
