package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/costbook/backend/internal/costcalc"
	"github.com/costbook/backend/internal/model"
	"github.com/costbook/backend/internal/repository"
	"github.com/shopspring/decimal"
)

func TestCostService_CalculateItemCost(t *testing.T) {
	svc := newTestCostService(nil, nil, nil)

	res, err := svc.CalculateItemCost(context.Background(), "item-1", "", dec("3"), model.CalculationOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.UnitCost.Equal(dec("121")) {
		t.Errorf("expected unit cost 121, got %s", res.UnitCost)
	}
	if !res.ExtendedCost.Equal(dec("363")) {
		t.Errorf("expected extended cost 363, got %s", res.ExtendedCost)
	}
	if res.ItemCode != "C-item-1" {
		t.Errorf("expected item code from library item, got %q", res.ItemCode)
	}
}

func TestCostService_CalculateItemCost_SameInputsSameResult(t *testing.T) {
	// real clock: nothing time-dependent may leak into the result
	factors := &mockFactorRepository{
		listByItemIDFunc: func(_ context.Context, itemID string) (*model.ItemFactors, error) {
			return standardFactors(itemID), nil
		},
	}
	svc := NewCostService(CostServiceDeps{
		Items:     &mockLibraryItemRepository{},
		Factors:   factors,
		Catalogue: testCatalogue(),
		Rates:     &mockProjectRateRepository{},
		Projects:  &mockProjectRepository{},
	})

	var encoded [2][]byte
	for i := range encoded {
		res, err := svc.CalculateItemCost(context.Background(), "item-1", "", dec("1"), model.CalculationOptions{})
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i+1, err)
		}
		if encoded[i], err = json.Marshal(res); err != nil {
			t.Fatalf("call %d: marshal: %v", i+1, err)
		}
		time.Sleep(2 * time.Millisecond)
	}
	if !bytes.Equal(encoded[0], encoded[1]) {
		t.Errorf("results differ:\n%s\n%s", encoded[0], encoded[1])
	}
}

func TestCostService_CalculateItemCost_ProjectOverride(t *testing.T) {
	rates := &mockProjectRateRepository{
		currentFunc: func(_ context.Context, projectID string, asOf time.Time) (*model.ProjectRates, error) {
			if projectID != "p1" {
				t.Errorf("expected project p1, got %s", projectID)
			}
			if !asOf.Equal(fixedNow) {
				t.Errorf("expected asOf %v, got %v", fixedNow, asOf)
			}
			return &model.ProjectRates{ProjectID: "p1", Materials: map[string]decimal.Decimal{"m1": dec("40")}}, nil
		},
	}
	svc := newTestCostService(nil, nil, rates)

	res, err := svc.CalculateItemCost(context.Background(), "item-1", "p1", dec("1"), model.CalculationOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2 × 1.1 × 40 + 11
	if !res.UnitCost.Equal(dec("99")) {
		t.Errorf("expected unit cost 99, got %s", res.UnitCost)
	}
	if res.Breakdown[0].RateSource != model.RateSourceProject {
		t.Errorf("expected project rate source, got %s", res.Breakdown[0].RateSource)
	}
}

func TestCostService_CalculateItemCost_ProjectDefaults(t *testing.T) {
	svc := NewCostService(CostServiceDeps{
		Items:     &mockLibraryItemRepository{},
		Factors:   &mockFactorRepository{listByItemIDFunc: func(_ context.Context, id string) (*model.ItemFactors, error) { return standardFactors(id), nil }},
		Catalogue: testCatalogue(),
		Rates:     &mockProjectRateRepository{},
		Projects: &mockProjectRepository{
			getByIDFunc: func(_ context.Context, id string) (*model.Project, error) {
				return &model.Project{ID: id, Defaults: &model.ProjectCostDefaults{IndirectCostPercentage: dec("10")}}, nil
			},
		},
		Now: func() time.Time { return fixedNow },
	})

	res, err := svc.CalculateItemCost(context.Background(), "item-1", "p1", dec("1"), model.CalculationOptions{UseProjectDefaults: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IndirectCost.Equal(dec("12.1")) {
		t.Errorf("expected indirect 12.10, got %s", res.IndirectCost)
	}
	if !res.UnitCost.Equal(dec("133.1")) {
		t.Errorf("expected unit cost 133.10, got %s", res.UnitCost)
	}
}

func TestCostService_CalculateItemCost_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("negative quantity", func(t *testing.T) {
		svc := newTestCostService(nil, nil, nil)
		_, err := svc.CalculateItemCost(ctx, "item-1", "", dec("-1"), model.CalculationOptions{})
		if !errors.Is(err, costcalc.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("item not found", func(t *testing.T) {
		svc := NewCostService(CostServiceDeps{
			Items: &mockLibraryItemRepository{getByIDFunc: func(context.Context, string) (*model.LibraryItem, error) {
				return nil, repository.ErrNotFound
			}},
			Factors:   &mockFactorRepository{},
			Catalogue: testCatalogue(),
			Rates:     &mockProjectRateRepository{},
		})
		_, err := svc.CalculateItemCost(ctx, "missing", "", dec("1"), model.CalculationOptions{})
		if !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("rate table lookup failure", func(t *testing.T) {
		rates := &mockProjectRateRepository{currentFunc: func(context.Context, string, time.Time) (*model.ProjectRates, error) {
			return nil, errors.New("connection reset")
		}}
		svc := newTestCostService(nil, nil, rates)
		_, err := svc.CalculateItemCost(ctx, "item-1", "p1", dec("1"), model.CalculationOptions{})
		var upstream *UpstreamLookupError
		if !errors.As(err, &upstream) {
			t.Fatalf("expected UpstreamLookupError, got %v", err)
		}
		if upstream.Resource != "project rates" {
			t.Errorf("expected resource 'project rates', got %q", upstream.Resource)
		}
	})

	t.Run("catalogue lookup failure", func(t *testing.T) {
		cat := testCatalogue()
		cat.listByIDsErr = errors.New("timeout")
		svc := newTestCostService(nil, cat, nil)
		_, err := svc.CalculateItemCost(ctx, "item-1", "", dec("1"), model.CalculationOptions{})
		var upstream *UpstreamLookupError
		if !errors.As(err, &upstream) {
			t.Errorf("expected UpstreamLookupError, got %v", err)
		}
	})
}

func missingMaterialFactors(itemID string) *model.ItemFactors {
	f := standardFactors(itemID)
	f.Materials = append(f.Materials, model.MaterialFactor{ID: "mf-gone", MaterialID: "m-gone", QuantityPerUnit: dec("1")})
	return f
}

func TestCostService_CalculateItemCost_MissingData(t *testing.T) {
	factors := &mockFactorRepository{
		listByItemIDFunc: func(_ context.Context, itemID string) (*model.ItemFactors, error) {
			return missingMaterialFactors(itemID), nil
		},
	}
	svc := newTestCostService(factors, nil, nil)

	res, err := svc.CalculateItemCost(context.Background(), "item-1", "", dec("1"), model.CalculationOptions{})
	var missing *MissingDataError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingDataError, got %v", err)
	}
	if len(missing.Missing) != 1 || missing.Missing[0].CatalogueEntryID != "m-gone" {
		t.Errorf("expected m-gone to be reported, got %+v", missing.Missing)
	}
	if res == nil || !res.UnitCost.Equal(dec("121")) {
		t.Fatalf("expected partial result with unit cost 121, got %+v", res)
	}
	if !strings.Contains(res.Error, "item-1") {
		t.Errorf("expected error on result, got %q", res.Error)
	}

	res, err = svc.CalculateItemCost(context.Background(), "item-1", "", dec("1"), model.CalculationOptions{AllowPartial: true})
	if err != nil {
		t.Fatalf("expected no error with AllowPartial, got %v", err)
	}
	if res.Failed() {
		t.Errorf("expected successful result, got error %q", res.Error)
	}
}

func batchIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("item-%d", i+1)
	}
	return ids
}

func TestCostService_CalculateMany_PartialFailure(t *testing.T) {
	factors := &mockFactorRepository{
		listByItemIDFunc: func(_ context.Context, itemID string) (*model.ItemFactors, error) {
			if itemID == "item-5" {
				return missingMaterialFactors(itemID), nil
			}
			return standardFactors(itemID), nil
		},
	}
	svc := newTestCostService(factors, nil, nil)

	batch, err := svc.CalculateMany(context.Background(), batchIDs(10), "", model.CalculationOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.Results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(batch.Results))
	}
	if !batch.PricedAt.Equal(fixedNow) {
		t.Errorf("expected priced_at %v, got %v", fixedNow, batch.PricedAt)
	}
	for i, r := range batch.Results {
		if r.ItemID != fmt.Sprintf("item-%d", i+1) {
			t.Errorf("result %d: expected input order, got %s", i, r.ItemID)
		}
	}
	if !batch.Results[4].Failed() || !strings.Contains(batch.Results[4].Error, "unable to calculate item item-5") {
		t.Errorf("expected item-5 to fail, got %q", batch.Results[4].Error)
	}

	sum := batch.Summary
	if sum.ItemsRequested != 10 || sum.ItemsCalculated != 9 || sum.ItemsFailed != 1 {
		t.Errorf("expected 10/9/1, got %d/%d/%d", sum.ItemsRequested, sum.ItemsCalculated, sum.ItemsFailed)
	}
	if !sum.TotalCost.Equal(dec("1089")) {
		t.Errorf("expected total 1089, got %s", sum.TotalCost)
	}
	if !sum.AverageCost.Equal(dec("121")) {
		t.Errorf("expected average 121, got %s", sum.AverageCost)
	}
}

func TestCostService_CalculateMany_Validation(t *testing.T) {
	svc := newTestCostService(nil, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		ids  []string
		opts model.CalculationOptions
	}{
		{"empty list", nil, model.CalculationOptions{}},
		{"blank id", []string{"item-1", " "}, model.CalculationOptions{}},
		{"bad discount", []string{"item-1"}, model.CalculationOptions{BulkDiscountPercentage: dec("120")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CalculateMany(ctx, tt.ids, "", tt.opts)
			if !errors.Is(err, costcalc.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCostService_CalculateMany_NothingSucceeded(t *testing.T) {
	svc := NewCostService(CostServiceDeps{
		Items: &mockLibraryItemRepository{getByIDFunc: func(context.Context, string) (*model.LibraryItem, error) {
			return nil, repository.ErrNotFound
		}},
		Factors:   &mockFactorRepository{},
		Catalogue: testCatalogue(),
		Rates:     &mockProjectRateRepository{},
	})

	batch, err := svc.CalculateMany(context.Background(), batchIDs(3), "", model.CalculationOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch.Summary.ItemsFailed != 3 {
		t.Errorf("expected 3 failed, got %d", batch.Summary.ItemsFailed)
	}
	if !batch.Summary.AverageCost.IsZero() || !batch.Summary.TotalCost.IsZero() {
		t.Errorf("expected zero totals, got %s / %s", batch.Summary.TotalCost, batch.Summary.AverageCost)
	}
}

func TestCostService_CalculateMany_Cancelled(t *testing.T) {
	svc := newTestCostService(nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch, err := svc.CalculateMany(ctx, batchIDs(4), "", model.CalculationOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range batch.Results {
		if !strings.Contains(r.Error, ErrCalculationCancelled.Error()) {
			t.Errorf("expected cancellation error for %s, got %q", r.ItemID, r.Error)
		}
	}
	if batch.Summary.ItemsFailed != 4 {
		t.Errorf("expected 4 failed, got %d", batch.Summary.ItemsFailed)
	}
}

func TestCostService_CalculateMany_BoundedConcurrency(t *testing.T) {
	var inFlight, peak int32
	items := &mockLibraryItemRepository{
		getByIDFunc: func(_ context.Context, id string) (*model.LibraryItem, error) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return &model.LibraryItem{ID: id}, nil
		},
	}
	svc := NewCostService(CostServiceDeps{
		Items:       items,
		Factors:     &mockFactorRepository{listByItemIDFunc: func(_ context.Context, id string) (*model.ItemFactors, error) { return standardFactors(id), nil }},
		Catalogue:   testCatalogue(),
		Rates:       &mockProjectRateRepository{},
		Concurrency: 2,
	})

	batch, err := svc.CalculateMany(context.Background(), batchIDs(8), "", model.CalculationOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch.Summary.ItemsCalculated != 8 {
		t.Errorf("expected 8 calculated, got %d", batch.Summary.ItemsCalculated)
	}
	if peak > 2 {
		t.Errorf("expected at most 2 concurrent lookups, got %d", peak)
	}
}

func TestCostService_CalculateMany_RateTableFailure(t *testing.T) {
	rates := &mockProjectRateRepository{currentFunc: func(context.Context, string, time.Time) (*model.ProjectRates, error) {
		return nil, errors.New("db down")
	}}
	svc := newTestCostService(nil, nil, rates)

	batch, err := svc.CalculateMany(context.Background(), batchIDs(2), "p1", model.CalculationOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch.Summary.ItemsFailed != 2 {
		t.Errorf("expected every item to fail, got %d", batch.Summary.ItemsFailed)
	}
}

func TestCostService_CalculateLines_Extends(t *testing.T) {
	svc := newTestCostService(nil, nil, nil)

	batch, err := svc.CalculateLines(context.Background(), []ItemQuantity{
		{ItemID: "item-1", Quantity: dec("2")},
		{ItemID: "item-2", Quantity: dec("0.5")},
	}, "", model.CalculationOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 121 × 2 + 121 × 0.5
	if !batch.Summary.TotalCost.Equal(dec("302.5")) {
		t.Errorf("expected total 302.50, got %s", batch.Summary.TotalCost)
	}
}
