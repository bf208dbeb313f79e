package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/costbook/backend/internal/model"
	"github.com/costbook/backend/internal/repository"
	"github.com/shopspring/decimal"
)

// mockLibraryItemRepository は LibraryItemRepository のモック
type mockLibraryItemRepository struct {
	getByIDFunc func(ctx context.Context, id string) (*model.LibraryItem, error)
}

func (m *mockLibraryItemRepository) GetByID(ctx context.Context, id string) (*model.LibraryItem, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.LibraryItem{ID: id, Code: "C-" + id, Name: "Item " + id, Unit: "m2"}, nil
}

// mockFactorRepository は FactorRepository のモック
type mockFactorRepository struct {
	listByItemIDFunc func(ctx context.Context, itemID string) (*model.ItemFactors, error)
}

func (m *mockFactorRepository) ListByItemID(ctx context.Context, itemID string) (*model.ItemFactors, error) {
	if m.listByItemIDFunc != nil {
		return m.listByItemIDFunc(ctx, itemID)
	}
	return &model.ItemFactors{ItemID: itemID}, nil
}

// mockCatalogueRepository は CatalogueRepository のモック。entries から id で引く
type mockCatalogueRepository struct {
	entries      model.Catalogue
	listByIDsErr error

	mu    sync.Mutex
	calls int
}

func (m *mockCatalogueRepository) ListByIDs(_ context.Context, category model.Category, ids []string) ([]*model.CatalogueEntry, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.listByIDsErr != nil {
		return nil, m.listByIDsErr
	}
	var out []*model.CatalogueEntry
	for _, id := range ids {
		if e, ok := m.entries.Lookup(category, id); ok {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// mockProjectRateRepository は ProjectRateRepository のモック
type mockProjectRateRepository struct {
	currentFunc func(ctx context.Context, projectID string, asOf time.Time) (*model.ProjectRates, error)
}

func (m *mockProjectRateRepository) CurrentForProject(ctx context.Context, projectID string, asOf time.Time) (*model.ProjectRates, error) {
	if m.currentFunc != nil {
		return m.currentFunc(ctx, projectID, asOf)
	}
	return nil, repository.ErrNotFound
}

// mockProjectRepository は ProjectRepository のモック
type mockProjectRepository struct {
	getByIDFunc       func(ctx context.Context, id string) (*model.Project, error)
	listActiveIDsFunc func(ctx context.Context) ([]string, error)
}

func (m *mockProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Project{ID: id, Status: "active"}, nil
}

func (m *mockProjectRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	if m.listActiveIDsFunc != nil {
		return m.listActiveIDsFunc(ctx)
	}
	return nil, nil
}

// mockEstimateLineRepository は EstimateLineRepository のモック
type mockEstimateLineRepository struct {
	listFunc func(ctx context.Context, projectID string) ([]*model.EstimateLine, error)
}

func (m *mockEstimateLineRepository) ListByProjectID(ctx context.Context, projectID string) ([]*model.EstimateLine, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, projectID)
	}
	return nil, nil
}

// mockSnapshotRepository は SnapshotRepository のモック
type mockSnapshotRepository struct {
	createFunc  func(ctx context.Context, snapshot *model.PriceSnapshot) error
	getByIDFunc func(ctx context.Context, id string) (*model.PriceSnapshot, error)
	listFunc    func(ctx context.Context, projectID string, limit int) ([]*model.SnapshotSummary, error)
}

func (m *mockSnapshotRepository) Create(ctx context.Context, snapshot *model.PriceSnapshot) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, snapshot)
	}
	return nil
}

func (m *mockSnapshotRepository) GetByID(ctx context.Context, id string) (*model.PriceSnapshot, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockSnapshotRepository) ListByProjectID(ctx context.Context, projectID string, limit int) ([]*model.SnapshotSummary, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, projectID, limit)
	}
	return nil, nil
}

// mockUsageEventRepository は UsageEventRepository のモック
type mockUsageEventRepository struct {
	listSinceFunc func(ctx context.Context, since time.Time) ([]*model.UsageEvent, error)
}

func (m *mockUsageEventRepository) ListSince(ctx context.Context, since time.Time) ([]*model.UsageEvent, error) {
	if m.listSinceFunc != nil {
		return m.listSinceFunc(ctx, since)
	}
	return nil, nil
}

// mockPopularityRepository は PopularityRepository のモック
type mockPopularityRepository struct {
	replaceWindowFunc func(ctx context.Context, updates []*model.PopularityUpdate, windowStart time.Time) error
	purgeFunc         func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *mockPopularityRepository) ReplaceWindow(ctx context.Context, updates []*model.PopularityUpdate, windowStart time.Time) error {
	if m.replaceWindowFunc != nil {
		return m.replaceWindowFunc(ctx, updates, windowStart)
	}
	return nil
}

func (m *mockPopularityRepository) PurgeUnusedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.purgeFunc != nil {
		return m.purgeFunc(ctx, cutoff)
	}
	return 0, nil
}

// mockStorage は storage.Storage のモック
type mockStorage struct {
	saved   map[string][]byte
	deleted []string
	saveErr error
}

func (m *mockStorage) Save(_ context.Context, key string, data io.Reader, _ string) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[key] = b
	return "mem://" + key, nil
}

func (m *mockStorage) Delete(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// fixture: every item uses 2 × (1+10%) of material m1 @50 and 1h of labour l1 @11,
// so its direct cost is 121.
func testCatalogue() *mockCatalogueRepository {
	cat := model.Catalogue{}
	cat.Put(
		&model.CatalogueEntry{ID: "m1", Category: model.CategoryMaterial, Code: "M1", Name: "Concrete", Unit: "m3", Rate: dec("50"), Active: true},
		&model.CatalogueEntry{ID: "l1", Category: model.CategoryLabor, Code: "L1", Name: "Mason", Unit: "h", Rate: dec("11"), Active: true},
	)
	return &mockCatalogueRepository{entries: cat}
}

func standardFactors(itemID string) *model.ItemFactors {
	return &model.ItemFactors{
		ItemID: itemID,
		Materials: []model.MaterialFactor{
			{ID: "mf-" + itemID, MaterialID: "m1", QuantityPerUnit: dec("2"), WastagePercentage: dec("10")},
		},
		Labor: []model.LaborFactor{
			{ID: "lf-" + itemID, LaborID: "l1", HoursPerUnit: dec("1"), ProductivityFactor: decPtr("1"), CrewSize: decPtr("1")},
		},
	}
}

var fixedNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestCostService(factors *mockFactorRepository, cat *mockCatalogueRepository, rates *mockProjectRateRepository) CostService {
	if factors == nil {
		factors = &mockFactorRepository{
			listByItemIDFunc: func(_ context.Context, itemID string) (*model.ItemFactors, error) {
				return standardFactors(itemID), nil
			},
		}
	}
	if cat == nil {
		cat = testCatalogue()
	}
	if rates == nil {
		rates = &mockProjectRateRepository{}
	}
	return NewCostService(CostServiceDeps{
		Items:       &mockLibraryItemRepository{},
		Factors:     factors,
		Catalogue:   cat,
		Rates:       rates,
		Projects:    &mockProjectRepository{},
		Concurrency: 1,
		Now:         func() time.Time { return fixedNow },
	})
}
