// Package app wires repositories and services from Config. It is shared by
// the API server and the worker.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/costbook/backend/internal/config"
	"github.com/costbook/backend/internal/repository"
	"github.com/costbook/backend/internal/service"
	"github.com/costbook/backend/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// App は起動済みの依存関係一式
type App struct {
	Pool  *pgxpool.Pool
	Redis *redis.Client // nil when REDIS_ADDR is unset or unreachable

	Costs      service.CostService
	Snapshots  service.SnapshotService
	Popularity service.PopularityService
}

// New は DB（と任意で Redis）に接続してサービスを組み立てる
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// batch workers each hold a connection while loading an item
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL, int32(cfg.BatchConcurrency+4))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	a := &App{Pool: pool}

	var rates repository.ProjectRateRepository = repository.NewPgProjectRateRepository(pool)
	if cfg.RedisAddr != "" {
		rdb, err := repository.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			slog.Warn("rate cache disabled: redis unavailable", "addr", cfg.RedisAddr, "error", err)
		} else {
			a.Redis = rdb
			rates = repository.NewCachedProjectRateRepository(rates, rdb, cfg.RateCacheTTL)
		}
	}

	projects := repository.NewPgProjectRepository(pool)
	a.Costs = service.NewCostService(service.CostServiceDeps{
		Items:       repository.NewPgLibraryItemRepository(pool),
		Factors:     repository.NewPgFactorRepository(pool),
		Catalogue:   repository.NewPgCatalogueRepository(pool),
		Rates:       rates,
		Projects:    projects,
		Concurrency: cfg.BatchConcurrency,
	})

	var archive storage.Storage
	if cfg.SnapshotArchiveDir != "" {
		archive = storage.NewLocalStorage(cfg.SnapshotArchiveDir, "file://"+cfg.SnapshotArchiveDir)
	}
	a.Snapshots = service.NewSnapshotService(
		a.Costs,
		projects,
		repository.NewPgEstimateLineRepository(pool),
		repository.NewPgSnapshotRepository(pool),
		archive,
	)
	a.Popularity = service.NewPopularityService(
		repository.NewPgUsageEventRepository(pool),
		repository.NewPgPopularityRepository(pool),
	)
	return a, nil
}

// Close は接続を閉じる
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	a.Pool.Close()
}
