package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/costbook/backend/internal/model"
	"github.com/redis/go-redis/v9"
)

const rateCachePrefix = "costbook:project_rates:"

// cachedRates はキャッシュに保存する形式。Found=false は「単価表なし」を表す。
type cachedRates struct {
	Found bool                `json:"found"`
	Rates *model.ProjectRates `json:"rates,omitempty"`
}

// CachedProjectRateRepository は ProjectRateRepository の Redis リードスルーキャッシュ。
// Redis の障害時は下位リポジトリにフォールバックする。
type CachedProjectRateRepository struct {
	next ProjectRateRepository
	rdb  *redis.Client
	ttl  time.Duration
}

// NewCachedProjectRateRepository は CachedProjectRateRepository を生成する
func NewCachedProjectRateRepository(next ProjectRateRepository, rdb *redis.Client, ttl time.Duration) *CachedProjectRateRepository {
	return &CachedProjectRateRepository{next: next, rdb: rdb, ttl: ttl}
}

// rateCacheKey は日単位でキーを分ける（effective_date の切り替わりを跨がないため）
func rateCacheKey(projectID string, asOf time.Time) string {
	return fmt.Sprintf("%s%s:%s", rateCachePrefix, projectID, asOf.UTC().Format("2006-01-02"))
}

// CurrentForProject はキャッシュを参照し、無ければ下位リポジトリから取得して保存する
func (r *CachedProjectRateRepository) CurrentForProject(ctx context.Context, projectID string, asOf time.Time) (*model.ProjectRates, error) {
	key := rateCacheKey(projectID, asOf)

	raw, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var c cachedRates
		if jerr := json.Unmarshal(raw, &c); jerr == nil {
			if !c.Found {
				return nil, ErrNotFound
			}
			return c.Rates, nil
		}
		slog.Warn("rate cache: corrupt entry", "key", key)
	case errors.Is(err, redis.Nil):
	default:
		slog.Warn("rate cache: get failed", "key", key, "error", err)
	}

	rates, err := r.next.CurrentForProject(ctx, projectID, asOf)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	entry := cachedRates{Found: err == nil, Rates: rates}
	if payload, jerr := json.Marshal(entry); jerr == nil {
		if serr := r.rdb.Set(ctx, key, payload, r.ttl).Err(); serr != nil {
			slog.Warn("rate cache: set failed", "key", key, "error", serr)
		}
	}
	return rates, err
}
