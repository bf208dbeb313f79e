package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/costbook/backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgUsageEventRepository は UsageEventRepository の PostgreSQL 実装
type PgUsageEventRepository struct {
	pool *pgxpool.Pool
}

// NewPgUsageEventRepository は PgUsageEventRepository を生成する
func NewPgUsageEventRepository(pool *pgxpool.Pool) *PgUsageEventRepository {
	return &PgUsageEventRepository{pool: pool}
}

// ListSince は since 以降の利用イベントを返す
func (r *PgUsageEventRepository) ListSince(ctx context.Context, since time.Time) ([]*model.UsageEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT library_item_id, project_id, COALESCE(element_id, ''), quantity, used_at
		 FROM library_item_usage WHERE used_at >= $1 ORDER BY used_at`,
		since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*model.UsageEvent
	for rows.Next() {
		var e model.UsageEvent
		if err := rows.Scan(&e.ItemID, &e.ProjectID, &e.ElementID, &e.Quantity, &e.OccurredAt); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

// PgPopularityRepository は PopularityRepository の PostgreSQL 実装
type PgPopularityRepository struct {
	pool *pgxpool.Pool
}

// NewPgPopularityRepository は PgPopularityRepository を生成する
func NewPgPopularityRepository(pool *pgxpool.Pool) *PgPopularityRepository {
	return &PgPopularityRepository{pool: pool}
}

// ReplaceWindow は集計結果を 1 トランザクションで反映する
func (r *PgPopularityRepository) ReplaceWindow(ctx context.Context, updates []*model.PopularityUpdate, windowStart time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	ids := make([]string, 0, len(updates))
	for _, u := range updates {
		paired, err := json.Marshal(u.CommonlyPairedWith)
		if err != nil {
			return fmt.Errorf("encode paired items: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO library_item_popularity
			   (library_item_id, usage_count, project_count, total_quantity, last_used_at, popularity_score, commonly_paired_with, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			 ON CONFLICT (library_item_id) DO UPDATE SET
			   usage_count = EXCLUDED.usage_count,
			   project_count = EXCLUDED.project_count,
			   total_quantity = EXCLUDED.total_quantity,
			   last_used_at = EXCLUDED.last_used_at,
			   popularity_score = EXCLUDED.popularity_score,
			   commonly_paired_with = EXCLUDED.commonly_paired_with,
			   updated_at = NOW()`,
			u.ItemID, u.UsageCount, u.ProjectCount, u.TotalQuantity, u.LastUsedAt, u.PopularityScore, paired,
		); err != nil {
			return err
		}
		ids = append(ids, u.ItemID)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE library_item_popularity
		 SET usage_count = 0, project_count = 0, total_quantity = 0, popularity_score = 0,
		     commonly_paired_with = '[]'::jsonb, updated_at = NOW()
		 WHERE last_used_at < $1 AND NOT (library_item_id::text = ANY($2))`,
		windowStart, ids,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// PurgeUnusedBefore は保持期間を過ぎた集計行を削除する
func (r *PgPopularityRepository) PurgeUnusedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM library_item_popularity WHERE last_used_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
