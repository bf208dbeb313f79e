package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/costbook/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgSnapshotRepository は SnapshotRepository の PostgreSQL 実装
type PgSnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewPgSnapshotRepository は PgSnapshotRepository を生成する
func NewPgSnapshotRepository(pool *pgxpool.Pool) *PgSnapshotRepository {
	return &PgSnapshotRepository{pool: pool}
}

// Create はスナップショットを保存する。単価表と明細は jsonb で保持する。
func (r *PgSnapshotRepository) Create(ctx context.Context, s *model.PriceSnapshot) error {
	rates, err := json.Marshal(s.Rates)
	if err != nil {
		return fmt.Errorf("encode snapshot rates: %w", err)
	}
	items, err := json.Marshal(s.Items)
	if err != nil {
		return fmt.Errorf("encode snapshot items: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO price_snapshots (id, project_id, captured_at, rates, items, total_cost, item_count, items_failed, archive_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.ProjectID, s.CapturedAt, rates, items, s.TotalCost, len(s.Items), s.ItemsFailed, s.ArchiveURL,
	)
	return err
}

// GetByID は ID でスナップショットを取得する
func (r *PgSnapshotRepository) GetByID(ctx context.Context, id string) (*model.PriceSnapshot, error) {
	var (
		s            model.PriceSnapshot
		rates, items []byte
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, project_id, captured_at, rates, items, total_cost, items_failed, archive_url
		 FROM price_snapshots WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.ProjectID, &s.CapturedAt, &rates, &items, &s.TotalCost, &s.ItemsFailed, &s.ArchiveURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rates, &s.Rates); err != nil {
		return nil, fmt.Errorf("decode snapshot rates: %w", err)
	}
	if err := json.Unmarshal(items, &s.Items); err != nil {
		return nil, fmt.Errorf("decode snapshot items: %w", err)
	}
	return &s, nil
}

// ListByProjectID はプロジェクトのスナップショット概要を新しい順に返す
func (r *PgSnapshotRepository) ListByProjectID(ctx context.Context, projectID string, limit int) ([]*model.SnapshotSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, project_id, captured_at, total_cost, item_count, items_failed, archive_url
		 FROM price_snapshots WHERE project_id = $1
		 ORDER BY captured_at DESC LIMIT $2`,
		projectID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.SnapshotSummary
	for rows.Next() {
		var s model.SnapshotSummary
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.CapturedAt, &s.TotalCost, &s.ItemCount, &s.ItemsFailed, &s.ArchiveURL); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
