package repository

import (
	"context"

	"github.com/costbook/backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgEstimateLineRepository は EstimateLineRepository の PostgreSQL 実装
type PgEstimateLineRepository struct {
	pool *pgxpool.Pool
}

// NewPgEstimateLineRepository は PgEstimateLineRepository を生成する
func NewPgEstimateLineRepository(pool *pgxpool.Pool) *PgEstimateLineRepository {
	return &PgEstimateLineRepository{pool: pool}
}

// ListByProjectID はプロジェクトの数量明細一覧を返す
func (r *PgEstimateLineRepository) ListByProjectID(ctx context.Context, projectID string) ([]*model.EstimateLine, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, project_id, library_item_id, description, quantity, sort_order, created_at, updated_at
		 FROM estimate_lines WHERE project_id = $1 ORDER BY sort_order, created_at`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*model.EstimateLine
	for rows.Next() {
		var l model.EstimateLine
		if err := rows.Scan(
			&l.ID, &l.ProjectID, &l.LibraryItemID, &l.Description,
			&l.Quantity, &l.SortOrder, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}
