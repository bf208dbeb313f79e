package repository

import (
	"context"
	"errors"

	"github.com/costbook/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgProjectRepository は ProjectRepository の PostgreSQL 実装
type PgProjectRepository struct {
	pool *pgxpool.Pool
}

// NewPgProjectRepository は PgProjectRepository を生成する
func NewPgProjectRepository(pool *pgxpool.Pool) *PgProjectRepository {
	return &PgProjectRepository{pool: pool}
}

// GetByID は ID でプロジェクトと既定の調整率を取得する
func (r *PgProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var p model.Project
	var d model.ProjectCostDefaults
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name, location, status, created_at, updated_at,
		        indirect_cost_percentage, overhead_percentage, contingency_percentage, location_adjustment_factor
		 FROM projects WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Code, &p.Name, &p.Location, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		&d.IndirectCostPercentage, &d.OverheadPercentage, &d.ContingencyPercentage, &d.LocationAdjustmentFactor)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Defaults = &d
	return &p, nil
}

// ListActiveIDs は稼働中プロジェクトの ID 一覧を返す
func (r *PgProjectRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM projects WHERE status = 'active' ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
