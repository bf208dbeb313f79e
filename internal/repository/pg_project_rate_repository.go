package repository

import (
	"context"
	"errors"
	"time"

	"github.com/costbook/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgProjectRateRepository は ProjectRateRepository の PostgreSQL 実装
type PgProjectRateRepository struct {
	pool *pgxpool.Pool
}

// NewPgProjectRateRepository は PgProjectRateRepository を生成する
func NewPgProjectRateRepository(pool *pgxpool.Pool) *PgProjectRateRepository {
	return &PgProjectRateRepository{pool: pool}
}

// CurrentForProject は effective_date <= asOf のうち最新の単価表を返す
func (r *PgProjectRateRepository) CurrentForProject(ctx context.Context, projectID string, asOf time.Time) (*model.ProjectRates, error) {
	var (
		rates                   model.ProjectRates
		materials, labor, equip []byte
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, project_id, effective_date, material_rates, labor_rates, equipment_rates
		 FROM project_rates
		 WHERE project_id = $1 AND effective_date <= $2
		 ORDER BY effective_date DESC, created_at DESC
		 LIMIT 1`,
		projectID, asOf,
	).Scan(&rates.ID, &rates.ProjectID, &rates.EffectiveDate, &materials, &labor, &equip)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if rates.Materials, err = decodeRateMap(materials); err != nil {
		return nil, err
	}
	if rates.Labor, err = decodeRateMap(labor); err != nil {
		return nil, err
	}
	if rates.Equipment, err = decodeRateMap(equip); err != nil {
		return nil, err
	}
	return &rates, nil
}
