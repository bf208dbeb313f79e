package repository

import (
	"context"
	"fmt"

	"github.com/costbook/backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

var catalogueTables = map[model.Category]string{
	model.CategoryMaterial:  "catalogue_materials",
	model.CategoryLabor:     "catalogue_labor",
	model.CategoryEquipment: "catalogue_equipment",
}

// PgCatalogueRepository は CatalogueRepository の PostgreSQL 実装
type PgCatalogueRepository struct {
	pool *pgxpool.Pool
}

// NewPgCatalogueRepository は PgCatalogueRepository を生成する
func NewPgCatalogueRepository(pool *pgxpool.Pool) *PgCatalogueRepository {
	return &PgCatalogueRepository{pool: pool}
}

// ListByIDs はカテゴリに対応するカタログテーブルから ids のエントリを取得する
func (r *PgCatalogueRepository) ListByIDs(ctx context.Context, category model.Category, ids []string) ([]*model.CatalogueEntry, error) {
	table, ok := catalogueTables[category]
	if !ok {
		return nil, fmt.Errorf("unknown catalogue category: %s", category)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, code, name, unit, rate, is_active FROM `+table+` WHERE id::text = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*model.CatalogueEntry
	for rows.Next() {
		e := model.CatalogueEntry{Category: category}
		if err := rows.Scan(&e.ID, &e.Code, &e.Name, &e.Unit, &e.Rate, &e.Active); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
