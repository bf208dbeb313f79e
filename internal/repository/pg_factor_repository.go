package repository

import (
	"context"

	"github.com/costbook/backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgFactorRepository は FactorRepository の PostgreSQL 実装
type PgFactorRepository struct {
	pool *pgxpool.Pool
}

// NewPgFactorRepository は PgFactorRepository を生成する
func NewPgFactorRepository(pool *pgxpool.Pool) *PgFactorRepository {
	return &PgFactorRepository{pool: pool}
}

// ListByItemID は項目の歩掛りを 3 種類まとめて返す。
// カタログ側が削除済みの場合 *_id は空文字になる。
func (r *PgFactorRepository) ListByItemID(ctx context.Context, itemID string) (*model.ItemFactors, error) {
	f := &model.ItemFactors{ItemID: itemID}

	rows, err := r.pool.Query(ctx,
		`SELECT id, COALESCE(material_id::text, ''), quantity_per_unit, wastage_percentage
		 FROM library_item_materials WHERE library_item_id = $1 ORDER BY sort_order, id`,
		itemID,
	)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var m model.MaterialFactor
		if err := rows.Scan(&m.ID, &m.MaterialID, &m.QuantityPerUnit, &m.WastagePercentage); err != nil {
			rows.Close()
			return nil, err
		}
		f.Materials = append(f.Materials, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx,
		`SELECT id, COALESCE(labor_id::text, ''), hours_per_unit, productivity_factor, crew_size
		 FROM library_item_labor WHERE library_item_id = $1 ORDER BY sort_order, id`,
		itemID,
	)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var l model.LaborFactor
		if err := rows.Scan(&l.ID, &l.LaborID, &l.HoursPerUnit, &l.ProductivityFactor, &l.CrewSize); err != nil {
			rows.Close()
			return nil, err
		}
		f.Labor = append(f.Labor, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx,
		`SELECT id, COALESCE(equipment_id::text, ''), hours_per_unit, utilization_factor
		 FROM library_item_equipment WHERE library_item_id = $1 ORDER BY sort_order, id`,
		itemID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var e model.EquipmentFactor
		if err := rows.Scan(&e.ID, &e.EquipmentID, &e.HoursPerUnit, &e.UtilizationFactor); err != nil {
			return nil, err
		}
		f.Equipment = append(f.Equipment, e)
	}
	return f, rows.Err()
}
