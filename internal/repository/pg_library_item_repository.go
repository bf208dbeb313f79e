package repository

import (
	"context"
	"errors"

	"github.com/costbook/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgLibraryItemRepository は LibraryItemRepository の PostgreSQL 実装
type PgLibraryItemRepository struct {
	pool *pgxpool.Pool
}

// NewPgLibraryItemRepository は PgLibraryItemRepository を生成する
func NewPgLibraryItemRepository(pool *pgxpool.Pool) *PgLibraryItemRepository {
	return &PgLibraryItemRepository{pool: pool}
}

// GetByID は ID で単価ライブラリ項目を取得する
func (r *PgLibraryItemRepository) GetByID(ctx context.Context, id string) (*model.LibraryItem, error) {
	var item model.LibraryItem
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name, unit, status, created_at, updated_at
		 FROM library_items WHERE id = $1`,
		id,
	).Scan(&item.ID, &item.Code, &item.Name, &item.Unit, &item.Status, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
