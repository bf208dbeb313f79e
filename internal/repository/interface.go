package repository

import (
	"context"
	"time"

	"github.com/costbook/backend/internal/model"
)

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// LibraryItemRepository は単価ライブラリ項目の参照インターフェース
type LibraryItemRepository interface {
	GetByID(ctx context.Context, id string) (*model.LibraryItem, error)
}

// FactorRepository は項目に紐づく材料・労務・機械の歩掛りを返す
type FactorRepository interface {
	ListByItemID(ctx context.Context, itemID string) (*model.ItemFactors, error)
}

// CatalogueRepository は資材・労務・機械カタログの参照インターフェース
type CatalogueRepository interface {
	// ListByIDs は指定カテゴリの ids に一致するエントリを返す。存在しない id は結果に含まれない。
	ListByIDs(ctx context.Context, category model.Category, ids []string) ([]*model.CatalogueEntry, error)
}

// ProjectRateRepository はプロジェクト別単価表の参照インターフェース
type ProjectRateRepository interface {
	// CurrentForProject は asOf 時点で有効な最新の単価表を返す。無い場合は ErrNotFound。
	CurrentForProject(ctx context.Context, projectID string, asOf time.Time) (*model.ProjectRates, error)
}
