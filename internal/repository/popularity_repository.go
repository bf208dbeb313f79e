package repository

import (
	"context"
	"time"

	"github.com/costbook/backend/internal/model"
)

// UsageEventRepository は項目利用イベントの参照インターフェース
type UsageEventRepository interface {
	ListSince(ctx context.Context, since time.Time) ([]*model.UsageEvent, error)
}

// PopularityRepository は項目人気度集計の永続化インターフェース
type PopularityRepository interface {
	// ReplaceWindow は updates を upsert し、updates に含まれず windowStart より前に
	// 最終利用された行の件数とスコアを 0 に戻す
	ReplaceWindow(ctx context.Context, updates []*model.PopularityUpdate, windowStart time.Time) error
	// PurgeUnusedBefore は cutoff より前に最終利用された行を削除し、削除件数を返す
	PurgeUnusedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
