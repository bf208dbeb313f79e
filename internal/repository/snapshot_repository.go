package repository

import (
	"context"

	"github.com/costbook/backend/internal/model"
)

// SnapshotRepository は価格スナップショットの永続化インターフェース
type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *model.PriceSnapshot) error
	GetByID(ctx context.Context, id string) (*model.PriceSnapshot, error)
	ListByProjectID(ctx context.Context, projectID string, limit int) ([]*model.SnapshotSummary, error)
}
