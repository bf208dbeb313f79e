package repository

import (
	"context"

	"github.com/costbook/backend/internal/model"
)

// EstimateLineRepository はプロジェクト内訳書（数量明細）の参照インターフェース
type EstimateLineRepository interface {
	ListByProjectID(ctx context.Context, projectID string) ([]*model.EstimateLine, error)
}
