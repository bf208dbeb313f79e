package service

import (
	"context"

	"github.com/costbook/backend/internal/model"
)

// SnapshotService はプロジェクト価格スナップショットのインターフェース
type SnapshotService interface {
	// Capture はプロジェクトの数量明細を現在の単価で計算し、スナップショットとして保存する
	Capture(ctx context.Context, projectID string, opts model.CalculationOptions) (*model.PriceSnapshot, error)
	// CaptureAll は稼働中の全プロジェクトを Capture する。失敗したプロジェクトは数に含まれない
	CaptureAll(ctx context.Context, opts model.CalculationOptions) (int, error)
	List(ctx context.Context, projectID string, limit int) ([]*model.SnapshotSummary, error)
	Get(ctx context.Context, id string) (*model.PriceSnapshot, error)
}
