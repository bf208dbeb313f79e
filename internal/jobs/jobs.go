package jobs

import (
	"context"
	"log/slog"

	"github.com/costbook/backend/internal/model"
	"github.com/costbook/backend/internal/service"
)

const (
	PopularityJobName = "popularity"
	SnapshotJobName   = "snapshots"
)

// Popularity は既定の 30 日ウィンドウ / 90 日保持で人気度を再集計する
func Popularity(svc service.PopularityService) Func {
	return func(ctx context.Context) error {
		updates, err := svc.AggregatePopularity(ctx, 0, 0)
		if err != nil {
			return err
		}
		slog.Info("popularity job done", "items", len(updates))
		return nil
	}
}

// Snapshots は稼働中の全プロジェクトについてプロジェクト既定の調整でスナップショットを取る
func Snapshots(svc service.SnapshotService) Func {
	return func(ctx context.Context) error {
		n, err := svc.CaptureAll(ctx, model.CalculationOptions{UseProjectDefaults: true})
		if err != nil {
			return err
		}
		slog.Info("snapshot job done", "projects", n)
		return nil
	}
}
