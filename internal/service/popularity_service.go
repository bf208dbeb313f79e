package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/costbook/backend/internal/costcalc"
	"github.com/costbook/backend/internal/model"
	"github.com/costbook/backend/internal/popularity"
	"github.com/costbook/backend/internal/repository"
)

// PopularityService は項目人気度集計のインターフェース
type PopularityService interface {
	// AggregatePopularity は直近 windowDays 日の利用イベントを集計して保存する。
	// 0 を渡すと既定値（30 日 / 90 日）を使う。
	AggregatePopularity(ctx context.Context, windowDays, retentionDays int) ([]*model.PopularityUpdate, error)
}

type popularityService struct {
	events repository.UsageEventRepository
	stats  repository.PopularityRepository
	now    func() time.Time
}

// NewPopularityService は PopularityService を生成する
func NewPopularityService(events repository.UsageEventRepository, stats repository.PopularityRepository) PopularityService {
	return &popularityService{events: events, stats: stats, now: time.Now}
}

func (s *popularityService) AggregatePopularity(ctx context.Context, windowDays, retentionDays int) ([]*model.PopularityUpdate, error) {
	if windowDays == 0 {
		windowDays = popularity.DefaultWindowDays
	}
	if retentionDays == 0 {
		retentionDays = popularity.DefaultRetentionDays
	}
	if windowDays < 0 {
		return nil, &costcalc.ValidationError{Field: "window_days", Reason: "must be positive"}
	}
	if retentionDays < windowDays {
		return nil, &costcalc.ValidationError{Field: "retention_days", Reason: "must not be shorter than window_days"}
	}

	now := s.now().UTC()
	windowStart := now.AddDate(0, 0, -windowDays)

	events, err := s.events.ListSince(ctx, windowStart)
	if err != nil {
		return nil, &UpstreamLookupError{Resource: "usage events", ID: windowStart.Format(time.RFC3339), Err: err}
	}

	updates := popularity.Aggregate(events)

	if err := s.stats.ReplaceWindow(ctx, updates, windowStart); err != nil {
		return nil, fmt.Errorf("save popularity: %w", err)
	}
	purged, err := s.stats.PurgeUnusedBefore(ctx, now.AddDate(0, 0, -retentionDays))
	if err != nil {
		return nil, fmt.Errorf("purge popularity: %w", err)
	}

	slog.Info("popularity aggregated",
		"window_days", windowDays,
		"events", len(events),
		"items", len(updates),
		"purged", purged,
	)
	return updates, nil
}
