package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/costbook/backend/internal/costcalc"
	"github.com/costbook/backend/internal/model"
	"github.com/costbook/backend/internal/repository"
	"github.com/costbook/backend/internal/storage"
	"github.com/google/uuid"
)

const (
	defaultSnapshotListLimit = 20
	maxSnapshotListLimit     = 100
)

// SnapshotServiceImpl は SnapshotService の実装
type SnapshotServiceImpl struct {
	costs     CostService
	projects  repository.ProjectRepository
	lines     repository.EstimateLineRepository
	snapshots repository.SnapshotRepository
	archive   storage.Storage // nil ならアーカイブしない
	now       func() time.Time
}

// NewSnapshotService は SnapshotServiceImpl を生成する。archive は nil 可。
func NewSnapshotService(
	costs CostService,
	projects repository.ProjectRepository,
	lines repository.EstimateLineRepository,
	snapshots repository.SnapshotRepository,
	archive storage.Storage,
) SnapshotService {
	return &SnapshotServiceImpl{
		costs:     costs,
		projects:  projects,
		lines:     lines,
		snapshots: snapshots,
		archive:   archive,
		now:       time.Now,
	}
}

func (s *SnapshotServiceImpl) Capture(ctx context.Context, projectID string, opts model.CalculationOptions) (*model.PriceSnapshot, error) {
	if projectID == "" {
		return nil, &costcalc.ValidationError{Field: "project_id", Reason: "required"}
	}
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	lines, err := s.lines.ListByProjectID(ctx, projectID)
	if err != nil {
		return nil, &UpstreamLookupError{Resource: "estimate lines", ID: projectID, Err: err}
	}
	ids := model.DistinctItemIDs(lines)
	if len(ids) == 0 {
		return nil, ErrNoEstimateLines
	}

	qty := model.QuantitiesByItem(lines)
	batchLines := make([]ItemQuantity, len(ids))
	for i, id := range ids {
		batchLines[i] = ItemQuantity{ItemID: id, Quantity: qty[id]}
	}

	batch, err := s.costs.CalculateLines(ctx, batchLines, projectID, opts)
	if err != nil {
		return nil, err
	}

	snap := &model.PriceSnapshot{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		CapturedAt:  s.now().UTC(),
		Items:       batch.Results,
		TotalCost:   batch.Summary.TotalCost.Round(2),
		ItemsFailed: batch.Summary.ItemsFailed,
	}
	if batch.Rates != nil {
		snap.Rates = *batch.Rates
	} else {
		snap.Rates = model.ProjectRates{ProjectID: projectID}
	}

	key := ""
	if s.archive != nil {
		key = fmt.Sprintf("snapshots/%s/%s.json", projectID, snap.ID)
		url, err := s.writeArchive(ctx, key, snap)
		if err != nil {
			return nil, err
		}
		snap.ArchiveURL = url
	}

	if err := s.snapshots.Create(ctx, snap); err != nil {
		if key != "" {
			if derr := s.archive.Delete(ctx, key); derr != nil {
				slog.Warn("snapshot: archive cleanup failed", "key", key, "error", derr)
			}
		}
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	slog.Info("snapshot captured",
		"snapshot_id", snap.ID,
		"project_id", projectID,
		"items", len(snap.Items),
		"items_failed", snap.ItemsFailed,
		"total_cost", snap.TotalCost.String(),
	)
	return snap, nil
}

func (s *SnapshotServiceImpl) writeArchive(ctx context.Context, key string, snap *model.PriceSnapshot) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(snap); err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	url, err := s.archive.Save(ctx, key, &buf, "application/json")
	if err != nil {
		return "", fmt.Errorf("archive snapshot: %w", err)
	}
	return url, nil
}

func (s *SnapshotServiceImpl) CaptureAll(ctx context.Context, opts model.CalculationOptions) (int, error) {
	ids, err := s.projects.ListActiveIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active projects: %w", err)
	}

	captured := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return captured, err
		}
		if _, err := s.Capture(ctx, id, opts); err != nil {
			if errors.Is(err, ErrNoEstimateLines) {
				slog.Debug("snapshot skipped: no estimate lines", "project_id", id)
				continue
			}
			slog.Error("snapshot capture failed", "project_id", id, "error", err)
			continue
		}
		captured++
	}
	return captured, nil
}

func (s *SnapshotServiceImpl) List(ctx context.Context, projectID string, limit int) ([]*model.SnapshotSummary, error) {
	if limit <= 0 {
		limit = defaultSnapshotListLimit
	}
	if limit > maxSnapshotListLimit {
		limit = maxSnapshotListLimit
	}
	return s.snapshots.ListByProjectID(ctx, projectID, limit)
}

func (s *SnapshotServiceImpl) Get(ctx context.Context, id string) (*model.PriceSnapshot, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	return s.snapshots.GetByID(ctx, id)
}
