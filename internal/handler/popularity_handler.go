package handler

import (
	"encoding/json"
	"net/http"

	"github.com/costbook/backend/internal/service"
)

// PopularityHandler は人気度集計の HTTP ハンドラ
type PopularityHandler struct {
	svc service.PopularityService
}

// NewPopularityHandler は PopularityHandler を生成する
func NewPopularityHandler(svc service.PopularityService) *PopularityHandler {
	return &PopularityHandler{svc: svc}
}

// Aggregate handles POST /api/admin/popularity/aggregate.
func (h *PopularityHandler) Aggregate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req struct {
		WindowDays    int `json:"window_days"`
		RetentionDays int `json:"retention_days"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	updates, err := h.svc.AggregatePopularity(r.Context(), req.WindowDays, req.RetentionDays)
	if err != nil {
		writeServiceError(w, err, "popularity aggregation failed")
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"items_updated": len(updates),
		"updates":       updates,
	})
}
