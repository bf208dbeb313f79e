package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/costbook/backend/internal/model"
	"github.com/costbook/backend/internal/service"
)

// SnapshotHandler は価格スナップショットの HTTP ハンドラ
type SnapshotHandler struct {
	svc service.SnapshotService
}

// NewSnapshotHandler は SnapshotHandler を生成する
func NewSnapshotHandler(svc service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{svc: svc}
}

// Capture handles POST /api/projects/{id}/snapshots.
func (h *SnapshotHandler) Capture(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	projectID := r.PathValue("id")
	var req struct {
		Options model.CalculationOptions `json:"options"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	snap, err := h.svc.Capture(r.Context(), projectID, req.Options)
	if err != nil {
		writeServiceError(w, err, "snapshot capture failed", "project_id", projectID)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(snap)
}

// List handles GET /api/projects/{id}/snapshots?limit=N.
func (h *SnapshotHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	projectID := r.PathValue("id")
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_limit"})
			return
		}
		limit = n
	}

	snaps, err := h.svc.List(r.Context(), projectID, limit)
	if err != nil {
		writeServiceError(w, err, "snapshot list failed", "project_id", projectID)
		return
	}
	if snaps == nil {
		snaps = []*model.SnapshotSummary{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"snapshots": snaps})
}

// Get handles GET /api/snapshots/{id}.
func (h *SnapshotHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	snap, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "snapshot get failed", "snapshot_id", id)
		return
	}
	_ = json.NewEncoder(w).Encode(snap)
}
