package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Cache   string `json:"cache"`
}

// Health handles GET /api/health. The rate cache is advisory: when it is
// down the calculator reads rate tables from the database, so the service
// stays healthy.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.db.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:  "unhealthy",
			Message: err.Error(),
		})
		return
	}

	cache := "disabled"
	if h.cache != nil {
		cache = "ok"
		if err := h.cache.Ping(r.Context()); err != nil {
			slog.Warn("health: rate cache unavailable", "error", err)
			cache = "unavailable"
		}
	}

	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:  "ok",
		Message: "costbook API",
		Cache:   cache,
	})
}
