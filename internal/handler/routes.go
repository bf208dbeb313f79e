package handler

import "net/http"

// Budgets are the rate limiters Routes assigns to each group of routes.
type Budgets struct {
	Read      *RateLimiter
	Calculate *RateLimiter
	Capture   *RateLimiter
}

// Routes registers the API on a new mux. Health is never rate limited.
func (h *Handler) Routes(costs *CostHandler, snapshots *SnapshotHandler, popularity *PopularityHandler, b Budgets) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)

	// 単価計算
	mux.Handle("POST /api/library-items/{id}/calculate", b.Calculate.Limit(http.HandlerFunc(costs.Calculate)))
	mux.Handle("POST /api/calculations/batch", b.Calculate.Limit(http.HandlerFunc(costs.Batch)))

	// 価格スナップショット
	mux.Handle("POST /api/projects/{id}/snapshots", b.Capture.Limit(http.HandlerFunc(snapshots.Capture)))
	mux.Handle("GET /api/projects/{id}/snapshots", b.Read.Limit(http.HandlerFunc(snapshots.List)))
	mux.Handle("GET /api/snapshots/{id}", b.Read.Limit(http.HandlerFunc(snapshots.Get)))

	// 管理（認証はリバースプロキシ側で行う）
	mux.Handle("POST /api/admin/popularity/aggregate", b.Capture.Limit(http.HandlerFunc(popularity.Aggregate)))
	return mux
}
