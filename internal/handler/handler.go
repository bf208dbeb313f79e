package handler

import (
	"net/http"

	"github.com/costbook/backend/internal/repository"
)

type Handler struct {
	db          repository.DB
	cache       repository.DB // nil when the rate cache is disabled
	frontendURL string
}

func New(db repository.DB, frontendURL string) *Handler {
	return &Handler{db: db, frontendURL: frontendURL}
}

// WithCache registers the rate cache so Health can report on it.
func (h *Handler) WithCache(cache repository.DB) *Handler {
	h.cache = cache
	return h
}

// CORS allows the estimating frontend to call the API. The request id and
// Retry-After are exposed so the UI can quote them.
func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := w.Header()
		hdr.Set("Access-Control-Allow-Origin", h.frontendURL)
		hdr.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		hdr.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+requestIDHeader)
		hdr.Set("Access-Control-Expose-Headers", requestIDHeader+", Retry-After")
		hdr.Set("Access-Control-Allow-Credentials", "true")
		hdr.Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
