package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/costbook/backend/internal/costcalc"
	"github.com/costbook/backend/internal/repository"
	"github.com/costbook/backend/internal/service"
)

const maxBodyBytes = 1 << 20

// decodeBody は JSON ボディを v に読み込む。空ボディは許容する
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return false
	}
	return true
}

// writeServiceError はサービス層のエラーを HTTP ステータスとエラーコードに変換する
func writeServiceError(w http.ResponseWriter, err error, logMsg string, logArgs ...any) {
	var verr *costcalc.ValidationError
	var missing *service.MissingDataError
	var upstream *service.UpstreamLookupError

	switch {
	case errors.As(err, &verr):
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":   "invalid_input",
			"field":   verr.Field,
			"message": verr.Reason,
		})
	case errors.Is(err, repository.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
	case errors.As(err, &missing):
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":   "missing_data",
			"message": missing.Error(),
			"missing": missing.Missing,
		})
	case errors.Is(err, service.ErrNoEstimateLines):
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "no_estimate_lines"})
	case errors.As(err, &upstream):
		slog.Error(logMsg, append(logArgs, "error", err)...)
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "upstream_unavailable"})
	default:
		slog.Error(logMsg, append(logArgs, "error", err)...)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal_error"})
	}
}
