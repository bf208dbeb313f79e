package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/costbook/backend/internal/model"
	"github.com/costbook/backend/internal/service"
	"github.com/shopspring/decimal"
)

// maxBatchItems は 1 リクエストで計算できる項目数の上限
const maxBatchItems = 500

// CostHandler は単価計算の HTTP ハンドラ
type CostHandler struct {
	svc service.CostService
}

// NewCostHandler は CostHandler を生成する
func NewCostHandler(svc service.CostService) *CostHandler {
	return &CostHandler{svc: svc}
}

type calculateRequest struct {
	ProjectID string                   `json:"project_id"`
	Quantity  *decimal.Decimal         `json:"quantity"`
	Options   model.CalculationOptions `json:"options"`
}

// Calculate handles POST /api/library-items/{id}/calculate.
// A missing catalogue reference answers 422 with the partial result attached.
func (h *CostHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	itemID := r.PathValue("id")
	var req calculateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	qty := quantityOrOne(req.Quantity)

	res, err := h.svc.CalculateItemCost(r.Context(), itemID, req.ProjectID, qty, req.Options)
	if err != nil {
		var missing *service.MissingDataError
		if errors.As(err, &missing) && res != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":   "missing_data",
				"message": missing.Error(),
				"missing": missing.Missing,
				"result":  res,
			})
			return
		}
		writeServiceError(w, err, "calculate item failed", "item_id", itemID, "project_id", req.ProjectID)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// batchLine の quantity 省略は単価計算と同じく 1 とみなす
type batchLine struct {
	ItemID   string           `json:"item_id"`
	Quantity *decimal.Decimal `json:"quantity"`
}

type batchRequest struct {
	ProjectID string                   `json:"project_id"`
	ItemIDs   []string                 `json:"item_ids"`
	Lines     []batchLine              `json:"lines"`
	Options   model.CalculationOptions `json:"options"`
}

// Batch handles POST /api/calculations/batch. Either item_ids (unit
// quantity) or lines (item + quantity) is given.
func (h *CostHandler) Batch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req batchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.ItemIDs) > 0 && len(req.Lines) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "item_ids_and_lines_exclusive"})
		return
	}
	if len(req.ItemIDs)+len(req.Lines) > maxBatchItems {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "too_many_items"})
		return
	}

	var (
		batch *model.BatchResult
		err   error
	)
	if len(req.Lines) > 0 {
		lines := make([]service.ItemQuantity, len(req.Lines))
		for i, l := range req.Lines {
			lines[i] = service.ItemQuantity{ItemID: l.ItemID, Quantity: quantityOrOne(l.Quantity)}
		}
		batch, err = h.svc.CalculateLines(r.Context(), lines, req.ProjectID, req.Options)
	} else {
		batch, err = h.svc.CalculateMany(r.Context(), req.ItemIDs, req.ProjectID, req.Options)
	}
	if err != nil {
		writeServiceError(w, err, "batch calculation failed", "project_id", req.ProjectID)
		return
	}
	_ = json.NewEncoder(w).Encode(batch)
}

func quantityOrOne(q *decimal.Decimal) decimal.Decimal {
	if q == nil {
		return decimal.NewFromInt(1)
	}
	return *q
}
