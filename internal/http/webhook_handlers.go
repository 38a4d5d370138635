package http

import (
	"errors"
	"fmt"
	"net/http"

	"orderrelay/internal/services"
)

type webhookPayload struct {
	Orders []services.IncomingOrder `json:"orders"`
	APIKey string                   `json:"api_key"`
}

type webhookResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	InsertedCount int    `json:"inserted_count"`
	SkippedCount  int    `json:"skipped_count"`
}

// checkAPIKey enforces the shared webhook secret when one is configured.
// An empty configured key disables the check.
func (h *Handler) checkAPIKey(w http.ResponseWriter, r *http.Request, bodyKey string) bool {
	if h.WebhookAPIKey == "" {
		return true
	}
	provided := r.Header.Get("X-API-Key")
	if provided == "" {
		provided = bodyKey
	}
	if provided != h.WebhookAPIKey {
		writeError(w, http.StatusUnauthorized, "Invalid API key")
		return false
	}
	return true
}

func (h *Handler) ReceiveOrders(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	if !h.checkAPIKey(w, r, payload.APIKey) {
		return
	}

	result, err := h.Ingest.IngestBatch(r.Context(), payload.Orders)
	if err != nil {
		h.Log.WithError(err).Error("webhook batch failed")
		writeError(w, http.StatusInternalServerError, "failed to process orders")
		return
	}

	message := fmt.Sprintf("Processed %d orders", len(payload.Orders))
	if result.Failed > 0 {
		message = fmt.Sprintf("Processed %d orders (%d failed)", len(payload.Orders), result.Failed)
	}
	writeJSON(w, http.StatusOK, webhookResponse{
		Success:       true,
		Message:       message,
		InsertedCount: result.Inserted,
		SkippedCount:  result.Skipped,
	})
}

func (h *Handler) ReceiveOrder(w http.ResponseWriter, r *http.Request) {
	var order services.IncomingOrder
	if !decodeJSON(w, r, &order) {
		return
	}
	if !h.checkAPIKey(w, r, "") {
		return
	}

	inserted, err := h.Ingest.IngestOne(r.Context(), order)
	if err != nil {
		if errors.Is(err, services.ErrInvalidOrder) || errors.Is(err, services.ErrInvalidItem) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.WithError(err).Error("webhook single order failed")
		writeError(w, http.StatusInternalServerError, "failed to insert order")
		return
	}

	message := "Order inserted"
	if !inserted {
		message = "Order already exists"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  message,
		"inserted": inserted,
	})
}
