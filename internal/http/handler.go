package http

import (
	"context"
	"encoding/json"
	"net/http"

	"orderrelay/internal/models"
	"orderrelay/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// RestaurantCatalog lists restaurants from the upstream store for UID
// assignment.
type RestaurantCatalog interface {
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)
}

type Handler struct {
	Auth          *services.AuthService
	Approval      *services.ApprovalService
	Ingest        *services.IngestService
	Lifecycle     *services.LifecycleService
	Earnings      *services.EarningsService
	Catalog       RestaurantCatalog
	WebhookAPIKey string
	Log           *logrus.Logger
	Validate      *validator.Validate
}

func NewHandler(
	auth *services.AuthService,
	approval *services.ApprovalService,
	ingest *services.IngestService,
	lifecycle *services.LifecycleService,
	earnings *services.EarningsService,
	catalog RestaurantCatalog,
	webhookAPIKey string,
	log *logrus.Logger,
) *Handler {
	return &Handler{
		Auth:          auth,
		Approval:      approval,
		Ingest:        ingest,
		Lifecycle:     lifecycle,
		Earnings:      earnings,
		Catalog:       catalog,
		WebhookAPIKey: webhookAPIKey,
		Log:           log,
		Validate:      validator.New(validator.WithRequiredStructEnabled()),
	}
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"detail": message})
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}

func (h *Handler) validateStruct(w http.ResponseWriter, v any) bool {
	if err := h.Validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
