package http

import (
	"errors"
	"net/http"
	"time"

	"orderrelay/internal/models"
	"orderrelay/internal/services"

	"github.com/go-chi/chi/v5"
)

type ownerSummary struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	FullName          string    `json:"full_name"`
	Phone             string    `json:"phone"`
	RestaurantName    string    `json:"restaurant_name"`
	RestaurantAddress string    `json:"restaurant_address"`
	RestaurantPhone   string    `json:"restaurant_phone"`
	RestaurantEmail   *string   `json:"restaurant_email"`
	RestaurantUID     *string   `json:"restaurant_uid"`
	ApprovalStatus    string    `json:"approval_status"`
	CreatedAt         time.Time `json:"created_at"`
}

func toOwnerSummaries(owners []*models.RestaurantOwner) []ownerSummary {
	out := make([]ownerSummary, 0, len(owners))
	for _, o := range owners {
		out = append(out, ownerSummary{
			ID:                o.ID,
			Email:             o.Email,
			FullName:          o.FullName,
			Phone:             o.Phone,
			RestaurantName:    o.RestaurantName,
			RestaurantAddress: o.RestaurantAddress,
			RestaurantPhone:   o.RestaurantPhone,
			RestaurantEmail:   o.RestaurantEmail,
			RestaurantUID:     o.RestaurantUID,
			ApprovalStatus:    string(o.ApprovalStatus),
			CreatedAt:         o.CreatedAt,
		})
	}
	return out
}

func (h *Handler) PendingOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := h.Approval.PendingOwners(r.Context())
	if err != nil {
		h.Log.WithError(err).Error("pending owners failed")
		writeError(w, http.StatusInternalServerError, "failed to fetch pending owners")
		return
	}
	writeJSON(w, http.StatusOK, toOwnerSummaries(owners))
}

func (h *Handler) AllOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := h.Approval.AllOwners(r.Context())
	if err != nil {
		h.Log.WithError(err).Error("all owners failed")
		writeError(w, http.StatusInternalServerError, "failed to fetch owners")
		return
	}
	writeJSON(w, http.StatusOK, toOwnerSummaries(owners))
}

type restaurantResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

func (h *Handler) AllRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.Catalog.ListRestaurants(r.Context())
	if err != nil {
		h.Log.WithError(err).Error("list restaurants failed")
		writeError(w, http.StatusInternalServerError, "failed to fetch restaurants")
		return
	}
	out := make([]restaurantResponse, 0, len(restaurants))
	for _, rest := range restaurants {
		out = append(out, restaurantResponse{
			ID:      rest.ID,
			Name:    rest.Name,
			Address: rest.Address,
			Phone:   rest.Phone,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type assignUIDRequest struct {
	RestaurantUID string `json:"restaurant_uid" validate:"required"`
}

func (h *Handler) ApproveOwner(w http.ResponseWriter, r *http.Request) {
	admin := adminFrom(r)
	ownerID := chi.URLParam(r, "ownerId")

	var req assignUIDRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.validateStruct(w, req) {
		return
	}

	if err := h.Approval.Approve(r.Context(), admin.ID, ownerID, req.RestaurantUID); err != nil {
		if errors.Is(err, services.ErrOwnerNotFound) {
			writeError(w, http.StatusNotFound, "Restaurant owner not found")
			return
		}
		h.Log.WithError(err).Error("approve owner failed")
		writeError(w, http.StatusInternalServerError, "failed to approve owner")
		return
	}
	writeMessage(w, "Restaurant owner approved and UID assigned successfully")
}

func (h *Handler) RejectOwner(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerId")

	if err := h.Approval.Reject(r.Context(), ownerID); err != nil {
		if errors.Is(err, services.ErrOwnerNotFound) {
			writeError(w, http.StatusNotFound, "Restaurant owner not found")
			return
		}
		h.Log.WithError(err).Error("reject owner failed")
		writeError(w, http.StatusInternalServerError, "failed to reject owner")
		return
	}
	writeMessage(w, "Restaurant owner application rejected")
}

func (h *Handler) AssignUID(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerId")

	var req assignUIDRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.validateStruct(w, req) {
		return
	}

	if err := h.Approval.AssignUID(r.Context(), ownerID, req.RestaurantUID); err != nil {
		switch {
		case errors.Is(err, services.ErrOwnerNotFound):
			writeError(w, http.StatusNotFound, "Restaurant owner not found")
		case errors.Is(err, services.ErrNotApproved):
			writeError(w, http.StatusBadRequest, "Can only assign UID to approved owners")
		default:
			h.Log.WithError(err).Error("assign uid failed")
			writeError(w, http.StatusInternalServerError, "failed to assign UID")
		}
		return
	}
	writeMessage(w, "Restaurant UID assigned successfully")
}
