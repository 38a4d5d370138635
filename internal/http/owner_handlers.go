package http

import (
	"errors"
	"net/http"
	"strconv"

	"orderrelay/internal/services"
)

type ownerStatusResponse struct {
	ApprovalStatus string  `json:"approval_status"`
	RestaurantUID  *string `json:"restaurant_uid"`
	RestaurantName string  `json:"restaurant_name"`
	Message        string  `json:"message"`
}

func (h *Handler) OwnerStatus(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r)

	message := "Account status: " + string(owner.ApprovalStatus)
	if owner.ApprovalStatus == "approved" {
		if owner.RestaurantUID != nil && *owner.RestaurantUID != "" {
			message = "Account approved and restaurant assigned"
		} else {
			message = "Account approved, waiting for restaurant UID assignment"
		}
	}

	writeJSON(w, http.StatusOK, ownerStatusResponse{
		ApprovalStatus: string(owner.ApprovalStatus),
		RestaurantUID:  owner.RestaurantUID,
		RestaurantName: owner.RestaurantName,
		Message:        message,
	})
}

func (h *Handler) FetchOrders(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r)

	active, err := h.Lifecycle.ListActive(r.Context(), owner.ID)
	if err != nil {
		h.Log.WithError(err).Error("fetch orders failed")
		writeError(w, http.StatusInternalServerError, "failed to fetch orders")
		return
	}
	writeJSON(w, http.StatusOK, active)
}

func (h *Handler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r)

	history, err := h.Lifecycle.History(r.Context(), owner.ID)
	if err != nil {
		h.Log.WithError(err).Error("order history failed")
		writeError(w, http.StatusInternalServerError, "failed to fetch order history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"orders":      history,
		"total_count": len(history),
	})
}

type submitResponseRequest struct {
	OrderID  string `json:"order_id" validate:"required"`
	Decision string `json:"decision" validate:"required"`
}

func (h *Handler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r)

	var req submitResponseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.validateStruct(w, req) {
		return
	}

	if err := h.Lifecycle.Decide(r.Context(), owner.ID, req.OrderID, req.Decision); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDecision):
			writeError(w, http.StatusBadRequest, "Decision must be 'accepted' or 'rejected'")
		case errors.Is(err, services.ErrOrderNotFound):
			writeError(w, http.StatusNotFound, "Order not found")
		default:
			h.Log.WithError(err).Error("submit response failed")
			writeError(w, http.StatusInternalServerError, "failed to submit response")
		}
		return
	}
	writeMessage(w, "Order "+req.Decision+" and synced successfully!")
}

func (h *Handler) AutoRejectPending(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r)

	rejected, err := h.Lifecycle.AutoRejectPending(r.Context(), owner.ID)
	if err != nil {
		h.Log.WithError(err).Error("auto-reject pending failed")
		writeError(w, http.StatusInternalServerError, "failed to auto-reject pending orders")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"rejected_count": rejected,
	})
}

func (h *Handler) MarkAllSent(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r)

	sent, err := h.Lifecycle.MarkAllSent(r.Context(), owner.ID)
	if err != nil {
		h.Log.WithError(err).Error("mark sent failed")
		writeError(w, http.StatusInternalServerError, "failed to mark orders sent")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"sent_count": sent,
	})
}

func (h *Handler) EarningsSummary(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r)

	summary, err := h.Earnings.Summary(r.Context(), owner)
	if err != nil {
		h.Log.WithError(err).Error("earnings summary failed")
		writeError(w, http.StatusInternalServerError, "failed to fetch earnings summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) EarningsTransactions(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r)

	limit := intQuery(r, "limit", 50)
	offset := intQuery(r, "offset", 0)
	var isPaid *bool
	if v := r.URL.Query().Get("is_paid"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "is_paid must be a boolean")
			return
		}
		isPaid = &parsed
	}

	page, err := h.Earnings.Transactions(r.Context(), owner.ID, limit, offset, isPaid)
	if err != nil {
		h.Log.WithError(err).Error("earnings transactions failed")
		writeError(w, http.StatusInternalServerError, "failed to fetch transactions")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) EarningsMonthly(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r)

	months, err := h.Earnings.Monthly(r.Context(), owner.ID)
	if err != nil {
		h.Log.WithError(err).Error("monthly earnings failed")
		writeError(w, http.StatusInternalServerError, "failed to fetch monthly earnings")
		return
	}
	writeJSON(w, http.StatusOK, months)
}

type profileResponse struct {
	FullName          string  `json:"full_name"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	RestaurantName    string  `json:"restaurant_name"`
	RestaurantAddress string  `json:"restaurant_address"`
	RestaurantPhone   string  `json:"restaurant_phone"`
	RestaurantEmail   *string `json:"restaurant_email"`
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r)
	writeJSON(w, http.StatusOK, profileResponse{
		FullName:          owner.FullName,
		Email:             owner.Email,
		Phone:             owner.Phone,
		RestaurantName:    owner.RestaurantName,
		RestaurantAddress: owner.RestaurantAddress,
		RestaurantPhone:   owner.RestaurantPhone,
		RestaurantEmail:   owner.RestaurantEmail,
	})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r)

	var req services.ProfileUpdate
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.validateStruct(w, req) {
		return
	}

	if err := h.Approval.UpdateProfile(r.Context(), owner.ID, req); err != nil {
		h.Log.WithError(err).Error("profile update failed")
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	writeMessage(w, "Profile updated successfully")
}

func (h *Handler) UpdateBankDetails(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r)

	var req services.BankDetailsInput
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Approval.UpdateBankDetails(r.Context(), owner.ID, req); err != nil {
		h.Log.WithError(err).Error("bank details update failed")
		writeError(w, http.StatusInternalServerError, "failed to update bank details")
		return
	}
	writeMessage(w, "Bank details updated successfully")
}

type pushTokenRequest struct {
	PushToken string `json:"push_token" validate:"required"`
}

func (h *Handler) RegisterPushToken(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r)

	var req pushTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.validateStruct(w, req) {
		return
	}

	if err := h.Approval.SetPushToken(r.Context(), owner.ID, req.PushToken); err != nil {
		h.Log.WithError(err).Error("push token update failed")
		writeError(w, http.StatusInternalServerError, "failed to register push token")
		return
	}
	writeMessage(w, "Push token registered")
}

func intQuery(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
