package http

import (
	"errors"
	"net/http"

	"orderrelay/internal/services"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req services.SignupInput
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.validateStruct(w, req) {
		return
	}

	if err := h.Approval.Signup(r.Context(), req); err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, "Email already registered")
			return
		}
		h.Log.WithError(err).Error("signup failed")
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}
	writeMessage(w, "Account created successfully! Please wait for admin approval.")
}

func (h *Handler) OwnerLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.validateStruct(w, req) {
		return
	}

	result, err := h.Auth.OwnerLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, services.ErrAccountPending):
			writeError(w, http.StatusForbidden, "Your account is under review. Please wait for admin approval.")
		case errors.Is(err, services.ErrAccountRejected):
			writeError(w, http.StatusForbidden, "Your account was rejected. Please contact support.")
		case errors.Is(err, services.ErrAwaitingUID):
			writeError(w, http.StatusForbidden, "Admin has approved your account but hasn't assigned a restaurant UID yet. Please wait.")
		default:
			h.Log.WithError(err).Error("owner login failed")
			writeError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.validateStruct(w, req) {
		return
	}

	result, err := h.Auth.AdminLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.Log.WithError(err).Error("admin login failed")
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
