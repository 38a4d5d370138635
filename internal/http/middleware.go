package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"orderrelay/internal/auth"
	"orderrelay/internal/models"
	"orderrelay/internal/services"
)

type contextKey string

const (
	ownerContextKey contextKey = "owner"
	adminContextKey contextKey = "admin"
)

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// RequireOwner resolves the bearer token to an approved owner and stores it
// in the request context.
func (h *Handler) RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		owner, err := h.Auth.AuthenticateOwner(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidToken):
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
			case errors.Is(err, services.ErrNotAuthorized):
				writeError(w, http.StatusForbidden, "restaurant owner access required")
			case errors.Is(err, services.ErrAccountPending), errors.Is(err, services.ErrAccountRejected):
				writeError(w, http.StatusForbidden, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "authentication failed")
			}
			return
		}
		ctx := context.WithValue(r.Context(), ownerContextKey, owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin resolves the bearer token to an admin and stores it in the
// request context.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		admin, err := h.Auth.AuthenticateAdmin(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidToken):
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
			case errors.Is(err, services.ErrNotAuthorized):
				writeError(w, http.StatusForbidden, "admin access required")
			default:
				writeError(w, http.StatusInternalServerError, "authentication failed")
			}
			return
		}
		ctx := context.WithValue(r.Context(), adminContextKey, admin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ownerFrom(r *http.Request) *models.RestaurantOwner {
	owner, _ := r.Context().Value(ownerContextKey).(*models.RestaurantOwner)
	return owner
}

func adminFrom(r *http.Request) *models.AdminUser {
	admin, _ := r.Context().Value(adminContextKey).(*models.AdminUser)
	return admin
}
