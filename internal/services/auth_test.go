package services

import (
	"context"
	"testing"
	"time"

	"orderrelay/internal/auth"
	"orderrelay/internal/models"

	"github.com/stretchr/testify/require"
)

func newAuthService(m *memStore) *AuthService {
	return &AuthService{
		Owners: m,
		Admins: m,
		Tokens: auth.NewTokenIssuer("test-secret", time.Hour),
	}
}

func seedCredentialedOwner(t *testing.T, m *memStore, status models.ApprovalStatus, uid string) *models.RestaurantOwner {
	t.Helper()
	hash, err := auth.HashPassword("supersecret")
	require.NoError(t, err)

	owner := seedOwner(m, "owner-1", uid, "9000000001")
	owner.PasswordHash = hash
	owner.ApprovalStatus = status
	return owner
}

func TestOwnerLoginApproved(t *testing.T) {
	m := newMemStore()
	seedCredentialedOwner(t, m, models.ApprovalApproved, "R1")
	svc := newAuthService(m)

	result, err := svc.OwnerLogin(context.Background(), "owner-1@example.com", "supersecret")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, models.UserTypeOwner, result.UserType)
	require.Equal(t, "R1", result.UserData["restaurant_uid"])

	owner, err := svc.AuthenticateOwner(context.Background(), result.Token)
	require.NoError(t, err)
	require.Equal(t, "owner-1", owner.ID)
}

func TestOwnerLoginRefusalStates(t *testing.T) {
	cases := []struct {
		name    string
		status  models.ApprovalStatus
		uid     string
		wantErr error
	}{
		{"pending", models.ApprovalPending, "", ErrAccountPending},
		{"rejected", models.ApprovalRejected, "", ErrAccountRejected},
		{"approved without uid", models.ApprovalApproved, "", ErrAwaitingUID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newMemStore()
			seedCredentialedOwner(t, m, tc.status, tc.uid)
			svc := newAuthService(m)

			_, err := svc.OwnerLogin(context.Background(), "owner-1@example.com", "supersecret")
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestOwnerLoginBadCredentials(t *testing.T) {
	m := newMemStore()
	seedCredentialedOwner(t, m, models.ApprovalApproved, "R1")
	svc := newAuthService(m)

	_, err := svc.OwnerLogin(context.Background(), "owner-1@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.OwnerLogin(context.Background(), "nobody@example.com", "supersecret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminLoginStampsLastLogin(t *testing.T) {
	m := newMemStore()
	hash, err := auth.HashPassword("adminpass")
	require.NoError(t, err)
	m.admins["admin-1"] = &models.AdminUser{
		ID:           "admin-1",
		Email:        "admin@example.com",
		PasswordHash: hash,
		FullName:     "Ops Admin",
		CreatedAt:    time.Now().UTC(),
	}
	svc := newAuthService(m)

	result, err := svc.AdminLogin(context.Background(), "admin@example.com", "adminpass")
	require.NoError(t, err)
	require.Equal(t, models.UserTypeAdmin, result.UserType)
	require.NotNil(t, m.admins["admin-1"].LastLogin)

	admin, err := svc.AuthenticateAdmin(context.Background(), result.Token)
	require.NoError(t, err)
	require.Equal(t, "admin-1", admin.ID)
}

func TestAuthenticateRejectsWrongRole(t *testing.T) {
	m := newMemStore()
	seedCredentialedOwner(t, m, models.ApprovalApproved, "R1")
	hash, err := auth.HashPassword("adminpass")
	require.NoError(t, err)
	m.admins["admin-1"] = &models.AdminUser{
		ID:           "admin-1",
		Email:        "admin@example.com",
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	svc := newAuthService(m)

	ownerLogin, err := svc.OwnerLogin(context.Background(), "owner-1@example.com", "supersecret")
	require.NoError(t, err)
	adminLogin, err := svc.AdminLogin(context.Background(), "admin@example.com", "adminpass")
	require.NoError(t, err)

	_, err = svc.AuthenticateAdmin(context.Background(), ownerLogin.Token)
	require.ErrorIs(t, err, ErrNotAuthorized)
	_, err = svc.AuthenticateOwner(context.Background(), adminLogin.Token)
	require.ErrorIs(t, err, ErrNotAuthorized)
	_, err = svc.AuthenticateOwner(context.Background(), "garbage")
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthenticateOwnerChecksApprovalState(t *testing.T) {
	m := newMemStore()
	owner := seedCredentialedOwner(t, m, models.ApprovalApproved, "R1")
	svc := newAuthService(m)

	result, err := svc.OwnerLogin(context.Background(), "owner-1@example.com", "supersecret")
	require.NoError(t, err)

	// A token outlives an approval revocation only until the next request.
	owner.ApprovalStatus = models.ApprovalRejected
	_, err = svc.AuthenticateOwner(context.Background(), result.Token)
	require.ErrorIs(t, err, ErrAccountRejected)
}
