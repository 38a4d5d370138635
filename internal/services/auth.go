package services

import (
	"context"
	"errors"

	"orderrelay/internal/auth"
	"orderrelay/internal/models"

	"github.com/jackc/pgx/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountPending     = errors.New("your account is under review, please wait for admin approval")
	ErrAccountRejected    = errors.New("your account was rejected, please contact support")
	ErrAwaitingUID        = errors.New("account approved but no restaurant UID assigned yet, please wait")
	ErrNotAuthorized      = errors.New("not authorized")
)

// AuthOwnerStore is the owner-credential slice of the management store.
type AuthOwnerStore interface {
	GetOwnerByEmail(ctx context.Context, email string) (*models.RestaurantOwner, error)
	GetOwnerByID(ctx context.Context, id string) (*models.RestaurantOwner, error)
}

// AuthAdminStore is the admin-credential slice of the management store.
type AuthAdminStore interface {
	GetAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	GetAdminByID(ctx context.Context, id string) (*models.AdminUser, error)
	TouchAdminLogin(ctx context.Context, id string) error
}

// AuthService issues and checks session tokens. Only an approved owner with
// an assigned restaurant UID ever receives a usable token.
type AuthService struct {
	Owners AuthOwnerStore
	Admins AuthAdminStore
	Tokens *auth.TokenIssuer
}

type LoginResult struct {
	Token    string         `json:"token"`
	UserType string         `json:"user_type"`
	UserData map[string]any `json:"user_data"`
}

// OwnerLogin verifies credentials and the approval gate. Each refusal state
// carries its own reason so the client can explain it.
func (s *AuthService) OwnerLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	owner, err := s.Owners.GetOwnerByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(password, owner.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	switch owner.ApprovalStatus {
	case models.ApprovalPending:
		return nil, ErrAccountPending
	case models.ApprovalRejected:
		return nil, ErrAccountRejected
	}
	if owner.RestaurantUID == nil || *owner.RestaurantUID == "" {
		return nil, ErrAwaitingUID
	}

	token, err := s.Tokens.Issue(owner.ID, owner.Email, models.UserTypeOwner)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:    token,
		UserType: models.UserTypeOwner,
		UserData: map[string]any{
			"id":              owner.ID,
			"email":           owner.Email,
			"full_name":       owner.FullName,
			"restaurant_name": owner.RestaurantName,
			"restaurant_uid":  *owner.RestaurantUID,
		},
	}, nil
}

func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	admin, err := s.Admins.GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(password, admin.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if err := s.Admins.TouchAdminLogin(ctx, admin.ID); err != nil {
		return nil, err
	}

	token, err := s.Tokens.Issue(admin.ID, admin.Email, models.UserTypeAdmin)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:    token,
		UserType: models.UserTypeAdmin,
		UserData: map[string]any{
			"id":        admin.ID,
			"email":     admin.Email,
			"full_name": admin.FullName,
		},
	}, nil
}

// AuthenticateOwner resolves a bearer token to an approved owner record.
func (s *AuthService) AuthenticateOwner(ctx context.Context, token string) (*models.RestaurantOwner, error) {
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	if claims.UserType != models.UserTypeOwner {
		return nil, ErrNotAuthorized
	}
	owner, err := s.Owners.GetOwnerByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	switch owner.ApprovalStatus {
	case models.ApprovalPending:
		return nil, ErrAccountPending
	case models.ApprovalRejected:
		return nil, ErrAccountRejected
	}
	return owner, nil
}

// AuthenticateAdmin resolves a bearer token to an admin record.
func (s *AuthService) AuthenticateAdmin(ctx context.Context, token string) (*models.AdminUser, error) {
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	if claims.UserType != models.UserTypeAdmin {
		return nil, ErrNotAuthorized
	}
	admin, err := s.Admins.GetAdminByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	return admin, nil
}
