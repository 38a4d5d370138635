package services

import (
	"context"
	"errors"
	"time"

	"orderrelay/internal/auth"
	"orderrelay/internal/models"
	"orderrelay/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

var (
	ErrEmailTaken    = errors.New("email already registered")
	ErrOwnerNotFound = errors.New("restaurant owner not found")
	ErrNotApproved   = errors.New("can only assign UID to approved owners")
)

// ApprovalStore is the signup/approval slice of the management store.
type ApprovalStore interface {
	GetOwnerByEmail(ctx context.Context, email string) (*models.RestaurantOwner, error)
	GetOwnerByID(ctx context.Context, id string) (*models.RestaurantOwner, error)
	InsertOwner(ctx context.Context, o *models.RestaurantOwner) error
	ApproveOwner(ctx context.Context, id, restaurantUID, approvedBy string) (int64, error)
	RejectOwner(ctx context.Context, id string) (int64, error)
	SetOwnerRestaurantUID(ctx context.Context, id, restaurantUID string) error
	ListOwners(ctx context.Context, status *models.ApprovalStatus) ([]*models.RestaurantOwner, error)
	UpsertEarningsRecord(ctx context.Context, e *models.EarningsRecord) error
	UpdateOwnerProfile(ctx context.Context, id string, p store.OwnerProfileUpdate) error
	SetOwnerPushToken(ctx context.Context, id, token string) error
	UpdateBankDetails(ctx context.Context, restaurantID string, u store.BankDetailsUpdate) error
}

// ApprovalService runs the owner signup -> pending -> approved/rejected
// workflow plus the profile mutations owners make themselves.
type ApprovalService struct {
	Store                 ApprovalStore
	DefaultCommissionRate float64
	Log                   *logrus.Logger
	Now                   func() time.Time
}

func (s *ApprovalService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

type SignupInput struct {
	Email                 string  `json:"email" validate:"required,email"`
	Password              string  `json:"password" validate:"required,min=8"`
	FullName              string  `json:"full_name" validate:"required"`
	Phone                 string  `json:"phone" validate:"required"`
	RestaurantName        string  `json:"restaurant_name" validate:"required"`
	RestaurantAddress     string  `json:"restaurant_address" validate:"required"`
	RestaurantPhone       string  `json:"restaurant_phone" validate:"required"`
	RestaurantEmail       *string `json:"restaurant_email"`
	BankAccountNumber     *string `json:"bank_account_number"`
	BankIFSCCode          *string `json:"bank_ifsc_code"`
	BankAccountHolderName *string `json:"bank_account_holder_name"`
	UPIID                 *string `json:"upi_id"`
}

// Signup creates a pending owner account and seeds its earnings record with
// the default commission rate and whatever bank details were provided.
func (s *ApprovalService) Signup(ctx context.Context, in SignupInput) error {
	_, err := s.Store.GetOwnerByEmail(ctx, in.Email)
	if err == nil {
		return ErrEmailTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return err
	}

	now := s.now()
	owner := &models.RestaurantOwner{
		ID:                uuid.NewString(),
		Email:             in.Email,
		PasswordHash:      hash,
		FullName:          in.FullName,
		Phone:             in.Phone,
		RestaurantName:    in.RestaurantName,
		RestaurantAddress: in.RestaurantAddress,
		RestaurantPhone:   in.RestaurantPhone,
		RestaurantEmail:   in.RestaurantEmail,
		ApprovalStatus:    models.ApprovalPending,
		CreatedAt:         now,
	}
	if err := s.Store.InsertOwner(ctx, owner); err != nil {
		return err
	}

	hasBank := in.BankAccountNumber != nil || in.BankIFSCCode != nil ||
		in.BankAccountHolderName != nil || in.UPIID != nil
	record := &models.EarningsRecord{
		RestaurantID:          owner.ID,
		RestaurantName:        in.RestaurantName,
		RestaurantPhone:       &in.RestaurantPhone,
		RestaurantEmail:       in.RestaurantEmail,
		CommissionRate:        s.DefaultCommissionRate,
		HasBankDetails:        hasBank,
		BankAccountNumber:     in.BankAccountNumber,
		BankIFSCCode:          in.BankIFSCCode,
		BankAccountHolderName: in.BankAccountHolderName,
		UPIID:                 in.UPIID,
		DataSentBy:            &in.Email,
		LastSyncedAt:          now,
		SyncStatus:            "pending",
	}
	if err := s.Store.UpsertEarningsRecord(ctx, record); err != nil {
		return err
	}

	s.Log.WithFields(logrus.Fields{
		"owner_id":   owner.ID,
		"restaurant": in.RestaurantName,
	}).Info("owner signed up, pending approval")
	return nil
}

// Approve marks the owner approved and assigns the restaurant UID that ties
// it to the upstream store.
func (s *ApprovalService) Approve(ctx context.Context, adminID, ownerID, restaurantUID string) error {
	affected, err := s.Store.ApproveOwner(ctx, ownerID, restaurantUID, adminID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOwnerNotFound
	}
	s.Log.WithFields(logrus.Fields{
		"owner_id":       ownerID,
		"restaurant_uid": restaurantUID,
	}).Info("owner approved")
	return nil
}

// Reject is terminal for the application.
func (s *ApprovalService) Reject(ctx context.Context, ownerID string) error {
	affected, err := s.Store.RejectOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOwnerNotFound
	}
	s.Log.WithField("owner_id", ownerID).Info("owner rejected")
	return nil
}

// AssignUID reassigns the restaurant UID for an already-approved owner.
func (s *ApprovalService) AssignUID(ctx context.Context, ownerID, restaurantUID string) error {
	owner, err := s.Store.GetOwnerByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOwnerNotFound
		}
		return err
	}
	if owner.ApprovalStatus != models.ApprovalApproved {
		return ErrNotApproved
	}
	return s.Store.SetOwnerRestaurantUID(ctx, ownerID, restaurantUID)
}

func (s *ApprovalService) PendingOwners(ctx context.Context) ([]*models.RestaurantOwner, error) {
	status := models.ApprovalPending
	return s.Store.ListOwners(ctx, &status)
}

func (s *ApprovalService) AllOwners(ctx context.Context) ([]*models.RestaurantOwner, error) {
	return s.Store.ListOwners(ctx, nil)
}

type ProfileUpdate struct {
	FullName          string  `json:"full_name" validate:"required"`
	Phone             string  `json:"phone" validate:"required"`
	RestaurantName    string  `json:"restaurant_name" validate:"required"`
	RestaurantAddress string  `json:"restaurant_address" validate:"required"`
	RestaurantPhone   string  `json:"restaurant_phone" validate:"required"`
	RestaurantEmail   *string `json:"restaurant_email"`
}

func (s *ApprovalService) UpdateProfile(ctx context.Context, ownerID string, p ProfileUpdate) error {
	return s.Store.UpdateOwnerProfile(ctx, ownerID, store.OwnerProfileUpdate{
		FullName:          p.FullName,
		Phone:             p.Phone,
		RestaurantName:    p.RestaurantName,
		RestaurantAddress: p.RestaurantAddress,
		RestaurantPhone:   p.RestaurantPhone,
		RestaurantEmail:   p.RestaurantEmail,
	})
}

type BankDetailsInput struct {
	BankAccountNumber     *string `json:"bank_account_number"`
	BankIFSCCode          *string `json:"bank_ifsc_code"`
	BankAccountHolderName *string `json:"bank_account_holder_name"`
	UPIID                 *string `json:"upi_id"`
}

// UpdateBankDetails writes the payout details into the earnings snapshot.
func (s *ApprovalService) UpdateBankDetails(ctx context.Context, ownerID string, in BankDetailsInput) error {
	return s.Store.UpdateBankDetails(ctx, ownerID, store.BankDetailsUpdate{
		BankAccountNumber:     in.BankAccountNumber,
		BankIFSCCode:          in.BankIFSCCode,
		BankAccountHolderName: in.BankAccountHolderName,
		UPIID:                 in.UPIID,
	})
}

func (s *ApprovalService) SetPushToken(ctx context.Context, ownerID, token string) error {
	return s.Store.SetOwnerPushToken(ctx, ownerID, token)
}
