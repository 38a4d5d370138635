package store

import (
	"context"
	"database/sql"

	"orderrelay/internal/models"

	"github.com/jackc/pgx/v5"
)

const ownerColumns = `
	id, email, password_hash, full_name, phone,
	restaurant_name, restaurant_address, restaurant_phone, restaurant_email,
	restaurant_uid, approval_status, push_token, push_token_updated_at,
	approved_at, approved_by, created_at`

func scanOwner(row pgx.Row) (*models.RestaurantOwner, error) {
	var o models.RestaurantOwner
	var restaurantEmail, restaurantUID, pushToken, approvedBy sql.NullString
	var pushTokenUpdatedAt, approvedAt sql.NullTime

	err := row.Scan(
		&o.ID,
		&o.Email,
		&o.PasswordHash,
		&o.FullName,
		&o.Phone,
		&o.RestaurantName,
		&o.RestaurantAddress,
		&o.RestaurantPhone,
		&restaurantEmail,
		&restaurantUID,
		&o.ApprovalStatus,
		&pushToken,
		&pushTokenUpdatedAt,
		&approvedAt,
		&approvedBy,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if restaurantEmail.Valid {
		o.RestaurantEmail = &restaurantEmail.String
	}
	if restaurantUID.Valid {
		o.RestaurantUID = &restaurantUID.String
	}
	if pushToken.Valid {
		o.PushToken = &pushToken.String
	}
	if pushTokenUpdatedAt.Valid {
		o.PushTokenUpdatedAt = &pushTokenUpdatedAt.Time
	}
	if approvedAt.Valid {
		o.ApprovedAt = &approvedAt.Time
	}
	if approvedBy.Valid {
		o.ApprovedBy = &approvedBy.String
	}
	return &o, nil
}

func (s *Store) GetOwnerByID(ctx context.Context, id string) (*models.RestaurantOwner, error) {
	row := s.Pool.QueryRow(ctx, `SELECT`+ownerColumns+` FROM restaurant_owners WHERE id=$1`, id)
	return scanOwner(row)
}

func (s *Store) GetOwnerByEmail(ctx context.Context, email string) (*models.RestaurantOwner, error) {
	row := s.Pool.QueryRow(ctx, `SELECT`+ownerColumns+` FROM restaurant_owners WHERE email=$1`, email)
	return scanOwner(row)
}

func (s *Store) GetOwnerByRestaurantUID(ctx context.Context, uid string) (*models.RestaurantOwner, error) {
	row := s.Pool.QueryRow(ctx, `SELECT`+ownerColumns+` FROM restaurant_owners WHERE restaurant_uid=$1`, uid)
	return scanOwner(row)
}

func (s *Store) GetOwnerByRestaurantPhone(ctx context.Context, phone string) (*models.RestaurantOwner, error) {
	row := s.Pool.QueryRow(ctx, `SELECT`+ownerColumns+` FROM restaurant_owners WHERE restaurant_phone=$1`, phone)
	return scanOwner(row)
}

func (s *Store) InsertOwner(ctx context.Context, o *models.RestaurantOwner) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO restaurant_owners (
			id, email, password_hash, full_name, phone,
			restaurant_name, restaurant_address, restaurant_phone, restaurant_email,
			approval_status, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		o.ID,
		o.Email,
		o.PasswordHash,
		o.FullName,
		o.Phone,
		o.RestaurantName,
		o.RestaurantAddress,
		o.RestaurantPhone,
		o.RestaurantEmail,
		o.ApprovalStatus,
		o.CreatedAt,
	)
	return err
}

func (s *Store) ApproveOwner(ctx context.Context, id, restaurantUID, approvedBy string) (int64, error) {
	res, err := s.Pool.Exec(ctx, `
		UPDATE restaurant_owners
		SET approval_status='approved', restaurant_uid=$2, approved_at=now(), approved_by=$3
		WHERE id=$1
	`, id, restaurantUID, approvedBy)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

func (s *Store) RejectOwner(ctx context.Context, id string) (int64, error) {
	res, err := s.Pool.Exec(ctx, `
		UPDATE restaurant_owners SET approval_status='rejected' WHERE id=$1
	`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

func (s *Store) SetOwnerRestaurantUID(ctx context.Context, id, restaurantUID string) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE restaurant_owners SET restaurant_uid=$2 WHERE id=$1
	`, id, restaurantUID)
	return err
}

func (s *Store) SetOwnerPushToken(ctx context.Context, id, token string) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE restaurant_owners SET push_token=$2, push_token_updated_at=now() WHERE id=$1
	`, id, token)
	return err
}

type OwnerProfileUpdate struct {
	FullName          string
	Phone             string
	RestaurantName    string
	RestaurantAddress string
	RestaurantPhone   string
	RestaurantEmail   *string
}

func (s *Store) UpdateOwnerProfile(ctx context.Context, id string, p OwnerProfileUpdate) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE restaurant_owners
		SET full_name=$2, phone=$3, restaurant_name=$4, restaurant_address=$5,
			restaurant_phone=$6, restaurant_email=$7
		WHERE id=$1
	`, id, p.FullName, p.Phone, p.RestaurantName, p.RestaurantAddress, p.RestaurantPhone, p.RestaurantEmail)
	return err
}

// ListOwners returns owners ordered by signup time. A nil status lists all.
func (s *Store) ListOwners(ctx context.Context, status *models.ApprovalStatus) ([]*models.RestaurantOwner, error) {
	query := `SELECT` + ownerColumns + ` FROM restaurant_owners`
	args := []any{}
	if status != nil {
		query += ` WHERE approval_status=$1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at`

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var owners []*models.RestaurantOwner
	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			return nil, err
		}
		owners = append(owners, o)
	}
	return owners, rows.Err()
}
