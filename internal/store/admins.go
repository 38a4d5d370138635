package store

import (
	"context"
	"database/sql"

	"orderrelay/internal/models"

	"github.com/jackc/pgx/v5"
)

func scanAdmin(row pgx.Row) (*models.AdminUser, error) {
	var a models.AdminUser
	var lastLogin sql.NullTime
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.FullName, &lastLogin, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		a.LastLogin = &lastLogin.Time
	}
	return &a, nil
}

func (s *Store) GetAdminByID(ctx context.Context, id string) (*models.AdminUser, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, email, password_hash, full_name, last_login, created_at
		FROM admin_users WHERE id=$1
	`, id)
	return scanAdmin(row)
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, email, password_hash, full_name, last_login, created_at
		FROM admin_users WHERE email=$1
	`, email)
	return scanAdmin(row)
}

func (s *Store) InsertAdmin(ctx context.Context, a *models.AdminUser) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO admin_users (id, email, password_hash, full_name, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, a.ID, a.Email, a.PasswordHash, a.FullName, a.CreatedAt)
	return err
}

func (s *Store) TouchAdminLogin(ctx context.Context, id string) error {
	_, err := s.Pool.Exec(ctx, `UPDATE admin_users SET last_login=now() WHERE id=$1`, id)
	return err
}
