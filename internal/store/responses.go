package store

import (
	"context"

	"orderrelay/internal/models"

	"github.com/jackc/pgx/v5"
)

// UpsertResponse records a decision, overwriting any previous one for the
// same order id. Last decision wins.
func (s *Store) UpsertResponse(ctx context.Context, r *models.OrderResponse) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO order_responses (
			id, order_id, restaurant_owner_id, overall_status, synced_to_upstream, responded_at
		) VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (order_id) DO UPDATE SET
			restaurant_owner_id=EXCLUDED.restaurant_owner_id,
			overall_status=EXCLUDED.overall_status,
			synced_to_upstream=EXCLUDED.synced_to_upstream,
			responded_at=EXCLUDED.responded_at
	`,
		r.ID,
		r.OrderID,
		r.RestaurantOwnerID,
		r.OverallStatus,
		r.SyncedToUpstream,
		r.RespondedAt,
	)
	return err
}

// InsertResponseIfAbsent records a decision only when none exists yet.
// Used by auto-reject so a synthesized decision never clobbers a real one.
func (s *Store) InsertResponseIfAbsent(ctx context.Context, r *models.OrderResponse) (bool, error) {
	res, err := s.Pool.Exec(ctx, `
		INSERT INTO order_responses (
			id, order_id, restaurant_owner_id, overall_status, synced_to_upstream, responded_at
		) VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (order_id) DO NOTHING
	`,
		r.ID,
		r.OrderID,
		r.RestaurantOwnerID,
		r.OverallStatus,
		r.SyncedToUpstream,
		r.RespondedAt,
	)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func scanResponse(row pgx.Row) (*models.OrderResponse, error) {
	var r models.OrderResponse
	err := row.Scan(
		&r.ID,
		&r.OrderID,
		&r.RestaurantOwnerID,
		&r.OverallStatus,
		&r.SyncedToUpstream,
		&r.RespondedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) GetResponseByOrderID(ctx context.Context, orderID string) (*models.OrderResponse, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, order_id, restaurant_owner_id, overall_status, synced_to_upstream, responded_at
		FROM order_responses WHERE order_id=$1
	`, orderID)
	return scanResponse(row)
}

func (s *Store) ListResponsesByOrderIDs(ctx context.Context, orderIDs []string) ([]*models.OrderResponse, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, order_id, restaurant_owner_id, overall_status, synced_to_upstream, responded_at
		FROM order_responses WHERE order_id = ANY($1)
	`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []*models.OrderResponse
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}
