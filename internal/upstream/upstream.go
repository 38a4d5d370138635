// Package upstream talks to the authoritative production-orders database.
// The relay only ever writes one field there (order status) and reads the
// restaurant catalog; everything else belongs to the upstream system.
package upstream

import (
	"context"
	"database/sql"

	"orderrelay/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Client struct {
	Pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Client {
	return &Client{Pool: pool}
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status string) error {
	_, err := c.Pool.Exec(ctx, `
		UPDATE customer_orders SET status=$2 WHERE id=$1
	`, orderID, status)
	return err
}

func (c *Client) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	rows, err := c.Pool.Query(ctx, `SELECT id, name, address, phone FROM restaurants`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []models.Restaurant
	for rows.Next() {
		var r models.Restaurant
		var address, phone sql.NullString
		if err := rows.Scan(&r.ID, &r.Name, &address, &phone); err != nil {
			return nil, err
		}
		if address.Valid {
			r.Address = &address.String
		}
		if phone.Valid {
			r.Phone = &phone.String
		}
		restaurants = append(restaurants, r)
	}
	return restaurants, rows.Err()
}
