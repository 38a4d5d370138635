package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"orderrelay/internal/models"

	"github.com/jackc/pgx/v5"
)

const orderColumns = `
	id, order_id, restaurant_owner_id, customer_name, customer_phone,
	restaurant_phone, items, total_amount, payment_status, order_status,
	pool_id, subtotal, delivery_fee, platform_fee, total_customer_paid,
	amount_to_collect, sent_for_delivery, fetched_at, created_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	var ownerID, restaurantPhone, poolID sql.NullString
	var itemsJSON []byte
	var subtotal, deliveryFee, platformFee, totalCustomerPaid, amountToCollect sql.NullInt64

	err := row.Scan(
		&o.ID,
		&o.OrderID,
		&ownerID,
		&o.CustomerName,
		&o.CustomerPhone,
		&restaurantPhone,
		&itemsJSON,
		&o.TotalAmount,
		&o.PaymentStatus,
		&o.OrderStatus,
		&poolID,
		&subtotal,
		&deliveryFee,
		&platformFee,
		&totalCustomerPaid,
		&amountToCollect,
		&o.SentForDelivery,
		&o.FetchedAt,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, err
		}
	}
	if ownerID.Valid {
		o.RestaurantOwnerID = &ownerID.String
	}
	if restaurantPhone.Valid {
		o.RestaurantPhone = &restaurantPhone.String
	}
	if poolID.Valid {
		o.PoolID = &poolID.String
	}
	if subtotal.Valid {
		o.Subtotal = &subtotal.Int64
	}
	if deliveryFee.Valid {
		o.DeliveryFee = &deliveryFee.Int64
	}
	if platformFee.Valid {
		o.PlatformFee = &platformFee.Int64
	}
	if totalCustomerPaid.Valid {
		o.TotalCustomerPaid = &totalCustomerPaid.Int64
	}
	if amountToCollect.Valid {
		o.AmountToCollect = &amountToCollect.Int64
	}
	return &o, nil
}

func (s *Store) OrderExists(ctx context.Context, orderID string) (bool, error) {
	var exists bool
	row := s.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM fetched_orders WHERE order_id=$1)`, orderID)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *Store) InsertOrder(ctx context.Context, o *models.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	_, err = s.Pool.Exec(ctx, `
		INSERT INTO fetched_orders (
			id, order_id, restaurant_owner_id, customer_name, customer_phone,
			restaurant_phone, items, total_amount, payment_status, order_status,
			pool_id, subtotal, delivery_fee, platform_fee, total_customer_paid,
			amount_to_collect, sent_for_delivery, fetched_at, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`,
		o.ID,
		o.OrderID,
		o.RestaurantOwnerID,
		o.CustomerName,
		o.CustomerPhone,
		o.RestaurantPhone,
		itemsJSON,
		o.TotalAmount,
		o.PaymentStatus,
		o.OrderStatus,
		o.PoolID,
		o.Subtotal,
		o.DeliveryFee,
		o.PlatformFee,
		o.TotalCustomerPaid,
		o.AmountToCollect,
		o.SentForDelivery,
		o.FetchedAt,
		o.CreatedAt,
	)
	return err
}

func (s *Store) GetOrderByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	row := s.Pool.QueryRow(ctx, `SELECT`+orderColumns+` FROM fetched_orders WHERE order_id=$1`, orderID)
	return scanOrder(row)
}

func (s *Store) listOrders(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ListActiveOrders returns orders not yet handed to delivery, newest first.
func (s *Store) ListActiveOrders(ctx context.Context, ownerID string) ([]*models.Order, error) {
	return s.listOrders(ctx, `
		SELECT`+orderColumns+`
		FROM fetched_orders
		WHERE restaurant_owner_id=$1 AND sent_for_delivery=false
		ORDER BY fetched_at DESC
	`, ownerID)
}

func (s *Store) ListOrdersForOwner(ctx context.Context, ownerID string) ([]*models.Order, error) {
	return s.listOrders(ctx, `
		SELECT`+orderColumns+`
		FROM fetched_orders
		WHERE restaurant_owner_id=$1
		ORDER BY created_at DESC
	`, ownerID)
}

// ListExpiredPending returns active orders with no recorded response whose
// fetched_at is older than cutoff, across all owners.
func (s *Store) ListExpiredPending(ctx context.Context, cutoff time.Time) ([]*models.Order, error) {
	return s.listOrders(ctx, `
		SELECT`+orderColumns+`
		FROM fetched_orders o
		WHERE o.sent_for_delivery=false
			AND o.fetched_at < $1
			AND NOT EXISTS (SELECT 1 FROM order_responses r WHERE r.order_id=o.order_id)
		ORDER BY o.fetched_at
	`, cutoff)
}

func (s *Store) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE fetched_orders SET order_status=$2 WHERE order_id=$1
	`, orderID, status)
	return err
}

// MarkOrdersSent flips sent_for_delivery on every active order for the owner.
func (s *Store) MarkOrdersSent(ctx context.Context, ownerID string) (int64, error) {
	res, err := s.Pool.Exec(ctx, `
		UPDATE fetched_orders
		SET sent_for_delivery=true
		WHERE restaurant_owner_id=$1 AND sent_for_delivery=false
	`, ownerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}
