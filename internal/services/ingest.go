package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderrelay/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidOrder = errors.New("order missing required fields")
	ErrInvalidItem  = errors.New("order item missing required fields")
)

// IngestStore is the order-insertion slice of the management store.
type IngestStore interface {
	OrderExists(ctx context.Context, orderID string) (bool, error)
	InsertOrder(ctx context.Context, o *models.Order) error
}

// Notifier delivers the coalesced new-orders push for one owner.
type Notifier interface {
	SendNewOrders(ctx context.Context, tokens []string, ordersCount int, totalPaise int64, restaurantPhone string) error
}

// IncomingItem is one line item of a webhook order. menu_item_id, name and
// quantity are required; prices default to zero.
type IncomingItem struct {
	MenuItemID     string  `json:"menu_item_id"`
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	UnitPrice      int64   `json:"unit_price"`
	Customizations *string `json:"customizations,omitempty"`
	Subtotal       int64   `json:"subtotal"`
}

// IncomingOrder is the webhook wire format. Money fields are integer paise.
type IncomingOrder struct {
	OrderID           string         `json:"order_id" validate:"required"`
	RestaurantID      string         `json:"restaurant_id"`
	RestaurantPhone   string         `json:"restaurant_phone"`
	CustomerName      string         `json:"customer_name" validate:"required"`
	CustomerPhone     string         `json:"customer_phone" validate:"required"`
	Items             []IncomingItem `json:"items" validate:"required,min=1"`
	TotalAmount       int64          `json:"total_amount"`
	PaymentStatus     string         `json:"payment_status"`
	OrderStatus       string         `json:"order_status"`
	CreatedAt         *time.Time     `json:"created_at"`
	PoolID            *string        `json:"pool_id"`
	Subtotal          *int64         `json:"subtotal"`
	DeliveryFee       *int64         `json:"delivery_fee"`
	PlatformFee       *int64         `json:"platform_fee"`
	TotalCustomerPaid *int64         `json:"total_customer_paid"`
	AmountToCollect   *int64         `json:"amount_to_collect"`
}

type IngestResult struct {
	Inserted int
	Skipped  int
	Failed   int
}

type IngestService struct {
	Store     IngestStore
	Directory *OwnerDirectory
	Notifier  Notifier
	Validate  *validator.Validate
	Log       *logrus.Logger
	Now       func() time.Time
}

func (s *IngestService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// ownerBatch accumulates one owner's orders within a single webhook call so
// a batch produces at most one push per owner.
type ownerBatch struct {
	pushToken       string
	restaurantPhone string
	ordersCount     int
	totalPaise      int64
}

// IngestBatch stores each order once (duplicates skip, never merge), then
// fires one best-effort notification per owner.
func (s *IngestService) IngestBatch(ctx context.Context, orders []IncomingOrder) (IngestResult, error) {
	var result IngestResult
	batches := make(map[string]*ownerBatch)

	for _, order := range orders {
		inserted, owner, err := s.ingestOne(ctx, order)
		if err != nil {
			result.Failed++
			s.Log.WithError(err).WithField("order_id", order.OrderID).Error("order ingestion failed")
			continue
		}
		if !inserted {
			result.Skipped++
			continue
		}
		result.Inserted++

		if owner == nil || owner.PushToken == nil || *owner.PushToken == "" {
			continue
		}
		b, ok := batches[owner.ID]
		if !ok {
			phone := order.RestaurantPhone
			if phone == "" {
				phone = owner.RestaurantPhone
			}
			b = &ownerBatch{pushToken: *owner.PushToken, restaurantPhone: phone}
			batches[owner.ID] = b
		}
		b.ordersCount++
		b.totalPaise += order.TotalAmount
	}

	for ownerID, b := range batches {
		err := s.Notifier.SendNewOrders(ctx, []string{b.pushToken}, b.ordersCount, b.totalPaise, b.restaurantPhone)
		if err != nil {
			s.Log.WithError(err).WithField("owner_id", ownerID).Error("push notification failed")
			continue
		}
		s.Log.WithFields(logrus.Fields{
			"owner_id":     ownerID,
			"orders_count": b.ordersCount,
			"total_amount": b.totalPaise,
		}).Info("push notification sent")
	}

	s.Log.WithFields(logrus.Fields{
		"total":    len(orders),
		"inserted": result.Inserted,
		"skipped":  result.Skipped,
		"failed":   result.Failed,
	}).Info("webhook batch processed")
	return result, nil
}

// IngestOne handles the single-order webhook variant. Returns whether a row
// was inserted (false means duplicate).
func (s *IngestService) IngestOne(ctx context.Context, order IncomingOrder) (bool, error) {
	inserted, owner, err := s.ingestOne(ctx, order)
	if err != nil {
		return false, err
	}
	if inserted && owner != nil && owner.PushToken != nil && *owner.PushToken != "" {
		phone := order.RestaurantPhone
		if phone == "" {
			phone = owner.RestaurantPhone
		}
		if nerr := s.Notifier.SendNewOrders(ctx, []string{*owner.PushToken}, 1, order.TotalAmount, phone); nerr != nil {
			s.Log.WithError(nerr).WithField("order_id", order.OrderID).Error("push notification failed")
		}
	}
	return inserted, nil
}

func (s *IngestService) ingestOne(ctx context.Context, order IncomingOrder) (bool, *models.RestaurantOwner, error) {
	// One bad order fails alone; the rest of the batch proceeds.
	if err := s.Validate.Struct(order); err != nil {
		return false, nil, fmt.Errorf("%w: %s", ErrInvalidOrder, err)
	}
	items, err := validateItems(order.Items)
	if err != nil {
		return false, nil, err
	}

	exists, err := s.Store.OrderExists(ctx, order.OrderID)
	if err != nil {
		return false, nil, err
	}
	if exists {
		s.Log.WithField("order_id", order.OrderID).Info("skipping duplicate order")
		return false, nil, nil
	}

	owner, err := s.Directory.Resolve(ctx, order.RestaurantID, order.RestaurantPhone)
	if err != nil {
		return false, nil, err
	}
	if owner == nil {
		s.Log.WithFields(logrus.Fields{
			"order_id":         order.OrderID,
			"restaurant_uid":   order.RestaurantID,
			"restaurant_phone": order.RestaurantPhone,
		}).Warn("owner lookup failed, storing order unassigned")
	}

	now := s.now()
	createdAt := now
	if order.CreatedAt != nil {
		createdAt = order.CreatedAt.UTC()
	}
	status := models.OrderStatus(order.OrderStatus)
	if status == "" {
		status = models.OrderPending
	}

	row := &models.Order{
		ID:                uuid.NewString(),
		OrderID:           order.OrderID,
		CustomerName:      order.CustomerName,
		CustomerPhone:     order.CustomerPhone,
		Items:             items,
		TotalAmount:       order.TotalAmount,
		PaymentStatus:     order.PaymentStatus,
		OrderStatus:       status,
		PoolID:            order.PoolID,
		Subtotal:          order.Subtotal,
		DeliveryFee:       order.DeliveryFee,
		PlatformFee:       order.PlatformFee,
		TotalCustomerPaid: order.TotalCustomerPaid,
		AmountToCollect:   order.AmountToCollect,
		FetchedAt:         now,
		CreatedAt:         createdAt,
	}
	if owner != nil {
		row.RestaurantOwnerID = &owner.ID
	}
	if order.RestaurantPhone != "" {
		row.RestaurantPhone = &order.RestaurantPhone
	}

	if err := s.Store.InsertOrder(ctx, row); err != nil {
		return false, nil, err
	}
	s.Log.WithFields(logrus.Fields{
		"order_id":     order.OrderID,
		"owner_id":     stringOrEmpty(row.RestaurantOwnerID),
		"total_amount": order.TotalAmount,
	}).Info("order stored")
	return true, owner, nil
}

func validateItems(items []IncomingItem) ([]models.OrderItem, error) {
	out := make([]models.OrderItem, 0, len(items))
	for i, item := range items {
		if item.MenuItemID == "" || item.Name == "" || item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %d", ErrInvalidItem, i)
		}
		out = append(out, models.OrderItem{
			MenuItemID:     item.MenuItemID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			Customizations: item.Customizations,
			Subtotal:       item.Subtotal,
		})
	}
	return out, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
