package services

import (
	"context"
	"errors"
	"time"

	"orderrelay/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidDecision = errors.New("decision must be 'accepted' or 'rejected'")
	ErrOrderNotFound   = errors.New("order not found")
)

// LifecycleStore is the order/response slice of the management store.
type LifecycleStore interface {
	GetOrderByOrderID(ctx context.Context, orderID string) (*models.Order, error)
	ListActiveOrders(ctx context.Context, ownerID string) ([]*models.Order, error)
	ListOrdersForOwner(ctx context.Context, ownerID string) ([]*models.Order, error)
	ListExpiredPending(ctx context.Context, cutoff time.Time) ([]*models.Order, error)
	ListResponsesByOrderIDs(ctx context.Context, orderIDs []string) ([]*models.OrderResponse, error)
	UpsertResponse(ctx context.Context, r *models.OrderResponse) error
	InsertResponseIfAbsent(ctx context.Context, r *models.OrderResponse) (bool, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) error
	MarkOrdersSent(ctx context.Context, ownerID string) (int64, error)
}

// UpstreamMirror pushes decisions back to the production-orders store.
type UpstreamMirror interface {
	UpdateOrderStatus(ctx context.Context, orderID string, status string) error
}

// LifecycleService tracks per-order status: owner decisions, the auto-reject
// window, and the hand-off to delivery. The management store is the source
// of truth; mirroring to upstream is best-effort.
type LifecycleService struct {
	Store    LifecycleStore
	Upstream UpstreamMirror
	Window   time.Duration
	Log      *logrus.Logger
	Now      func() time.Time
}

func (s *LifecycleService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

type CumulativeItem struct {
	ItemName      string `json:"item_name"`
	TotalQuantity int    `json:"total_quantity"`
}

type IndividualOrder struct {
	OrderID       string             `json:"order_id"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	Items         []models.OrderItem `json:"items"`
	TotalAmount   int64              `json:"total_amount"`
	FetchedAt     time.Time          `json:"fetched_at"`
	OrderStatus   string             `json:"order_status"`
	Responded     bool               `json:"responded"`
}

type ActiveOrders struct {
	CumulativeItems []CumulativeItem  `json:"cumulative_orders"`
	Orders          []IndividualOrder `json:"individual_orders"`
}

// Decide records an owner's accept/reject for one order. A later call
// overwrites an earlier decision. The local write always commits; the
// upstream mirror may fail silently.
func (s *LifecycleService) Decide(ctx context.Context, ownerID, orderID, decision string) error {
	status := models.OrderStatus(decision)
	if status != models.OrderAccepted && status != models.OrderRejected {
		return ErrInvalidDecision
	}

	order, err := s.Store.GetOrderByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrderNotFound
		}
		return err
	}
	if order.RestaurantOwnerID == nil || *order.RestaurantOwnerID != ownerID {
		return ErrOrderNotFound
	}

	resp := &models.OrderResponse{
		ID:                uuid.NewString(),
		OrderID:           orderID,
		RestaurantOwnerID: ownerID,
		OverallStatus:     status,
		SyncedToUpstream:  true,
		RespondedAt:       s.now(),
	}
	if err := s.Store.UpsertResponse(ctx, resp); err != nil {
		return err
	}
	if err := s.Store.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return err
	}
	s.mirrorStatus(ctx, orderID, status)
	return nil
}

// ListActive returns the owner's not-yet-sent orders plus a cross-order item
// aggregation for kitchen prep. Reading has a side effect: any undecided
// order older than the window is auto-rejected first.
func (s *LifecycleService) ListActive(ctx context.Context, ownerID string) (*ActiveOrders, error) {
	orders, err := s.Store.ListActiveOrders(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	responses, err := s.responsesFor(ctx, orders)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for _, order := range orders {
		if _, ok := responses[order.OrderID]; ok {
			continue
		}
		if now.Sub(order.FetchedAt) <= s.Window {
			continue
		}
		if rejected := s.autoReject(ctx, order); rejected {
			responses[order.OrderID] = &models.OrderResponse{
				OrderID:           order.OrderID,
				RestaurantOwnerID: ownerID,
				OverallStatus:     models.OrderAutoRejected,
			}
		}
	}

	result := &ActiveOrders{
		CumulativeItems: []CumulativeItem{},
		Orders:          make([]IndividualOrder, 0, len(orders)),
	}
	quantities := make(map[string]int)
	var names []string

	for _, order := range orders {
		for _, item := range order.Items {
			if _, ok := quantities[item.Name]; !ok {
				names = append(names, item.Name)
			}
			quantities[item.Name] += item.Quantity
		}

		status := string(order.OrderStatus)
		responded := false
		if resp, ok := responses[order.OrderID]; ok {
			status = string(resp.OverallStatus)
			responded = true
		}
		result.Orders = append(result.Orders, IndividualOrder{
			OrderID:       order.OrderID,
			CustomerName:  order.CustomerName,
			CustomerPhone: order.CustomerPhone,
			Items:         order.Items,
			TotalAmount:   order.TotalAmount,
			FetchedAt:     order.FetchedAt,
			OrderStatus:   status,
			Responded:     responded,
		})
	}

	for _, name := range names {
		result.CumulativeItems = append(result.CumulativeItems, CumulativeItem{
			ItemName:      name,
			TotalQuantity: quantities[name],
		})
	}
	return result, nil
}

// AutoRejectPending rejects every undecided active order for the owner,
// regardless of age. Used as an explicit close-out action.
func (s *LifecycleService) AutoRejectPending(ctx context.Context, ownerID string) (int, error) {
	orders, err := s.Store.ListActiveOrders(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	responses, err := s.responsesFor(ctx, orders)
	if err != nil {
		return 0, err
	}

	rejected := 0
	for _, order := range orders {
		if _, ok := responses[order.OrderID]; ok {
			continue
		}
		if s.autoReject(ctx, order) {
			rejected++
		}
	}
	return rejected, nil
}

// MarkAllSent finalizes any undecided order as auto-rejected, then flips
// sent_for_delivery on every active order. An order can never be handed to
// delivery while still pending a decision.
func (s *LifecycleService) MarkAllSent(ctx context.Context, ownerID string) (int64, error) {
	if _, err := s.AutoRejectPending(ctx, ownerID); err != nil {
		return 0, err
	}
	return s.Store.MarkOrdersSent(ctx, ownerID)
}

// SweepExpired applies the auto-reject window across all owners. Shares the
// conditional-insert path with the lazy read check, so the two never race.
func (s *LifecycleService) SweepExpired(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.Window)
	orders, err := s.Store.ListExpiredPending(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	rejected := 0
	for _, order := range orders {
		if s.autoReject(ctx, order) {
			rejected++
		}
	}
	return rejected, nil
}

type HistoryOrder struct {
	OrderID       string             `json:"order_id"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	Items         []models.OrderItem `json:"items"`
	TotalAmount   int64              `json:"total_amount"`
	PaymentStatus string             `json:"payment_status"`
	OrderStatus   string             `json:"order_status"`
	CreatedAt     time.Time          `json:"created_at"`
	Response      *HistoryResponse   `json:"response,omitempty"`
}

type HistoryResponse struct {
	OverallStatus string    `json:"overall_status"`
	RespondedAt   time.Time `json:"responded_at"`
}

// History returns every stored order for the owner, sent or not, with the
// recorded decision attached where one exists.
func (s *LifecycleService) History(ctx context.Context, ownerID string) ([]HistoryOrder, error) {
	orders, err := s.Store.ListOrdersForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	responses, err := s.responsesFor(ctx, orders)
	if err != nil {
		return nil, err
	}

	history := make([]HistoryOrder, 0, len(orders))
	for _, order := range orders {
		h := HistoryOrder{
			OrderID:       order.OrderID,
			CustomerName:  order.CustomerName,
			CustomerPhone: order.CustomerPhone,
			Items:         order.Items,
			TotalAmount:   order.TotalAmount,
			PaymentStatus: order.PaymentStatus,
			OrderStatus:   string(order.OrderStatus),
			CreatedAt:     order.CreatedAt,
		}
		if resp, ok := responses[order.OrderID]; ok {
			h.Response = &HistoryResponse{
				OverallStatus: string(resp.OverallStatus),
				RespondedAt:   resp.RespondedAt,
			}
		}
		history = append(history, h)
	}
	return history, nil
}

func (s *LifecycleService) responsesFor(ctx context.Context, orders []*models.Order) (map[string]*models.OrderResponse, error) {
	ids := make([]string, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.OrderID)
	}
	list, err := s.Store.ListResponsesByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	responses := make(map[string]*models.OrderResponse, len(list))
	for _, r := range list {
		responses[r.OrderID] = r
	}
	return responses, nil
}

// autoReject synthesizes an auto_rejected decision for an undecided order.
// The insert is conditional: if a real decision landed in the meantime, it
// stands. Returns whether the synthesized decision was recorded.
func (s *LifecycleService) autoReject(ctx context.Context, order *models.Order) bool {
	ownerID := ""
	if order.RestaurantOwnerID != nil {
		ownerID = *order.RestaurantOwnerID
	}
	resp := &models.OrderResponse{
		ID:                uuid.NewString(),
		OrderID:           order.OrderID,
		RestaurantOwnerID: ownerID,
		OverallStatus:     models.OrderAutoRejected,
		SyncedToUpstream:  true,
		RespondedAt:       s.now(),
	}
	inserted, err := s.Store.InsertResponseIfAbsent(ctx, resp)
	if err != nil {
		s.Log.WithError(err).WithField("order_id", order.OrderID).Error("auto-reject insert failed")
		return false
	}
	if !inserted {
		return false
	}
	if err := s.Store.UpdateOrderStatus(ctx, order.OrderID, models.OrderAutoRejected); err != nil {
		s.Log.WithError(err).WithField("order_id", order.OrderID).Error("auto-reject status update failed")
	}
	s.mirrorStatus(ctx, order.OrderID, models.OrderAutoRejected)
	s.Log.WithField("order_id", order.OrderID).Info("order auto-rejected")
	return true
}

func (s *LifecycleService) mirrorStatus(ctx context.Context, orderID string, status models.OrderStatus) {
	if err := s.Upstream.UpdateOrderStatus(ctx, orderID, string(status)); err != nil {
		s.Log.WithError(err).WithFields(logrus.Fields{
			"order_id": orderID,
			"status":   status,
		}).Error("upstream status mirror failed")
	}
}
