package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"orderrelay/internal/models"
	"orderrelay/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

// memStore is an in-memory stand-in for the management store. Lookups miss
// with pgx.ErrNoRows, matching the real store.
type memStore struct {
	owners    map[string]*models.RestaurantOwner
	admins    map[string]*models.AdminUser
	orders    map[string]*models.Order
	responses map[string]*models.OrderResponse
	earnings  map[string]*models.EarningsRecord
}

func newMemStore() *memStore {
	return &memStore{
		owners:    make(map[string]*models.RestaurantOwner),
		admins:    make(map[string]*models.AdminUser),
		orders:    make(map[string]*models.Order),
		responses: make(map[string]*models.OrderResponse),
		earnings:  make(map[string]*models.EarningsRecord),
	}
}

func (m *memStore) GetOwnerByID(_ context.Context, id string) (*models.RestaurantOwner, error) {
	if o, ok := m.owners[id]; ok {
		return o, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memStore) GetOwnerByEmail(_ context.Context, email string) (*models.RestaurantOwner, error) {
	for _, o := range m.owners {
		if o.Email == email {
			return o, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memStore) GetOwnerByRestaurantUID(_ context.Context, uid string) (*models.RestaurantOwner, error) {
	for _, o := range m.owners {
		if o.RestaurantUID != nil && *o.RestaurantUID == uid {
			return o, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memStore) GetOwnerByRestaurantPhone(_ context.Context, phone string) (*models.RestaurantOwner, error) {
	for _, o := range m.owners {
		if o.RestaurantPhone == phone {
			return o, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memStore) InsertOwner(_ context.Context, o *models.RestaurantOwner) error {
	m.owners[o.ID] = o
	return nil
}

func (m *memStore) ApproveOwner(_ context.Context, id, restaurantUID, approvedBy string) (int64, error) {
	o, ok := m.owners[id]
	if !ok {
		return 0, nil
	}
	now := time.Now().UTC()
	o.ApprovalStatus = models.ApprovalApproved
	o.RestaurantUID = &restaurantUID
	o.ApprovedAt = &now
	o.ApprovedBy = &approvedBy
	return 1, nil
}

func (m *memStore) RejectOwner(_ context.Context, id string) (int64, error) {
	o, ok := m.owners[id]
	if !ok {
		return 0, nil
	}
	o.ApprovalStatus = models.ApprovalRejected
	return 1, nil
}

func (m *memStore) SetOwnerRestaurantUID(_ context.Context, id, restaurantUID string) error {
	o, ok := m.owners[id]
	if !ok {
		return pgx.ErrNoRows
	}
	o.RestaurantUID = &restaurantUID
	return nil
}

func (m *memStore) SetOwnerPushToken(_ context.Context, id, token string) error {
	o, ok := m.owners[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now().UTC()
	o.PushToken = &token
	o.PushTokenUpdatedAt = &now
	return nil
}

func (m *memStore) UpdateOwnerProfile(_ context.Context, id string, p store.OwnerProfileUpdate) error {
	o, ok := m.owners[id]
	if !ok {
		return pgx.ErrNoRows
	}
	o.FullName = p.FullName
	o.Phone = p.Phone
	o.RestaurantName = p.RestaurantName
	o.RestaurantAddress = p.RestaurantAddress
	o.RestaurantPhone = p.RestaurantPhone
	o.RestaurantEmail = p.RestaurantEmail
	return nil
}

func (m *memStore) ListOwners(_ context.Context, status *models.ApprovalStatus) ([]*models.RestaurantOwner, error) {
	var out []*models.RestaurantOwner
	for _, o := range m.owners {
		if status != nil && o.ApprovalStatus != *status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) GetAdminByID(_ context.Context, id string) (*models.AdminUser, error) {
	if a, ok := m.admins[id]; ok {
		return a, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memStore) GetAdminByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	for _, a := range m.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memStore) TouchAdminLogin(_ context.Context, id string) error {
	a, ok := m.admins[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now().UTC()
	a.LastLogin = &now
	return nil
}

func (m *memStore) OrderExists(_ context.Context, orderID string) (bool, error) {
	_, ok := m.orders[orderID]
	return ok, nil
}

func (m *memStore) InsertOrder(_ context.Context, o *models.Order) error {
	if _, ok := m.orders[o.OrderID]; ok {
		return errors.New("duplicate order_id")
	}
	m.orders[o.OrderID] = o
	return nil
}

func (m *memStore) GetOrderByOrderID(_ context.Context, orderID string) (*models.Order, error) {
	if o, ok := m.orders[orderID]; ok {
		return o, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memStore) ListActiveOrders(_ context.Context, ownerID string) ([]*models.Order, error) {
	var out []*models.Order
	for _, o := range m.orders {
		if o.RestaurantOwnerID != nil && *o.RestaurantOwnerID == ownerID && !o.SentForDelivery {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FetchedAt.After(out[j].FetchedAt) })
	return out, nil
}

func (m *memStore) ListOrdersForOwner(_ context.Context, ownerID string) ([]*models.Order, error) {
	var out []*models.Order
	for _, o := range m.orders {
		if o.RestaurantOwnerID != nil && *o.RestaurantOwnerID == ownerID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) ListExpiredPending(_ context.Context, cutoff time.Time) ([]*models.Order, error) {
	var out []*models.Order
	for _, o := range m.orders {
		if o.SentForDelivery || !o.FetchedAt.Before(cutoff) {
			continue
		}
		if _, ok := m.responses[o.OrderID]; ok {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FetchedAt.Before(out[j].FetchedAt) })
	return out, nil
}

func (m *memStore) UpdateOrderStatus(_ context.Context, orderID string, status models.OrderStatus) error {
	o, ok := m.orders[orderID]
	if !ok {
		return pgx.ErrNoRows
	}
	o.OrderStatus = status
	return nil
}

func (m *memStore) MarkOrdersSent(_ context.Context, ownerID string) (int64, error) {
	var n int64
	for _, o := range m.orders {
		if o.RestaurantOwnerID != nil && *o.RestaurantOwnerID == ownerID && !o.SentForDelivery {
			o.SentForDelivery = true
			n++
		}
	}
	return n, nil
}

func (m *memStore) UpsertResponse(_ context.Context, r *models.OrderResponse) error {
	m.responses[r.OrderID] = r
	return nil
}

func (m *memStore) InsertResponseIfAbsent(_ context.Context, r *models.OrderResponse) (bool, error) {
	if _, ok := m.responses[r.OrderID]; ok {
		return false, nil
	}
	m.responses[r.OrderID] = r
	return true, nil
}

func (m *memStore) GetResponseByOrderID(_ context.Context, orderID string) (*models.OrderResponse, error) {
	if r, ok := m.responses[orderID]; ok {
		return r, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memStore) ListResponsesByOrderIDs(_ context.Context, orderIDs []string) ([]*models.OrderResponse, error) {
	var out []*models.OrderResponse
	for _, id := range orderIDs {
		if r, ok := m.responses[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) GetEarningsRecord(_ context.Context, restaurantID string) (*models.EarningsRecord, error) {
	if e, ok := m.earnings[restaurantID]; ok {
		return e, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memStore) UpsertEarningsRecord(_ context.Context, e *models.EarningsRecord) error {
	m.earnings[e.RestaurantID] = e
	return nil
}

func (m *memStore) UpdateBankDetails(_ context.Context, restaurantID string, u store.BankDetailsUpdate) error {
	e, ok := m.earnings[restaurantID]
	if !ok {
		return pgx.ErrNoRows
	}
	e.BankAccountNumber = u.BankAccountNumber
	e.BankIFSCCode = u.BankIFSCCode
	e.BankAccountHolderName = u.BankAccountHolderName
	e.UPIID = u.UPIID
	e.HasBankDetails = u.HasAny()
	return nil
}

type memUpstream struct {
	statuses map[string]string
	fail     bool
}

func newMemUpstream() *memUpstream {
	return &memUpstream{statuses: make(map[string]string)}
}

func (u *memUpstream) UpdateOrderStatus(_ context.Context, orderID, status string) error {
	if u.fail {
		return errors.New("upstream unavailable")
	}
	u.statuses[orderID] = status
	return nil
}

type notifyCall struct {
	tokens []string
	count  int
	total  int64
	phone  string
}

type memNotifier struct {
	calls []notifyCall
	fail  bool
}

func (n *memNotifier) SendNewOrders(_ context.Context, tokens []string, ordersCount int, totalPaise int64, restaurantPhone string) error {
	if n.fail {
		return errors.New("push delivery failed")
	}
	n.calls = append(n.calls, notifyCall{tokens: tokens, count: ordersCount, total: totalPaise, phone: restaurantPhone})
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func strPtr(s string) *string { return &s }
