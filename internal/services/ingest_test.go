package services

import (
	"context"
	"testing"
	"time"

	"orderrelay/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func newIngestService(m *memStore, n *memNotifier) *IngestService {
	return &IngestService{
		Store:     m,
		Directory: &OwnerDirectory{Store: m},
		Notifier:  n,
		Validate:  validator.New(validator.WithRequiredStructEnabled()),
		Log:       quietLogger(),
	}
}

func incomingOrder(orderID string, totalPaise int64) IncomingOrder {
	return IncomingOrder{
		OrderID:       orderID,
		RestaurantID:  "R1",
		CustomerName:  "Asha",
		CustomerPhone: "9876543210",
		TotalAmount:   totalPaise,
		PaymentStatus: "paid",
		Items: []IncomingItem{
			{MenuItemID: "m1", Name: "Masala Dosa", Quantity: 2, UnitPrice: totalPaise / 2, Subtotal: totalPaise},
		},
	}
}

func TestIngestBatchStoresAndNotifiesOnce(t *testing.T) {
	m := newMemStore()
	owner := seedOwner(m, "owner-1", "R1", "9000000001")
	owner.PushToken = strPtr("ExponentPushToken[T]")

	n := &memNotifier{}
	svc := newIngestService(m, n)

	result, err := svc.IngestBatch(context.Background(), []IncomingOrder{
		incomingOrder("o1", 15000),
		incomingOrder("o2", 5000),
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.Inserted)
	require.Equal(t, 0, result.Skipped)
	require.Equal(t, 0, result.Failed)

	stored, ok := m.orders["o1"]
	require.True(t, ok)
	require.Equal(t, models.OrderPending, stored.OrderStatus)
	require.NotNil(t, stored.RestaurantOwnerID)
	require.Equal(t, "owner-1", *stored.RestaurantOwnerID)

	// One coalesced push per owner, covering both orders.
	require.Len(t, n.calls, 1)
	require.Equal(t, []string{"ExponentPushToken[T]"}, n.calls[0].tokens)
	require.Equal(t, 2, n.calls[0].count)
	require.Equal(t, int64(20000), n.calls[0].total)
}

func TestIngestSkipsDuplicate(t *testing.T) {
	m := newMemStore()
	owner := seedOwner(m, "owner-1", "R1", "9000000001")
	owner.PushToken = strPtr("ExponentPushToken[T]")

	n := &memNotifier{}
	svc := newIngestService(m, n)

	_, err := svc.IngestBatch(context.Background(), []IncomingOrder{incomingOrder("o1", 15000)})
	require.NoError(t, err)

	result, err := svc.IngestBatch(context.Background(), []IncomingOrder{incomingOrder("o1", 15000)})
	require.NoError(t, err)
	require.Equal(t, 0, result.Inserted)
	require.Equal(t, 1, result.Skipped)
	require.Len(t, m.orders, 1)
	// No push for a batch that inserted nothing.
	require.Len(t, n.calls, 1)
}

func TestIngestStoresUnassignedWhenOwnerUnknown(t *testing.T) {
	m := newMemStore()
	n := &memNotifier{}
	svc := newIngestService(m, n)

	order := incomingOrder("o1", 15000)
	order.RestaurantID = "nope"
	order.RestaurantPhone = "0000000000"

	result, err := svc.IngestBatch(context.Background(), []IncomingOrder{order})
	require.NoError(t, err)
	require.Equal(t, 1, result.Inserted)

	stored := m.orders["o1"]
	require.Nil(t, stored.RestaurantOwnerID)
	require.Empty(t, n.calls)
}

func TestIngestRejectsInvalidItems(t *testing.T) {
	m := newMemStore()
	seedOwner(m, "owner-1", "R1", "9000000001")
	svc := newIngestService(m, &memNotifier{})

	order := incomingOrder("o1", 15000)
	order.Items = []IncomingItem{{Name: "No ID", Quantity: 1}}

	result, err := svc.IngestBatch(context.Background(), []IncomingOrder{order})
	require.NoError(t, err)
	require.Equal(t, 1, result.Failed)
	require.Equal(t, 0, result.Inserted)
	require.Empty(t, m.orders)

	_, err = svc.IngestOne(context.Background(), order)
	require.ErrorIs(t, err, ErrInvalidItem)
}

func TestIngestRejectsOrderMissingRequiredFields(t *testing.T) {
	m := newMemStore()
	seedOwner(m, "owner-1", "R1", "9000000001")
	svc := newIngestService(m, &memNotifier{})

	cases := []struct {
		name  string
		mutat func(*IncomingOrder)
	}{
		{"no order id", func(o *IncomingOrder) { o.OrderID = "" }},
		{"no customer name", func(o *IncomingOrder) { o.CustomerName = "" }},
		{"no customer phone", func(o *IncomingOrder) { o.CustomerPhone = "" }},
		{"no items", func(o *IncomingOrder) { o.Items = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := incomingOrder("o1", 15000)
			tc.mutat(&order)

			result, err := svc.IngestBatch(context.Background(), []IncomingOrder{order})
			require.NoError(t, err)
			require.Equal(t, 1, result.Failed)
			require.Equal(t, 0, result.Inserted)
			require.Empty(t, m.orders)

			_, err = svc.IngestOne(context.Background(), order)
			require.ErrorIs(t, err, ErrInvalidOrder)
		})
	}
}

func TestIngestBadOrderDoesNotPoisonBatch(t *testing.T) {
	m := newMemStore()
	seedOwner(m, "owner-1", "R1", "9000000001")
	svc := newIngestService(m, &memNotifier{})

	bad := incomingOrder("", 15000)
	good := incomingOrder("o2", 5000)

	result, err := svc.IngestBatch(context.Background(), []IncomingOrder{bad, good})
	require.NoError(t, err)
	require.Equal(t, 1, result.Failed)
	require.Equal(t, 1, result.Inserted)

	// The id-less order never reaches the store, so it cannot become a
	// dedup key that swallows later id-less orders.
	_, ok := m.orders[""]
	require.False(t, ok)
	_, ok = m.orders["o2"]
	require.True(t, ok)
}

func TestIngestPushFailureDoesNotFailBatch(t *testing.T) {
	m := newMemStore()
	owner := seedOwner(m, "owner-1", "R1", "9000000001")
	owner.PushToken = strPtr("ExponentPushToken[T]")

	svc := newIngestService(m, &memNotifier{fail: true})

	result, err := svc.IngestBatch(context.Background(), []IncomingOrder{incomingOrder("o1", 15000)})
	require.NoError(t, err)
	require.Equal(t, 1, result.Inserted)
	require.Len(t, m.orders, 1)
}

func TestIngestOneNotifiesSingleOrder(t *testing.T) {
	m := newMemStore()
	owner := seedOwner(m, "owner-1", "R1", "9000000001")
	owner.PushToken = strPtr("ExponentPushToken[T]")

	n := &memNotifier{}
	svc := newIngestService(m, n)

	inserted, err := svc.IngestOne(context.Background(), incomingOrder("o1", 15000))
	require.NoError(t, err)
	require.True(t, inserted)
	require.Len(t, n.calls, 1)
	require.Equal(t, 1, n.calls[0].count)
	require.Equal(t, int64(15000), n.calls[0].total)

	inserted, err = svc.IngestOne(context.Background(), incomingOrder("o1", 15000))
	require.NoError(t, err)
	require.False(t, inserted)
	require.Len(t, n.calls, 1)
}

func TestIngestKeepsProvidedCreatedAt(t *testing.T) {
	m := newMemStore()
	seedOwner(m, "owner-1", "R1", "9000000001")
	svc := newIngestService(m, &memNotifier{})

	created := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	order := incomingOrder("o1", 15000)
	order.CreatedAt = &created

	_, err := svc.IngestOne(context.Background(), order)
	require.NoError(t, err)
	require.Equal(t, created, m.orders["o1"].CreatedAt)
}
