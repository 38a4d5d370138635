package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"orderrelay/internal/models"

	"github.com/jackc/pgx/v5"
)

// EarningsStore is the earnings slice of the management store.
type EarningsStore interface {
	GetEarningsRecord(ctx context.Context, restaurantID string) (*models.EarningsRecord, error)
	ListOrdersForOwner(ctx context.Context, ownerID string) ([]*models.Order, error)
}

// EarningsService derives commission splits and rollups from stored orders.
// Stored money is integer paise; rupees appear only in API responses.
type EarningsService struct {
	Store                 EarningsStore
	DefaultCommissionRate float64
	Now                   func() time.Time
}

func (s *EarningsService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

type EarningsSummary struct {
	RestaurantID          string    `json:"restaurant_id"`
	RestaurantName        string    `json:"restaurant_name"`
	RestaurantPhone       *string   `json:"restaurant_phone"`
	RestaurantEmail       *string   `json:"restaurant_email"`
	TotalLifetimeEarnings float64   `json:"total_lifetime_earnings"`
	TotalCompletedOrders  int       `json:"total_completed_orders"`
	CommissionRate        float64   `json:"commission_rate"`
	TotalCommissionPaid   float64   `json:"total_commission_paid"`
	HasBankDetails        bool      `json:"has_bank_details"`
	BankAccountNumber     *string   `json:"bank_account_number"`
	BankIFSCCode          *string   `json:"bank_ifsc_code"`
	BankAccountHolderName *string   `json:"bank_account_holder_name"`
	UPIID                 *string   `json:"upi_id"`
	LastSyncedAt          time.Time `json:"last_synced_at"`
	DataSentBy            *string   `json:"data_sent_by"`
	SyncStatus            string    `json:"sync_status"`
}

// Summary reads the earnings record for the owner. An owner with no record
// yet gets a zeroed summary with the default commission rate, not an error.
func (s *EarningsService) Summary(ctx context.Context, owner *models.RestaurantOwner) (*EarningsSummary, error) {
	record, err := s.Store.GetEarningsRecord(ctx, owner.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &EarningsSummary{
				RestaurantID:    owner.ID,
				RestaurantName:  owner.RestaurantName,
				RestaurantPhone: &owner.RestaurantPhone,
				RestaurantEmail: owner.RestaurantEmail,
				CommissionRate:  s.DefaultCommissionRate,
				LastSyncedAt:    s.now(),
				SyncStatus:      "pending",
			}, nil
		}
		return nil, err
	}

	return &EarningsSummary{
		RestaurantID:          record.RestaurantID,
		RestaurantName:        record.RestaurantName,
		RestaurantPhone:       record.RestaurantPhone,
		RestaurantEmail:       record.RestaurantEmail,
		TotalLifetimeEarnings: paiseToRupees(record.TotalLifetimeEarnings),
		TotalCompletedOrders:  record.TotalCompletedOrders,
		CommissionRate:        record.CommissionRate,
		TotalCommissionPaid:   paiseToRupees(record.TotalCommissionPaid),
		HasBankDetails:        record.HasBankDetails,
		BankAccountNumber:     record.BankAccountNumber,
		BankIFSCCode:          record.BankIFSCCode,
		BankAccountHolderName: record.BankAccountHolderName,
		UPIID:                 record.UPIID,
		LastSyncedAt:          record.LastSyncedAt,
		DataSentBy:            record.DataSentBy,
		SyncStatus:            record.SyncStatus,
	}, nil
}

type Transaction struct {
	ID                 string     `json:"id"`
	TransactionID      string     `json:"transaction_id"`
	RestaurantID       string     `json:"restaurant_id"`
	OrderID            string     `json:"order_id"`
	OrderDate          time.Time  `json:"order_date"`
	CustomerName       string     `json:"customer_name"`
	CustomerPhone      string     `json:"customer_phone"`
	OrderTotal         float64    `json:"order_total"`
	PlatformCommission float64    `json:"platform_commission"`
	DeliveryFee        float64    `json:"delivery_fee"`
	NetAmount          float64    `json:"net_amount"`
	IsPaid             bool       `json:"is_paid"`
	PaidAt             *time.Time `json:"paid_at"`
	SyncedAt           time.Time  `json:"synced_at"`
}

type PendingEarnings struct {
	PendingAmount float64 `json:"pending_amount"`
	PendingOrders int     `json:"pending_orders"`
}

type TransactionsPage struct {
	Transactions    []Transaction   `json:"transactions"`
	TotalCount      int             `json:"total_count"`
	PendingEarnings PendingEarnings `json:"pending_earnings"`
}

// Transactions derives the owner's transaction list from stored orders.
// is_paid is always false: payout settlement is not wired in yet, and the
// flag is a placeholder until it is.
func (s *EarningsService) Transactions(ctx context.Context, ownerID string, limit, offset int, isPaid *bool) (*TransactionsPage, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	orders, err := s.Store.ListOrdersForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	rate, err := s.commissionRate(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	all := make([]Transaction, 0, len(orders))
	pending := PendingEarnings{}
	for _, order := range orders {
		txn := s.deriveTransaction(order, ownerID, rate)
		all = append(all, txn)
		if !txn.IsPaid {
			pending.PendingAmount += txn.NetAmount
			pending.PendingOrders++
		}
	}

	// pending_earnings summarizes every unpaid transaction for the account,
	// independent of the page filter below. Nothing is ever paid yet, so a
	// true filter yields an empty page with the full pending totals.
	if isPaid != nil {
		filtered := all[:0]
		for _, txn := range all {
			if txn.IsPaid == *isPaid {
				filtered = append(filtered, txn)
			}
		}
		all = filtered
	}

	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return &TransactionsPage{
		Transactions:    all[offset:end],
		TotalCount:      total,
		PendingEarnings: pending,
	}, nil
}

type MonthRollup struct {
	Month           string  `json:"month"`
	TotalOrders     int     `json:"total_orders"`
	TotalSales      float64 `json:"total_sales"`
	TotalCommission float64 `json:"total_commission"`
	NetEarnings     float64 `json:"net_earnings"`
}

// Monthly groups the owner's orders from the current half-year window by
// calendar month, most recent first.
func (s *EarningsService) Monthly(ctx context.Context, ownerID string) ([]MonthRollup, error) {
	orders, err := s.Store.ListOrdersForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	rate, err := s.commissionRate(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	windowStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -5, 0)

	byMonth := make(map[string]*MonthRollup)
	for _, order := range orders {
		if order.CreatedAt.Before(windowStart) {
			continue
		}
		key := order.CreatedAt.UTC().Format("2006-01")
		rollup, ok := byMonth[key]
		if !ok {
			rollup = &MonthRollup{Month: key}
			byMonth[key] = rollup
		}
		total := paiseToRupees(order.TotalAmount)
		commission := total * rate
		rollup.TotalOrders++
		rollup.TotalSales += total
		rollup.TotalCommission += commission
		rollup.NetEarnings += total - commission
	}

	months := make([]MonthRollup, 0, len(byMonth))
	for _, rollup := range byMonth {
		months = append(months, *rollup)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month > months[j].Month })
	return months, nil
}

func (s *EarningsService) commissionRate(ctx context.Context, ownerID string) (float64, error) {
	record, err := s.Store.GetEarningsRecord(ctx, ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.DefaultCommissionRate, nil
		}
		return 0, err
	}
	return record.CommissionRate, nil
}

func (s *EarningsService) deriveTransaction(order *models.Order, ownerID string, rate float64) Transaction {
	total := paiseToRupees(order.TotalAmount)
	commission := total * rate
	deliveryFee := 0.0
	if order.DeliveryFee != nil {
		deliveryFee = paiseToRupees(*order.DeliveryFee)
	}
	return Transaction{
		ID:                 order.ID,
		TransactionID:      "txn_" + order.OrderID,
		RestaurantID:       ownerID,
		OrderID:            order.OrderID,
		OrderDate:          order.CreatedAt,
		CustomerName:       order.CustomerName,
		CustomerPhone:      order.CustomerPhone,
		OrderTotal:         total,
		PlatformCommission: commission,
		DeliveryFee:        deliveryFee,
		NetAmount:          total - commission,
		IsPaid:             false,
		SyncedAt:           order.FetchedAt,
	}
}

func paiseToRupees(paise int64) float64 {
	return float64(paise) / 100
}
