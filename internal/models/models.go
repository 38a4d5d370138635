package models

import "time"

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type OrderStatus string

const (
	OrderPending      OrderStatus = "pending"
	OrderAccepted     OrderStatus = "accepted"
	OrderRejected     OrderStatus = "rejected"
	OrderAutoRejected OrderStatus = "auto_rejected"
)

const (
	UserTypeOwner = "restaurant_owner"
	UserTypeAdmin = "admin"
)

type RestaurantOwner struct {
	ID                 string
	Email              string
	PasswordHash       string
	FullName           string
	Phone              string
	RestaurantName     string
	RestaurantAddress  string
	RestaurantPhone    string
	RestaurantEmail    *string
	RestaurantUID      *string
	ApprovalStatus     ApprovalStatus
	PushToken          *string
	PushTokenUpdatedAt *time.Time
	ApprovedAt         *time.Time
	ApprovedBy         *string
	CreatedAt          time.Time
}

type AdminUser struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	LastLogin    *time.Time
	CreatedAt    time.Time
}

type OrderItem struct {
	MenuItemID     string  `json:"menu_item_id"`
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	UnitPrice      int64   `json:"unit_price"`
	Customizations *string `json:"customizations,omitempty"`
	Subtotal       int64   `json:"subtotal"`
}

// Order is an externally sourced order mirrored into the management store.
// All money fields are integer paise.
type Order struct {
	ID                string
	OrderID           string
	RestaurantOwnerID *string
	CustomerName      string
	CustomerPhone     string
	RestaurantPhone   *string
	Items             []OrderItem
	TotalAmount       int64
	PaymentStatus     string
	OrderStatus       OrderStatus
	PoolID            *string
	Subtotal          *int64
	DeliveryFee       *int64
	PlatformFee       *int64
	TotalCustomerPaid *int64
	AmountToCollect   *int64
	SentForDelivery   bool
	FetchedAt         time.Time
	CreatedAt         time.Time
}

// OrderResponse records the owner's (or the system's synthesized) decision.
// At most one row exists per order id.
type OrderResponse struct {
	ID                string
	OrderID           string
	RestaurantOwnerID string
	OverallStatus     OrderStatus
	SyncedToUpstream  bool
	RespondedAt       time.Time
}

// EarningsRecord holds running totals per restaurant. Money fields are paise.
type EarningsRecord struct {
	RestaurantID          string
	RestaurantName        string
	RestaurantPhone       *string
	RestaurantEmail       *string
	TotalLifetimeEarnings int64
	TotalCompletedOrders  int
	CommissionRate        float64
	TotalCommissionPaid   int64
	HasBankDetails        bool
	BankAccountNumber     *string
	BankIFSCCode          *string
	BankAccountHolderName *string
	UPIID                 *string
	DataSentBy            *string
	LastSyncedAt          time.Time
	SyncStatus            string
}

// Restaurant is a row in the upstream store's restaurant catalog.
type Restaurant struct {
	ID      string
	Name    string
	Address *string
	Phone   *string
}
