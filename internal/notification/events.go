package notification

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated  = "ORDER_CREATED"
	EventOrderApproved = "ORDER_APPROVED"

	EventWarrantyCreated       = "WARRANTY_CREATED"
	EventWarrantyClaimFiled    = "WARRANTY_CLAIM_FILED"
	EventWarrantyClaimApproved = "WARRANTY_CLAIM_APPROVED"
	EventWarrantyClaimRejected = "WARRANTY_CLAIM_REJECTED"
	EventWarrantyExpiring      = "WARRANTY_EXPIRING"
	EventWarrantyExpired       = "WARRANTY_EXPIRED"
)

// OrderStatusEvent is the tag published when an order enters status.
func OrderStatusEvent(status string) string {
	return "ORDER_" + status
}

// OrderEvent is a point-in-time copy of an order taken when the event fires.
type OrderEvent struct {
	OrderID       int64
	OrderNumber   string
	CustomerID    int64
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Status        string
	PaymentStatus string
	TotalAmount   decimal.Decimal
	Items         []OrderItemEvent
}

type OrderItemEvent struct {
	PartNumber     string
	PartName       string
	Quantity       int
	StockRemaining int
	ReorderLevel   int
}

// Amount renders the order total with two decimals.
func (e OrderEvent) Amount() string {
	return e.TotalAmount.StringFixed(2)
}

type WarrantyEvent struct {
	WarrantyNumber string
	CustomerID     int64
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	PartName       string
	PartNumber     string
	OrderNumber    string
	PurchaseDate   time.Time
	ExpiryDate     time.Time
	Status         string
	ClaimStatus    string
	ClaimNotes     string
}

// Expiry renders the expiry date as YYYY-MM-DD.
func (e WarrantyEvent) Expiry() string {
	return e.ExpiryDate.Format("2006-01-02")
}
