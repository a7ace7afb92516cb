package order

import (
	"strings"
	"time"

	"spareparts-be/internal/notification"
	"spareparts-be/internal/payment"

	"github.com/shopspring/decimal"
)

const (
	StatusPending    = "PENDING"
	StatusApproved   = "APPROVED"
	StatusDispatched = "DISPATCHED"
	StatusShipped    = "SHIPPED"
	StatusDelivered  = "DELIVERED"
	StatusCancelled  = "CANCELLED"
)

var validStatuses = map[string]bool{
	StatusPending:    true,
	StatusApproved:   true,
	StatusDispatched: true,
	StatusShipped:    true,
	StatusDelivered:  true,
	StatusCancelled:  true,
}

// NormalizeStatus upper-cases status and reports whether it is known.
func NormalizeStatus(status string) (string, bool) {
	status = strings.ToUpper(strings.TrimSpace(status))
	return status, validStatuses[status]
}

type Order struct {
	ID              int64           `json:"id"`
	OrderNumber     string          `json:"order_number"`
	CustomerID      int64           `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"-"`
	CustomerPhone   string          `json:"-"`
	OrderDate       time.Time       `json:"order_date"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status"`
	ShippingAddress string          `json:"shipping_address"`
	Notes           string          `json:"notes"`
	ApprovedBy      *int64          `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	Items           []*OrderItem    `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Payment is set only on the response to order creation.
	Payment *payment.Result `json:"payment,omitempty"`
}

type OrderItem struct {
	ID             int64           `json:"id"`
	OrderID        int64           `json:"order_id"`
	SparePartID    int64           `json:"spare_part_id"`
	PartNumber     string          `json:"part_number"`
	PartName       string          `json:"part_name"`
	ImageURL       string          `json:"image_url,omitempty"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	WarrantyMonths int             `json:"warranty_months"`
}

type ItemInput struct {
	SparePartID int64 `json:"spare_part_id"`
	Quantity    int   `json:"quantity"`
}

type CreateOrderInput struct {
	Items           []ItemInput `json:"items"`
	ShippingAddress string      `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"`
	Notes           string      `json:"notes"`
}

type Filter struct {
	CustomerID *int64
	Status     *string
}

// stockLevel is the post-order stock of a part, for inventory alerts.
type stockLevel struct {
	remaining    int
	reorderLevel int
}

func (o *Order) event(stock map[int64]stockLevel) notification.OrderEvent {
	evt := notification.OrderEvent{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		TotalAmount:   o.TotalAmount,
		Items:         make([]notification.OrderItemEvent, 0, len(o.Items)),
	}

	for _, it := range o.Items {
		item := notification.OrderItemEvent{
			PartNumber: it.PartNumber,
			PartName:   it.PartName,
			Quantity:   it.Quantity,
		}
		if s, ok := stock[it.SparePartID]; ok {
			item.StockRemaining = s.remaining
			item.ReorderLevel = s.reorderLevel
		} else {
			// unknown stock never trips the inventory alert
			item.StockRemaining = 1
		}
		evt.Items = append(evt.Items, item)
	}
	return evt
}
