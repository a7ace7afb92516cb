package delivery

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending    = "PENDING"
	StatusDispatched = "DISPATCHED"
	StatusInTransit  = "IN_TRANSIT"
	StatusDelivered  = "DELIVERED"
	StatusFailed     = "FAILED"
)

var validStatuses = map[string]bool{
	StatusPending:    true,
	StatusDispatched: true,
	StatusInTransit:  true,
	StatusDelivered:  true,
	StatusFailed:     true,
}

// NormalizeStatus upper-cases status and reports whether it is known.
func NormalizeStatus(status string) (string, bool) {
	status = strings.ToUpper(strings.TrimSpace(status))
	return status, validStatuses[status]
}

type Delivery struct {
	ID              int64           `json:"id"`
	DeliveryNumber  string          `json:"delivery_number"`
	OrderID         int64           `json:"order_id"`
	StaffID         *int64          `json:"delivery_staff_id,omitempty"`
	Status          string          `json:"status"`
	Method          string          `json:"delivery_method"`
	Cost            decimal.Decimal `json:"delivery_cost"`
	EstimatedAt     time.Time       `json:"estimated_delivery_at"`
	DeliveryAddress string          `json:"delivery_address"`
	TrackingNotes   *string         `json:"tracking_notes,omitempty"`
	AssignedAt      *time.Time      `json:"assigned_at,omitempty"`
	DispatchedAt    *time.Time      `json:"dispatched_at,omitempty"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ScheduleRequest describes the order a delivery is being opened for.
type ScheduleRequest struct {
	OrderID    int64
	OrderTotal decimal.Decimal
	Method     string
	Address    string
}
