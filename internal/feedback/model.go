package feedback

import "time"

const (
	StatusPending   = "PENDING"
	StatusRead      = "READ"
	StatusResponded = "RESPONDED"

	DefaultType = "GENERAL"
)

type Feedback struct {
	ID           int64      `json:"id"`
	CustomerID   int64      `json:"customer_id"`
	CustomerName string     `json:"customer_name"`
	OrderID      *int64     `json:"order_id,omitempty"`
	SparePartID  *int64     `json:"spare_part_id,omitempty"`
	FeedbackType string     `json:"feedback_type"`
	Rating       *int       `json:"rating,omitempty"`
	Subject      string     `json:"subject"`
	Message      string     `json:"message"`
	Status       string     `json:"status"`
	Response     *string    `json:"response,omitempty"`
	RespondedBy  *int64     `json:"responded_by,omitempty"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type CreateInput struct {
	OrderID      *int64 `json:"order_id"`
	SparePartID  *int64 `json:"spare_part_id"`
	FeedbackType string `json:"feedback_type"`
	Rating       *int   `json:"rating"`
	Subject      string `json:"subject"`
	Message      string `json:"message"`
}
