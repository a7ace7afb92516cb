package warranty

import (
	"strings"
	"time"

	"spareparts-be/internal/notification"
)

const (
	StatusActive  = "ACTIVE"
	StatusExpired = "EXPIRED"
	StatusClaimed = "CLAIMED"

	ClaimPending  = "PENDING"
	ClaimApproved = "APPROVED"
	ClaimRejected = "REJECTED"

	DefaultManualMonths = 12
	DefaultExpiringDays = 30

	rejectionSeparator = "\n\nREJECTION REASON: "
)

type Warranty struct {
	ID             int64      `json:"id"`
	WarrantyNumber string     `json:"warranty_number"`
	OrderItemID    *int64     `json:"order_item_id,omitempty"`
	OrderNumber    string     `json:"order_number,omitempty"`
	CustomerID     int64      `json:"customer_id"`
	CustomerName   string     `json:"customer_name"`
	CustomerEmail  string     `json:"-"`
	CustomerPhone  string     `json:"-"`
	SparePartID    int64      `json:"spare_part_id"`
	PartName       string     `json:"spare_part_name"`
	PartNumber     string     `json:"part_number"`
	PurchaseDate   time.Time  `json:"purchase_date"`
	ExpiryDate     time.Time  `json:"expiry_date"`
	Status         string     `json:"status"`
	ClaimStatus    *string    `json:"claim_status"`
	ClaimDate      *time.Time `json:"claim_date"`
	ClaimNotes     *string    `json:"claim_notes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	DaysRemaining int  `json:"days_remaining"`
	IsExpired     bool `json:"is_expired"`
	CanClaim      bool `json:"can_claim"`
}

// present fills the fields derived from today's date. Expiry is never
// written back; it is recomputed on every read.
func (w *Warranty) present(today time.Time) {
	today = DateOf(today)
	w.DaysRemaining = DaysBetween(today, w.ExpiryDate)
	w.IsExpired = DateOf(w.ExpiryDate).Before(today)
	w.CanClaim = !w.IsExpired && w.Status == StatusActive && w.ClaimStatus == nil
}

func (w *Warranty) event() notification.WarrantyEvent {
	evt := notification.WarrantyEvent{
		WarrantyNumber: w.WarrantyNumber,
		CustomerID:     w.CustomerID,
		CustomerName:   w.CustomerName,
		CustomerEmail:  w.CustomerEmail,
		CustomerPhone:  w.CustomerPhone,
		PartName:       w.PartName,
		PartNumber:     w.PartNumber,
		OrderNumber:    w.OrderNumber,
		PurchaseDate:   w.PurchaseDate,
		ExpiryDate:     w.ExpiryDate,
		Status:         w.Status,
	}
	if w.ClaimStatus != nil {
		evt.ClaimStatus = *w.ClaimStatus
	}
	if w.ClaimNotes != nil {
		evt.ClaimNotes = *w.ClaimNotes
	}
	return evt
}

type Filter struct {
	CustomerID  *int64
	ActiveOnly  bool
	ClaimStatus *string
}

type ManualInput struct {
	CustomerID   int64      `json:"customer_id"`
	SparePartID  int64      `json:"spare_part_id"`
	Months       *int       `json:"warranty_period_months"`
	PurchaseDate *time.Time `json:"purchase_date"`
}

// Counts is the raw tally behind Stats.
type Counts struct {
	Total          int
	Active         int
	Expired        int
	Claimed        int
	PendingClaims  int
	ApprovedClaims int
	RejectedClaims int
}

type Stats struct {
	TotalWarranties   int    `json:"total_warranties"`
	ActiveWarranties  int    `json:"active_warranties"`
	ExpiredWarranties int    `json:"expired_warranties"`
	ClaimedWarranties int    `json:"claimed_warranties"`
	PendingClaims     int    `json:"pending_claims"`
	ApprovedClaims    int    `json:"approved_claims"`
	RejectedClaims    int    `json:"rejected_claims"`
	ClaimRate         string `json:"claim_rate"`
}

// Claim statuses of the standalone claim case.
const (
	CaseStatusPending     = "PENDING"
	CaseStatusUnderReview = "UNDER_REVIEW"
	CaseStatusApproved    = "APPROVED"
	CaseStatusRejected    = "REJECTED"
	CaseStatusCompleted   = "COMPLETED"
)

// claimTransitions lists the statuses each case status may move to.
var claimTransitions = map[string][]string{
	CaseStatusPending:     {CaseStatusUnderReview, CaseStatusApproved, CaseStatusRejected},
	CaseStatusUnderReview: {CaseStatusApproved, CaseStatusRejected},
	CaseStatusApproved:    {CaseStatusCompleted},
	CaseStatusRejected:    {CaseStatusCompleted},
}

func NormalizeClaimStatus(status string) (string, bool) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status == CaseStatusCompleted {
		return status, true
	}
	_, ok := claimTransitions[status]
	return status, ok
}

func canTransition(from, to string) bool {
	for _, next := range claimTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Claim is a standalone warranty case raised against a delivered order.
type Claim struct {
	ID                 int64      `json:"id"`
	ClaimNumber        string     `json:"claim_number"`
	CustomerID         int64      `json:"customer_id"`
	CustomerName       string     `json:"customer_name"`
	OrderID            int64      `json:"order_id"`
	OrderNumber        string     `json:"order_number"`
	ProductID          int64      `json:"product_id"`
	ProductName        string     `json:"product_name"`
	PartNumber         string     `json:"part_number"`
	PurchaseDate       time.Time  `json:"purchase_date"`
	WarrantyExpiryDate time.Time  `json:"warranty_expiry_date"`
	IssueDescription   string     `json:"issue_description"`
	CustomerComments   string     `json:"customer_comments"`
	Status             string     `json:"status"`
	StoreResponse      *string    `json:"store_response"`
	ProcessedBy        *int64     `json:"processed_by"`
	ProcessedAt        *time.Time `json:"processed_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at"`
}

type ClaimInput struct {
	OrderID          int64  `json:"order_id"`
	ProductID        int64  `json:"product_id"`
	IssueDescription string `json:"issue_description"`
	CustomerComments string `json:"customer_comments"`
}

type ClaimFilter struct {
	CustomerID *int64
	Status     *string
}
