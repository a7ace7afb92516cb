package warranty

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spareparts-be/internal/db"
	"spareparts-be/internal/logger"
	"spareparts-be/internal/order"
	"spareparts-be/internal/utils"

	"go.uber.org/zap"
)

// OrderReader loads the order a claim is raised against.
type OrderReader interface {
	GetOrder(ctx context.Context, orderID int64) (*order.Order, error)
}

type ClaimService interface {
	CreateClaim(ctx context.Context, customerID int64, in ClaimInput) (*Claim, error)
	UpdateClaim(ctx context.Context, id, customerID int64, issue, comments *string) (*Claim, error)
	StartReview(ctx context.Context, id, processorID int64) (*Claim, error)
	ApproveClaim(ctx context.Context, id, processorID int64, response string) (*Claim, error)
	RejectClaim(ctx context.Context, id, processorID int64, reason string) (*Claim, error)
	CompleteClaim(ctx context.Context, id, processorID int64) (*Claim, error)
	DeleteClaim(ctx context.Context, id, customerID int64) error

	Get(ctx context.Context, id int64) (*Claim, error)
	ListAll(ctx context.Context) ([]*Claim, error)
	ListForCustomer(ctx context.Context, customerID int64) ([]*Claim, error)
	ListByStatus(ctx context.Context, status string) ([]*Claim, error)
}

type claimService struct {
	repo   ClaimRepository
	orders OrderReader
	tx     db.Transactor
	now    func() time.Time
}

func NewClaimService(repo ClaimRepository, orders OrderReader, tx db.Transactor) ClaimService {
	return &claimService{repo: repo, orders: orders, tx: tx, now: time.Now}
}

func findItem(o *order.Order, productID int64) *order.OrderItem {
	for _, it := range o.Items {
		if it.SparePartID == productID {
			return it
		}
	}
	return nil
}

// CreateClaim opens a case against a delivered order. Coverage runs from the
// order date for the warranty months recorded on the matching item.
func (s *claimService) CreateClaim(ctx context.Context, customerID int64, in ClaimInput) (*Claim, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateClaim"),
		zap.Int64("customer_id", customerID),
		zap.Int64("order_id", in.OrderID),
	)

	if customerID <= 0 {
		return nil, ErrCustomerRequired
	}
	issue := strings.TrimSpace(in.IssueDescription)
	if issue == "" {
		return nil, ErrIssueRequired
	}

	o, err := s.orders.GetOrder(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, ErrOrderNotOwned
	}
	if o.Status != order.StatusDelivered {
		return nil, fmt.Errorf("%w. Current status: %s", ErrOrderNotDelivered, o.Status)
	}

	item := findItem(o, in.ProductID)
	if item == nil {
		return nil, ErrProductNotInOrder
	}
	if item.WarrantyMonths <= 0 {
		return nil, ErrNoCoverage
	}

	purchase := DateOf(o.OrderDate)
	expiry := AddMonths(purchase, item.WarrantyMonths)
	if !WithinWindow(purchase, item.WarrantyMonths, s.now()) {
		return nil, fmt.Errorf("%w. Expiry date was: %s", ErrWarrantyExpired, expiry.Format(time.DateOnly))
	}

	c := &Claim{
		ClaimNumber:        utils.NewReference("WC-"),
		CustomerID:         customerID,
		CustomerName:       o.CustomerName,
		OrderID:            o.ID,
		OrderNumber:        o.OrderNumber,
		ProductID:          item.SparePartID,
		ProductName:        item.PartName,
		PartNumber:         item.PartNumber,
		PurchaseDate:       purchase,
		WarrantyExpiryDate: expiry,
		IssueDescription:   issue,
		CustomerComments:   strings.TrimSpace(in.CustomerComments),
		Status:             CaseStatusPending,
	}

	id, err := s.repo.Create(ctx, c)
	if err != nil {
		log.Error("failed to create claim", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	log.Info("warranty claim created", zap.String("claim_number", created.ClaimNumber))
	return created, nil
}

// mutate applies fn to the locked claim and saves it.
func (s *claimService) mutate(ctx context.Context, id int64, fn func(c *Claim) error) (*Claim, error) {
	var updated *Claim
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *claimService) UpdateClaim(ctx context.Context, id, customerID int64, issue, comments *string) (*Claim, error) {
	return s.mutate(ctx, id, func(c *Claim) error {
		if c.CustomerID != customerID {
			return ErrClaimNotOwned
		}
		if c.Status != CaseStatusPending {
			return fmt.Errorf("%w: only PENDING claims can be updated. Current status: %s", ErrInvalidClaimTransition, c.Status)
		}

		if issue != nil && strings.TrimSpace(*issue) != "" {
			c.IssueDescription = strings.TrimSpace(*issue)
		}
		if comments != nil && strings.TrimSpace(*comments) != "" {
			c.CustomerComments = strings.TrimSpace(*comments)
		}
		return nil
	})
}

// transition moves the claim to status on behalf of processorID, recording
// response when one is given.
func (s *claimService) transition(ctx context.Context, id, processorID int64, status string, response *string) (*Claim, error) {
	c, err := s.mutate(ctx, id, func(c *Claim) error {
		if !canTransition(c.Status, status) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidClaimTransition, c.Status, status)
		}

		now := s.now()
		c.Status = status
		c.ProcessedBy = &processorID
		c.ProcessedAt = &now
		if response != nil {
			c.StoreResponse = response
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("warranty claim status changed",
		zap.String("claim_number", c.ClaimNumber),
		zap.String("status", status),
		zap.Int64("processed_by", processorID),
	)
	return c, nil
}

func (s *claimService) StartReview(ctx context.Context, id, processorID int64) (*Claim, error) {
	return s.transition(ctx, id, processorID, CaseStatusUnderReview, nil)
}

func (s *claimService) ApproveClaim(ctx context.Context, id, processorID int64, response string) (*Claim, error) {
	return s.transition(ctx, id, processorID, CaseStatusApproved, &response)
}

func (s *claimService) RejectClaim(ctx context.Context, id, processorID int64, reason string) (*Claim, error) {
	return s.transition(ctx, id, processorID, CaseStatusRejected, &reason)
}

func (s *claimService) CompleteClaim(ctx context.Context, id, processorID int64) (*Claim, error) {
	return s.transition(ctx, id, processorID, CaseStatusCompleted, nil)
}

func (s *claimService) DeleteClaim(ctx context.Context, id, customerID int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c.CustomerID != customerID {
			return ErrClaimNotOwned
		}
		if c.Status != CaseStatusPending {
			return fmt.Errorf("%w: only PENDING claims can be deleted. Current status: %s", ErrInvalidClaimTransition, c.Status)
		}
		return s.repo.Delete(ctx, id)
	})
}

func (s *claimService) Get(ctx context.Context, id int64) (*Claim, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *claimService) ListAll(ctx context.Context) ([]*Claim, error) {
	return s.repo.List(ctx, ClaimFilter{})
}

func (s *claimService) ListForCustomer(ctx context.Context, customerID int64) ([]*Claim, error) {
	return s.repo.List(ctx, ClaimFilter{CustomerID: &customerID})
}

func (s *claimService) ListByStatus(ctx context.Context, status string) ([]*Claim, error) {
	normalized, ok := NormalizeClaimStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidClaimStatus, status)
	}
	return s.repo.List(ctx, ClaimFilter{Status: &normalized})
}
