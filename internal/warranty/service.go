package warranty

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spareparts-be/internal/db"
	"spareparts-be/internal/logger"
	"spareparts-be/internal/notification"
	"spareparts-be/internal/order"
	"spareparts-be/internal/sparepart"
	"spareparts-be/internal/utils"

	"go.uber.org/zap"
)

// Notifier publishes warranty events to the registered channels.
type Notifier interface {
	Notify(ctx context.Context, evt notification.WarrantyEvent, event string)
}

type Service interface {
	IssueForOrder(ctx context.Context, o *order.Order) (int, error)
	CreateManual(ctx context.Context, in ManualInput) (*Warranty, error)

	FileClaim(ctx context.Context, id, customerID int64, notes string) (*Warranty, error)
	ApproveClaim(ctx context.Context, id int64) (*Warranty, error)
	RejectClaim(ctx context.Context, id int64, reason string) (*Warranty, error)
	UpdateNotes(ctx context.Context, id int64, notes *string) (*Warranty, error)
	Delete(ctx context.Context, id int64) error

	GetByID(ctx context.Context, id int64) (*Warranty, error)
	GetByNumber(ctx context.Context, number string) (*Warranty, error)
	ListForCustomer(ctx context.Context, customerID int64) ([]*Warranty, error)
	ListActiveForCustomer(ctx context.Context, customerID int64) ([]*Warranty, error)
	ListAll(ctx context.Context) ([]*Warranty, error)
	ListPendingClaims(ctx context.Context) ([]*Warranty, error)
	ListExpiring(ctx context.Context, days int) ([]*Warranty, error)
	NotifyExpiring(ctx context.Context, days int) (int, error)
	Stats(ctx context.Context) (*Stats, error)
	IsValid(ctx context.Context, id int64) (bool, error)
}

type service struct {
	repo     Repository
	parts    sparepart.Repository
	notifier Notifier
	tx       db.Transactor
	now      func() time.Time
}

func NewService(repo Repository, parts sparepart.Repository, notifier Notifier, tx db.Transactor) Service {
	return &service{
		repo:     repo,
		parts:    parts,
		notifier: notifier,
		tx:       tx,
		now:      time.Now,
	}
}

func (s *service) today() time.Time {
	return DateOf(s.now())
}

func (s *service) present(ws ...*Warranty) {
	today := s.today()
	for _, w := range ws {
		w.present(today)
	}
}

func (s *service) notifyAfterCommit(ctx context.Context, w *Warranty, event string) {
	evt := w.event()
	db.AfterCommit(ctx, func(ctx context.Context) {
		s.notifier.Notify(ctx, evt, event)
	})
}

// IssueForOrder creates one warranty per item sold with coverage. It must run
// inside the transaction that moved the order to DELIVERED.
func (s *service) IssueForOrder(ctx context.Context, o *order.Order) (int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "IssueForOrder"),
		zap.String("order_number", o.OrderNumber),
	)

	purchase := s.today()
	issued := 0
	for _, item := range o.Items {
		if item.WarrantyMonths <= 0 {
			continue
		}

		itemID := item.ID
		w := &Warranty{
			WarrantyNumber: utils.NewReference("WRN"),
			OrderItemID:    &itemID,
			OrderNumber:    o.OrderNumber,
			CustomerID:     o.CustomerID,
			CustomerName:   o.CustomerName,
			CustomerEmail:  o.CustomerEmail,
			CustomerPhone:  o.CustomerPhone,
			SparePartID:    item.SparePartID,
			PartName:       item.PartName,
			PartNumber:     item.PartNumber,
			PurchaseDate:   purchase,
			ExpiryDate:     AddMonths(purchase, item.WarrantyMonths),
			Status:         StatusActive,
		}

		id, err := s.repo.Create(ctx, w)
		if err != nil {
			log.Error("failed to create warranty", zap.Int64("spare_part_id", item.SparePartID), zap.Error(err))
			return issued, err
		}
		w.ID = id
		issued++

		log.Info("warranty created",
			zap.String("warranty_number", w.WarrantyNumber),
			zap.String("part", item.PartName),
			zap.Int("months", item.WarrantyMonths),
			zap.String("expires", w.ExpiryDate.Format(time.DateOnly)),
		)
		s.notifyAfterCommit(ctx, w, notification.EventWarrantyCreated)
	}
	return issued, nil
}

func (s *service) CreateManual(ctx context.Context, in ManualInput) (*Warranty, error) {
	if in.CustomerID <= 0 {
		return nil, ErrCustomerRequired
	}

	months := DefaultManualMonths
	if in.Months != nil {
		months = *in.Months
	}
	if months <= 0 {
		return nil, ErrInvalidPeriod
	}

	part, err := s.parts.GetByID(ctx, in.SparePartID)
	if err != nil {
		return nil, err
	}

	purchase := s.today()
	if in.PurchaseDate != nil {
		purchase = DateOf(*in.PurchaseDate)
	}

	var created *Warranty
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		id, err := s.repo.Create(ctx, &Warranty{
			WarrantyNumber: utils.NewReference("WMN"),
			CustomerID:     in.CustomerID,
			SparePartID:    part.ID,
			PurchaseDate:   purchase,
			ExpiryDate:     AddMonths(purchase, months),
			Status:         StatusActive,
		})
		if err != nil {
			return err
		}

		created, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		s.notifyAfterCommit(ctx, created, notification.EventWarrantyCreated)
		return nil
	})
	if err != nil {
		logger.FromCtx(ctx).Error("failed to create manual warranty", zap.Error(err))
		return nil, err
	}

	s.present(created)
	return created, nil
}

// mutate loads the warranty under a row lock, applies fn and persists the
// result. event, when set, fires after commit.
func (s *service) mutate(ctx context.Context, id int64, event string, fn func(w *Warranty) error) (*Warranty, error) {
	var updated *Warranty
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		w, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(w); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, w); err != nil {
			return err
		}
		if event != "" {
			s.notifyAfterCommit(ctx, w, event)
		}
		updated = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.present(updated)
	return updated, nil
}

func (s *service) FileClaim(ctx context.Context, id, customerID int64, notes string) (*Warranty, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "FileClaim"),
		zap.Int64("warranty_id", id),
	)

	w, err := s.mutate(ctx, id, notification.EventWarrantyClaimFiled, func(w *Warranty) error {
		if w.CustomerID != customerID {
			return ErrNotOwner
		}
		if w.Status != StatusActive {
			return ErrWarrantyNotActive
		}
		if DateOf(w.ExpiryDate).Before(s.today()) {
			return ErrWarrantyExpired
		}
		if w.ClaimStatus != nil {
			return fmt.Errorf("%w. Status: %s", ErrClaimExists, *w.ClaimStatus)
		}

		now := s.now()
		pending := ClaimPending
		w.ClaimStatus = &pending
		w.ClaimDate = &now
		w.ClaimNotes = &notes
		return nil
	})
	if err != nil {
		log.Warn("claim not filed", zap.Error(err))
		return nil, err
	}

	log.Info("warranty claim filed", zap.String("warranty_number", w.WarrantyNumber))
	return w, nil
}

func requirePendingClaim(w *Warranty) error {
	if w.ClaimStatus == nil || *w.ClaimStatus != ClaimPending {
		return ErrClaimNotPending
	}
	return nil
}

func (s *service) ApproveClaim(ctx context.Context, id int64) (*Warranty, error) {
	w, err := s.mutate(ctx, id, notification.EventWarrantyClaimApproved, func(w *Warranty) error {
		if err := requirePendingClaim(w); err != nil {
			return err
		}
		approved := ClaimApproved
		w.ClaimStatus = &approved
		w.Status = StatusClaimed
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("warranty claim approved",
		zap.String("warranty_number", w.WarrantyNumber),
		zap.String("customer", w.CustomerName),
		zap.String("part", w.PartName),
	)
	return w, nil
}

func (s *service) RejectClaim(ctx context.Context, id int64, reason string) (*Warranty, error) {
	w, err := s.mutate(ctx, id, notification.EventWarrantyClaimRejected, func(w *Warranty) error {
		if err := requirePendingClaim(w); err != nil {
			return err
		}
		rejected := ClaimRejected
		notes := utils.PtrString(w.ClaimNotes) + rejectionSeparator + reason
		w.ClaimStatus = &rejected
		w.ClaimNotes = &notes
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("warranty claim rejected",
		zap.String("warranty_number", w.WarrantyNumber),
		zap.String("reason", reason),
	)
	return w, nil
}

func (s *service) UpdateNotes(ctx context.Context, id int64, notes *string) (*Warranty, error) {
	return s.mutate(ctx, id, "", func(w *Warranty) error {
		if notes != nil {
			w.ClaimNotes = notes
		}
		return nil
	})
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		w, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if w.ClaimStatus != nil && *w.ClaimStatus != ClaimRejected {
			return ErrWarrantyHasClaim
		}
		return s.repo.Delete(ctx, id)
	})
}

func (s *service) GetByID(ctx context.Context, id int64) (*Warranty, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.present(w)
	return w, nil
}

func (s *service) GetByNumber(ctx context.Context, number string) (*Warranty, error) {
	w, err := s.repo.GetByNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		return nil, err
	}
	s.present(w)
	return w, nil
}

func (s *service) list(ctx context.Context, filter Filter) ([]*Warranty, error) {
	ws, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.present(ws...)
	return ws, nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID int64) ([]*Warranty, error) {
	return s.list(ctx, Filter{CustomerID: &customerID})
}

func (s *service) ListActiveForCustomer(ctx context.Context, customerID int64) ([]*Warranty, error) {
	return s.list(ctx, Filter{CustomerID: &customerID, ActiveOnly: true})
}

func (s *service) ListAll(ctx context.Context) ([]*Warranty, error) {
	return s.list(ctx, Filter{})
}

func (s *service) ListPendingClaims(ctx context.Context) ([]*Warranty, error) {
	pending := ClaimPending
	return s.list(ctx, Filter{ClaimStatus: &pending})
}

// ListExpiring returns active warranties that expire after today and before
// today plus days. Non-positive days use DefaultExpiringDays.
func (s *service) ListExpiring(ctx context.Context, days int) ([]*Warranty, error) {
	if days <= 0 {
		days = DefaultExpiringDays
	}
	today := s.today()

	ws, err := s.repo.ListExpiring(ctx, today, today.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	s.present(ws...)
	return ws, nil
}

// NotifyExpiring sends WARRANTY_EXPIRING for every warranty ListExpiring
// returns and reports how many were notified.
func (s *service) NotifyExpiring(ctx context.Context, days int) (int, error) {
	ws, err := s.ListExpiring(ctx, days)
	if err != nil {
		return 0, err
	}
	for _, w := range ws {
		s.notifier.Notify(ctx, w.event(), notification.EventWarrantyExpiring)
	}
	return len(ws), nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	c, err := s.repo.Counts(ctx, s.today())
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalWarranties:   c.Total,
		ActiveWarranties:  c.Active,
		ExpiredWarranties: c.Expired,
		ClaimedWarranties: c.Claimed,
		PendingClaims:     c.PendingClaims,
		ApprovedClaims:    c.ApprovedClaims,
		RejectedClaims:    c.RejectedClaims,
		ClaimRate:         "0.00%",
	}
	if c.Total > 0 {
		filed := c.PendingClaims + c.ApprovedClaims + c.RejectedClaims
		stats.ClaimRate = fmt.Sprintf("%.2f%%", float64(filed)/float64(c.Total)*100)
	}
	return stats, nil
}

// IsValid reports whether the warranty is ACTIVE and expires strictly after today.
func (s *service) IsValid(ctx context.Context, id int64) (bool, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return w.Status == StatusActive && DateOf(w.ExpiryDate).After(s.today()), nil
}
