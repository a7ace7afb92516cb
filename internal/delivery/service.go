package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"spareparts-be/internal/db"
	"spareparts-be/internal/logger"
	"spareparts-be/internal/utils"

	"go.uber.org/zap"
)

// OrderCompleter moves the owning order to DELIVERED once its delivery lands.
type OrderCompleter interface {
	MarkDelivered(ctx context.Context, orderID int64) error
}

// StaffVerifier confirms a user may be assigned to deliveries.
type StaffVerifier interface {
	VerifyDeliveryStaff(ctx context.Context, userID int64) error
}

// Scheduler opens delivery records for approved orders.
type Scheduler struct {
	repo     Repository
	selector *Selector
	now      func() time.Time
}

func NewScheduler(repo Repository, selector *Selector) *Scheduler {
	return &Scheduler{repo: repo, selector: selector, now: time.Now}
}

func (s *Scheduler) Schedule(ctx context.Context, req ScheduleRequest) (*Delivery, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Schedule"),
		zap.Int64("order_id", req.OrderID),
	)

	if strings.TrimSpace(req.Address) == "" {
		return nil, ErrAddressRequired
	}

	quote, err := s.selector.Quote(req.Method, req.OrderTotal, s.now())
	if err != nil {
		return nil, err
	}

	d, err := s.repo.Create(ctx, &Delivery{
		DeliveryNumber:  utils.NewReference("DEL"),
		OrderID:         req.OrderID,
		Status:          StatusPending,
		Method:          quote.Method,
		Cost:            quote.Cost,
		EstimatedAt:     quote.EstimatedAt,
		DeliveryAddress: req.Address,
	})
	if err != nil {
		log.Error("failed to create delivery", zap.Error(err))
		return nil, err
	}

	log.Info("delivery scheduled",
		zap.String("delivery_number", d.DeliveryNumber),
		zap.String("delivery_method", d.Method),
		zap.String("delivery_cost", d.Cost.StringFixed(2)),
	)
	return d, nil
}

type Service interface {
	CreateForOrder(ctx context.Context, req ScheduleRequest) (*Delivery, error)
	Get(ctx context.Context, id int64) (*Delivery, error)
	GetByOrder(ctx context.Context, orderID int64) (*Delivery, error)
	List(ctx context.Context) ([]*Delivery, error)
	ListByStaff(ctx context.Context, staffID int64) ([]*Delivery, error)
	ListByStatus(ctx context.Context, status string) ([]*Delivery, error)
	UpdateStatus(ctx context.Context, id int64, status string, notes *string) (*Delivery, error)
	AssignStaff(ctx context.Context, id, staffID int64) (*Delivery, error)
	UpdateDetails(ctx context.Context, id int64, staffID *int64, address *string) (*Delivery, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo      Repository
	tx        db.Transactor
	scheduler *Scheduler
	orders    OrderCompleter
	staff     StaffVerifier
	now       func() time.Time
}

func NewService(
	repo Repository,
	tx db.Transactor,
	scheduler *Scheduler,
	orders OrderCompleter,
	staff StaffVerifier,
) Service {
	return &service{
		repo:      repo,
		tx:        tx,
		scheduler: scheduler,
		orders:    orders,
		staff:     staff,
		now:       time.Now,
	}
}

func (s *service) CreateForOrder(ctx context.Context, req ScheduleRequest) (*Delivery, error) {
	return s.scheduler.Schedule(ctx, req)
}

func (s *service) Get(ctx context.Context, id int64) (*Delivery, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByOrder(ctx context.Context, orderID int64) (*Delivery, error) {
	return s.repo.GetByOrderID(ctx, orderID)
}

func (s *service) List(ctx context.Context) ([]*Delivery, error) {
	return s.repo.List(ctx)
}

func (s *service) ListByStaff(ctx context.Context, staffID int64) ([]*Delivery, error) {
	return s.repo.ListByStaff(ctx, staffID)
}

func (s *service) ListByStatus(ctx context.Context, status string) ([]*Delivery, error) {
	normalized, ok := NormalizeStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	return s.repo.ListByStatus(ctx, normalized)
}

// UpdateStatus records a courier status change. Reaching DELIVERED completes
// the order in the same transaction.
func (s *service) UpdateStatus(ctx context.Context, id int64, status string, notes *string) (*Delivery, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateStatus"),
		zap.Int64("delivery_id", id),
	)

	normalized, ok := NormalizeStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	var updated *Delivery
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		d, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		d.Status = normalized
		if notes != nil {
			d.TrackingNotes = notes
		}

		now := s.now()
		switch normalized {
		case StatusDispatched:
			d.DispatchedAt = &now
		case StatusDelivered:
			d.DeliveredAt = &now
		}

		updated, err = s.repo.Save(ctx, d)
		if err != nil {
			return err
		}

		if normalized == StatusDelivered && s.orders != nil {
			if err := s.orders.MarkDelivered(ctx, d.OrderID); err != nil {
				return fmt.Errorf("complete order %d: %w", d.OrderID, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to update delivery status", zap.String("status", normalized), zap.Error(err))
		return nil, err
	}

	log.Info("delivery status updated", zap.String("status", normalized))
	return updated, nil
}

func (s *service) AssignStaff(ctx context.Context, id, staffID int64) (*Delivery, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.staff.VerifyDeliveryStaff(ctx, staffID); err != nil {
		return nil, err
	}

	now := s.now()
	d.StaffID = &staffID
	d.AssignedAt = &now

	updated, err := s.repo.Save(ctx, d)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("delivery staff assigned",
		zap.Int64("delivery_id", id),
		zap.Int64("staff_id", staffID),
	)
	return updated, nil
}

func (s *service) UpdateDetails(ctx context.Context, id int64, staffID *int64, address *string) (*Delivery, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if staffID != nil {
		if err := s.staff.VerifyDeliveryStaff(ctx, *staffID); err != nil {
			return nil, err
		}
		d.StaffID = staffID
		if d.AssignedAt == nil {
			now := s.now()
			d.AssignedAt = &now
		}
	}

	if address != nil && strings.TrimSpace(*address) != "" {
		d.DeliveryAddress = strings.TrimSpace(*address)
	}

	return s.repo.Save(ctx, d)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if d.Status != StatusDelivered {
		return ErrDeliveryNotDelivered
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, ErrDeliveryNotFound) {
			logger.FromCtx(ctx).Error("failed to delete delivery", zap.Int64("delivery_id", id), zap.Error(err))
		}
		return err
	}
	return nil
}
