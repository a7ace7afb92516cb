package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"spareparts-be/internal/db"
	"spareparts-be/internal/delivery"
	"spareparts-be/internal/logger"
	"spareparts-be/internal/notification"
	"spareparts-be/internal/payment"
	"spareparts-be/internal/sparepart"
	"spareparts-be/internal/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Notifier publishes order events to the registered channels.
type Notifier interface {
	Notify(ctx context.Context, evt notification.OrderEvent, event string)
}

// WarrantyIssuer creates warranties for the items of a delivered order and
// returns how many were issued.
type WarrantyIssuer interface {
	IssueForOrder(ctx context.Context, o *Order) (int, error)
}

// DeliveryScheduler opens the delivery record of an approved order.
type DeliveryScheduler interface {
	Schedule(ctx context.Context, req delivery.ScheduleRequest) (*delivery.Delivery, error)
}

type Service interface {
	CreateOrder(ctx context.Context, customerID int64, input CreateOrderInput) (*Order, error)
	ApproveOrder(ctx context.Context, orderID, approverID int64) (*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*Order, error)
	MarkDelivered(ctx context.Context, orderID int64) error

	GetOrder(ctx context.Context, orderID int64) (*Order, error)
	ListOrders(ctx context.Context) ([]*Order, error)
	ListCustomerOrders(ctx context.Context, customerID int64) ([]*Order, error)
	ListByStatus(ctx context.Context, status string) ([]*Order, error)
}

type Dependencies struct {
	Repo       Repository
	Parts      sparepart.Repository
	Payments   *payment.Selector
	Deliveries DeliveryScheduler
	Warranties WarrantyIssuer
	Notifier   Notifier
	Tx         db.Transactor
}

type service struct {
	repo       Repository
	parts      sparepart.Repository
	payments   *payment.Selector
	deliveries DeliveryScheduler
	warranties WarrantyIssuer
	notifier   Notifier
	tx         db.Transactor
}

func NewService(deps Dependencies) Service {
	return &service{
		repo:       deps.Repo,
		parts:      deps.Parts,
		payments:   deps.Payments,
		deliveries: deps.Deliveries,
		warranties: deps.Warranties,
		notifier:   deps.Notifier,
		tx:         deps.Tx,
	}
}

func validateCreate(customerID int64, input CreateOrderInput) error {
	if customerID <= 0 {
		return ErrUnauthorized
	}
	if len(input.Items) == 0 {
		return ErrEmptyOrder
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return ErrShippingAddressRequired
	}
	return nil
}

// CreateOrder reserves stock, records the order and runs payment in one
// transaction. A payment failure leaves the order in place with payment
// status PENDING.
func (s *service) CreateOrder(ctx context.Context, customerID int64, input CreateOrderInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Int64("customer_id", customerID),
	)

	if err := validateCreate(customerID, input); err != nil {
		log.Warn("invalid order request", zap.Error(err))
		return nil, err
	}

	var created *Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		o := &Order{
			OrderNumber:     utils.NewReference("ORD"),
			CustomerID:      customerID,
			Status:          StatusPending,
			PaymentMethod:   strings.ToUpper(strings.TrimSpace(input.PaymentMethod)),
			PaymentStatus:   payment.StatusPending,
			ShippingAddress: strings.TrimSpace(input.ShippingAddress),
			Notes:           input.Notes,
			TotalAmount:     decimal.Zero,
		}

		stock := make(map[int64]stockLevel, len(input.Items))
		for _, in := range input.Items {
			part, err := s.parts.GetByID(ctx, in.SparePartID)
			if errors.Is(err, sparepart.ErrPartNotFound) {
				return fmt.Errorf("%w: %d", sparepart.ErrPartNotFound, in.SparePartID)
			}
			if err != nil {
				return err
			}
			if !part.IsActive {
				return fmt.Errorf("%w: %s", sparepart.ErrPartInactive, part.PartName)
			}

			updated, err := s.parts.DecrementStock(ctx, part.ID, in.Quantity)
			if errors.Is(err, sparepart.ErrInsufficientStock) {
				return fmt.Errorf("%w for: %s", sparepart.ErrInsufficientStock, part.PartName)
			}
			if err != nil {
				return err
			}
			stock[part.ID] = stockLevel{remaining: updated.StockQuantity, reorderLevel: updated.ReorderLevel}

			subtotal := part.Price.Mul(decimal.NewFromInt(int64(in.Quantity)))
			o.TotalAmount = o.TotalAmount.Add(subtotal)
			o.Items = append(o.Items, &OrderItem{
				SparePartID:    part.ID,
				PartNumber:     part.PartNumber,
				PartName:       part.PartName,
				Quantity:       in.Quantity,
				UnitPrice:      part.Price,
				Subtotal:       subtotal,
				WarrantyMonths: part.WarrantyMonths,
			})
		}

		id, err := s.repo.Create(ctx, o)
		if err != nil {
			return err
		}

		var result *payment.Result
		res, err := s.payments.Execute(ctx, payment.Request{
			OrderNumber:     o.OrderNumber,
			Method:          o.PaymentMethod,
			Total:           &o.TotalAmount,
			ShippingAddress: o.ShippingAddress,
		})
		if err != nil {
			log.Warn("payment processing failed, order kept pending",
				zap.String("order_number", o.OrderNumber),
				zap.Error(err),
			)
		} else {
			if err := s.repo.UpdatePaymentStatus(ctx, id, res.Status); err != nil {
				return err
			}
			result = &res
		}

		created, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		created.Payment = result

		evt := created.event(stock)
		db.AfterCommit(ctx, func(ctx context.Context) {
			s.notifier.Notify(ctx, evt, notification.EventOrderCreated)
		})
		return nil
	})
	if err != nil {
		log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	log.Info("order created",
		zap.Int64("order_id", created.ID),
		zap.String("order_number", created.OrderNumber),
		zap.String("total_amount", created.TotalAmount.StringFixed(2)),
	)
	return created, nil
}

// deliveryMethodFor picks EXPRESS when the notes carry the upper-case tag.
func deliveryMethodFor(o *Order) string {
	if strings.Contains(o.Notes, delivery.MethodExpress) {
		return delivery.MethodExpress
	}
	return delivery.MethodStandard
}

func (s *service) ApproveOrder(ctx context.Context, orderID, approverID int64) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ApproveOrder"),
		zap.Int64("order_id", orderID),
	)

	if approverID <= 0 {
		return nil, ErrApproverRequired
	}

	var approved *Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.repo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o.Status != StatusPending {
			return ErrOrderNotPending
		}

		if err := s.repo.Approve(ctx, orderID, approverID); err != nil {
			return err
		}

		if _, err := s.deliveries.Schedule(ctx, delivery.ScheduleRequest{
			OrderID:    o.ID,
			OrderTotal: o.TotalAmount,
			Method:     deliveryMethodFor(o),
			Address:    o.ShippingAddress,
		}); err != nil {
			return fmt.Errorf("schedule delivery: %w", err)
		}

		approved, err = s.repo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}

		evt := approved.event(nil)
		db.AfterCommit(ctx, func(ctx context.Context) {
			s.notifier.Notify(ctx, evt, notification.EventOrderApproved)
		})
		return nil
	})
	if err != nil {
		log.Error("failed to approve order", zap.Error(err))
		return nil, err
	}

	log.Info("order approved", zap.Int64("approver_id", approverID))
	return approved, nil
}

// UpdateOrderStatus moves the order to status. The first transition into
// DELIVERED issues warranties for the order's items.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrderStatus"),
		zap.Int64("order_id", orderID),
	)

	normalized, ok := NormalizeStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	var updated *Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		previous, err := s.repo.UpdateStatus(ctx, orderID, normalized)
		if err != nil {
			return err
		}

		updated, err = s.repo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}

		if normalized == StatusDelivered && previous != StatusDelivered {
			issued, err := s.warranties.IssueForOrder(ctx, updated)
			if err != nil {
				return fmt.Errorf("issue warranties: %w", err)
			}
			log.Info("warranties issued", zap.Int("count", issued))
		}

		evt := updated.event(nil)
		db.AfterCommit(ctx, func(ctx context.Context) {
			s.notifier.Notify(ctx, evt, notification.OrderStatusEvent(normalized))
		})
		return nil
	})
	if err != nil {
		log.Error("failed to update order status", zap.String("status", normalized), zap.Error(err))
		return nil, err
	}

	log.Info("order status updated", zap.String("status", normalized))
	return updated, nil
}

func (s *service) MarkDelivered(ctx context.Context, orderID int64) error {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.Status == StatusDelivered {
		return nil
	}

	_, err = s.UpdateOrderStatus(ctx, orderID, StatusDelivered)
	return err
}

func (s *service) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

func (s *service) ListOrders(ctx context.Context) ([]*Order, error) {
	return s.repo.List(ctx, Filter{})
}

func (s *service) ListCustomerOrders(ctx context.Context, customerID int64) ([]*Order, error) {
	if customerID <= 0 {
		return nil, ErrUnauthorized
	}
	return s.repo.List(ctx, Filter{CustomerID: &customerID})
}

func (s *service) ListByStatus(ctx context.Context, status string) ([]*Order, error) {
	normalized, ok := NormalizeStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	return s.repo.List(ctx, Filter{Status: &normalized})
}
