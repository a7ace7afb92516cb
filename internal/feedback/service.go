package feedback

import (
	"context"
	"strings"

	"spareparts-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, customerID int64, in CreateInput) (*Feedback, error)
	ListAll(ctx context.Context) ([]*Feedback, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*Feedback, error)
	Get(ctx context.Context, id int64) (*Feedback, error)
	Delete(ctx context.Context, id int64) error
	MarkRead(ctx context.Context, id int64) (*Feedback, error)
	Respond(ctx context.Context, id, responderID int64, response string) (*Feedback, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validate(customerID int64, in CreateInput) error {
	if customerID <= 0 {
		return ErrCustomerRequired
	}
	if strings.TrimSpace(in.Subject) == "" {
		return ErrSubjectRequired
	}
	if strings.TrimSpace(in.Message) == "" {
		return ErrMessageRequired
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return ErrInvalidRating
	}
	return nil
}

func (s *service) Create(ctx context.Context, customerID int64, in CreateInput) (*Feedback, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
		zap.Int64("customer_id", customerID),
	)

	if err := validate(customerID, in); err != nil {
		return nil, err
	}

	kind := strings.ToUpper(strings.TrimSpace(in.FeedbackType))
	if kind == "" {
		kind = DefaultType
	}

	id, err := s.repo.Create(ctx, &Feedback{
		CustomerID:   customerID,
		OrderID:      in.OrderID,
		SparePartID:  in.SparePartID,
		FeedbackType: kind,
		Rating:       in.Rating,
		Subject:      strings.TrimSpace(in.Subject),
		Message:      strings.TrimSpace(in.Message),
		Status:       StatusPending,
	})
	if err != nil {
		log.Error("failed to create feedback", zap.Error(err))
		return nil, err
	}

	log.Info("feedback created", zap.Int64("feedback_id", id), zap.String("type", kind))
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListAll(ctx context.Context) ([]*Feedback, error) {
	return s.repo.List(ctx, nil)
}

func (s *service) ListByCustomer(ctx context.Context, customerID int64) ([]*Feedback, error) {
	return s.repo.List(ctx, &customerID)
}

func (s *service) Get(ctx context.Context, id int64) (*Feedback, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) MarkRead(ctx context.Context, id int64) (*Feedback, error) {
	if err := s.repo.UpdateStatus(ctx, id, StatusRead); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Respond(ctx context.Context, id, responderID int64, response string) (*Feedback, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, ErrResponseRequired
	}
	if err := s.repo.SaveResponse(ctx, id, responderID, response); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("feedback answered",
		zap.Int64("feedback_id", id),
		zap.Int64("responded_by", responderID),
	)
	return s.repo.GetByID(ctx, id)
}
