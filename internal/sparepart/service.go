package sparepart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"spareparts-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, input Input) (*SparePart, error)
	Update(ctx context.Context, id int64, input Input) (*SparePart, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*SparePart, error)
	GetByPartNumber(ctx context.Context, partNumber string) (*SparePart, error)
	ListAll(ctx context.Context) ([]*SparePart, error)
	ListActive(ctx context.Context) ([]*SparePart, error)
	Search(ctx context.Context, keyword string) ([]*SparePart, error)
	ListByCategory(ctx context.Context, category string) ([]*SparePart, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListLowStock(ctx context.Context) ([]*SparePart, error)
	AdjustStock(ctx context.Context, id int64, delta int) (*SparePart, error)
	ExportWorkbook(ctx context.Context, w io.Writer) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, input Input) (*SparePart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
	)

	if err := validateInput(input); err != nil {
		log.Warn("invalid spare part input", zap.Error(err))
		return nil, err
	}

	exists, err := s.repo.ExistsByPartNumber(ctx, strings.TrimSpace(input.PartNumber))
	if err != nil {
		log.Error("failed to check part number", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrDuplicatePartNumber
	}

	p := &SparePart{
		ReorderLevel:   DefaultReorderLevel,
		WarrantyMonths: DefaultWarrantyMonths,
		IsActive:       true,
	}
	applyInput(p, input)

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	log.Info("spare part created",
		zap.Int64("part_id", created.ID),
		zap.String("part_number", created.PartNumber),
	)
	return created, nil
}

func (s *service) Update(ctx context.Context, id int64, input Input) (*SparePart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Update"),
		zap.Int64("part_id", id),
	)

	if err := validateInput(input); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.PartNumber) != existing.PartNumber {
		exists, err := s.repo.ExistsByPartNumber(ctx, strings.TrimSpace(input.PartNumber))
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicatePartNumber
		}
	}

	applyInput(existing, input)

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		log.Error("failed to update spare part", zap.Error(err))
		return nil, err
	}

	log.Info("spare part updated")
	return updated, nil
}

// Delete hides the part from the catalog; order history keeps referencing it.
func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	logger.FromCtx(ctx).Info("spare part deactivated", zap.Int64("part_id", id))
	return nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*SparePart, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByPartNumber(ctx context.Context, partNumber string) (*SparePart, error) {
	partNumber = strings.TrimSpace(partNumber)
	if partNumber == "" {
		return nil, ErrPartNotFound
	}
	return s.repo.GetByPartNumber(ctx, partNumber)
}

func (s *service) ListAll(ctx context.Context) ([]*SparePart, error) {
	return s.repo.List(ctx, false)
}

func (s *service) ListActive(ctx context.Context) ([]*SparePart, error) {
	return s.repo.List(ctx, true)
}

func (s *service) Search(ctx context.Context, keyword string) ([]*SparePart, error) {
	if strings.TrimSpace(keyword) == "" {
		return s.repo.List(ctx, true)
	}
	return s.repo.Search(ctx, keyword)
}

func (s *service) ListByCategory(ctx context.Context, category string) ([]*SparePart, error) {
	return s.repo.ListByCategory(ctx, strings.TrimSpace(category))
}

func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}

func (s *service) ListLowStock(ctx context.Context) ([]*SparePart, error) {
	return s.repo.ListLowStock(ctx)
}

func (s *service) AdjustStock(ctx context.Context, id int64, delta int) (*SparePart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AdjustStock"),
		zap.Int64("part_id", id),
		zap.Int("delta", delta),
	)

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	p, err := s.repo.AdjustStock(ctx, id, delta)
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			log.Warn("stock adjustment rejected")
		}
		return nil, err
	}

	if p.LowStock() {
		log.Warn("stock at or below reorder level",
			zap.Int("stock", p.StockQuantity),
			zap.Int("reorder_level", p.ReorderLevel),
		)
	}
	return p, nil
}

func validateInput(in Input) error {
	switch {
	case strings.TrimSpace(in.PartNumber) == "":
		return fmt.Errorf("%w: part number is required", ErrInvalidPart)
	case strings.TrimSpace(in.PartName) == "":
		return fmt.Errorf("%w: part name is required", ErrInvalidPart)
	case strings.TrimSpace(in.Category) == "":
		return fmt.Errorf("%w: category is required", ErrInvalidPart)
	case !in.Price.IsPositive():
		return fmt.Errorf("%w: price must be greater than 0", ErrInvalidPart)
	case in.StockQuantity < 0:
		return fmt.Errorf("%w: stock quantity cannot be negative", ErrInvalidPart)
	case in.ReorderLevel != nil && *in.ReorderLevel < 0:
		return fmt.Errorf("%w: reorder level cannot be negative", ErrInvalidPart)
	case in.WarrantyMonths != nil && *in.WarrantyMonths < 0:
		return fmt.Errorf("%w: warranty months cannot be negative", ErrInvalidPart)
	}
	return nil
}

func applyInput(p *SparePart, in Input) {
	p.PartNumber = strings.TrimSpace(in.PartNumber)
	p.PartName = strings.TrimSpace(in.PartName)
	p.Category = strings.TrimSpace(in.Category)
	p.Brand = in.Brand
	p.VehicleModel = in.VehicleModel
	p.Description = in.Description
	p.Price = in.Price
	p.StockQuantity = in.StockQuantity
	p.ImageURL = in.ImageURL
	if in.ReorderLevel != nil {
		p.ReorderLevel = *in.ReorderLevel
	}
	if in.WarrantyMonths != nil {
		p.WarrantyMonths = *in.WarrantyMonths
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}

func toLowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
