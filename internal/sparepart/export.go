package sparepart

import (
	"context"
	"fmt"
	"io"

	"spareparts-be/internal/logger"

	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
)

const (
	WorkbookSheet       = "Spare Parts"
	WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var workbookHeaders = []string{
	"ID", "PartNumber", "PartName", "Category", "Brand", "VehicleModel",
	"Price", "Stock", "ReorderLevel", "WarrantyMonths", "Active", "LowStock",
	"CreatedAt", "UpdatedAt",
}

// ExportWorkbook writes every catalog entry, active or not, to w as xlsx.
func (s *service) ExportWorkbook(ctx context.Context, w io.Writer) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ExportWorkbook"),
	)

	parts, err := s.repo.List(ctx, false)
	if err != nil {
		log.Error("failed to load parts for export", zap.Error(err))
		return err
	}

	file, err := buildWorkbook(parts)
	if err != nil {
		return err
	}

	if err := file.Write(w); err != nil {
		log.Error("failed to write workbook", zap.Error(err))
		return fmt.Errorf("write workbook: %w", err)
	}

	log.Info("catalog exported", zap.Int("count", len(parts)))
	return nil
}

func buildWorkbook(parts []*SparePart) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(WorkbookSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range workbookHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range parts {
		row := sheet.AddRow()

		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.PartNumber)
		row.AddCell().SetValue(p.PartName)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.Brand)
		row.AddCell().SetValue(p.VehicleModel)
		row.AddCell().SetValue(p.Price.StringFixed(2))
		row.AddCell().SetValue(p.StockQuantity)
		row.AddCell().SetValue(p.ReorderLevel)
		row.AddCell().SetValue(p.WarrantyMonths)
		row.AddCell().SetValue(p.IsActive)
		row.AddCell().SetValue(p.LowStock())
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	return file, nil
}
