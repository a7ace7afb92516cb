package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spareparts-be/internal/logger"

	"go.uber.org/zap"
)

var available = []string{TypeSales, TypeInventory, TypeDelivery}

var descriptions = map[string]string{
	TypeSales:     "Sales Report - Overview of total sales, orders, and revenue",
	TypeInventory: "Inventory Report - Stock levels, low stock alerts, and inventory value",
	TypeDelivery:  "Delivery Report - Delivery status, success rates, and logistics overview",
}

type Factory struct {
	src Source
	now func() time.Time
}

func NewFactory(src Source) *Factory {
	return &Factory{src: src, now: time.Now}
}

// Create builds the report for kind, matched case-insensitively.
func (f *Factory) Create(ctx context.Context, kind string) (Report, error) {
	normalized := strings.ToUpper(strings.TrimSpace(kind))

	var r *base
	switch normalized {
	case "":
		return nil, ErrTypeRequired
	case TypeSales:
		r = newSalesReport(f.src, f.now())
	case TypeInventory:
		r = newInventoryReport(f.src, f.now())
	case TypeDelivery:
		r = newDeliveryReport(f.src, f.now())
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, kind)
	}

	logger.FromCtx(ctx).Info("report created", zap.String("type", normalized))
	return r, nil
}

// Available lists the report types in display order.
func Available() []string {
	out := make([]string, len(available))
	copy(out, available)
	return out
}

func Describe(kind string) string {
	if d, ok := descriptions[strings.ToUpper(strings.TrimSpace(kind))]; ok {
		return d
	}
	return "Unknown report type"
}
