package report

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const timestampLayout = "2006-01-02T15:04:05"

type line struct {
	label string
	value string
}

// base holds what every report shares: identity, generation time and the
// memoised data set.
type base struct {
	title       string
	kind        string
	generatedAt time.Time
	load        func(ctx context.Context) (map[string]any, []line, error)

	mu    sync.Mutex
	data  map[string]any
	lines []line
}

func (b *base) Title() string          { return b.title }
func (b *base) Type() string           { return b.kind }
func (b *base) GeneratedAt() time.Time { return b.generatedAt }

func (b *base) compute(ctx context.Context) (map[string]any, []line, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.data == nil {
		data, lines, err := b.load(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("generate %s report: %w", strings.ToLower(b.kind), err)
		}
		b.data, b.lines = data, lines
	}
	return b.data, b.lines, nil
}

func (b *base) Data(ctx context.Context) (map[string]any, error) {
	data, _, err := b.compute(ctx)
	return data, err
}

// Export renders the report as plain text.
func (b *base) Export(ctx context.Context) (string, error) {
	_, lines, err := b.compute(ctx)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s ===\n", strings.ToUpper(b.title))
	fmt.Fprintf(&sb, "Generated: %s\n\n", b.generatedAt.Format(timestampLayout))
	for _, l := range lines {
		fmt.Fprintf(&sb, "%s: %s\n", l.label, l.value)
	}
	return sb.String(), nil
}

// Rows returns the label/value pairs shown by Export, in order.
func Rows(ctx context.Context, r Report) ([][2]string, error) {
	b, ok := r.(*base)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnknownType, r)
	}
	_, lines, err := b.compute(ctx)
	if err != nil {
		return nil, err
	}
	out := make([][2]string, len(lines))
	for i, l := range lines {
		out[i] = [2]string{l.label, l.value}
	}
	return out, nil
}

func newSalesReport(src Source, now time.Time) *base {
	return &base{
		title:       "Sales Report",
		kind:        TypeSales,
		generatedAt: now,
		load: func(ctx context.Context) (map[string]any, []line, error) {
			f, err := src.SalesFigures(ctx)
			if err != nil {
				return nil, nil, err
			}

			avg := decimal.Zero
			if f.TotalOrders > 0 {
				avg = f.TotalSales.Div(decimal.NewFromInt(f.TotalOrders)).Round(2)
			}

			data := map[string]any{
				"totalOrders":       f.TotalOrders,
				"totalSales":        f.TotalSales,
				"completedOrders":   f.CompletedOrders,
				"pendingOrders":     f.PendingOrders,
				"averageOrderValue": avg,
			}
			lines := []line{
				{"Total Orders", fmt.Sprint(f.TotalOrders)},
				{"Total Sales", "$" + f.TotalSales.StringFixed(2)},
				{"Completed Orders", fmt.Sprint(f.CompletedOrders)},
				{"Pending Orders", fmt.Sprint(f.PendingOrders)},
				{"Average Order Value", "$" + avg.StringFixed(2)},
			}
			return data, lines, nil
		},
	}
}

func newInventoryReport(src Source, now time.Time) *base {
	return &base{
		title:       "Inventory Report",
		kind:        TypeInventory,
		generatedAt: now,
		load: func(ctx context.Context) (map[string]any, []line, error) {
			f, err := src.InventoryFigures(ctx)
			if err != nil {
				return nil, nil, err
			}

			data := map[string]any{
				"totalParts":          f.TotalParts,
				"lowStockCount":       len(f.LowStock),
				"lowStockItems":       f.LowStock,
				"outOfStockCount":     f.OutOfStock,
				"totalInventoryValue": f.InventoryValue,
			}
			lines := []line{
				{"Total Parts", fmt.Sprint(f.TotalParts)},
				{"Low Stock Items", fmt.Sprint(len(f.LowStock))},
				{"Out of Stock", fmt.Sprint(f.OutOfStock)},
				{"Total Inventory Value", "$" + f.InventoryValue.StringFixed(2)},
			}
			return data, lines, nil
		},
	}
}

func newDeliveryReport(src Source, now time.Time) *base {
	return &base{
		title:       "Delivery Report",
		kind:        TypeDelivery,
		generatedAt: now,
		load: func(ctx context.Context) (map[string]any, []line, error) {
			f, err := src.DeliveryFigures(ctx)
			if err != nil {
				return nil, nil, err
			}

			rate := 0.0
			if f.Total > 0 {
				rate = float64(f.Delivered) * 100 / float64(f.Total)
			}

			data := map[string]any{
				"totalDeliveries":      f.Total,
				"pendingDeliveries":    f.Pending,
				"dispatchedDeliveries": f.Dispatched,
				"inTransitDeliveries":  f.InTransit,
				"deliveredCount":       f.Delivered,
				"failedDeliveries":     f.Failed,
				"successRate":          rate,
			}
			lines := []line{
				{"Total Deliveries", fmt.Sprint(f.Total)},
				{"Pending", fmt.Sprint(f.Pending)},
				{"Dispatched", fmt.Sprint(f.Dispatched)},
				{"In Transit", fmt.Sprint(f.InTransit)},
				{"Delivered", fmt.Sprint(f.Delivered)},
				{"Failed", fmt.Sprint(f.Failed)},
				{"Success Rate", fmt.Sprintf("%.2f%%", rate)},
			}
			return data, lines, nil
		},
	}
}
