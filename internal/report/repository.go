package report

import (
	"context"
	"database/sql"

	"spareparts-be/internal/db"
)

// Source supplies the aggregates each report is built from.
type Source interface {
	SalesFigures(ctx context.Context) (SalesFigures, error)
	InventoryFigures(ctx context.Context) (InventoryFigures, error)
	DeliveryFigures(ctx context.Context) (DeliveryFigures, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Source {
	return &repository{db: db}
}

func (r *repository) SalesFigures(ctx context.Context) (SalesFigures, error) {
	var f SalesFigures
	err := db.Conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(total_amount), 0),
			COUNT(*) FILTER (WHERE status = 'DELIVERED'),
			COUNT(*) FILTER (WHERE status = 'PENDING')
		FROM orders`,
	).Scan(&f.TotalOrders, &f.TotalSales, &f.CompletedOrders, &f.PendingOrders)
	return f, err
}

func (r *repository) InventoryFigures(ctx context.Context) (InventoryFigures, error) {
	conn := db.Conn(ctx, r.db)

	var f InventoryFigures
	err := conn.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE stock_quantity = 0),
			COALESCE(SUM(price * stock_quantity), 0)
		FROM spare_parts`,
	).Scan(&f.TotalParts, &f.OutOfStock, &f.InventoryValue)
	if err != nil {
		return f, err
	}

	rows, err := conn.QueryContext(ctx, `
		SELECT part_number, part_name, stock_quantity, reorder_level
		FROM spare_parts
		WHERE stock_quantity < reorder_level
		ORDER BY stock_quantity, part_number`)
	if err != nil {
		return f, err
	}
	defer rows.Close()

	f.LowStock = []LowStockItem{}
	for rows.Next() {
		var it LowStockItem
		if err := rows.Scan(&it.PartNumber, &it.PartName, &it.StockQuantity, &it.ReorderLevel); err != nil {
			return f, err
		}
		f.LowStock = append(f.LowStock, it)
	}
	return f, rows.Err()
}

func (r *repository) DeliveryFigures(ctx context.Context) (DeliveryFigures, error) {
	var f DeliveryFigures
	err := db.Conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'PENDING'),
			COUNT(*) FILTER (WHERE status = 'DISPATCHED'),
			COUNT(*) FILTER (WHERE status = 'IN_TRANSIT'),
			COUNT(*) FILTER (WHERE status = 'DELIVERED'),
			COUNT(*) FILTER (WHERE status = 'FAILED')
		FROM deliveries`,
	).Scan(&f.Total, &f.Pending, &f.Dispatched, &f.InTransit, &f.Delivered, &f.Failed)
	return f, err
}
