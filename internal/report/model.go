package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeSales     = "SALES"
	TypeInventory = "INVENTORY"
	TypeDelivery  = "DELIVERY"
)

// Report is a generated summary over the live tables. Data is computed on
// first use and reused for the life of the value.
type Report interface {
	Title() string
	Type() string
	GeneratedAt() time.Time
	Data(ctx context.Context) (map[string]any, error)
	Export(ctx context.Context) (string, error)
}

type SalesFigures struct {
	TotalOrders     int64
	TotalSales      decimal.Decimal
	CompletedOrders int64
	PendingOrders   int64
}

type LowStockItem struct {
	PartNumber    string `json:"part_number"`
	PartName      string `json:"part_name"`
	StockQuantity int    `json:"stock_quantity"`
	ReorderLevel  int    `json:"reorder_level"`
}

type InventoryFigures struct {
	TotalParts     int64
	OutOfStock     int64
	InventoryValue decimal.Decimal
	LowStock       []LowStockItem
}

type DeliveryFigures struct {
	Total      int64
	Pending    int64
	Dispatched int64
	InTransit  int64
	Delivered  int64
	Failed     int64
}
