package sparepart

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultReorderLevel   = 10
	DefaultWarrantyMonths = 6
)

type SparePart struct {
	ID             int64           `json:"id"`
	PartNumber     string          `json:"part_number"`
	PartName       string          `json:"part_name"`
	Category       string          `json:"category"`
	Brand          string          `json:"brand"`
	VehicleModel   string          `json:"vehicle_model"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	StockQuantity  int             `json:"stock_quantity"`
	ReorderLevel   int             `json:"reorder_level"`
	WarrantyMonths int             `json:"warranty_months"`
	ImageURL       string          `json:"image_url"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// LowStock reports whether the part has reached its reorder threshold.
func (p *SparePart) LowStock() bool {
	return p.StockQuantity <= p.ReorderLevel
}

// Input carries the writable catalog fields. Nil pointers fall back to defaults
// on create and keep the stored value on update.
type Input struct {
	PartNumber     string          `json:"part_number"`
	PartName       string          `json:"part_name"`
	Category       string          `json:"category"`
	Brand          string          `json:"brand"`
	VehicleModel   string          `json:"vehicle_model"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	StockQuantity  int             `json:"stock_quantity"`
	ReorderLevel   *int            `json:"reorder_level"`
	WarrantyMonths *int            `json:"warranty_months"`
	ImageURL       string          `json:"image_url"`
	IsActive       *bool           `json:"is_active"`
}
