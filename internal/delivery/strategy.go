package delivery

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MethodStandard = "STANDARD"
	MethodExpress  = "EXPRESS"
	MethodPickup   = "PICKUP"
)

var (
	standardCost     = decimal.RequireFromString("10.00")
	expressCost      = decimal.RequireFromString("25.00")
	expressSurcharge = decimal.RequireFromString("10.00")
	expressThreshold = decimal.NewFromInt(500)
)

type Strategy interface {
	Method() string
	Description() string
	Cost(total decimal.Decimal) decimal.Decimal
	EstimatedAt(now time.Time) time.Time
}

type standard struct{}

func NewStandard() Strategy { return standard{} }

func (standard) Method() string { return MethodStandard }

func (standard) Description() string {
	return "Standard Delivery (5-7 business days) - $" + standardCost.StringFixed(2)
}

func (standard) Cost(decimal.Decimal) decimal.Decimal { return standardCost }

func (standard) EstimatedAt(now time.Time) time.Time { return now.AddDate(0, 0, 5) }

type express struct{}

func NewExpress() Strategy { return express{} }

func (express) Method() string { return MethodExpress }

func (express) Description() string {
	return "Express Delivery (1-2 business days) - $" + expressCost.StringFixed(2) + "+"
}

// Cost adds a surcharge for orders strictly above 500.
func (express) Cost(total decimal.Decimal) decimal.Decimal {
	if total.GreaterThan(expressThreshold) {
		return expressCost.Add(expressSurcharge)
	}
	return expressCost
}

func (express) EstimatedAt(now time.Time) time.Time { return now.AddDate(0, 0, 2) }

type pickup struct{}

func NewPickup() Strategy { return pickup{} }

func (pickup) Method() string { return MethodPickup }

func (pickup) Description() string { return "Store Pickup (Ready in 1 day) - Free" }

func (pickup) Cost(decimal.Decimal) decimal.Decimal { return decimal.Zero }

func (pickup) EstimatedAt(now time.Time) time.Time { return now.AddDate(0, 0, 1) }
