package request

import (
	"github.com/shopspring/decimal"
)

type InsertProduct struct {
	Sku      string          `validate:"required,max=64"   json:"sku"`
	Type     string          `validate:"required,oneof=simple configurable" json:"type"`
	Name     string          `validate:"required,max=255"  json:"name"`
	Slug     string          `validate:"required,max=255"  json:"slug"`
	Price    decimal.Decimal `validate:"required"          json:"price"`
	Weight   int32           `validate:"required,gte=1"    json:"weight"`
	Quantity int32           `validate:"gte=0"             json:"quantity"`
}
