package response

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aprayoga/storefront/internal/pricing"
)

// Attributes are the variant options of a cart item. Two lines with the same
// product but different attributes stay separate in the cart.
type Attributes struct {
	Size  string `json:"size"`
	Color string `json:"color"`
}

type Item struct {
	ID         string          `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Sku        string          `json:"sku"`
	Type       string          `json:"type"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int32           `json:"quantity"`
	Weight     int32           `json:"weight"`
	Attributes Attributes      `json:"attributes"`
}

func (i Item) SubTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt32(i.Quantity))
}

// ItemID derives the cart line id from the product and its variant options,
// so adding the same product with the same options merges quantities.
func ItemID(productID uuid.UUID, attrs Attributes) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s|%s|%s", productID.String(), attrs.Size, attrs.Color)))
	return hex.EncodeToString(sum[:])
}

// Cart is the session-scoped cart document, stored as a JSON value in redis
// under carts:<sessionKey> and returned as-is to clients.
type Cart struct {
	SessionKey string              `json:"session_key"`
	Items      map[string]Item     `json:"items"`
	Conditions []pricing.Condition `json:"conditions"`
	Totals     pricing.Totals      `json:"totals"`
}

func NewCart(sessionKey string) Cart {
	return Cart{
		SessionKey: sessionKey,
		Items:      map[string]Item{},
		Conditions: []pricing.Condition{},
	}
}

func (crt Cart) IsEmpty() bool {
	return len(crt.Items) == 0
}

func (crt Cart) SubTotal() decimal.Decimal {
	subTotal := decimal.Zero
	for _, item := range crt.Items {
		subTotal = subTotal.Add(item.SubTotal())
	}
	return subTotal
}

func (crt Cart) TotalQuantity() int32 {
	var total int32
	for _, item := range crt.Items {
		total += item.Quantity
	}
	return total
}

// TotalWeight sums item weights in grams. An empty cart weighs zero, which
// callers must treat as unshippable rather than free to ship.
func (crt Cart) TotalWeight() int32 {
	var total int32
	for _, item := range crt.Items {
		total += item.Weight * item.Quantity
	}
	return total
}

// ComputeTotals refreshes the monetary breakdown from the current items and
// conditions.
func (crt *Cart) ComputeTotals() {
	crt.Totals = pricing.Compute(crt.SubTotal(), crt.Conditions)
}
