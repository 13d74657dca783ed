// Package pricing applies tax, shipping and discount conditions to a cart's
// subtotal. At most one condition of each kind contributes to a total;
// replacement is the cart store's remove-by-kind-then-add responsibility.
package pricing

import (
	"github.com/shopspring/decimal"
)

type Totals struct {
	BaseTotal       decimal.Decimal `json:"base_total"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
}

// Compute snapshots the monetary breakdown for a subtotal under the given
// conditions: grand_total = base + tax + shipping - discount.
func Compute(subtotal decimal.Decimal, conditions []Condition) Totals {
	totals := Totals{
		BaseTotal:       subtotal,
		TaxAmount:       decimal.Zero,
		TaxPercent:      decimal.Zero,
		ShippingCost:    decimal.Zero,
		DiscountAmount:  decimal.Zero,
		DiscountPercent: decimal.Zero,
	}

	if tax, ok := ByKind(conditions, KindTax); ok {
		totals.TaxAmount = tax.Amount(subtotal)
		totals.TaxPercent = tax.Percent()
	}
	if shipping, ok := ByKind(conditions, KindShipping); ok {
		totals.ShippingCost = shipping.Amount(subtotal)
	}
	if discount, ok := ByKind(conditions, KindDiscount); ok {
		// Discounts are stored sign-aware ("-5000") but snapshot as a
		// positive amount that the grand total subtracts.
		totals.DiscountAmount = discount.Amount(subtotal).Abs()
		totals.DiscountPercent = discount.Percent().Abs()
	}

	totals.GrandTotal = subtotal.
		Add(totals.TaxAmount).
		Add(totals.ShippingCost).
		Sub(totals.DiscountAmount)
	return totals
}

// Total resolves the running cart total: subtotal plus every active
// non-discount condition minus discounts.
func Total(subtotal decimal.Decimal, conditions []Condition) decimal.Decimal {
	return Compute(subtotal, conditions).GrandTotal
}
