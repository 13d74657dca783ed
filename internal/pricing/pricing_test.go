package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeGrandTotal(t *testing.T) {
	subtotal := decimal.NewFromFloat(45.00)
	conditions := []Condition{
		{Name: "TAX", Kind: KindTax, Target: TargetSubtotal, Value: "10%"},
		{Name: "JNE - REG", Kind: KindShipping, Target: TargetSubtotal, Value: "+15"},
	}

	totals := Compute(subtotal, conditions)

	assert.True(t, totals.BaseTotal.Equal(decimal.NewFromFloat(45.00)))
	assert.True(t, totals.TaxAmount.Equal(decimal.NewFromFloat(4.50)))
	assert.True(t, totals.TaxPercent.Equal(decimal.NewFromInt(10)))
	assert.True(t, totals.ShippingCost.Equal(decimal.NewFromInt(15)))
	assert.True(t, totals.DiscountAmount.Equal(decimal.Zero))
	assert.True(t, totals.GrandTotal.Equal(decimal.NewFromFloat(64.50)))
}

func TestComputeDiscountSubtracts(t *testing.T) {
	subtotal := decimal.NewFromInt(100)
	conditions := []Condition{
		{Name: "TAX", Kind: KindTax, Target: TargetSubtotal, Value: "10%"},
		{Name: "PROMO", Kind: KindDiscount, Target: TargetSubtotal, Value: "5%"},
	}

	totals := Compute(subtotal, conditions)

	assert.True(t, totals.DiscountAmount.Equal(decimal.NewFromInt(5)))
	assert.True(t, totals.DiscountPercent.Equal(decimal.NewFromInt(5)))
	assert.True(t, totals.GrandTotal.Equal(decimal.NewFromInt(105)))
}

func TestComputeFixedDiscountLowersTotal(t *testing.T) {
	subtotal := decimal.NewFromInt(100000)
	conditions := []Condition{
		{Name: "PROMO", Kind: KindDiscount, Target: TargetSubtotal, Value: "-5000"},
	}

	totals := Compute(subtotal, conditions)

	assert.True(t, totals.DiscountAmount.Equal(decimal.NewFromInt(5000)))
	assert.True(t, totals.GrandTotal.Equal(decimal.NewFromInt(95000)))
}

func TestComputeEmptyConditions(t *testing.T) {
	totals := Compute(decimal.NewFromInt(50), nil)

	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.ShippingCost.IsZero())
	assert.True(t, totals.GrandTotal.Equal(decimal.NewFromInt(50)))
}

func TestConditionAmountFixedSignAware(t *testing.T) {
	base := decimal.NewFromInt(200)

	plus := Condition{Name: "SHIP", Kind: KindShipping, Target: TargetSubtotal, Value: "+15000"}
	assert.True(t, plus.Amount(base).Equal(decimal.NewFromInt(15000)))

	minus := Condition{Name: "PROMO", Kind: KindDiscount, Target: TargetSubtotal, Value: "-5000"}
	assert.True(t, minus.Amount(base).Equal(decimal.NewFromInt(-5000)))
}

func TestConditionPercent(t *testing.T) {
	cond := Condition{Name: "TAX", Kind: KindTax, Target: TargetSubtotal, Value: "10%"}
	assert.True(t, cond.IsPercentage())
	assert.True(t, cond.Percent().Equal(decimal.NewFromInt(10)))
	assert.True(t, cond.Amount(decimal.NewFromInt(45)).Equal(decimal.NewFromFloat(4.5)))

	fixed := Condition{Name: "SHIP", Kind: KindShipping, Target: TargetSubtotal, Value: "+15000"}
	assert.False(t, fixed.IsPercentage())
	assert.True(t, fixed.Percent().IsZero())
}

func TestRemoveByKindKeepsOthers(t *testing.T) {
	conditions := []Condition{
		{Name: "TAX", Kind: KindTax, Target: TargetSubtotal, Value: "10%"},
		{Name: "JNE - REG", Kind: KindShipping, Target: TargetSubtotal, Value: "+15000"},
	}

	kept := RemoveByKind(conditions, KindTax)

	assert.Len(t, kept, 1)
	assert.Equal(t, KindShipping, kept[0].Kind)
}

func TestByKindReturnsFirstMatch(t *testing.T) {
	conditions := []Condition{
		{Name: "JNE - REG", Kind: KindShipping, Target: TargetSubtotal, Value: "+15000"},
	}

	cond, ok := ByKind(conditions, KindShipping)
	assert.True(t, ok)
	assert.Equal(t, "JNE - REG", cond.Name)

	_, ok = ByKind(conditions, KindDiscount)
	assert.False(t, ok)
}
