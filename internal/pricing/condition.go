package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

type ConditionKind string

const (
	KindTax      ConditionKind = "tax"
	KindShipping ConditionKind = "shipping"
	KindDiscount ConditionKind = "discount"
)

type ConditionTarget string

const (
	TargetSubtotal ConditionTarget = "subtotal"
	TargetTotal    ConditionTarget = "total"
)

// Condition is a named, typed adjustment applied to a cart. Value is either
// a percentage ("10%") or a sign-aware fixed amount ("+15000", "-5000").
type Condition struct {
	Name   string          `json:"name"`
	Kind   ConditionKind   `json:"kind"`
	Target ConditionTarget `json:"target"`
	Value  string          `json:"value"`
}

func (cond Condition) IsPercentage() bool {
	return strings.HasSuffix(cond.Value, "%")
}

// Percent returns the percentage value of the condition, zero for fixed
// amounts or malformed values. A malformed value is a programming error, not
// user input, so it is not surfaced as a recoverable error.
func (cond Condition) Percent() decimal.Decimal {
	if !cond.IsPercentage() {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(cond.Value, "%"))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Amount resolves the condition against base: percentage conditions are
// computed from base, fixed conditions are parsed sign-aware.
func (cond Condition) Amount(base decimal.Decimal) decimal.Decimal {
	if cond.IsPercentage() {
		return base.Mul(cond.Percent()).Div(decimal.NewFromInt(100))
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(cond.Value, "+"))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ByKind returns the first condition of the given kind. The cart store
// guarantees at most one condition per kind, so first is the only one.
func ByKind(conditions []Condition, kind ConditionKind) (Condition, bool) {
	for _, cond := range conditions {
		if cond.Kind == kind {
			return cond, true
		}
	}
	return Condition{}, false
}

// RemoveByKind returns conditions without any condition of the given kind.
func RemoveByKind(conditions []Condition, kind ConditionKind) []Condition {
	kept := make([]Condition, 0, len(conditions))
	for _, cond := range conditions {
		if cond.Kind == kind {
			continue
		}
		kept = append(kept, cond)
	}
	return kept
}
