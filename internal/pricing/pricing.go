package pricing

import (
	"github.com/cafesol/cafeapp/internal/catalog"
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// EffectiveUnitPrice returns the unit price after the offer discount.
// The discount applies only when the item is on offer with a positive
// percentage. Out-of-range percentages are not clamped here; the admin
// forms reject them before they ever reach this point.
func EffectiveUnitPrice(basePrice decimal.Decimal, onOffer bool, discountPercent decimal.Decimal) decimal.Decimal {
	if !onOffer || discountPercent.LessThanOrEqual(decimal.Zero) {
		return basePrice
	}
	return basePrice.Mul(one.Sub(discountPercent.Div(hundred)))
}

// OptionsSurcharge sums the surcharges of the selected option choices.
func OptionsSurcharge(selected []catalog.OptionChoice) decimal.Decimal {
	total := decimal.Zero
	for _, choice := range selected {
		total = total.Add(choice.Surcharge)
	}
	return total
}

// LineTotal is unit price times quantity. No rounding happens here;
// accumulating rounded intermediates drifts across repeated increments.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// DisplayAmount renders an amount for the UI, rounded to two places.
// This is the only place rounding is allowed.
func DisplayAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
