// Package pricing computes every money amount shown to the shopper:
// subtotal, shipping cost, coupon discount and grand total. It is pure —
// it performs no I/O and holds no state — so the same inputs always
// produce the same quote. Amounts are decimal throughout; rounding to two
// places happens only in Display.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodStandard Method = "standard"
	MethodExpress  Method = "express"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed_amount"
)

// Line is one cart line as the engine sees it.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Coupon is the validated applied-coupon snapshot. Validation happens
// before a coupon reaches the engine; the engine only applies the formula.
type Coupon struct {
	Code  string
	Type  DiscountType
	Value decimal.Decimal
}

// Rates parametrizes shipping-cost computation. Standard shipping is free
// once the subtotal reaches FreeThreshold, otherwise StandardFee applies;
// express is always ExpressFee.
type Rates struct {
	StandardFee   decimal.Decimal
	ExpressFee    decimal.Decimal
	FreeThreshold decimal.Decimal
}

// RatesFrom builds Rates from configured float fees.
func RatesFrom(standardFee, expressFee, freeThreshold float64) Rates {
	return Rates{
		StandardFee:   decimal.NewFromFloat(standardFee),
		ExpressFee:    decimal.NewFromFloat(expressFee),
		FreeThreshold: decimal.NewFromFloat(freeThreshold),
	}
}

// Result is the full pricing breakdown. All fields are non-negative.
type Result struct {
	Subtotal       decimal.Decimal
	ShippingCost   decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	DiscountCode   string
}

// Display returns a copy with every amount rounded to two decimal places.
func (r Result) Display() Result {
	return Result{
		Subtotal:       r.Subtotal.Round(2),
		ShippingCost:   r.ShippingCost.Round(2),
		DiscountAmount: r.DiscountAmount.Round(2),
		Total:          r.Total.Round(2),
		DiscountCode:   r.DiscountCode,
	}
}

// Subtotal sums unit price times quantity over all lines. An empty cart
// subtotals to zero. A line with quantity < 1 or a negative unit price is
// an upstream invariant violation in cart management and panics rather
// than being silently clamped.
func Subtotal(lines []Line) decimal.Decimal {
	subtotal := decimal.Zero
	for i, line := range lines {
		if line.Quantity < 1 {
			panic(fmt.Sprintf("pricing: line %d has quantity %d, want >= 1", i, line.Quantity))
		}
		if line.UnitPrice.IsNegative() {
			panic(fmt.Sprintf("pricing: line %d has negative unit price %s", i, line.UnitPrice))
		}
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return subtotal
}

// ShippingCost applies the method rule against the subtotal.
func ShippingCost(rates Rates, method Method, subtotal decimal.Decimal) decimal.Decimal {
	switch method {
	case MethodExpress:
		return rates.ExpressFee
	default:
		if subtotal.GreaterThanOrEqual(rates.FreeThreshold) {
			return decimal.Zero
		}
		return rates.StandardFee
	}
}

// Discount computes the coupon discount against the subtotal only, never
// against subtotal plus shipping. A nil coupon discounts nothing.
// Percentage coupons take subtotal * value / 100; fixed-amount coupons are
// capped at the subtotal so a line's contribution never goes negative.
func Discount(coupon *Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if coupon == nil {
		return decimal.Zero
	}
	if coupon.Value.IsNegative() {
		panic(fmt.Sprintf("pricing: coupon %s has negative value %s", coupon.Code, coupon.Value))
	}
	switch coupon.Type {
	case DiscountPercentage:
		return subtotal.Mul(coupon.Value).Div(decimal.NewFromInt(100))
	case DiscountFixed:
		return decimal.Min(coupon.Value, subtotal)
	default:
		panic(fmt.Sprintf("pricing: unknown discount type %q", coupon.Type))
	}
}

// Quote computes the full breakdown: subtotal, shipping per the method
// rule, discount per the coupon formula, and the grand total
// subtotal + shipping - discount, clamped at zero.
func Quote(rates Rates, lines []Line, method Method, coupon *Coupon) Result {
	subtotal := Subtotal(lines)
	shipping := ShippingCost(rates, method, subtotal)
	discount := Discount(coupon, subtotal)

	total := subtotal.Add(shipping).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	result := Result{
		Subtotal:       subtotal,
		ShippingCost:   shipping,
		DiscountAmount: discount,
		Total:          total,
	}
	if coupon != nil {
		result.DiscountCode = coupon.Code
	}
	return result
}
