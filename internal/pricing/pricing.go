// Package pricing holds the money arithmetic shared by carts, orders and the
// catalog. Amounts are summed as decimals and rounded half away from zero to
// two places before they are stored.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrPriceMismatch = errors.New("price does not match originalPrice and discount")

// Tolerance allowed between a client supplied price and the derived one.
var tolerance = decimal.NewFromFloat(0.01)

var hundred = decimal.NewFromInt(100)

// Line is a unit price and a quantity.
type Line struct {
	Price    float64
	Quantity int
}

// Policy carries the configurable rates. TaxRate is a percentage.
type Policy struct {
	TaxRate               float64
	ShippingFee           float64
	FreeShippingThreshold float64
}

type Breakdown struct {
	ItemsPrice    float64
	TaxPrice      float64
	ShippingPrice float64
	TotalPrice    float64
}

func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

func subtotal(lines []Line) (decimal.Decimal, int) {
	sum := decimal.Zero
	count := 0
	for _, l := range lines {
		sum = sum.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
		count += l.Quantity
	}
	return sum, count
}

// Totals returns the item count and Σ price×quantity.
func Totals(lines []Line) (int, float64) {
	sum, count := subtotal(lines)
	f, _ := sum.Round(2).Float64()
	return count, f
}

// Order prices a list of lines. Shipping is free only when the items price
// is strictly above the threshold.
func Order(lines []Line, p Policy) Breakdown {
	items, _ := subtotal(lines)
	items = items.Round(2)

	tax := items.Mul(decimal.NewFromFloat(p.TaxRate)).Div(hundred).Round(2)

	shipping := decimal.NewFromFloat(p.ShippingFee).Round(2)
	if items.GreaterThan(decimal.NewFromFloat(p.FreeShippingThreshold)) {
		shipping = decimal.Zero
	}

	total := items.Add(tax).Add(shipping).Round(2)

	b := Breakdown{}
	b.ItemsPrice, _ = items.Float64()
	b.TaxPrice, _ = tax.Float64()
	b.ShippingPrice, _ = shipping.Float64()
	b.TotalPrice, _ = total.Float64()
	return b
}

// DerivePrice computes originalPrice * (1 - discount/100).
func DerivePrice(originalPrice, discount float64) float64 {
	orig := decimal.NewFromFloat(originalPrice)
	factor := hundred.Sub(decimal.NewFromFloat(discount)).Div(hundred)
	f, _ := orig.Mul(factor).Round(2).Float64()
	return f
}

// Reconcile resolves the price triple of a product. originalPrice and
// discount win; a supplied price must agree with them within one cent.
// When only price is known it becomes the original price with no discount.
func Reconcile(price, originalPrice, discount *float64) (float64, float64, float64, error) {
	d := 0.0
	if discount != nil {
		d = *discount
	}
	if d < 0 || d >= 100 {
		return 0, 0, 0, fmt.Errorf("discount must be in [0,100), got %v", d)
	}

	switch {
	case originalPrice != nil:
		if *originalPrice < 0 {
			return 0, 0, 0, fmt.Errorf("originalPrice cannot be negative")
		}
		derived := DerivePrice(*originalPrice, d)
		if price != nil {
			diff := decimal.NewFromFloat(*price).Sub(decimal.NewFromFloat(derived)).Abs()
			if diff.GreaterThan(tolerance) {
				return 0, 0, 0, fmt.Errorf("%w: got %v, want %v", ErrPriceMismatch, *price, derived)
			}
		}
		return derived, Round2(*originalPrice), d, nil
	case price != nil:
		if *price < 0 {
			return 0, 0, 0, fmt.Errorf("price cannot be negative")
		}
		if d != 0 {
			return 0, 0, 0, fmt.Errorf("discount requires originalPrice")
		}
		p := Round2(*price)
		return p, p, 0, nil
	default:
		return 0, 0, 0, fmt.Errorf("price or originalPrice is required")
	}
}

// Paise converts an amount in rupees to the smallest currency unit.
func Paise(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(hundred).Round(0).IntPart()
}
