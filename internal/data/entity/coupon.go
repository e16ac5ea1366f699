package entity

import "time"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is foreign user data referenced by a session. Zero values for
// MinimumOrderAmount and MaximumDiscountAmount mean "not set".
type Coupon struct {
	ID                    string
	DiscountType          DiscountType
	Value                 float64
	MinimumOrderAmount    float64
	MaximumDiscountAmount float64
	ExpiresAt             time.Time
	Used                  bool
}

// Applicable reports whether the coupon may be applied to an order of the
// given total at the given time.
func (c *Coupon) Applicable(totalPrice float64, now time.Time) bool {
	if c == nil || c.Used {
		return false
	}
	if !c.ExpiresAt.After(now) {
		return false
	}
	if c.MinimumOrderAmount > 0 && totalPrice < c.MinimumOrderAmount {
		return false
	}
	return true
}

// Discount returns the discount amount for the given total. Percentage
// discounts are capped at MaximumDiscountAmount when set; fixed discounts
// never exceed the total.
func (c *Coupon) Discount(totalPrice float64) float64 {
	if c == nil {
		return 0
	}
	var discount float64
	switch c.DiscountType {
	case DiscountPercentage:
		discount = totalPrice * c.Value / 100
		if c.MaximumDiscountAmount > 0 && discount > c.MaximumDiscountAmount {
			discount = c.MaximumDiscountAmount
		}
	case DiscountFixed:
		discount = c.Value
	}
	if discount > totalPrice {
		discount = totalPrice
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// ApplyCoupon returns the final amount after discount, always in [0, total].
func ApplyCoupon(price PriceDetails, c *Coupon) float64 {
	final := price.Total - c.Discount(price.Total)
	if final < 0 {
		final = 0
	}
	return final
}
