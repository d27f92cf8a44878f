package coupon

import (
	"math"
	"time"

	"travelmarket/internal/domain"
)

// Quote computes the discount a coupon yields on an order total at the
// given instant. Invalid or inapplicable coupons quote zero; the order
// proceeds at full price. Pure, storage-free.
func Quote(c *domain.Coupon, orderTotal float64, now time.Time) (float64, bool) {
	if c == nil || orderTotal <= 0 {
		return 0, false
	}
	if !c.Redeemable(orderTotal, now) {
		return 0, false
	}

	var discount float64
	switch c.DiscountType {
	case domain.DiscountPercentage:
		discount = orderTotal * c.DiscountAmount / 100
		if c.MaxDiscount != nil && discount > *c.MaxDiscount {
			discount = *c.MaxDiscount
		}
	case domain.DiscountFixed:
		discount = c.DiscountAmount
	default:
		return 0, false
	}

	// never discount below a zero total
	if discount > orderTotal {
		discount = orderTotal
	}
	if discount <= 0 {
		return 0, false
	}

	return math.Round(discount*100) / 100, true
}
