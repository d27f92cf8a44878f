package domain

import "time"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Coupon struct {
	ID             int64        `json:"id"`
	Code           string       `json:"code" validate:"required"`
	DiscountType   DiscountType `json:"discount_type" validate:"required"`
	DiscountAmount float64      `json:"discount_amount" validate:"gte=0"`
	MinPurchase    float64      `json:"min_purchase"`
	// MaxDiscount caps percentage discounts; nil means uncapped.
	MaxDiscount *float64  `json:"max_discount,omitempty"`
	StartDate   time.Time `json:"start_date"`
	ExpiryDate  time.Time `json:"expiry_date"`
	// UsageLimit is nil for unlimited redemptions. UsageCount never
	// exceeds the limit when one is set.
	UsageLimit *int `json:"usage_limit,omitempty"`
	UsageCount int  `json:"usage_count"`
	IsActive   bool `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Redeemable reports whether the coupon can still be applied at the
// given instant for the given order total. It does not compute the
// discount.
func (c *Coupon) Redeemable(orderTotal float64, now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if now.Before(c.StartDate) || now.After(c.ExpiryDate) {
		return false
	}
	if orderTotal < c.MinPurchase {
		return false
	}
	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return false
	}
	return true
}
