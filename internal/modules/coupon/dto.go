package coupon

import "time"

type CreateCouponRequest struct {
	Code           string    `json:"code" binding:"required"`
	DiscountType   string    `json:"discount_type" binding:"required"`
	DiscountAmount float64   `json:"discount_amount" binding:"required,gt=0"`
	MinPurchase    float64   `json:"min_purchase"`
	MaxDiscount    *float64  `json:"max_discount,omitempty"`
	StartDate      time.Time `json:"start_date" binding:"required"`
	ExpiryDate     time.Time `json:"expiry_date" binding:"required"`
	UsageLimit     *int      `json:"usage_limit,omitempty"`
}

type PreviewRequest struct {
	Code       string  `json:"code" binding:"required"`
	OrderTotal float64 `json:"order_total" binding:"required,gt=0"`
}

type PreviewResponse struct {
	Code           string  `json:"code"`
	Valid          bool    `json:"valid"`
	DiscountAmount float64 `json:"discount_amount"`
}
