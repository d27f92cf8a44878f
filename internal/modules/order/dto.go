package order

type LineRequest struct {
	ItemID    int64  `json:"item_id" binding:"required"`
	ItemType  string `json:"item_type"`
	VariantID *int64 `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity" binding:"required,gte=1"`
}

type PlaceOrderRequest struct {
	Items          []LineRequest `json:"items" binding:"required,min=1,dive"`
	Address        string        `json:"address" binding:"required"`
	CouponCode     string        `json:"coupon_code,omitempty"`
	DeliveryCharge float64       `json:"delivery_charge"`
}
