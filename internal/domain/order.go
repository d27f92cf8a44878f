package domain

import "time"

type OrderStatus string

const (
	OrderPlaced    OrderStatus = "placed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderLine is one product line in an order. Quantity is validated
// against stock at placement time, not advisory.
type OrderLine struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"order_id"`
	ItemID    int64   `json:"item_id" validate:"required"`
	VariantID *int64  `json:"variant_id,omitempty"`
	Quantity  int     `json:"quantity" validate:"required,gte=1"`
	UnitPrice float64 `json:"unit_price"`
}

type Order struct {
	ID             int64       `json:"id"`
	Reference      string      `json:"reference"`
	UserID         int64       `json:"user_id"`
	Lines          []OrderLine `json:"lines"`
	Address        string      `json:"address"`
	CouponCode     string      `json:"coupon_code,omitempty"`
	DeliveryCharge float64     `json:"delivery_charge"`
	DiscountAmount float64     `json:"discount_amount"`
	TotalAmount    float64     `json:"total_amount"`
	Status         OrderStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Subtotal sums line prices before delivery and discount.
func (o *Order) Subtotal() float64 {
	var sum float64
	for _, l := range o.Lines {
		sum += l.UnitPrice * float64(l.Quantity)
	}
	return sum
}
