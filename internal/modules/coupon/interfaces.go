package coupon

import (
	"context"

	"travelmarket/internal/domain"
)

type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	Create(ctx context.Context, c *domain.Coupon) error
}
