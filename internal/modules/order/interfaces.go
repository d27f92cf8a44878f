package order

import (
	"context"

	"travelmarket/internal/domain"
)

type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	DecrementStock(ctx context.Context, productID int64, qty int) (bool, error)
	DecrementVariantStock(ctx context.Context, variantID int64, qty int) (bool, error)
	RefreshOutOfStock(ctx context.Context, productID int64) error
}

type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	Redeem(ctx context.Context, couponID int64) (bool, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error)
}

// TxRunner scopes stock decrements, coupon redemption and order
// creation to a single database transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
