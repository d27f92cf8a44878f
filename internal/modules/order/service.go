package order

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"travelmarket/internal/domain"
	"travelmarket/internal/modules/coupon"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	products ProductRepository
	coupons  CouponRepository
	orders   OrderRepository
	tx       TxRunner
}

func NewService(products ProductRepository, coupons CouponRepository, orders OrderRepository, tx TxRunner) *Service {
	return &Service{
		products: products,
		coupons:  coupons,
		orders:   orders,
		tx:       tx,
	}
}

// resolvedLine is a validated line with its price pinned.
type resolvedLine struct {
	product *domain.Product
	variant *domain.Variant
	line    domain.OrderLine
}

// PlaceOrder validates every line, then decrements stock, redeems the
// coupon and creates the order inside one transaction. Any stock
// failure rolls everything back; an order never partially reserves.
func (s *Service) PlaceOrder(ctx context.Context, userID int64, req PlaceOrderRequest) (*domain.Order, error) {
	if len(req.Items) == 0 || req.Address == "" || req.DeliveryCharge < 0 {
		return nil, ErrValidation
	}
	for _, item := range req.Items {
		if item.Quantity < 1 || item.ItemID <= 0 {
			return nil, ErrValidation
		}
		// the marketplace's only stocked item type
		if item.ItemType != "" && item.ItemType != "product" {
			return nil, ErrValidation
		}
	}

	var placed *domain.Order
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		resolved, err := s.resolveLines(ctx, req.Items)
		if err != nil {
			return err
		}

		// every line validated above; now take the stock
		if err := s.reserveStock(ctx, resolved); err != nil {
			return err
		}

		var subtotal float64
		lines := make([]domain.OrderLine, 0, len(resolved))
		for _, rl := range resolved {
			subtotal += rl.line.UnitPrice * float64(rl.line.Quantity)
			lines = append(lines, rl.line)
		}
		subtotal = round2(subtotal)

		discount, couponCode, err := s.applyCoupon(ctx, req.CouponCode, subtotal)
		if err != nil {
			return err
		}

		o := &domain.Order{
			Reference:      uuid.NewString(),
			UserID:         userID,
			Lines:          lines,
			Address:        req.Address,
			CouponCode:     couponCode,
			DeliveryCharge: req.DeliveryCharge,
			DiscountAmount: discount,
			TotalAmount:    round2(subtotal + req.DeliveryCharge - discount),
			Status:         domain.OrderPlaced,
		}
		if err := s.orders.Create(ctx, o); err != nil {
			return err
		}

		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

func (s *Service) GetMyOrders(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID, limit, offset)
}

// resolveLines loads and validates every line before any mutation:
// variant products need a variant id and enough variant stock, scalar
// products enough scalar stock (nil stock means unlimited). The line
// price is the variant price when present, else the base price.
func (s *Service) resolveLines(ctx context.Context, items []LineRequest) ([]resolvedLine, error) {
	resolved := make([]resolvedLine, 0, len(items))

	for _, item := range items {
		p, err := s.products.GetByID(ctx, item.ItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}

		var variant *domain.Variant
		if p.HasVariants() {
			if item.VariantID == nil {
				return nil, ErrValidation
			}
			variant = p.VariantByID(*item.VariantID)
			if variant == nil {
				return nil, ErrNotFound
			}
			if variant.Stock <= 0 {
				return nil, &StockError{ItemID: p.ID, VariantID: item.VariantID, Reason: "out of stock"}
			}
			if item.Quantity > variant.Stock {
				return nil, &StockError{ItemID: p.ID, VariantID: item.VariantID, Reason: "quantity exceeds stock"}
			}
		} else if p.Stock != nil {
			if *p.Stock <= 0 {
				return nil, &StockError{ItemID: p.ID, Reason: "out of stock"}
			}
			if item.Quantity > *p.Stock {
				return nil, &StockError{ItemID: p.ID, Reason: "quantity exceeds stock"}
			}
		}

		resolved = append(resolved, resolvedLine{
			product: p,
			variant: variant,
			line: domain.OrderLine{
				ItemID:    p.ID,
				VariantID: item.VariantID,
				Quantity:  item.Quantity,
				UnitPrice: p.LinePrice(variant),
			},
		})
	}

	return resolved, nil
}

// reserveStock decrements each line with a conditional update. A zero
// row count means a concurrent order got there first; the transaction
// rolls back so stock never goes negative.
func (s *Service) reserveStock(ctx context.Context, resolved []resolvedLine) error {
	touched := make(map[int64]bool)

	for _, rl := range resolved {
		switch {
		case rl.variant != nil:
			ok, err := s.products.DecrementVariantStock(ctx, rl.variant.ID, rl.line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &StockError{ItemID: rl.product.ID, VariantID: rl.line.VariantID, Reason: "quantity exceeds stock"}
			}
			touched[rl.product.ID] = true
		case rl.product.Stock != nil:
			ok, err := s.products.DecrementStock(ctx, rl.product.ID, rl.line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &StockError{ItemID: rl.product.ID, Reason: "quantity exceeds stock"}
			}
			touched[rl.product.ID] = true
		}
		// unlimited scalar stock: nothing to decrement
	}

	for productID := range touched {
		if err := s.products.RefreshOutOfStock(ctx, productID); err != nil {
			return err
		}
	}
	return nil
}

// applyCoupon quotes and redeems the coupon inside the order
// transaction. Inapplicable coupons quote zero silently; only an
// unknown code rejects the order. A redeem that loses the usage-limit
// race falls back to zero as well.
func (s *Service) applyCoupon(ctx context.Context, code string, subtotal float64) (float64, string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0, "", nil
	}

	c, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, "", ErrCouponNotFound
		}
		return 0, "", err
	}

	discount, valid := coupon.Quote(c, subtotal, time.Now())
	if !valid {
		return 0, "", nil
	}

	redeemed, err := s.coupons.Redeem(ctx, c.ID)
	if err != nil {
		return 0, "", err
	}
	if !redeemed {
		return 0, "", nil
	}

	return discount, c.Code, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
