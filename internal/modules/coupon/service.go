package coupon

import (
	"context"
	"errors"
	"strings"
	"time"

	"travelmarket/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	coupons CouponRepository
}

func NewService(coupons CouponRepository) *Service {
	return &Service{coupons: coupons}
}

// Preview quotes a coupon against an order total without redeeming
// it. Checkout pages call this before the order is placed.
func (s *Service) Preview(ctx context.Context, code string, orderTotal float64) (*PreviewResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" || orderTotal <= 0 {
		return nil, ErrValidation
	}

	c, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	discount, valid := Quote(c, orderTotal, time.Now())
	return &PreviewResponse{
		Code:           c.Code,
		Valid:          valid,
		DiscountAmount: discount,
	}, nil
}

func (s *Service) CreateCoupon(ctx context.Context, req CreateCouponRequest) (*domain.Coupon, error) {
	discountType := domain.DiscountType(req.DiscountType)
	if discountType != domain.DiscountPercentage && discountType != domain.DiscountFixed {
		return nil, ErrValidation
	}
	if !req.StartDate.Before(req.ExpiryDate) {
		return nil, ErrValidation
	}
	if discountType == domain.DiscountPercentage && req.DiscountAmount > 100 {
		return nil, ErrValidation
	}
	if req.UsageLimit != nil && *req.UsageLimit <= 0 {
		return nil, ErrValidation
	}

	c := &domain.Coupon{
		Code:           strings.ToUpper(strings.TrimSpace(req.Code)),
		DiscountType:   discountType,
		DiscountAmount: req.DiscountAmount,
		MinPurchase:    req.MinPurchase,
		MaxDiscount:    req.MaxDiscount,
		StartDate:      req.StartDate,
		ExpiryDate:     req.ExpiryDate,
		UsageLimit:     req.UsageLimit,
		IsActive:       true,
	}
	if c.Code == "" {
		return nil, ErrValidation
	}

	if err := s.coupons.Create(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return c, nil
}
