package repository

import (
	"context"
	"time"

	"travelmarket/internal/domain"

	"gorm.io/gorm"
)

type CouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

type couponModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	Code           string    `gorm:"column:code"`
	DiscountType   string    `gorm:"column:discount_type"`
	DiscountAmount float64   `gorm:"column:discount_amount"`
	MinPurchase    float64   `gorm:"column:min_purchase"`
	MaxDiscount    *float64  `gorm:"column:max_discount"`
	StartDate      time.Time `gorm:"column:start_date"`
	ExpiryDate     time.Time `gorm:"column:expiry_date"`
	UsageLimit     *int      `gorm:"column:usage_limit"`
	UsageCount     int       `gorm:"column:usage_count"`
	IsActive       bool      `gorm:"column:is_active"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (couponModel) TableName() string { return "coupons" }

func toDomainCoupon(m couponModel) *domain.Coupon {
	return &domain.Coupon{
		ID:             m.ID,
		Code:           m.Code,
		DiscountType:   domain.DiscountType(m.DiscountType),
		DiscountAmount: m.DiscountAmount,
		MinPurchase:    m.MinPurchase,
		MaxDiscount:    m.MaxDiscount,
		StartDate:      m.StartDate,
		ExpiryDate:     m.ExpiryDate,
		UsageLimit:     m.UsageLimit,
		UsageCount:     m.UsageCount,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var m couponModel
	if err := dbFrom(ctx, r.db).Where("code = ?", code).First(&m).Error; err != nil {
		return nil, err
	}
	return toDomainCoupon(m), nil
}

func (r *CouponRepository) Create(ctx context.Context, c *domain.Coupon) error {
	m := couponModel{
		Code:           c.Code,
		DiscountType:   string(c.DiscountType),
		DiscountAmount: c.DiscountAmount,
		MinPurchase:    c.MinPurchase,
		MaxDiscount:    c.MaxDiscount,
		StartDate:      c.StartDate,
		ExpiryDate:     c.ExpiryDate,
		UsageLimit:     c.UsageLimit,
		UsageCount:     c.UsageCount,
		IsActive:       c.IsActive,
	}
	if err := dbFrom(ctx, r.db).Create(&m).Error; err != nil {
		return err
	}
	*c = *toDomainCoupon(m)
	return nil
}

// Redeem increments usage_count iff the coupon is still active and
// under its limit. The conditional update makes over-redemption under
// concurrent orders impossible; false means the coupon lost the race
// or was exhausted.
func (r *CouponRepository) Redeem(ctx context.Context, couponID int64) (bool, error) {
	result := dbFrom(ctx, r.db).Exec(`
UPDATE coupons
SET usage_count = usage_count + 1, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
  AND is_active
  AND (usage_limit IS NULL OR usage_count < usage_limit)
`, couponID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
