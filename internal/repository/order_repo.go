package repository

import (
	"context"
	"time"

	"travelmarket/internal/domain"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

type orderModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	Reference      string    `gorm:"column:reference"`
	UserID         int64     `gorm:"column:user_id"`
	Address        string    `gorm:"column:address"`
	CouponCode     string    `gorm:"column:coupon_code"`
	DeliveryCharge float64   `gorm:"column:delivery_charge"`
	DiscountAmount float64   `gorm:"column:discount_amount"`
	TotalAmount    float64   `gorm:"column:total_amount"`
	Status         string    `gorm:"column:status"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (orderModel) TableName() string { return "orders" }

type orderLineModel struct {
	ID        int64   `gorm:"column:id;primaryKey"`
	OrderID   int64   `gorm:"column:order_id"`
	ItemID    int64   `gorm:"column:item_id"`
	VariantID *int64  `gorm:"column:variant_id"`
	Quantity  int     `gorm:"column:quantity"`
	UnitPrice float64 `gorm:"column:unit_price"`
}

func (orderLineModel) TableName() string { return "order_lines" }

func toDomainOrder(m orderModel, lines []orderLineModel) *domain.Order {
	o := &domain.Order{
		ID:             m.ID,
		Reference:      m.Reference,
		UserID:         m.UserID,
		Address:        m.Address,
		CouponCode:     m.CouponCode,
		DeliveryCharge: m.DeliveryCharge,
		DiscountAmount: m.DiscountAmount,
		TotalAmount:    m.TotalAmount,
		Status:         domain.OrderStatus(m.Status),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	for _, l := range lines {
		o.Lines = append(o.Lines, domain.OrderLine{
			ID:        l.ID,
			OrderID:   l.OrderID,
			ItemID:    l.ItemID,
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return o
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	return dbFrom(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		m := orderModel{
			Reference:      o.Reference,
			UserID:         o.UserID,
			Address:        o.Address,
			CouponCode:     o.CouponCode,
			DeliveryCharge: o.DeliveryCharge,
			DiscountAmount: o.DiscountAmount,
			TotalAmount:    o.TotalAmount,
			Status:         string(o.Status),
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		lines := make([]orderLineModel, 0, len(o.Lines))
		for _, l := range o.Lines {
			lines = append(lines, orderLineModel{
				OrderID:   m.ID,
				ItemID:    l.ItemID,
				VariantID: l.VariantID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
			})
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}

		*o = *toDomainOrder(m, lines)
		return nil
	})
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var m orderModel
	if err := dbFrom(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, err
	}

	var lines []orderLineModel
	if err := dbFrom(ctx, r.db).Where("order_id = ?", id).Order("id").Find(&lines).Error; err != nil {
		return nil, err
	}

	return toDomainOrder(m, lines), nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	var rows []orderModel
	err := dbFrom(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Order, 0, len(rows))
	for _, m := range rows {
		var lines []orderLineModel
		if err := dbFrom(ctx, r.db).Where("order_id = ?", m.ID).Order("id").Find(&lines).Error; err != nil {
			return nil, err
		}
		out = append(out, *toDomainOrder(m, lines))
	}
	return out, nil
}
