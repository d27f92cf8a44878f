package repository

import (
	"context"
	"time"

	"travelmarket/internal/domain"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

type productModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	VendorID   int64     `gorm:"column:vendor_id"`
	Name       string    `gorm:"column:name"`
	Price      float64   `gorm:"column:price"`
	Stock      *int      `gorm:"column:stock"`
	OutOfStock bool      `gorm:"column:out_of_stock"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (productModel) TableName() string { return "products" }

type variantModel struct {
	ID        int64    `gorm:"column:id;primaryKey"`
	ProductID int64    `gorm:"column:product_id"`
	Name      string   `gorm:"column:name"`
	Price     *float64 `gorm:"column:price"`
	Stock     int      `gorm:"column:stock"`
}

func (variantModel) TableName() string { return "product_variants" }

func toDomainProduct(m productModel, variants []variantModel) *domain.Product {
	p := &domain.Product{
		ID:         m.ID,
		VendorID:   m.VendorID,
		Name:       m.Name,
		Price:      m.Price,
		Stock:      m.Stock,
		OutOfStock: m.OutOfStock,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	for _, v := range variants {
		p.Variants = append(p.Variants, domain.Variant{
			ID:        v.ID,
			ProductID: v.ProductID,
			Name:      v.Name,
			Price:     v.Price,
			Stock:     v.Stock,
		})
	}
	return p
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var m productModel
	if err := dbFrom(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, err
	}

	var variants []variantModel
	if err := dbFrom(ctx, r.db).Where("product_id = ?", id).Order("id").Find(&variants).Error; err != nil {
		return nil, err
	}

	return toDomainProduct(m, variants), nil
}

// DecrementStock takes qty off a product's scalar stock iff enough
// remains ("decrement if current stock >= quantity"). Returns false
// when the guard fails, so two orders racing for the last unit cannot
// both succeed.
func (r *ProductRepository) DecrementStock(ctx context.Context, productID int64, qty int) (bool, error) {
	result := dbFrom(ctx, r.db).Exec(`
UPDATE products
SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND stock IS NOT NULL AND stock >= ?
`, qty, productID, qty)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DecrementVariantStock is the per-variant equivalent of DecrementStock.
func (r *ProductRepository) DecrementVariantStock(ctx context.Context, variantID int64, qty int) (bool, error) {
	result := dbFrom(ctx, r.db).Exec(`
UPDATE product_variants
SET stock = stock - ?
WHERE id = ? AND stock >= ?
`, qty, variantID, qty)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RefreshOutOfStock recomputes the derived flag after decrements:
// scalar products are out of stock at stock <= 0, variant products
// only when every variant is at <= 0.
func (r *ProductRepository) RefreshOutOfStock(ctx context.Context, productID int64) error {
	return dbFrom(ctx, r.db).Exec(`
UPDATE products
SET out_of_stock = CASE
        WHEN EXISTS (SELECT 1 FROM product_variants v WHERE v.product_id = products.id)
        THEN NOT EXISTS (SELECT 1 FROM product_variants v WHERE v.product_id = products.id AND v.stock > 0)
        ELSE (stock IS NOT NULL AND stock <= 0)
    END,
    updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, productID).Error
}
