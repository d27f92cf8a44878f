package domain

import "time"

// Variant is a product sub-SKU with its own stock count. A product
// either tracks scalar stock or variant stock, never both.
type Variant struct {
	ID        int64    `json:"id"`
	ProductID int64    `json:"product_id"`
	Name      string   `json:"name"`
	Price     *float64 `json:"price,omitempty"`
	Stock     int      `json:"stock"`
}

type Product struct {
	ID       int64   `json:"id"`
	VendorID int64   `json:"vendor_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	// Stock is nil for unlimited scalar stock. Ignored when the
	// product has variants.
	Stock      *int      `json:"stock,omitempty"`
	OutOfStock bool      `json:"out_of_stock"`
	Variants   []Variant `json:"variants,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (p *Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// VariantByID finds a variant, nil when absent.
func (p *Product) VariantByID(id int64) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

// LinePrice is the price charged per unit for a line against the given
// variant: the variant price when set, else the product base price.
func (p *Product) LinePrice(v *Variant) float64 {
	if v != nil && v.Price != nil {
		return *v.Price
	}
	return p.Price
}
