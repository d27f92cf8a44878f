package repository

import (
	"context"
	"encoding/json"
	"time"

	"travelmarket/internal/domain"

	"gorm.io/gorm"
)

type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

type listingModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	VendorID    int64     `gorm:"column:vendor_id"`
	ServiceType string    `gorm:"column:service_type"`
	Title       string    `gorm:"column:title"`
	Active      bool      `gorm:"column:active"`
	Metadata    *string   `gorm:"column:metadata"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (listingModel) TableName() string { return "listings" }

type unitModel struct {
	ID        int64   `gorm:"column:id;primaryKey"`
	ListingID int64   `gorm:"column:listing_id"`
	UnitKey   string  `gorm:"column:unit_key"`
	Name      string  `gorm:"column:name"`
	Capacity  int     `gorm:"column:capacity"`
	Price     float64 `gorm:"column:price"`
}

func (unitModel) TableName() string { return "units" }

func toDomainListing(m listingModel, units []unitModel) *domain.Listing {
	l := &domain.Listing{
		ID:          m.ID,
		VendorID:    m.VendorID,
		ServiceType: domain.ServiceType(m.ServiceType),
		Title:       m.Title,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Metadata != nil && *m.Metadata != "" {
		_ = json.Unmarshal([]byte(*m.Metadata), &l.Metadata)
	}
	for _, u := range units {
		l.Units = append(l.Units, domain.Unit{
			ID:        u.ID,
			ListingID: u.ListingID,
			UnitKey:   u.UnitKey,
			Name:      u.Name,
			Capacity:  u.Capacity,
			Price:     u.Price,
		})
	}
	return l
}

func (r *ListingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	var m listingModel
	if err := dbFrom(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, err
	}

	var units []unitModel
	if err := dbFrom(ctx, r.db).Where("listing_id = ?", id).Order("id").Find(&units).Error; err != nil {
		return nil, err
	}

	return toDomainListing(m, units), nil
}

func (r *ListingRepository) getByType(ctx context.Context, id int64, st domain.ServiceType) (*domain.Listing, error) {
	var m listingModel
	err := dbFrom(ctx, r.db).
		Where("id = ? AND service_type = ?", id, string(st)).
		First(&m).Error
	if err != nil {
		return nil, err
	}

	var units []unitModel
	if err := dbFrom(ctx, r.db).Where("listing_id = ?", id).Order("id").Find(&units).Error; err != nil {
		return nil, err
	}

	return toDomainListing(m, units), nil
}

// Catalog sources: one per service type, selected once at the boundary
// so nothing downstream re-dispatches on a service-type string. All
// four read the listings table scoped to their own type; they exist as
// distinct types so service-specific catalog rules have a home.

type StayCatalog struct{ listings *ListingRepository }
type TourCatalog struct{ listings *ListingRepository }
type AdventureCatalog struct{ listings *ListingRepository }
type VehicleCatalog struct{ listings *ListingRepository }

func NewStayCatalog(l *ListingRepository) *StayCatalog           { return &StayCatalog{listings: l} }
func NewTourCatalog(l *ListingRepository) *TourCatalog           { return &TourCatalog{listings: l} }
func NewAdventureCatalog(l *ListingRepository) *AdventureCatalog { return &AdventureCatalog{listings: l} }
func NewVehicleCatalog(l *ListingRepository) *VehicleCatalog     { return &VehicleCatalog{listings: l} }

func (c *StayCatalog) Type() domain.ServiceType      { return domain.ServiceStay }
func (c *TourCatalog) Type() domain.ServiceType      { return domain.ServiceTour }
func (c *AdventureCatalog) Type() domain.ServiceType { return domain.ServiceAdventure }
func (c *VehicleCatalog) Type() domain.ServiceType   { return domain.ServiceVehicle }

func (c *StayCatalog) Listing(ctx context.Context, id int64) (*domain.Listing, error) {
	return c.listings.getByType(ctx, id, domain.ServiceStay)
}

func (c *TourCatalog) Listing(ctx context.Context, id int64) (*domain.Listing, error) {
	return c.listings.getByType(ctx, id, domain.ServiceTour)
}

func (c *AdventureCatalog) Listing(ctx context.Context, id int64) (*domain.Listing, error) {
	return c.listings.getByType(ctx, id, domain.ServiceAdventure)
}

func (c *VehicleCatalog) Listing(ctx context.Context, id int64) (*domain.Listing, error) {
	return c.listings.getByType(ctx, id, domain.ServiceVehicle)
}
