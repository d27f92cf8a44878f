package availability

import (
	"context"

	"travelmarket/internal/domain"
)

// ReservationReader loads the non-cancelled reservation set the
// overlap computation runs against.
type ReservationReader interface {
	ListActiveByListing(ctx context.Context, listingID int64) ([]domain.Reservation, error)
}

// CatalogSource resolves a listing and its unit catalog for one
// service type. One implementation exists per type; the service picks
// it once per request instead of re-switching on the type string.
type CatalogSource interface {
	Type() domain.ServiceType
	Listing(ctx context.Context, id int64) (*domain.Listing, error)
}

// RangeCache is the optional listing→reservations cache; it must be
// invalidated on every reservation write.
type RangeCache interface {
	Get(ctx context.Context, listingID int64) ([]domain.Reservation, error)
	Set(ctx context.Context, listingID int64, reservations []domain.Reservation) error
	Invalidate(ctx context.Context, listingID int64) error
}
