package booking

import (
	"context"
	"time"

	"travelmarket/internal/domain"
	"travelmarket/internal/modules/availability"
)

// ReservationRepository is the persistence surface of the lifecycle.
type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Reservation, error)
	ListByVendor(ctx context.Context, vendorID int64, limit, offset int) ([]domain.Reservation, error)
	ApplyTransition(ctx context.Context, r *domain.Reservation, expectedVersion int64) error
}

// AvailabilityChecker re-checks a range right before the guarded
// insert; the database exclusion constraint remains the final word.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, serviceType domain.ServiceType, listingID int64, start, end *time.Time) (*availability.Result, error)
}

// CatalogSource resolves the listing being booked (units, prices,
// vendor); one implementation per service type.
type CatalogSource interface {
	Type() domain.ServiceType
	Listing(ctx context.Context, id int64) (*domain.Listing, error)
}

// SettlementRepository reconciles vendor payouts on payment changes.
type SettlementRepository interface {
	MarkUnpaid(ctx context.Context, reservationID, vendorID int64, amount float64) error
	MarkPending(ctx context.Context, reservationID, vendorID int64, amount float64) error
}

// NotificationSender delivers fire-and-forget booking events.
type NotificationSender interface {
	BookingCreated(ctx context.Context, r *domain.Reservation) error
	BookingStatusChanged(ctx context.Context, r *domain.Reservation, previous domain.BookingStatus) error
	BookingCancelledByCustomer(ctx context.Context, r *domain.Reservation, reason string) error
}

// RangeInvalidator drops the cached reservation set of a listing
// after every reservation write.
type RangeInvalidator interface {
	Invalidate(ctx context.Context, listingID int64) error
}
