package booking

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"travelmarket/internal/domain"
	"travelmarket/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Service struct {
	reservations ReservationRepository
	availability AvailabilityChecker
	settlements  SettlementRepository
	notifs       NotificationSender
	cache        RangeInvalidator
	catalogs     map[domain.ServiceType]CatalogSource
}

func NewService(
	reservations ReservationRepository,
	avail AvailabilityChecker,
	settlements SettlementRepository,
	notifs NotificationSender,
	cache RangeInvalidator,
	sources ...CatalogSource,
) *Service {
	catalogs := make(map[domain.ServiceType]CatalogSource, len(sources))
	for _, src := range sources {
		catalogs[src.Type()] = src
	}
	return &Service{
		reservations: reservations,
		availability: avail,
		settlements:  settlements,
		notifs:       notifs,
		cache:        cache,
		catalogs:     catalogs,
	}
}

// CreateBooking claims the requested unit keys for the range. The
// availability check is advisory; the exclusion constraint behind
// ReservationRepository.Create is what actually prevents two racing
// customers from double-booking a key.
func (s *Service) CreateBooking(ctx context.Context, userID int64, req CreateBookingRequest) (*domain.Reservation, error) {
	serviceType := domain.ServiceType(req.ServiceType)
	if !serviceType.Valid() {
		return nil, ErrValidation
	}
	if !req.RangeStart.Before(req.RangeEnd) {
		return nil, ErrValidation
	}
	if req.RangeStart.Before(time.Now()) {
		return nil, ErrValidation
	}

	source, ok := s.catalogs[serviceType]
	if !ok {
		return nil, ErrValidation
	}

	listing, err := source.Listing(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// deactivated listings stay readable in the catalog but take no
	// new reservations
	if !listing.Active {
		return nil, ErrNotFound
	}

	if err := validateUnitKeys(listing, req.UnitKeys); err != nil {
		return nil, err
	}

	result, err := s.availability.CheckAvailability(ctx, serviceType, req.ListingID, &req.RangeStart, &req.RangeEnd)
	if err != nil {
		return nil, err
	}
	if !result.IsAvailable {
		return nil, ErrNotAvailable
	}
	free := make(map[string]bool, len(result.AvailableUnitKeys))
	for _, key := range result.AvailableUnitKeys {
		free[key] = true
	}
	for _, key := range req.UnitKeys {
		if !free[key] {
			return nil, ErrNotAvailable
		}
	}

	r := &domain.Reservation{
		ListingID:     req.ListingID,
		ServiceType:   serviceType,
		UserID:        userID,
		VendorID:      listing.VendorID,
		UnitKeys:      req.UnitKeys,
		RangeStart:    req.RangeStart,
		RangeEnd:      req.RangeEnd,
		TotalPrice:    computePrice(serviceType, listing, req.UnitKeys, req.RangeStart, req.RangeEnd),
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentUnpaid,
		Metadata:      req.Metadata,
	}

	if err := s.reservations.Create(ctx, r); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// 23P01 exclusion_violation: lost the race for a unit key
			if pgErr.Code == "23P01" || pgErr.Code == "23505" {
				return nil, ErrOverbooking
			}
		}
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, r.ListingID)
	}
	if s.notifs != nil {
		_ = s.notifs.BookingCreated(ctx, r)
	}

	return r, nil
}

// UpdateBooking applies a PATCH to the reservation's lifecycle. The
// transition is computed pure, then persisted with a version check so
// a concurrent transition cannot be silently overwritten.
func (s *Service) UpdateBooking(ctx context.Context, bookingID int64, actor Actor, req UpdateBookingRequest) (*domain.Reservation, error) {
	current, err := s.reservations.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Status == nil && req.PaymentStatus == nil && req.Metadata == nil {
		return nil, ErrNoChanges
	}

	var outcome Outcome
	if req.Status != nil || req.PaymentStatus != nil {
		change := Change{Reason: req.Reason}
		if req.Status != nil {
			status := domain.BookingStatus(*req.Status)
			change.Status = &status
		}
		if req.PaymentStatus != nil {
			payment := domain.PaymentStatus(*req.PaymentStatus)
			change.PaymentStatus = &payment
		}

		outcome, err = Transition(*current, actor, change, time.Now())
		if err != nil {
			return nil, err
		}
	} else {
		// metadata-only update; same audience as any other edit
		if !vendorOrAdmin(actor, current) && actor.ID != current.UserID {
			return nil, ErrForbidden
		}
		outcome = Outcome{Reservation: *current, PreviousStatus: current.Status}
	}

	if req.Metadata != nil {
		merged := make(map[string][]string, len(outcome.Reservation.Metadata)+len(req.Metadata))
		for k, v := range outcome.Reservation.Metadata {
			merged[k] = v
		}
		for k, v := range req.Metadata {
			merged[k] = v
		}
		outcome.Reservation.Metadata = merged
	}

	if err := s.reservations.ApplyTransition(ctx, &outcome.Reservation, current.Version); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}

	r := &outcome.Reservation

	if outcome.ReconcileSettlement {
		if err := s.settlements.MarkUnpaid(ctx, r.ID, r.VendorID, r.TotalPrice); err != nil {
			log.Printf("settlement reconcile failed reservation=%d: %v", r.ID, err)
		}
	}
	if outcome.SettlementPaid {
		if err := s.settlements.MarkPending(ctx, r.ID, r.VendorID, r.TotalPrice); err != nil {
			log.Printf("settlement open failed reservation=%d: %v", r.ID, err)
		}
	}

	if outcome.StatusChanged {
		if s.cache != nil {
			_ = s.cache.Invalidate(ctx, r.ListingID)
		}
		if s.notifs != nil {
			_ = s.notifs.BookingStatusChanged(ctx, r, outcome.PreviousStatus)
			if outcome.CustomerCancelled {
				_ = s.notifs.BookingCancelledByCustomer(ctx, r, r.CancellationReason)
			}
		}
	}

	return r, nil
}

// GetBooking returns a reservation visible to the actor: its customer,
// its vendor, or an admin.
func (s *Service) GetBooking(ctx context.Context, bookingID int64, actor Actor) (*domain.Reservation, error) {
	r, err := s.reservations.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if actor.ID != r.UserID && !vendorOrAdmin(actor, r) {
		return nil, ErrForbidden
	}
	return r, nil
}

func (s *Service) GetMyBookings(ctx context.Context, userID int64, limit, offset int) ([]domain.Reservation, error) {
	return s.reservations.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) GetVendorBookings(ctx context.Context, vendorID int64, limit, offset int) ([]domain.Reservation, error) {
	return s.reservations.ListByVendor(ctx, vendorID, limit, offset)
}

func validateUnitKeys(listing *domain.Listing, keys []string) error {
	if len(listing.Units) == 0 {
		// listings without configured units are booked without keys
		if len(keys) > 0 {
			return ErrValidation
		}
		return nil
	}

	if len(keys) == 0 {
		return ErrValidation
	}
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if seen[key] {
			return ErrValidation
		}
		seen[key] = true
		if listing.UnitByKey(key) == nil {
			return ErrValidation
		}
	}
	return nil
}

// computePrice charges per day for stays and vehicle rentals and a
// flat per-option price for tours and adventures.
func computePrice(serviceType domain.ServiceType, listing *domain.Listing, keys []string, start, end time.Time) float64 {
	var perUnit float64
	var total float64

	days := 1.0
	if serviceType.PerDay() {
		days = math.Ceil(end.Sub(start).Hours() / 24)
		if days < 1 {
			days = 1
		}
	}

	for _, key := range keys {
		if u := listing.UnitByKey(key); u != nil {
			perUnit = u.Price
		} else {
			perUnit = 0
		}
		total += perUnit * days
	}

	return math.Round(total*100) / 100
}
