package availability

import (
	"context"
	"errors"
	"time"

	"travelmarket/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	reservations ReservationReader
	catalogs     map[domain.ServiceType]CatalogSource
	cache        RangeCache
}

// NewService wires one catalog source per service type. cache may be
// nil; availability then always reads the database.
func NewService(reservations ReservationReader, cache RangeCache, sources ...CatalogSource) *Service {
	catalogs := make(map[domain.ServiceType]CatalogSource, len(sources))
	for _, src := range sources {
		catalogs[src.Type()] = src
	}
	return &Service{
		reservations: reservations,
		catalogs:     catalogs,
		cache:        cache,
	}
}

// CheckAvailability reports which unit keys of a listing are free for
// the requested range. Without a range it degenerates to the full
// catalog with no temporal filtering. Read-only.
func (s *Service) CheckAvailability(ctx context.Context, serviceType domain.ServiceType, listingID int64, start, end *time.Time) (*Result, error) {
	if !serviceType.Valid() || listingID <= 0 {
		return nil, ErrValidation
	}
	// a single bound makes no sense; require both or neither
	if (start == nil) != (end == nil) {
		return nil, ErrValidation
	}
	if start != nil && !start.Before(*end) {
		return nil, ErrValidation
	}

	source, ok := s.catalogs[serviceType]
	if !ok {
		return nil, ErrValidation
	}

	listing, err := source.Listing(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	reservations, err := s.loadReservations(ctx, listingID)
	if err != nil {
		return nil, err
	}

	catalog := listing.UnitKeys()

	booked := make([]BookedRange, 0, len(reservations))
	occupied := make(map[string]bool)
	occupiedAny := false
	for i := range reservations {
		r := &reservations[i]
		booked = append(booked, BookedRange{Start: r.RangeStart, End: r.RangeEnd})

		// without a range every reservation counts as a claim; with
		// one, only half-open overlaps do
		if start != nil && !r.Overlaps(*start, *end) {
			continue
		}
		occupiedAny = true
		for _, key := range r.UnitKeys {
			occupied[key] = true
		}
	}

	available := make([]string, 0, len(catalog))
	if start == nil {
		// degenerate "show all" mode: full catalog, no filtering
		available = append(available, catalog...)
	} else {
		for _, key := range catalog {
			if !occupied[key] {
				available = append(available, key)
			}
		}
	}

	isAvailable := len(available) > 0
	if len(catalog) == 0 {
		// Listings without configured units default to available
		// unless something already claimed them. Possibly masks
		// missing catalog data upstream; kept as-is pending product
		// review.
		isAvailable = !occupiedAny
	}

	return &Result{
		IsAvailable:       isAvailable,
		BookedRanges:      booked,
		AvailableUnitKeys: available,
	}, nil
}

func (s *Service) loadReservations(ctx context.Context, listingID int64) ([]domain.Reservation, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, listingID); err == nil {
			return cached, nil
		}
	}

	reservations, err := s.reservations.ListActiveByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, listingID, reservations)
	}
	return reservations, nil
}
