package catalog

import (
	"context"
	"errors"

	"travelmarket/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	listings ListingReader
}

func NewService(listings ListingReader) *Service {
	return &Service{listings: listings}
}

// GetListing returns a listing with its units. Inactive listings stay
// readable so existing bookings keep their context.
func (s *Service) GetListing(ctx context.Context, id int64) (*domain.Listing, error) {
	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}
