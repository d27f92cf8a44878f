package catalog

import (
	"context"

	"travelmarket/internal/domain"
)

type ListingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
}
