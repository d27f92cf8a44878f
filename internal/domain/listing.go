package domain

import "time"

// Unit is one interchangeable bookable instance of a listing: a room
// type, tour option, adventure slot or vehicle option. UnitKey is the
// stable identifier reservations reference.
type Unit struct {
	ID        int64   `json:"id"`
	ListingID int64   `json:"listing_id"`
	UnitKey   string  `json:"unit_key"`
	Name      string  `json:"name"`
	Capacity  int     `json:"capacity"`
	Price     float64 `json:"price"`
}

type Listing struct {
	ID          int64       `json:"id"`
	VendorID    int64       `json:"vendor_id"`
	ServiceType ServiceType `json:"service_type"`
	Title       string      `json:"title"`
	Active      bool        `json:"active"`
	// Metadata is an opaque bag (amenities, highlights...) the core
	// never inspects.
	Metadata  map[string][]string `json:"metadata,omitempty"`
	Units     []Unit              `json:"units,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// UnitKeys returns the catalog of keys in unit order.
func (l *Listing) UnitKeys() []string {
	keys := make([]string, 0, len(l.Units))
	for _, u := range l.Units {
		keys = append(keys, u.UnitKey)
	}
	return keys
}

// UnitByKey finds a unit by its key, nil when absent.
func (l *Listing) UnitByKey(key string) *Unit {
	for i := range l.Units {
		if l.Units[i].UnitKey == key {
			return &l.Units[i]
		}
	}
	return nil
}
