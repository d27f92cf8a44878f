package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

type Role string

const (
	RoleUser   Role = "user"
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

// Reservation is a customer's claim on one or more unit keys of a
// listing for a half-open date range [RangeStart, RangeEnd). Rows are
// never deleted; cancelled reservations stay for audit.
type Reservation struct {
	ID          int64       `json:"id"`
	ListingID   int64       `json:"listing_id" validate:"required"`
	ServiceType ServiceType `json:"service_type" validate:"required"`
	UserID      int64       `json:"user_id" validate:"required"`
	VendorID    int64       `json:"vendor_id"`
	UnitKeys    []string    `json:"unit_keys"`
	RangeStart  time.Time   `json:"range_start" validate:"required"`
	RangeEnd    time.Time   `json:"range_end" validate:"required"`
	TotalPrice  float64     `json:"total_price" validate:"gte=0"`

	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`

	CancelledBy        *int64     `json:"cancelled_by,omitempty"`
	CancelledByRole    Role       `json:"cancelled_by_role,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`

	Metadata map[string][]string `json:"metadata,omitempty"`

	// Version guards concurrent status transitions (compare-and-swap
	// on update).
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active reports whether the reservation still occupies its unit keys.
func (r *Reservation) Active() bool {
	return r.Status != BookingCancelled
}

// Overlaps reports half-open range overlap: a reservation that ends
// exactly when another starts does not overlap it.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.RangeStart.Before(end) && r.RangeEnd.After(start)
}
