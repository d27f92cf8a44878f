package notify

import (
	"context"
	"log"
	"time"

	"travelmarket/internal/domain"
)

// BookingEvent is the payload pushed to customers and vendors when a
// reservation changes state. Delivery is fire and forget; the booking
// core never fails on a notification error.
type BookingEvent struct {
	Kind           string               `json:"kind"`
	ReservationID  int64                `json:"reservation_id"`
	ListingID      int64                `json:"listing_id"`
	ServiceType    domain.ServiceType   `json:"service_type"`
	UserID         int64                `json:"user_id"`
	VendorID       int64                `json:"vendor_id"`
	Status         domain.BookingStatus `json:"status"`
	PreviousStatus domain.BookingStatus `json:"previous_status,omitempty"`
	Reason         string               `json:"reason,omitempty"`
	OccurredAt     time.Time            `json:"occurred_at"`
}

const (
	KindBookingCreated   = "booking.created"
	KindStatusChanged    = "booking.status_changed"
	KindCustomerCancel   = "booking.cancelled_by_customer"
	KindPaymentReconcile = "booking.payment_reconciled"
)

type Notifier interface {
	// BookingCreated tells the vendor a new reservation landed.
	BookingCreated(ctx context.Context, r *domain.Reservation) error
	// BookingStatusChanged tells the customer about any status change.
	BookingStatusChanged(ctx context.Context, r *domain.Reservation, previous domain.BookingStatus) error
	// BookingCancelledByCustomer additionally tells the vendor, with
	// the customer's reason.
	BookingCancelledByCustomer(ctx context.Context, r *domain.Reservation, reason string) error
}

// LogNotifier is the fallback when no broker is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) BookingCreated(_ context.Context, r *domain.Reservation) error {
	log.Printf("notify booking_created reservation=%d vendor=%d", r.ID, r.VendorID)
	return nil
}

func (n *LogNotifier) BookingStatusChanged(_ context.Context, r *domain.Reservation, previous domain.BookingStatus) error {
	log.Printf("notify status_changed reservation=%d user=%d %s->%s", r.ID, r.UserID, previous, r.Status)
	return nil
}

func (n *LogNotifier) BookingCancelledByCustomer(_ context.Context, r *domain.Reservation, reason string) error {
	log.Printf("notify cancelled_by_customer reservation=%d vendor=%d reason=%q", r.ID, r.VendorID, reason)
	return nil
}

// Multi fans an event out to several notifiers; the first error wins
// but every notifier still runs.
type Multi []Notifier

func (m Multi) BookingCreated(ctx context.Context, r *domain.Reservation) error {
	var first error
	for _, n := range m {
		if err := n.BookingCreated(ctx, r); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m Multi) BookingStatusChanged(ctx context.Context, r *domain.Reservation, previous domain.BookingStatus) error {
	var first error
	for _, n := range m {
		if err := n.BookingStatusChanged(ctx, r, previous); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m Multi) BookingCancelledByCustomer(ctx context.Context, r *domain.Reservation, reason string) error {
	var first error
	for _, n := range m {
		if err := n.BookingCancelledByCustomer(ctx, r, reason); err != nil && first == nil {
			first = err
		}
	}
	return first
}
