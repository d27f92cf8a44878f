package booking

import (
	"strings"
	"time"

	"travelmarket/internal/domain"
)

// Fallback reasons stamped when a vendor or admin cancels without one.
const (
	vendorCancelReason = "Vendor cancelled the booking"
	adminCancelReason  = "Admin cancelled the booking"
)

// Actor is whoever requested the transition.
type Actor struct {
	ID   int64
	Role domain.Role
}

// Change is the requested mutation. Nil fields are untouched.
type Change struct {
	Status        *domain.BookingStatus
	PaymentStatus *domain.PaymentStatus
	Reason        string
}

// Outcome carries the updated reservation copy plus the side effects
// the caller owes: notifications and settlement reconciliation.
type Outcome struct {
	Reservation         domain.Reservation
	StatusChanged       bool
	PreviousStatus      domain.BookingStatus
	CustomerCancelled   bool
	ReconcileSettlement bool
	SettlementPaid      bool
}

// Legal status moves. Completed can only be left by explicitly
// un-marking completion (back to pending or confirmed), which clears
// the completion stamp; cancelled is strictly terminal.
var allowedTransitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.BookingPending:   {domain.BookingConfirmed, domain.BookingCancelled},
	domain.BookingConfirmed: {domain.BookingCompleted, domain.BookingCancelled},
	domain.BookingCompleted: {domain.BookingPending, domain.BookingConfirmed},
	domain.BookingCancelled: {},
}

func transitionAllowed(from, to domain.BookingStatus) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition is the pure lifecycle function: no storage, no clock
// beyond the now argument. It validates the change, enforces actor
// authorization and returns the mutated copy; callers persist it with
// an optimistic version check.
func Transition(r domain.Reservation, actor Actor, change Change, now time.Time) (Outcome, error) {
	out := Outcome{Reservation: r, PreviousStatus: r.Status}

	if change.Status == nil && change.PaymentStatus == nil {
		return out, ErrNoChanges
	}

	if change.Status != nil {
		if err := applyStatus(&out, actor, *change.Status, change.Reason, now); err != nil {
			return Outcome{}, err
		}
	}

	if change.PaymentStatus != nil {
		if err := applyPaymentStatus(&out, actor, *change.PaymentStatus); err != nil {
			return Outcome{}, err
		}
	}

	return out, nil
}

func applyStatus(out *Outcome, actor Actor, target domain.BookingStatus, reason string, now time.Time) error {
	r := &out.Reservation

	if !target.Valid() {
		return ErrValidation
	}
	if !transitionAllowed(r.Status, target) {
		return ErrInvalidTransition
	}

	if target == domain.BookingCancelled {
		if err := applyCancellation(out, actor, reason, now); err != nil {
			return err
		}
	} else {
		// confirm, complete and un-complete belong to the owning
		// vendor or an admin
		if !vendorOrAdmin(actor, r) {
			return ErrForbidden
		}

		if target == domain.BookingCompleted {
			if r.CompletedAt == nil {
				stamp := now
				r.CompletedAt = &stamp
			}
		} else if r.Status == domain.BookingCompleted {
			// leaving completed clears the stamp
			r.CompletedAt = nil
		}
		r.Status = target
	}

	out.StatusChanged = true
	return nil
}

func applyCancellation(out *Outcome, actor Actor, reason string, now time.Time) error {
	r := &out.Reservation
	reason = strings.TrimSpace(reason)

	switch actor.Role {
	case domain.RoleUser:
		if actor.ID != r.UserID {
			return ErrForbidden
		}
		// customers must say why
		if reason == "" {
			return ErrValidation
		}
		out.CustomerCancelled = true
	case domain.RoleVendor:
		if actor.ID != r.VendorID {
			return ErrForbidden
		}
		if reason == "" {
			reason = vendorCancelReason
		}
	case domain.RoleAdmin:
		if reason == "" {
			reason = adminCancelReason
		}
	default:
		return ErrForbidden
	}

	stamp := now
	actorID := actor.ID
	r.Status = domain.BookingCancelled
	r.CancelledAt = &stamp
	r.CancelledBy = &actorID
	r.CancelledByRole = actor.Role
	r.CancellationReason = reason
	if r.CompletedAt != nil {
		r.CompletedAt = nil
	}
	return nil
}

func applyPaymentStatus(out *Outcome, actor Actor, target domain.PaymentStatus) error {
	r := &out.Reservation

	if !target.Valid() {
		return ErrValidation
	}
	if !vendorOrAdmin(actor, r) {
		return ErrForbidden
	}

	previous := r.PaymentStatus
	r.PaymentStatus = target

	// falling back to unpaid flags the vendor payout for
	// reconciliation; reaching paid opens one
	if target == domain.PaymentUnpaid && previous != domain.PaymentUnpaid {
		out.ReconcileSettlement = true
	}
	if target == domain.PaymentPaid && previous != domain.PaymentPaid {
		out.SettlementPaid = true
	}
	return nil
}

func vendorOrAdmin(actor Actor, r *domain.Reservation) bool {
	if actor.Role == domain.RoleAdmin {
		return true
	}
	return actor.Role == domain.RoleVendor && actor.ID == r.VendorID
}
