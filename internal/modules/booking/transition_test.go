package booking

import (
	"testing"
	"time"

	"travelmarket/internal/domain"

	"github.com/stretchr/testify/assert"
)

func baseReservation() domain.Reservation {
	return domain.Reservation{
		ID:        1,
		ListingID: 10,
		UserID:    100,
		VendorID:  200,
		Status:    domain.BookingPending,
	}
}

func statusPtr(s domain.BookingStatus) *domain.BookingStatus  { return &s }
func paymentPtr(s domain.PaymentStatus) *domain.PaymentStatus { return &s }

func TestTransition_AllowedStatusMoves(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	vendor := Actor{ID: 200, Role: domain.RoleVendor}

	tests := []struct {
		name    string
		from    domain.BookingStatus
		to      domain.BookingStatus
		wantErr error
	}{
		{"pending to confirmed", domain.BookingPending, domain.BookingConfirmed, nil},
		{"pending to cancelled", domain.BookingPending, domain.BookingCancelled, nil},
		{"pending to completed skips confirm", domain.BookingPending, domain.BookingCompleted, ErrInvalidTransition},
		{"confirmed to completed", domain.BookingConfirmed, domain.BookingCompleted, nil},
		{"confirmed to cancelled", domain.BookingConfirmed, domain.BookingCancelled, nil},
		{"confirmed back to pending", domain.BookingConfirmed, domain.BookingPending, ErrInvalidTransition},
		{"completed back to pending", domain.BookingCompleted, domain.BookingPending, nil},
		{"completed back to confirmed", domain.BookingCompleted, domain.BookingConfirmed, nil},
		{"completed to cancelled", domain.BookingCompleted, domain.BookingCancelled, ErrInvalidTransition},
		{"cancelled is terminal", domain.BookingCancelled, domain.BookingPending, ErrInvalidTransition},
		{"cancelled cannot re-confirm", domain.BookingCancelled, domain.BookingConfirmed, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := baseReservation()
			r.Status = tt.from

			out, err := Transition(r, vendor, Change{Status: statusPtr(tt.to)}, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.to, out.Reservation.Status)
			assert.True(t, out.StatusChanged)
			assert.Equal(t, tt.from, out.PreviousStatus)
		})
	}
}

func TestTransition_NoChanges(t *testing.T) {
	_, err := Transition(baseReservation(), Actor{ID: 200, Role: domain.RoleVendor}, Change{}, time.Now())
	assert.ErrorIs(t, err, ErrNoChanges)
}

func TestTransition_CompletedStamp(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	vendor := Actor{ID: 200, Role: domain.RoleVendor}

	r := baseReservation()
	r.Status = domain.BookingConfirmed

	out, err := Transition(r, vendor, Change{Status: statusPtr(domain.BookingCompleted)}, now)
	assert.NoError(t, err)
	assert.NotNil(t, out.Reservation.CompletedAt)
	assert.Equal(t, now, *out.Reservation.CompletedAt)

	// un-completing clears the stamp
	out2, err := Transition(out.Reservation, vendor, Change{Status: statusPtr(domain.BookingConfirmed)}, now.Add(time.Hour))
	assert.NoError(t, err)
	assert.Nil(t, out2.Reservation.CompletedAt)

	// re-completing stamps afresh
	out3, err := Transition(out2.Reservation, vendor, Change{Status: statusPtr(domain.BookingCompleted)}, now.Add(2*time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, now.Add(2*time.Hour), *out3.Reservation.CompletedAt)
}

func TestTransition_CustomerCancellation(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	owner := Actor{ID: 100, Role: domain.RoleUser}

	t.Run("requires a reason", func(t *testing.T) {
		_, err := Transition(baseReservation(), owner, Change{Status: statusPtr(domain.BookingCancelled)}, now)
		assert.ErrorIs(t, err, ErrValidation)

		_, err = Transition(baseReservation(), owner, Change{Status: statusPtr(domain.BookingCancelled), Reason: "   "}, now)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("stamps audit fields", func(t *testing.T) {
		out, err := Transition(baseReservation(), owner, Change{Status: statusPtr(domain.BookingCancelled), Reason: "plans changed"}, now)
		assert.NoError(t, err)

		r := out.Reservation
		assert.Equal(t, domain.BookingCancelled, r.Status)
		assert.Equal(t, "plans changed", r.CancellationReason)
		assert.Equal(t, int64(100), *r.CancelledBy)
		assert.Equal(t, domain.RoleUser, r.CancelledByRole)
		assert.Equal(t, now, *r.CancelledAt)
		assert.True(t, out.CustomerCancelled)
	})

	t.Run("only the booking owner may cancel as user", func(t *testing.T) {
		stranger := Actor{ID: 777, Role: domain.RoleUser}
		_, err := Transition(baseReservation(), stranger, Change{Status: statusPtr(domain.BookingCancelled), Reason: "nope"}, now)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestTransition_VendorAndAdminCancellation(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("vendor without reason gets fallback", func(t *testing.T) {
		out, err := Transition(baseReservation(), Actor{ID: 200, Role: domain.RoleVendor}, Change{Status: statusPtr(domain.BookingCancelled)}, now)
		assert.NoError(t, err)
		assert.Equal(t, vendorCancelReason, out.Reservation.CancellationReason)
		assert.False(t, out.CustomerCancelled)
	})

	t.Run("admin without reason gets fallback", func(t *testing.T) {
		out, err := Transition(baseReservation(), Actor{ID: 1, Role: domain.RoleAdmin}, Change{Status: statusPtr(domain.BookingCancelled)}, now)
		assert.NoError(t, err)
		assert.Equal(t, adminCancelReason, out.Reservation.CancellationReason)
	})

	t.Run("explicit reason wins over fallback", func(t *testing.T) {
		out, err := Transition(baseReservation(), Actor{ID: 200, Role: domain.RoleVendor}, Change{Status: statusPtr(domain.BookingCancelled), Reason: "double booked"}, now)
		assert.NoError(t, err)
		assert.Equal(t, "double booked", out.Reservation.CancellationReason)
	})

	t.Run("foreign vendor is forbidden", func(t *testing.T) {
		_, err := Transition(baseReservation(), Actor{ID: 999, Role: domain.RoleVendor}, Change{Status: statusPtr(domain.BookingCancelled)}, now)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestTransition_CancellingCompletedClearsStamp(t *testing.T) {
	// reachable only via completed -> confirmed -> cancelled, but a
	// stale CompletedAt on a confirmed row must still be cleared
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stamp := now.Add(-time.Hour)

	r := baseReservation()
	r.Status = domain.BookingConfirmed
	r.CompletedAt = &stamp

	out, err := Transition(r, Actor{ID: 1, Role: domain.RoleAdmin}, Change{Status: statusPtr(domain.BookingCancelled)}, now)
	assert.NoError(t, err)
	assert.Nil(t, out.Reservation.CompletedAt)
}

func TestTransition_ConfirmAuthorization(t *testing.T) {
	now := time.Now()

	t.Run("customer cannot confirm", func(t *testing.T) {
		_, err := Transition(baseReservation(), Actor{ID: 100, Role: domain.RoleUser}, Change{Status: statusPtr(domain.BookingConfirmed)}, now)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("foreign vendor cannot confirm", func(t *testing.T) {
		_, err := Transition(baseReservation(), Actor{ID: 999, Role: domain.RoleVendor}, Change{Status: statusPtr(domain.BookingConfirmed)}, now)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin can confirm any booking", func(t *testing.T) {
		out, err := Transition(baseReservation(), Actor{ID: 1, Role: domain.RoleAdmin}, Change{Status: statusPtr(domain.BookingConfirmed)}, now)
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingConfirmed, out.Reservation.Status)
	})
}

func TestTransition_PaymentStatus(t *testing.T) {
	now := time.Now()
	vendor := Actor{ID: 200, Role: domain.RoleVendor}

	t.Run("customer cannot touch payment", func(t *testing.T) {
		_, err := Transition(baseReservation(), Actor{ID: 100, Role: domain.RoleUser}, Change{PaymentStatus: paymentPtr(domain.PaymentPaid)}, now)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("reaching paid opens a settlement", func(t *testing.T) {
		out, err := Transition(baseReservation(), vendor, Change{PaymentStatus: paymentPtr(domain.PaymentPaid)}, now)
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentPaid, out.Reservation.PaymentStatus)
		assert.True(t, out.SettlementPaid)
		assert.False(t, out.ReconcileSettlement)
	})

	t.Run("falling back to unpaid flags reconciliation", func(t *testing.T) {
		r := baseReservation()
		r.PaymentStatus = domain.PaymentPaid

		out, err := Transition(r, vendor, Change{PaymentStatus: paymentPtr(domain.PaymentUnpaid)}, now)
		assert.NoError(t, err)
		assert.True(t, out.ReconcileSettlement)
		assert.False(t, out.SettlementPaid)
	})

	t.Run("unpaid to unpaid is a no-op for settlements", func(t *testing.T) {
		r := baseReservation()
		r.PaymentStatus = domain.PaymentUnpaid

		out, err := Transition(r, vendor, Change{PaymentStatus: paymentPtr(domain.PaymentUnpaid)}, now)
		assert.NoError(t, err)
		assert.False(t, out.ReconcileSettlement)
		assert.False(t, out.SettlementPaid)
	})

	t.Run("status and payment change together", func(t *testing.T) {
		out, err := Transition(baseReservation(), vendor, Change{
			Status:        statusPtr(domain.BookingConfirmed),
			PaymentStatus: paymentPtr(domain.PaymentPaid),
		}, now)
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingConfirmed, out.Reservation.Status)
		assert.Equal(t, domain.PaymentPaid, out.Reservation.PaymentStatus)
		assert.True(t, out.SettlementPaid)
	})

	t.Run("invalid payment value", func(t *testing.T) {
		bogus := domain.PaymentStatus("comped")
		_, err := Transition(baseReservation(), vendor, Change{PaymentStatus: &bogus}, now)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestTransition_InvalidStatusValue(t *testing.T) {
	bogus := domain.BookingStatus("archived")
	_, err := Transition(baseReservation(), Actor{ID: 1, Role: domain.RoleAdmin}, Change{Status: &bogus}, time.Now())
	assert.ErrorIs(t, err, ErrValidation)
}
