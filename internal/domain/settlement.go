package domain

import "time"

type SettlementStatus string

const (
	SettlementPending SettlementStatus = "pending"
	SettlementPaid    SettlementStatus = "paid"
	SettlementUnpaid  SettlementStatus = "unpaid"
)

// Settlement is a vendor payout record tied to a reservation. When a
// reservation's payment status falls back to unpaid, the settlement is
// marked unpaid with the amount recorded for reconciliation.
type Settlement struct {
	ID            int64            `json:"id"`
	ReservationID int64            `json:"reservation_id"`
	VendorID      int64            `json:"vendor_id"`
	Amount        float64          `json:"amount"`
	Status        SettlementStatus `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}
