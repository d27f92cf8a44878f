package booking

import "time"

type CreateBookingRequest struct {
	ServiceType string    `json:"service_type" binding:"required" validate:"required,oneof=stay tour adventure vehicle"`
	ListingID   int64     `json:"listing_id" binding:"required" validate:"required,gt=0"`
	UnitKeys    []string  `json:"unit_keys" validate:"unique"`
	RangeStart  time.Time `json:"range_start" binding:"required" validate:"required"`
	RangeEnd    time.Time `json:"range_end" binding:"required" validate:"required,gtfield=RangeStart"`

	Metadata map[string][]string `json:"metadata,omitempty"`
}

type UpdateBookingRequest struct {
	Status        *string             `json:"status,omitempty"`
	PaymentStatus *string             `json:"payment_status,omitempty"`
	Reason        string              `json:"reason,omitempty"`
	Metadata      map[string][]string `json:"metadata,omitempty"`
}
