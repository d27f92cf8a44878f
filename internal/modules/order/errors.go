package order

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("product not found")
	ErrCouponNotFound = errors.New("coupon not found")
	ErrStock          = errors.New("insufficient stock")
)

// StockError identifies the offending line when an order is rejected
// for stock reasons. The whole order fails; nothing is decremented.
type StockError struct {
	ItemID    int64
	VariantID *int64
	Reason    string
}

func (e *StockError) Error() string {
	if e.VariantID != nil {
		return fmt.Sprintf("item %d variant %d: %s", e.ItemID, *e.VariantID, e.Reason)
	}
	return fmt.Sprintf("item %d: %s", e.ItemID, e.Reason)
}

func (e *StockError) Unwrap() error { return ErrStock }
