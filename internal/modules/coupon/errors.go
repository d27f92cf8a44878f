package coupon

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("coupon not found")
	ErrDuplicate  = errors.New("coupon code already exists")
)
