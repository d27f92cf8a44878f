package booking

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("booking not found")
	ErrForbidden         = errors.New("actor may not perform this transition")
	ErrNotAvailable      = errors.New("booking not available")
	ErrOverbooking       = errors.New("overbooking constraint violation")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNoChanges         = errors.New("no recognized fields to update")
	ErrConflict          = errors.New("concurrent update conflict")
)
