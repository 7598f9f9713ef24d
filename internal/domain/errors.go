package domain

import "errors"

// Error taxonomy. Package-level sentinels wrap exactly one of these,
// so callers classify failures with errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotFound          = errors.New("not found")
	ErrDelivery          = errors.New("delivery error")
	ErrConfiguration     = errors.New("configuration error")
)
