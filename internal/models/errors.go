package models

import "errors"

// Error kinds surfaced by services. Handlers map them to HTTP statuses with
// errors.Is; services wrap them with context via fmt.Errorf("...: %w", ...).
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
	ErrUpstream   = errors.New("upstream unavailable")
)
