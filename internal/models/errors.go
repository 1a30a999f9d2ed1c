package models

import "errors"

// Error kinds surfaced by the core. Wrapped errors keep a short, human-readable message.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidationFailed   = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
