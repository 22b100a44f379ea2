package identity

import "errors"

// Sentinel error kinds (stable for errors.Is and for mapping to API status codes).
var (
	ErrInvalidInput = errors.New("invalid_input")
	ErrConflict     = errors.New("conflict")
	ErrHashing      = errors.New("hashing_failed")
	ErrIdentityGen  = errors.New("identity_generation_failed")
)
