package password

import "errors"

// Public, stable errors for callers.
var (
	ErrInvalidHash          = errors.New("invalid password hash")
	ErrHashFailed           = errors.New("password hashing failed")
	ErrUnsupportedAlgorithm = errors.New("unsupported password hash algorithm")
)
