package identity

import (
	"errors"
	"fmt"
)

// Logical fields reported by ConflictError.
const (
	FieldUsername      = "username"
	FieldIdentityToken = "identity_token"
)

// OpError is a typed operation error with a stable Op + Kind contract for callers/tests.
// - Kind MUST be one of the sentinel kinds (ErrInvalidInput, ErrHashing, ...).
// - Msg may include human-readable context; never secrets.
// - Err is the optional underlying cause.
type OpError struct {
	Op   string
	Kind error
	Msg  string
	Err  error
}

func (e OpError) Error() string {
	s := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ConflictError reports a uniqueness conflict for a specific logical field
// (FieldUsername or FieldIdentityToken).
type ConflictError struct {
	Op    string
	Field string
}

func (e ConflictError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Op, ErrConflict)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrConflict, e.Field)
}

func (e ConflictError) Unwrap() error { return ErrConflict }

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce ConflictError
	return errors.As(err, &ce)
}

// IsUsernameTaken reports whether err is a username conflict.
func IsUsernameTaken(err error) bool { return conflictOn(err, FieldUsername) }

// IsIdentityCollision reports whether err is an identity token conflict that
// survived every regeneration attempt.
func IsIdentityCollision(err error) bool { return conflictOn(err, FieldIdentityToken) }

// IsHashing reports whether err represents ErrHashing.
func IsHashing(err error) bool { return errors.Is(err, ErrHashing) }

// IsInvalidInput reports whether err represents ErrInvalidInput.
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

func conflictOn(err error, field string) bool {
	var ce ConflictError
	return errors.As(err, &ce) && ce.Field == field
}
