package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned by the auth API that callers commonly branch on.
const (
	CodeUsernameTaken      = "username_taken"
	CodeInvalidCredentials = "invalid_credentials"
)

// APIError is a non-2xx response from the auth API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authd: %d %s", e.Status, e.Code)
	}
	return fmt.Sprintf("authd: %d %s: %s", e.Status, e.Code, e.Message)
}

// IsUsernameTaken reports whether err is a sign-up conflict on the username.
func IsUsernameTaken(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Code == CodeUsernameTaken
}

// IsInvalidCredentials reports whether err is a rejected sign-in.
func IsInvalidCredentials(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusUnauthorized
}
