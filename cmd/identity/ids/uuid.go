// Package ids provides identity token primitives used by the credential store.
package ids

import "github.com/google/uuid"

// Generator produces identity tokens. The store depends on this type so the
// source can be swapped in tests.
type Generator func() (string, error)

// NewIdentityToken returns a random (version 4) UUID string (36 chars).
// Tokens are not time-ordered and cannot be derived from one another.
func NewIdentityToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
