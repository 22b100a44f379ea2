package identity

import "authd/cmd/security/password"

// Hasher is the password hashing protocol the store relies on.
// Hash must salt every call; Matches must return false for any malformed digest.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Matches(digest, plaintext string) bool
}

// DefaultHasher returns the effective hasher based on security/password env config.
func DefaultHasher() (Hasher, error) {
	cfg, err := password.FromEnv()
	if err != nil {
		// Treat invalid env as an operational error, not a weak fallback.
		return nil, err
	}
	return cfg, nil
}
