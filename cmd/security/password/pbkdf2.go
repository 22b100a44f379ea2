package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

func (c Config) hashPBKDF2(password string) (string, error) {
	p := c.PBKDF2
	if p.Iterations == 0 || p.SaltLength == 0 || p.KeyLength == 0 {
		return "", fmt.Errorf("%w: invalid pbkdf2 params", ErrHashFailed)
	}

	salt, err := c.newSalt(p.SaltLength)
	if err != nil {
		return "", err
	}

	key := pbkdf2.Key([]byte(password), salt, int(p.Iterations), int(p.KeyLength), sha256.New)

	return fmt.Sprintf(
		"$%s$i=%d,l=%d$%s$%s",
		AlgorithmPBKDF2SHA256,
		p.Iterations,
		p.KeyLength,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	), nil
}

// verifyPBKDF2 expects parts of "$pbkdf2-sha256$i=<iter>,l=<len>$<salt>$<hash>".
func (c Config) verifyPBKDF2(parts []string, password string) (bool, error) {
	if len(parts) != 5 {
		return false, ErrInvalidHash
	}

	params, err := parseParams(parts[2], "i", "l")
	if err != nil {
		return false, err
	}
	salt, expected, err := decodeSaltAndKey(parts[3], parts[4])
	if err != nil {
		return false, err
	}

	iter := params["i"]
	if iter == 0 || params["l"] != uint32(len(expected)) { // #nosec G115 -- bounded by decodeSaltAndKey.
		return false, ErrInvalidHash
	}
	// Allow older/cheaper digests, refuse attacker-inflated cost.
	if limit := c.PBKDF2.Iterations; limit > 0 && uint64(iter) > uint64(limit)*4 {
		return false, ErrInvalidHash
	}

	key := pbkdf2.Key([]byte(password), salt, int(iter), len(expected), sha256.New)
	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}
