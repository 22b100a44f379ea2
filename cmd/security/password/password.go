package password

import (
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// b64 is the PHC string encoding: standard alphabet, no padding.
var b64 = base64.RawStdEncoding

// Hash derives a digest of password with the configured algorithm and a fresh
// random salt, and returns it as a PHC string.
func (c Config) Hash(password string) (string, error) {
	switch c.Algorithm {
	case AlgorithmPBKDF2SHA256, "":
		return c.hashPBKDF2(password)
	case AlgorithmArgon2id:
		return c.hashArgon2id(password)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, c.Algorithm)
	}
}

// Verify checks whether password matches the given encoded digest.
// Returns (true, nil) for a match, (false, nil) for mismatch,
// and (false, ErrInvalidHash) for malformed, unsupported or out-of-bounds digests.
func (c Config) Verify(encodedHash, password string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) < 2 || parts[0] != "" {
		return false, ErrInvalidHash
	}

	switch Algorithm(parts[1]) {
	case AlgorithmPBKDF2SHA256:
		return c.verifyPBKDF2(parts, password)
	case AlgorithmArgon2id:
		return c.verifyArgon2id(parts, password)
	default:
		return false, ErrInvalidHash
	}
}

// Matches reports whether password matches encodedHash. Any verification
// error, including a malformed digest, is reported as a mismatch.
// Arguments follow Verify's order.
func (c Config) Matches(encodedHash, password string) bool {
	ok, err := c.Verify(encodedHash, password)
	return err == nil && ok
}

func (c Config) newSalt(n uint32) ([]byte, error) {
	salt := make([]byte, n)
	if _, err := io.ReadFull(c.rand(), salt); err != nil {
		return nil, fmt.Errorf("%w: salt: %w", ErrHashFailed, err)
	}
	return salt, nil
}

// parseParams parses a PHC parameter segment such as "m=65536,t=3,p=1".
// Every key in want must be present exactly once and no other key is allowed.
func parseParams(seg string, want ...string) (map[string]uint32, error) {
	out := make(map[string]uint32, len(want))
	for _, kv := range strings.Split(seg, ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, ErrInvalidHash
		}
		if _, dup := out[k]; dup {
			return nil, ErrInvalidHash
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, ErrInvalidHash
		}
		out[k] = uint32(n)
	}
	if len(out) != len(want) {
		return nil, ErrInvalidHash
	}
	for _, k := range want {
		if _, ok := out[k]; !ok {
			return nil, ErrInvalidHash
		}
	}
	return out, nil
}

// decodeSaltAndKey decodes the trailing salt and hash segments.
func decodeSaltAndKey(saltB64, keyB64 string) ([]byte, []byte, error) {
	salt, err := b64.DecodeString(saltB64)
	if err != nil {
		return nil, nil, ErrInvalidHash
	}
	key, err := b64.DecodeString(keyB64)
	if err != nil {
		return nil, nil, ErrInvalidHash
	}
	if len(salt) < 8 || len(salt) > 64 {
		return nil, nil, ErrInvalidHash
	}
	if len(key) < 16 || len(key) > 128 {
		return nil, nil, ErrInvalidHash
	}
	return salt, key, nil
}
