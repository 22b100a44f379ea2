package password

import (
	"crypto/rand"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Algorithm names a supported key-derivation function by its PHC identifier.
type Algorithm string

const (
	AlgorithmPBKDF2SHA256 Algorithm = "pbkdf2-sha256"
	AlgorithmArgon2id     Algorithm = "argon2id"
)

// PBKDF2Params controls PBKDF2-HMAC-SHA256 hashing cost.
type PBKDF2Params struct {
	Iterations uint32
	SaltLength uint32
	KeyLength  uint32
}

// Argon2idParams controls Argon2id hashing cost.
// MemoryKiB is in KiB as required by argon2.IDKey.
type Argon2idParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Config is the single configuration surface for this package.
type Config struct {
	// Algorithm selects the KDF used by Hash. Verify accepts every supported algorithm.
	Algorithm Algorithm

	PBKDF2   PBKDF2Params
	Argon2id Argon2idParams

	// Rand is the salt entropy source. Nil means crypto/rand.Reader.
	Rand io.Reader
}

// DefaultConfig returns PBKDF2-SHA256 at 600k iterations with Argon2id defaults
// kept ready for deployments that switch algorithms.
func DefaultConfig() Config {
	// CPU-aware parallelism clamped to [1..4] to keep container usage predictable.
	threads := runtime.NumCPU()
	if threads <= 0 {
		threads = 1
	}
	if threads > 4 {
		threads = 4
	}

	return Config{
		Algorithm: AlgorithmPBKDF2SHA256,
		PBKDF2: PBKDF2Params{
			Iterations: 600_000,
			SaltLength: 16,
			KeyLength:  32,
		},
		Argon2id: Argon2idParams{
			MemoryKiB:   64 * 1024, // 64 MiB
			Iterations:  3,
			Parallelism: uint8(threads), // #nosec G115 -- clamped to [1..4] above; safe conversion.
			SaltLength:  16,
			KeyLength:   32,
		},
	}
}

// FromEnv loads config from environment variables on top of DefaultConfig.
//
// Env surface:
// - AUTHD_PASSWORD_ALGORITHM (pbkdf2-sha256 | argon2id)
// - AUTHD_PBKDF2_ITERATIONS
// - AUTHD_PBKDF2_SALT_LEN
// - AUTHD_PBKDF2_KEY_LEN
// - AUTHD_ARGON2_MEMORY_KIB
// - AUTHD_ARGON2_ITERATIONS
// - AUTHD_ARGON2_PARALLELISM
// - AUTHD_ARGON2_SALT_LEN
// - AUTHD_ARGON2_KEY_LEN
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v, ok := os.LookupEnv("AUTHD_PASSWORD_ALGORITHM"); ok {
		a, err := ParseAlgorithm(v)
		if err != nil {
			return Config{}, fmt.Errorf("AUTHD_PASSWORD_ALGORITHM: %w", err)
		}
		cfg.Algorithm = a
	}

	u32Vars := []struct {
		key      string
		min, max uint32
		dst      *uint32
	}{
		{"AUTHD_PBKDF2_ITERATIONS", 1_000, 10_000_000, &cfg.PBKDF2.Iterations},
		{"AUTHD_PBKDF2_SALT_LEN", 8, 64, &cfg.PBKDF2.SaltLength},
		{"AUTHD_PBKDF2_KEY_LEN", 16, 64, &cfg.PBKDF2.KeyLength},
		{"AUTHD_ARGON2_MEMORY_KIB", 8 * 1024, 1024 * 1024, &cfg.Argon2id.MemoryKiB}, // 8 MiB .. 1 GiB
		{"AUTHD_ARGON2_ITERATIONS", 1, 20, &cfg.Argon2id.Iterations},
		{"AUTHD_ARGON2_SALT_LEN", 8, 64, &cfg.Argon2id.SaltLength},
		{"AUTHD_ARGON2_KEY_LEN", 16, 64, &cfg.Argon2id.KeyLength},
	}
	for _, ev := range u32Vars {
		v, ok := os.LookupEnv(ev.key)
		if !ok {
			continue
		}
		u, err := atou32(v, ev.min, ev.max)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", ev.key, err)
		}
		*ev.dst = u
	}

	if v, ok := os.LookupEnv("AUTHD_ARGON2_PARALLELISM"); ok {
		u, err := atou32(v, 1, 64)
		if err != nil {
			return Config{}, fmt.Errorf("AUTHD_ARGON2_PARALLELISM: %w", err)
		}
		p, err := u32ToU8(u)
		if err != nil {
			return Config{}, fmt.Errorf("AUTHD_ARGON2_PARALLELISM: %w", err)
		}
		cfg.Argon2id.Parallelism = p
	}

	return cfg, nil
}

// ParseAlgorithm accepts a PHC algorithm identifier, case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case AlgorithmPBKDF2SHA256, "pbkdf2":
		return AlgorithmPBKDF2SHA256, nil
	case AlgorithmArgon2id:
		return AlgorithmArgon2id, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
	}
}

func (c Config) rand() io.Reader {
	if c.Rand == nil {
		return rand.Reader
	}
	return c.Rand
}

func atou32(s string, minVal, maxVal uint32) (uint32, error) {
	s = strings.TrimSpace(s)
	u64, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("not an unsigned integer")
	}

	u := uint32(u64)
	if u < minVal || u > maxVal {
		return 0, fmt.Errorf("out of range [%d..%d]", minVal, maxVal)
	}
	return u, nil
}

func u32ToU8(u uint32) (uint8, error) {
	if u > math.MaxUint8 {
		return 0, fmt.Errorf("out of range [0..%d]", math.MaxUint8)
	}
	return uint8(u), nil
}
