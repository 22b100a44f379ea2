package password

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	argon2Version = argon2.Version // 0x13 (19)
)

func (c Config) hashArgon2id(password string) (string, error) {
	p := c.Argon2id
	if p.Iterations == 0 || p.MemoryKiB == 0 || p.Parallelism == 0 || p.SaltLength == 0 || p.KeyLength == 0 {
		return "", fmt.Errorf("%w: invalid argon2id params", ErrHashFailed)
	}

	salt, err := c.newSalt(p.SaltLength)
	if err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(password), salt, p.Iterations, p.MemoryKiB, p.Parallelism, p.KeyLength)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		AlgorithmArgon2id,
		argon2Version,
		p.MemoryKiB,
		p.Iterations,
		p.Parallelism,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	), nil
}

// verifyArgon2id expects parts of "$argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt>$<hash>".
func (c Config) verifyArgon2id(parts []string, password string) (bool, error) {
	if len(parts) != 6 || parts[2] != fmt.Sprintf("v=%d", argon2Version) {
		return false, ErrInvalidHash
	}

	params, err := parseParams(parts[3], "m", "t", "p")
	if err != nil {
		return false, err
	}
	salt, expected, err := decodeSaltAndKey(parts[4], parts[5])
	if err != nil {
		return false, err
	}

	mem, it, par := params["m"], params["t"], params["p"]
	if mem == 0 || it == 0 || par == 0 || par > 255 {
		return false, ErrInvalidHash
	}

	// Allow older/smaller settings, reject wildly larger ones.
	limits := c.Argon2id
	if uint64(mem) > uint64(limits.MemoryKiB)*2 ||
		uint64(it) > uint64(limits.Iterations)*2 ||
		par > uint32(limits.Parallelism)*2 {
		return false, ErrInvalidHash
	}

	threads := uint8(par)           // #nosec G115 -- checked <= 255 above.
	keyLen := uint32(len(expected)) // #nosec G115 -- bounded by decodeSaltAndKey.

	key := argon2.IDKey([]byte(password), salt, it, mem, threads, keyLen)
	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}
