package password

import (
	"errors"
	"os"
	"testing"
)

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv := []string{
		"AUTHD_PASSWORD_ALGORITHM",
		"AUTHD_PBKDF2_ITERATIONS",
		"AUTHD_PBKDF2_SALT_LEN",
		"AUTHD_PBKDF2_KEY_LEN",
		"AUTHD_ARGON2_MEMORY_KIB",
		"AUTHD_ARGON2_ITERATIONS",
		"AUTHD_ARGON2_PARALLELISM",
		"AUTHD_ARGON2_SALT_LEN",
		"AUTHD_ARGON2_KEY_LEN",
	}
	for _, k := range clearEnv {
		_ = os.Unsetenv(k)
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}

	def := DefaultConfig()
	if cfg.Algorithm != AlgorithmPBKDF2SHA256 {
		t.Fatalf("default algorithm = %q", cfg.Algorithm)
	}
	if cfg.PBKDF2 != def.PBKDF2 {
		t.Fatalf("pbkdf2 mismatch: %+v", cfg.PBKDF2)
	}
	if cfg.Argon2id.MemoryKiB != def.Argon2id.MemoryKiB {
		t.Fatalf("memory mismatch")
	}
}

func TestFromEnv_Override(t *testing.T) {
	t.Setenv("AUTHD_PASSWORD_ALGORITHM", "Argon2id")
	t.Setenv("AUTHD_PBKDF2_ITERATIONS", "200000")
	t.Setenv("AUTHD_PBKDF2_SALT_LEN", "24")
	t.Setenv("AUTHD_PBKDF2_KEY_LEN", "64")
	t.Setenv("AUTHD_ARGON2_MEMORY_KIB", "32768")
	t.Setenv("AUTHD_ARGON2_ITERATIONS", "4")
	t.Setenv("AUTHD_ARGON2_PARALLELISM", "2")
	t.Setenv("AUTHD_ARGON2_SALT_LEN", "24")
	t.Setenv("AUTHD_ARGON2_KEY_LEN", "32")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}

	if cfg.Algorithm != AlgorithmArgon2id {
		t.Fatalf("algorithm override failed: %q", cfg.Algorithm)
	}
	if cfg.PBKDF2.Iterations != 200000 || cfg.PBKDF2.SaltLength != 24 || cfg.PBKDF2.KeyLength != 64 {
		t.Fatalf("pbkdf2 override failed: %+v", cfg.PBKDF2)
	}
	if cfg.Argon2id.MemoryKiB != 32768 || cfg.Argon2id.Iterations != 4 || cfg.Argon2id.Parallelism != 2 {
		t.Fatalf("argon2 override failed: %+v", cfg.Argon2id)
	}
	if cfg.Argon2id.SaltLength != 24 || cfg.Argon2id.KeyLength != 32 {
		t.Fatalf("len override failed: %+v", cfg.Argon2id)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]string{
		"AUTHD_PASSWORD_ALGORITHM": "md5",
		"AUTHD_PBKDF2_ITERATIONS":  "10",
		"AUTHD_PBKDF2_KEY_LEN":     "abc",
		"AUTHD_ARGON2_PARALLELISM": "0",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			if _, err := FromEnv(); err == nil {
				t.Fatalf("expected error for %s=%q", k, v)
			}
		})
	}
}

func TestParseAlgorithm(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want Algorithm
	}{
		{in: "pbkdf2-sha256", want: AlgorithmPBKDF2SHA256},
		{in: " PBKDF2 ", want: AlgorithmPBKDF2SHA256},
		{in: "argon2id", want: AlgorithmArgon2id},
	}
	for _, tc := range cases {
		got, err := ParseAlgorithm(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("ParseAlgorithm(%q)=%q,%v want=%q", tc.in, got, err, tc.want)
		}
	}

	if _, err := ParseAlgorithm("scrypt"); !errors.Is(err, ErrUnsupportedAlgorithm) {
		t.Fatalf("expected ErrUnsupportedAlgorithm, got %v", err)
	}
}
