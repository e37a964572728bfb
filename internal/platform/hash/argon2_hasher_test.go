package hash_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ferdiebergado/tokenkit/internal/config"
	"github.com/ferdiebergado/tokenkit/internal/platform/hash"
)

// Small parameters keep the suite fast; production values live in config.json.
var testOpts = &config.Argon2{
	Memory:     1024,
	Iterations: 1,
	Threads:    1,
	SaltLength: 16,
	KeyLength:  32,
}

const pepper = "paminta"

func TestArgon2Hasher_Hash(t *testing.T) {
	t.Parallel()

	hasher, err := hash.NewArgon2Hasher(testOpts, pepper)
	if err != nil {
		t.Fatal(err)
	}

	hashed, err := hasher.Hash("rice")
	if err != nil {
		t.Fatal(err)
	}

	parts := strings.Split(hashed, "$")
	if gotLen, wantLen := len(parts), 6; gotLen != wantLen {
		t.Fatalf("len(parts) = %d, want: %d", gotLen, wantLen)
	}

	if got, want := parts[1], "argon2id"; got != want {
		t.Errorf("parts[1] = %q, want: %q", got, want)
	}

	other, err := hasher.Hash("rice")
	if err != nil {
		t.Fatal(err)
	}

	if other == hashed {
		t.Error("two hashes of the same password are equal, want: distinct salts")
	}
}

func TestArgon2Hasher_Verify(t *testing.T) {
	t.Parallel()

	hasher, err := hash.NewArgon2Hasher(testOpts, pepper)
	if err != nil {
		t.Fatal(err)
	}

	hashed, err := hasher.Hash("rice")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		plain string
		want  bool
	}{
		{"Matching password", "rice", true},
		{"Wrong password", "garlic", false},
		{"Empty password", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := hasher.Verify(tt.plain, hashed)
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("hasher.Verify(%q, hashed) = %v, want: %v", tt.plain, got, tt.want)
			}
		})
	}
}

func TestArgon2Hasher_VerifyWithDifferentPepper(t *testing.T) {
	t.Parallel()

	hasher, err := hash.NewArgon2Hasher(testOpts, pepper)
	if err != nil {
		t.Fatal(err)
	}

	hashed, err := hasher.Hash("rice")
	if err != nil {
		t.Fatal(err)
	}

	other, err := hash.NewArgon2Hasher(testOpts, "asin")
	if err != nil {
		t.Fatal(err)
	}

	ok, err := other.Verify("rice", hashed)
	if err != nil {
		t.Fatal(err)
	}

	if ok {
		t.Error("other.Verify() = true, want: false")
	}
}

func TestArgon2Hasher_VerifyInvalidHash(t *testing.T) {
	t.Parallel()

	hasher, err := hash.NewArgon2Hasher(testOpts, pepper)
	if err != nil {
		t.Fatal(err)
	}

	for _, hashed := range []string{
		"",
		"plain-text-password",
		"$2a$10$e0MYzXyjpJS7Pd0RVvHwHeFx4fQnhdQnZZF9uG6x1Z1ZzR12uLh9e",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$aGFzaA",
	} {
		if _, err := hasher.Verify("rice", hashed); !errors.Is(err, hash.ErrInvalidHash) {
			t.Errorf("hasher.Verify(%q) = %v, want: %v", hashed, err, hash.ErrInvalidHash)
		}
	}
}

func TestNewArgon2Hasher_RejectsZeroParams(t *testing.T) {
	t.Parallel()

	if _, err := hash.NewArgon2Hasher(&config.Argon2{}, pepper); err == nil {
		t.Error("hash.NewArgon2Hasher(&config.Argon2{}) = nil error, want: error")
	}
}
