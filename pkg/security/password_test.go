package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/angelmondragon/rateboard-backend/pkg/config"
	"github.com/angelmondragon/rateboard-backend/pkg/security"
)

var fastParams = config.PasswordConfig{
	ArgonMemoryKB:    1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func TestHashAndVerifyPassword(t *testing.T) {
	hasher := security.NewHasher(fastParams)

	hash, err := hasher.Hash("Very$ecure1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Fatalf("unexpected hash format %q", hash)
	}

	ok, err := hasher.Verify("Very$ecure1", hash)
	if err != nil {
		t.Fatalf("Verify returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("Verify failed for the correct password")
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestHashIsSalted(t *testing.T) {
	first, err := security.HashPassword("Same$Secret1", fastParams)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	second, err := security.HashPassword("Same$Secret1", fastParams)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct hashes for the same password")
	}
}

func TestHashRejectsEmpty(t *testing.T) {
	if _, err := security.NewHasher(fastParams).Hash(""); err == nil {
		t.Fatal("expected empty password to fail")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	for _, encoded := range []string{
		"not-a-hash",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$a2V5",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5",
	} {
		if _, err := security.VerifyPassword("irrelevant", encoded); !errors.Is(err, security.ErrInvalidHash) {
			t.Fatalf("expected ErrInvalidHash for %q, got %v", encoded, err)
		}
	}
}

func TestValidatePasswordPolicy(t *testing.T) {
	tests := []struct {
		password string
		wantErrs []error
	}{
		{password: "Passw0rd!"},
		{password: "Ab#defgh"},
		{password: "Abcdefghijklmn#p"},
		{password: "Ab#def", wantErrs: []error{security.ErrPasswordLength}},
		{password: "Abcdefghijklmnop#", wantErrs: []error{security.ErrPasswordLength}},
		{password: "password!", wantErrs: []error{security.ErrPasswordUppercase}},
		{password: "Password1", wantErrs: []error{security.ErrPasswordSpecial}},
		{password: "short", wantErrs: []error{security.ErrPasswordLength, security.ErrPasswordUppercase, security.ErrPasswordSpecial}},
	}

	for _, tt := range tests {
		err := security.ValidatePasswordPolicy(tt.password)
		if len(tt.wantErrs) == 0 {
			if err != nil {
				t.Fatalf("%q: unexpected error %v", tt.password, err)
			}
			continue
		}
		for _, want := range tt.wantErrs {
			if !errors.Is(err, want) {
				t.Fatalf("%q: expected %v in %v", tt.password, want, err)
			}
		}
	}
}
