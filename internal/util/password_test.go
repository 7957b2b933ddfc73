package util

import (
	"bytes"
	"testing"
)

func TestDeriveAndVerifyPassword(t *testing.T) {
	hash, salt, err := DerivePassword("s3cret-Pass!")
	if err != nil {
		t.Fatalf("DerivePassword returned error: %v", err)
	}
	if len(hash) == 0 || len(salt) == 0 {
		t.Fatalf("expected hash and salt to be populated")
	}
	if !VerifyPassword("s3cret-Pass!", salt, hash) {
		t.Fatalf("expected password verification to succeed")
	}
	if VerifyPassword("wrong-pass", salt, hash) {
		t.Fatalf("expected password verification to fail for wrong password")
	}
}

func TestDerivePasswordSaltRandomized(t *testing.T) {
	hash1, salt1, err := DerivePassword("same-Input1!")
	if err != nil {
		t.Fatalf("DerivePassword returned error: %v", err)
	}
	hash2, salt2, err := DerivePassword("same-Input1!")
	if err != nil {
		t.Fatalf("DerivePassword returned error: %v", err)
	}
	if bytes.Equal(salt1, salt2) {
		t.Fatalf("expected distinct salts across derivations")
	}
	if bytes.Equal(hash1, hash2) {
		t.Fatalf("expected distinct hashes across derivations")
	}
	if !VerifyPassword("same-Input1!", salt1, hash1) || !VerifyPassword("same-Input1!", salt2, hash2) {
		t.Fatalf("expected both derivations to verify")
	}
}

func TestHashPasswordEmptyInput(t *testing.T) {
	if _, err := HashPassword("", []byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error when password empty")
	}
	if _, err := HashPassword("secret", nil); err == nil {
		t.Fatalf("expected error when salt empty")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("Secret123!"); err != nil {
		t.Fatalf("expected valid password, got %v", err)
	}
	for _, weak := range []string{"short1!", "alllowercase123!", "NOLOWERCASE123!", "NoDigitsHere!", "NoSpecial123"} {
		if err := ValidatePassword(weak); err == nil {
			t.Fatalf("expected %q to be rejected", weak)
		}
	}
}
