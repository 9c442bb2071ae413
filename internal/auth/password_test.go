package auth

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	t.Run("hashes a normal password", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery staple")
		if err != nil {
			t.Fatalf("HashPassword() error = %v", err)
		}
		if hash == "" {
			t.Fatal("HashPassword() returned empty hash")
		}
		if hash == "correct horse battery staple" {
			t.Fatal("HashPassword() returned the plaintext")
		}
	})

	t.Run("rejects empty password", func(t *testing.T) {
		if _, err := HashPassword(""); err == nil {
			t.Fatal("HashPassword(\"\") expected error, got nil")
		}
	})

	t.Run("produces different hashes for same input", func(t *testing.T) {
		h1, err := HashPassword("samepassword")
		if err != nil {
			t.Fatalf("HashPassword() error = %v", err)
		}
		h2, err := HashPassword("samepassword")
		if err != nil {
			t.Fatalf("HashPassword() error = %v", err)
		}
		if h1 == h2 {
			t.Error("expected different salts to produce different hashes")
		}
	})
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("my-secret-password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	t.Run("accepts correct password", func(t *testing.T) {
		if !VerifyPassword("my-secret-password", hash) {
			t.Error("VerifyPassword() = false for correct password")
		}
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		if VerifyPassword("not-my-password", hash) {
			t.Error("VerifyPassword() = true for wrong password")
		}
	})

	t.Run("rejects empty password without panicking", func(t *testing.T) {
		if VerifyPassword("", hash) {
			t.Error("VerifyPassword() = true for empty password")
		}
	})

	t.Run("rejects garbage hash without panicking", func(t *testing.T) {
		if VerifyPassword("my-secret-password", "not-a-bcrypt-hash") {
			t.Error("VerifyPassword() = true for garbage hash")
		}
	})
}

// Passwords longer than bcrypt's 72-byte input limit are truncated the
// same way on hash and verify, so a long password still round-trips.
func TestPasswordTruncationAgreement(t *testing.T) {
	long := strings.Repeat("a", 100)

	hash, err := HashPassword(long)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if !VerifyPassword(long, hash) {
		t.Error("long password failed to verify against its own hash")
	}

	// The first 72 bytes are what matters; a password that shares them
	// verifies too. This mirrors bcrypt's documented behavior.
	if !VerifyPassword(long[:72]+"completely-different-tail", hash) {
		t.Error("expected passwords sharing the first 72 bytes to verify")
	}

	if VerifyPassword(strings.Repeat("b", 100), hash) {
		t.Error("different long password verified unexpectedly")
	}
}
