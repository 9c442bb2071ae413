package auth

import (
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// bcryptMaxPasswordBytes is bcrypt's hard input limit. Longer passwords are
// truncated before hashing AND before verification so both sides agree.
const bcryptMaxPasswordBytes = 72

// ErrEmptyPassword is returned by HashPassword when given an empty string.
var ErrEmptyPassword = errors.New("password cannot be empty")

// HashPassword creates a bcrypt hash of the given password using the
// library's default cost. Inputs longer than 72 bytes are truncated with a
// warning, matching the truncation applied by VerifyPassword.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	pw := truncatePassword(password)

	hash, err := bcrypt.GenerateFromPassword(pw, bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks a plaintext password against a stored bcrypt hash.
// It never returns an error: empty inputs and verification failures of any
// kind (malformed hash, mismatch) are logged and reported as false.
func VerifyPassword(password, hash string) bool {
	if password == "" {
		slog.Error("verify password: empty password")
		return false
	}
	if hash == "" {
		slog.Error("verify password: empty hash")
		return false
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), truncatePassword(password))
	if err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			slog.Error("verify password: comparison failed", slog.Any("error", err))
		}
		return false
	}
	return true
}

// truncatePassword enforces bcrypt's 72-byte input limit.
func truncatePassword(password string) []byte {
	pw := []byte(password)
	if len(pw) > bcryptMaxPasswordBytes {
		slog.Warn("password exceeds 72 bytes, truncating",
			slog.Int("length", len(pw)),
		)
		pw = pw[:bcryptMaxPasswordBytes]
	}
	return pw
}
