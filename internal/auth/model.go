// Package auth handles user accounts, password security, and the JWT
// session core for Bookly: token issuance/validation, refresh rotation,
// the Redis revocation blocklist, and the request guard middleware.
// It also owns email verification and password-reset flows.
package auth

import (
	"time"
)

// Role is the closed set of user roles. Stored as an ENUM column and
// embedded in token claims; route guards compare against allowed sets.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether the role is a known member of the enum.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents a registered Bookly user. This is the domain model used
// throughout the application. Database scanning and JSON marshaling use this
// struct directly.
type User struct {
	UID          string    `json:"uid"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         Role      `json:"role"`
	IsVerified   bool      `json:"is_verified"`
	PasswordHash string    `json:"-"` // Never expose in JSON responses.
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// --- Request DTOs (bound from HTTP requests) ---

// SignupRequest holds the data submitted to POST /auth/signup.
type SignupRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=20"`
	Email     string `json:"email" validate:"required,email,max=40"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"required,min=1,max=20"`
	LastName  string `json:"last_name" validate:"required,min=1,max=20"`
}

// LoginRequest holds the data submitted to POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=40"`
	Password string `json:"password" validate:"required,min=8"`
}

// PasswordResetRequest holds the email submitted to
// POST /auth/password-reset-request.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email,max=40"`
}

// PasswordResetConfirmRequest holds the new password pair submitted to
// POST /auth/password-reset-confirm/:token.
type PasswordResetConfirmRequest struct {
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// --- Service input DTOs (passed from handler to service) ---

// SignupInput is the validated input for creating a new user. Role is not
// client-controlled: every signup gets RoleUser.
type SignupInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginInput is the validated input for authenticating a user.
type LoginInput struct {
	Email    string
	Password string
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

// --- Account tokens (email verification / password reset) ---

// TokenPurpose distinguishes the two account-token flows.
type TokenPurpose string

const (
	PurposeVerifyEmail   TokenPurpose = "verify_email"
	PurposeResetPassword TokenPurpose = "reset_password"
)

// AccountToken is a single-use, expiring token delivered by email link.
// Only the SHA-256 hash of the plaintext token is persisted.
type AccountToken struct {
	TokenHash string
	UserUID   string
	Email     string
	Purpose   TokenPurpose
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
