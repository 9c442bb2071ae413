package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/booklyhq/bookly/internal/apperror"
	"github.com/booklyhq/bookly/internal/mail"
)

// accountTokenBytes is the entropy of verification/reset link tokens.
// 32 bytes = 256 bits, hex-encoded to 64 characters.
const accountTokenBytes = 32

// accountTokenTTL is how long verification and reset links stay valid.
const accountTokenTTL = 24 * time.Hour

// MailDispatcher is the outbound-mail contract the service depends on.
// Satisfied by *mail.Dispatcher; test doubles capture the message instead.
type MailDispatcher interface {
	Enqueue(msg mail.Message) bool
}

// AuthService defines the business logic contract for authentication.
// Handlers call these methods -- they never touch the repository directly.
type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*User, error)
	VerifyAccount(ctx context.Context, token string) (*User, error)
	Login(ctx context.Context, input LoginInput) (*TokenPair, error)
	Refresh(ctx context.Context, claims *Claims) (string, error)
	Logout(ctx context.Context, jti string) error
	CurrentUser(ctx context.Context, userUID string) (*User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

// authService implements AuthService with bcrypt hashing, JWT tokens, and
// the Redis revocation blocklist.
type authService struct {
	repo      UserRepository
	issuer    *TokenIssuer
	blocklist *Blocklist
	mailer    MailDispatcher

	// domain is the public host used to build email links.
	domain string
}

// NewAuthService creates a new auth service with the given dependencies.
func NewAuthService(repo UserRepository, issuer *TokenIssuer, blocklist *Blocklist, mailer MailDispatcher, domain string) AuthService {
	return &authService{
		repo:      repo,
		issuer:    issuer,
		blocklist: blocklist,
		mailer:    mailer,
		domain:    domain,
	}
}

// Signup creates a new user account. It validates uniqueness, hashes the
// password with bcrypt, generates a UUID, persists the user, and dispatches
// a verification email.
func (s *authService) Signup(ctx context.Context, input SignupInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	// Check uniqueness before doing expensive hashing.
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking email: %w", err))
	}
	if exists {
		return nil, apperror.NewConflict("An account with this email already exists.").
			WithCode("USER_ALREADY_EXISTS")
	}

	taken, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking username: %w", err))
	}
	if taken {
		return nil, apperror.NewConflict("This username is already taken.").
			WithCode("USER_ALREADY_EXISTS")
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	now := time.Now().UTC()
	user := &User{
		UID:          uuid.NewString(),
		Username:     username,
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Role:         RoleUser, // Never client-controlled.
		IsVerified:   false,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if _, ok := err.(*apperror.AppError); ok {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("creating user: %w", err))
	}

	// Dispatch the verification email. Failure to enqueue is logged but
	// never fails the signup; the user can request a new link.
	if err := s.sendVerificationMail(ctx, user); err != nil {
		slog.Warn("failed to dispatch verification email",
			slog.String("user_uid", user.UID),
			slog.Any("error", err),
		)
	}

	slog.Info("user signed up",
		slog.String("user_uid", user.UID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// VerifyAccount consumes an email verification token and marks the account
// verified.
func (s *authService) VerifyAccount(ctx context.Context, token string) (*User, error) {
	record, err := s.consumeAccountToken(ctx, token, PurposeVerifyEmail)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkVerified(ctx, record.UserUID); err != nil {
		if _, ok := err.(*apperror.AppError); ok {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("marking user verified: %w", err))
	}

	user, err := s.repo.FindByUID(ctx, record.UserUID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("loading verified user: %w", err))
	}

	slog.Info("account verified", slog.String("user_uid", user.UID))
	return user, nil
}

// Login authenticates a user by email and password. On success it issues a
// fresh access/refresh token pair.
func (s *authService) Login(ctx context.Context, input LoginInput) (*TokenPair, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		// Don't reveal whether the email exists -- use a generic message.
		if apperror.SafeCode(err) == 404 {
			return nil, apperror.NewUnauthorized("Invalid email or password.").
				WithCode("INVALID_CREDENTIALS")
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	if !VerifyPassword(input.Password, user.PasswordHash) {
		return nil, apperror.NewUnauthorized("Invalid email or password.").
			WithCode("INVALID_CREDENTIALS")
	}

	access, err := s.issuer.IssueAccess(user)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("issuing access token: %w", err))
	}
	refresh, err := s.issuer.IssueRefresh(user)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("issuing refresh token: %w", err))
	}

	slog.Info("user logged in",
		slog.String("user_uid", user.UID),
		slog.String("email", user.Email),
	)

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	}, nil
}

// Refresh mints a new access token from validated refresh-token claims.
// The user is re-read from the database so a deleted account or a role
// change takes effect immediately instead of at refresh-token expiry.
func (s *authService) Refresh(ctx context.Context, claims *Claims) (string, error) {
	user, err := s.repo.FindByUID(ctx, claims.User.UID)
	if err != nil {
		if apperror.SafeCode(err) == 404 {
			return "", apperror.NewUnauthorized("Account no longer exists.").
				WithCode("USER_NOT_FOUND")
		}
		return "", apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	access, err := s.issuer.IssueAccess(user)
	if err != nil {
		return "", apperror.NewInternal(fmt.Errorf("issuing access token: %w", err))
	}

	return access, nil
}

// Logout revokes the presented token's id. The token itself stays valid
// cryptographically until expiry; the guard rejects its jti via the
// blocklist.
func (s *authService) Logout(ctx context.Context, jti string) error {
	if err := s.blocklist.Revoke(ctx, jti); err != nil {
		return apperror.NewInternal(fmt.Errorf("revoking token: %w", err))
	}
	return nil
}

// CurrentUser loads the authenticated user's account by UID.
func (s *authService) CurrentUser(ctx context.Context, userUID string) (*User, error) {
	user, err := s.repo.FindByUID(ctx, userUID)
	if err != nil {
		if _, ok := err.(*apperror.AppError); ok {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}
	return user, nil
}

// RequestPasswordReset creates a reset token and emails the reset link.
// Returns NotFound when the account doesn't exist; the handler flattens
// that into a generic 200 so the endpoint can't be used for enumeration.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if _, ok := err.(*apperror.AppError); ok {
			return err
		}
		return apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	plaintext, err := s.createAccountToken(ctx, user, PurposeResetPassword)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("creating reset token: %w", err))
	}

	link := fmt.Sprintf("http://%s/api/v1/auth/password-reset-confirm/%s", s.domain, plaintext)
	s.mailer.Enqueue(mail.Message{
		To:      []string{user.Email},
		Subject: "Reset your Bookly password",
		Body: fmt.Sprintf(`<h1>Reset your password.</h1>
<p>Please click this <a href="%s">link</a> to reset your password.</p>
<p>The link expires in 24 hours. If you did not request this, ignore this email.</p>`, link),
	})

	slog.Info("password reset requested", slog.String("user_uid", user.UID))
	return nil
}

// ConfirmPasswordReset consumes a reset token and stores the new password
// hash. Password equality is validated at the boundary; only the new
// password reaches the service.
func (s *authService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	record, err := s.consumeAccountToken(ctx, token, PurposeResetPassword)
	if err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	if err := s.repo.UpdatePassword(ctx, record.UserUID, hash); err != nil {
		if _, ok := err.(*apperror.AppError); ok {
			return err
		}
		return apperror.NewInternal(fmt.Errorf("updating password: %w", err))
	}

	slog.Info("password reset completed", slog.String("user_uid", record.UserUID))
	return nil
}

// --- Account token helpers ---

// sendVerificationMail creates a verification token for the user and
// enqueues the verification email.
func (s *authService) sendVerificationMail(ctx context.Context, user *User) error {
	plaintext, err := s.createAccountToken(ctx, user, PurposeVerifyEmail)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("http://%s/api/v1/auth/verify/%s", s.domain, plaintext)
	s.mailer.Enqueue(mail.Message{
		To:      []string{user.Email},
		Subject: "Verify your Bookly account",
		Body: fmt.Sprintf(`<h1>Welcome to Bookly, %s!</h1>
<p>Please click this <a href="%s">link</a> to verify your account.</p>
<p>The link expires in 24 hours.</p>`, user.FirstName, link),
	})
	return nil
}

// createAccountToken generates a random token, stores its SHA-256 hash
// with a 24h expiry, and returns the plaintext for the email link.
func (s *authService) createAccountToken(ctx context.Context, user *User, purpose TokenPurpose) (string, error) {
	raw := make([]byte, accountTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	plaintext := hex.EncodeToString(raw)

	record := &AccountToken{
		TokenHash: hashAccountToken(plaintext),
		UserUID:   user.UID,
		Email:     user.Email,
		Purpose:   purpose,
		ExpiresAt: time.Now().UTC().Add(accountTokenTTL),
	}
	if err := s.repo.CreateAccountToken(ctx, record); err != nil {
		return "", err
	}

	return plaintext, nil
}

// consumeAccountToken validates a plaintext token for the given purpose
// and marks it used. Expired and already-used tokens are rejected.
func (s *authService) consumeAccountToken(ctx context.Context, plaintext string, purpose TokenPurpose) (*AccountToken, error) {
	record, err := s.repo.FindAccountToken(ctx, hashAccountToken(plaintext), purpose)
	if err != nil {
		if _, ok := err.(*apperror.AppError); ok {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding account token: %w", err))
	}

	if record.UsedAt != nil {
		return nil, apperror.NewBadRequest("This token has already been used.").
			WithCode("INVALID_TOKEN")
	}
	if time.Now().After(record.ExpiresAt) {
		return nil, apperror.NewBadRequest("This token has expired.").
			WithCode("INVALID_TOKEN")
	}

	if err := s.repo.MarkAccountTokenUsed(ctx, record.TokenHash); err != nil {
		if _, ok := err.(*apperror.AppError); ok {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("marking token used: %w", err))
	}

	return record, nil
}

// hashAccountToken returns the hex SHA-256 of a plaintext link token.
func hashAccountToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
