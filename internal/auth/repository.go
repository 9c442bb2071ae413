package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/booklyhq/bookly/internal/apperror"
)

// UserRepository defines the data access contract for user accounts and
// account tokens. All SQL lives in the concrete implementation -- no SQL
// leaks out.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByUID(ctx context.Context, uid string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdatePassword(ctx context.Context, userUID, passwordHash string) error
	MarkVerified(ctx context.Context, userUID string) error

	// Account tokens (email verification, password reset).
	CreateAccountToken(ctx context.Context, token *AccountToken) error
	FindAccountToken(ctx context.Context, tokenHash string, purpose TokenPurpose) (*AccountToken, error)
	MarkAccountTokenUsed(ctx context.Context, tokenHash string) error
}

// userRepository implements UserRepository with hand-written MariaDB queries.
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository backed by the given DB pool.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `uid, username, email, first_name, last_name, role,
	               is_verified, password_hash, created_at, updated_at`

// Create inserts a new user row into the users table.
func (r *userRepository) Create(ctx context.Context, user *User) error {
	query := `INSERT INTO users (uid, username, email, first_name, last_name,
	                             role, is_verified, password_hash, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		user.UID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Role,
		user.IsVerified,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return apperror.NewConflict("An account with this email or username already exists.").
				WithCode("USER_ALREADY_EXISTS")
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

// FindByUID retrieves a user by their UUID.
// Returns apperror.NotFound if no user exists with this UID.
func (r *userRepository) FindByUID(ctx context.Context, uid string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = ?`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, uid).Scan(
		&user.UID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.IsVerified,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("User not found.").WithCode("USER_NOT_FOUND")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by uid: %w", err)
	}

	return user, nil
}

// FindByEmail retrieves a user by their email address.
// Returns apperror.NotFound if no user exists with this email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.UID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.IsVerified,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("User not found.").WithCode("USER_NOT_FOUND")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by email: %w", err)
	}

	return user, nil
}

// EmailExists returns true if a user with the given email already exists.
// Used during signup to check for duplicates before hashing the password.
func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking email existence: %w", err)
	}
	return exists, nil
}

// UsernameExists returns true if a user with the given username already exists.
func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking username existence: %w", err)
	}
	return exists, nil
}

// UpdatePassword sets a new password hash for a user and bumps updated_at.
func (r *userRepository) UpdatePassword(ctx context.Context, userUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = ?, updated_at = NOW() WHERE uid = ?`

	result, err := r.db.ExecContext(ctx, query, passwordHash, userUID)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("User not found.").WithCode("USER_NOT_FOUND")
	}
	return nil
}

// MarkVerified sets the is_verified flag for a user and bumps updated_at.
func (r *userRepository) MarkVerified(ctx context.Context, userUID string) error {
	query := `UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE uid = ?`

	result, err := r.db.ExecContext(ctx, query, userUID)
	if err != nil {
		return fmt.Errorf("marking user verified: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("User not found.").WithCode("USER_NOT_FOUND")
	}
	return nil
}

// --- Account tokens ---

// CreateAccountToken inserts a verification or reset token. The TokenHash
// is SHA-256(plaintext_token) -- plaintext is never stored.
func (r *userRepository) CreateAccountToken(ctx context.Context, token *AccountToken) error {
	query := `INSERT INTO account_tokens (token_hash, user_uid, email, purpose, expires_at)
	          VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		token.TokenHash,
		token.UserUID,
		token.Email,
		token.Purpose,
		token.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("creating account token: %w", err)
	}
	return nil
}

// FindAccountToken looks up a token by its hash and purpose.
func (r *userRepository) FindAccountToken(ctx context.Context, tokenHash string, purpose TokenPurpose) (*AccountToken, error) {
	query := `SELECT token_hash, user_uid, email, purpose, expires_at, used_at, created_at
	          FROM account_tokens WHERE token_hash = ? AND purpose = ?`

	token := &AccountToken{}
	var usedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, tokenHash, purpose).Scan(
		&token.TokenHash,
		&token.UserUID,
		&token.Email,
		&token.Purpose,
		&token.ExpiresAt,
		&usedAt,
		&token.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("Invalid or expired token.").WithCode("INVALID_TOKEN")
	}
	if err != nil {
		return nil, fmt.Errorf("querying account token: %w", err)
	}
	if usedAt.Valid {
		t := usedAt.Time
		token.UsedAt = &t
	}

	return token, nil
}

// MarkAccountTokenUsed stamps the used_at column so the token can't be
// reused. The token may be deleted between lookup and update, so zero
// affected rows is a not-found, not a silent success.
func (r *userRepository) MarkAccountTokenUsed(ctx context.Context, tokenHash string) error {
	query := `UPDATE account_tokens SET used_at = NOW() WHERE token_hash = ?`

	result, err := r.db.ExecContext(ctx, query, tokenHash)
	if err != nil {
		return fmt.Errorf("marking account token used: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("Invalid or expired token.").WithCode("INVALID_TOKEN")
	}
	return nil
}

// isDuplicateEntry checks if a MySQL/MariaDB error is a duplicate key violation.
// Error code 1062 is ER_DUP_ENTRY for unique constraint violations.
func isDuplicateEntry(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
