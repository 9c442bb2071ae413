package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/booklyhq/bookly/internal/config"
)

// signingMethod is the only accepted JWT algorithm. Validation pins the
// method so an attacker cannot downgrade to "none" or swap to RSA keys.
var signingMethod = jwt.SigningMethodHS256

// TokenUser is the identity snapshot embedded in token claims. Kept small:
// the claims travel on every request.
type TokenUser struct {
	UID   string `json:"user_uid"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Claims is the only supported JWT claims shape for this service. Access
// and refresh tokens are structurally identical; the Refresh flag and TTL
// are the only differences. The jti (RegisteredClaims.ID) is a fresh UUID
// per token and doubles as the revocation key.
type Claims struct {
	jwt.RegisteredClaims

	User    TokenUser `json:"user"`
	Refresh bool      `json:"refresh"`
}

// JTI returns the token's unique id.
func (c *Claims) JTI() string {
	return c.ID
}

// TokenIssuer issues and validates signed JWTs with a shared HMAC secret.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenIssuer creates a token issuer from the JWT config.
func NewTokenIssuer(cfg config.JWTConfig) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}
}

// AccessTTL returns the configured access-token lifetime. The revocation
// blocklist uses it as the entry TTL: a revoked jti only needs to stay
// blocked until the token would have expired anyway.
func (t *TokenIssuer) AccessTTL() time.Duration {
	return t.accessTTL
}

// IssueAccess issues a short-lived access token for the user.
func (t *TokenIssuer) IssueAccess(user *User) (string, error) {
	return t.issue(user, t.accessTTL, false)
}

// IssueRefresh issues a longer-lived refresh token for the user. Refresh
// tokens are only accepted by the refresh endpoint.
func (t *TokenIssuer) IssueRefresh(user *User) (string, error) {
	return t.issue(user, t.refreshTTL, true)
}

// issue builds and signs a token with a fresh jti, issued-at, and absolute
// expiry.
func (t *TokenIssuer) issue(user *User, ttl time.Duration, refresh bool) (string, error) {
	now := time.Now()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		User: TokenUser{
			UID:   user.UID,
			Email: user.Email,
			Role:  user.Role,
		},
		Refresh: refresh,
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Validate verifies a token's signature and expiry and returns its claims.
// Any failure (malformed, expired, wrong algorithm, bad signature) yields
// nil claims and a non-nil error; callers must not inspect claims on error.
func (t *TokenIssuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
