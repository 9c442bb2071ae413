package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/booklyhq/bookly/internal/config"
)

func testIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	return NewTokenIssuer(config.JWTConfig{
		Secret:     "test-secret-key-that-is-long-enough!!",
		AccessTTL:  time.Hour,
		RefreshTTL: 48 * time.Hour,
	})
}

func testUser() *User {
	return &User{
		UID:   "11111111-2222-3333-4444-555555555555",
		Email: "reader@example.com",
		Role:  RoleUser,
	}
}

func TestTokenIssuer_AccessRoundtrip(t *testing.T) {
	issuer := testIssuer(t)
	user := testUser()

	token, err := issuer.IssueAccess(user)
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	claims, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if claims.User.UID != user.UID {
		t.Errorf("claims.User.UID = %q, want %q", claims.User.UID, user.UID)
	}
	if claims.User.Email != user.Email {
		t.Errorf("claims.User.Email = %q, want %q", claims.User.Email, user.Email)
	}
	if claims.Refresh {
		t.Error("access token has refresh = true")
	}
	if claims.JTI() == "" {
		t.Error("access token is missing a jti")
	}
}

func TestTokenIssuer_RefreshFlag(t *testing.T) {
	issuer := testIssuer(t)

	token, err := issuer.IssueRefresh(testUser())
	if err != nil {
		t.Fatalf("IssueRefresh() error = %v", err)
	}

	claims, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !claims.Refresh {
		t.Error("refresh token has refresh = false")
	}
}

func TestTokenIssuer_UniqueJTI(t *testing.T) {
	issuer := testIssuer(t)
	user := testUser()

	t1, err := issuer.IssueAccess(user)
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}
	t2, err := issuer.IssueAccess(user)
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	c1, _ := issuer.Validate(t1)
	c2, _ := issuer.Validate(t2)
	if c1.JTI() == c2.JTI() {
		t.Error("two tokens share a jti; revoking one would revoke both")
	}
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer(config.JWTConfig{
		Secret:     "test-secret-key-that-is-long-enough!!",
		AccessTTL:  -time.Minute,
		RefreshTTL: -time.Minute,
	})

	token, err := issuer.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	if _, err := issuer.Validate(token); err == nil {
		t.Fatal("Validate() accepted an expired token")
	}
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	token, err := testIssuer(t).IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	other := NewTokenIssuer(config.JWTConfig{
		Secret:     "a-completely-different-secret-key!!!!",
		AccessTTL:  time.Hour,
		RefreshTTL: 48 * time.Hour,
	})
	if _, err := other.Validate(token); err == nil {
		t.Fatal("Validate() accepted a token signed with a different secret")
	}
}

func TestTokenIssuer_RejectsUnsignedAlg(t *testing.T) {
	issuer := testIssuer(t)

	// Forge a token with alg "none"; the parser must refuse it even
	// though the claims are well-formed.
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "forged-jti",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		User: TokenUser{UID: "forged", Email: "forged@example.com"},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing forged token: %v", err)
	}

	if _, err := issuer.Validate(forged); err == nil {
		t.Fatal("Validate() accepted a token with alg none")
	}
}
