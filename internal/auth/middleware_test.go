package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/booklyhq/bookly/internal/apperror"
	"github.com/booklyhq/bookly/internal/config"
)

func testGuard(t *testing.T) (*Guard, *TokenIssuer, *Blocklist) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	issuer := NewTokenIssuer(config.JWTConfig{
		Secret:     "test-secret-key-that-is-long-enough!!",
		AccessTTL:  time.Hour,
		RefreshTTL: 48 * time.Hour,
	})
	blocklist := NewBlocklist(client, time.Hour)
	return NewGuard(issuer, blocklist), issuer, blocklist
}

// invoke runs a request through the given middleware and a handler that
// records whether it was reached.
func invoke(mw echo.MiddlewareFunc, authorization string) (reached bool, claims *Claims, err error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		reached = true
		claims = GetClaims(c)
		return c.NoContent(http.StatusOK)
	})
	err = handler(c)
	return reached, claims, err
}

func TestGuard_RequireAccessToken(t *testing.T) {
	guard, issuer, blocklist := testGuard(t)

	t.Run("passes a valid access token and sets claims", func(t *testing.T) {
		token, err := issuer.IssueAccess(testUser())
		if err != nil {
			t.Fatalf("IssueAccess() error = %v", err)
		}

		reached, claims, err := invoke(guard.RequireAccessToken(), "Bearer "+token)
		if err != nil {
			t.Fatalf("guard returned error: %v", err)
		}
		if !reached {
			t.Fatal("handler was not reached")
		}
		if claims == nil || claims.User.UID != testUser().UID {
			t.Error("claims missing or wrong on the request context")
		}
	})

	t.Run("missing header gets 401", func(t *testing.T) {
		reached, _, err := invoke(guard.RequireAccessToken(), "")
		if reached {
			t.Fatal("handler reached without a token")
		}
		if apperror.SafeCode(err) != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", apperror.SafeCode(err))
		}
	})

	t.Run("malformed header gets 401", func(t *testing.T) {
		_, _, err := invoke(guard.RequireAccessToken(), "Basic abc123")
		if apperror.SafeCode(err) != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", apperror.SafeCode(err))
		}
	})

	t.Run("garbage token gets 403", func(t *testing.T) {
		_, _, err := invoke(guard.RequireAccessToken(), "Bearer not.a.jwt")
		if apperror.SafeCode(err) != http.StatusForbidden {
			t.Errorf("status = %d, want 403", apperror.SafeCode(err))
		}
	})

	t.Run("refresh token on an access route gets 403", func(t *testing.T) {
		refresh, err := issuer.IssueRefresh(testUser())
		if err != nil {
			t.Fatalf("IssueRefresh() error = %v", err)
		}

		reached, _, err := invoke(guard.RequireAccessToken(), "Bearer "+refresh)
		if reached {
			t.Fatal("handler reached with a refresh token")
		}
		if apperror.SafeCode(err) != http.StatusForbidden {
			t.Errorf("status = %d, want 403", apperror.SafeCode(err))
		}
	})

	t.Run("revoked token gets 403", func(t *testing.T) {
		token, err := issuer.IssueAccess(testUser())
		if err != nil {
			t.Fatalf("IssueAccess() error = %v", err)
		}
		claims, err := issuer.Validate(token)
		if err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if err := blocklist.Revoke(context.Background(), claims.JTI()); err != nil {
			t.Fatalf("Revoke() error = %v", err)
		}

		reached, _, err := invoke(guard.RequireAccessToken(), "Bearer "+token)
		if reached {
			t.Fatal("handler reached with a revoked token")
		}
		if apperror.SafeCode(err) != http.StatusForbidden {
			t.Errorf("status = %d, want 403", apperror.SafeCode(err))
		}
	})
}

func TestGuard_RequireRefreshToken(t *testing.T) {
	guard, issuer, _ := testGuard(t)

	t.Run("passes a valid refresh token", func(t *testing.T) {
		refresh, err := issuer.IssueRefresh(testUser())
		if err != nil {
			t.Fatalf("IssueRefresh() error = %v", err)
		}

		reached, _, err := invoke(guard.RequireRefreshToken(), "Bearer "+refresh)
		if err != nil {
			t.Fatalf("guard returned error: %v", err)
		}
		if !reached {
			t.Fatal("handler was not reached")
		}
	})

	t.Run("access token on the refresh route gets 403", func(t *testing.T) {
		access, err := issuer.IssueAccess(testUser())
		if err != nil {
			t.Fatalf("IssueAccess() error = %v", err)
		}

		_, _, err = invoke(guard.RequireRefreshToken(), "Bearer "+access)
		if apperror.SafeCode(err) != http.StatusForbidden {
			t.Errorf("status = %d, want 403", apperror.SafeCode(err))
		}
	})

	t.Run("expired refresh token gets 400", func(t *testing.T) {
		expiredIssuer := NewTokenIssuer(config.JWTConfig{
			Secret:     "test-secret-key-that-is-long-enough!!",
			AccessTTL:  -time.Minute,
			RefreshTTL: -time.Minute,
		})
		refresh, err := expiredIssuer.IssueRefresh(testUser())
		if err != nil {
			t.Fatalf("IssueRefresh() error = %v", err)
		}

		_, _, err = invoke(guard.RequireRefreshToken(), "Bearer "+refresh)
		if apperror.SafeCode(err) != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", apperror.SafeCode(err))
		}
	})
}

func TestGuard_RequireRole(t *testing.T) {
	guard, issuer, _ := testGuard(t)

	adminOnly := func(token string) (bool, error) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		var reached bool
		chain := guard.RequireAccessToken()(guard.RequireRole(RoleAdmin)(func(c echo.Context) error {
			reached = true
			return c.NoContent(http.StatusOK)
		}))
		return reached, chain(c)
	}

	t.Run("admin passes", func(t *testing.T) {
		admin := &User{UID: "admin-uid", Email: "admin@example.com", Role: RoleAdmin}
		token, err := issuer.IssueAccess(admin)
		if err != nil {
			t.Fatalf("IssueAccess() error = %v", err)
		}

		reached, err := adminOnly(token)
		if err != nil {
			t.Fatalf("chain returned error: %v", err)
		}
		if !reached {
			t.Fatal("handler was not reached")
		}
	})

	t.Run("regular user gets 403", func(t *testing.T) {
		token, err := issuer.IssueAccess(testUser())
		if err != nil {
			t.Fatalf("IssueAccess() error = %v", err)
		}

		reached, err := adminOnly(token)
		if reached {
			t.Fatal("handler reached without the required role")
		}
		if apperror.SafeCode(err) != http.StatusForbidden {
			t.Errorf("status = %d, want 403", apperror.SafeCode(err))
		}
	})
}
