package tags

import (
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/booklyhq/bookly/internal/auth"
	"github.com/booklyhq/bookly/internal/config"
)

// Tag rename is a PATCH: clients following the API contract must not get
// a 405 from a mismatched method.
func TestRegisterRoutes_Methods(t *testing.T) {
	e := echo.New()
	issuer := auth.NewTokenIssuer(config.JWTConfig{
		Secret:     "test-secret-key-that-is-long-enough!!",
		AccessTTL:  time.Hour,
		RefreshTTL: 48 * time.Hour,
	})
	guard := auth.NewGuard(issuer, auth.NewBlocklist(nil, time.Hour))

	RegisterRoutes(e.Group("/api/v1"), NewHandler(nil, nil), guard)

	want := map[string]string{
		"/api/v1/tags":                     http.MethodPost,
		"/api/v1/tags/:uid":                http.MethodPatch,
		"/api/v1/tags/book/:book_uid/tags": http.MethodPost,
	}

	registered := make(map[string]bool)
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for path, method := range want {
		if !registered[method+" "+path] {
			t.Errorf("route %s %s is not registered", method, path)
		}
	}
}
