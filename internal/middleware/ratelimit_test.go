package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func doRequest(t *testing.T, mw echo.MiddlewareFunc, ip string) int {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = ip + ":12345"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec.Code
}

func TestRateLimit(t *testing.T) {
	t.Run("limits requests past the maximum", func(t *testing.T) {
		mw := RateLimit(3, time.Minute)

		for i := 0; i < 3; i++ {
			if code := doRequest(t, mw, "192.0.2.1"); code != http.StatusOK {
				t.Fatalf("request %d: status = %d, want 200", i+1, code)
			}
		}
		if code := doRequest(t, mw, "192.0.2.1"); code != http.StatusTooManyRequests {
			t.Errorf("status = %d, want 429", code)
		}
	})

	t.Run("tracks IPs independently", func(t *testing.T) {
		mw := RateLimit(1, time.Minute)

		if code := doRequest(t, mw, "192.0.2.1"); code != http.StatusOK {
			t.Fatalf("first IP: status = %d, want 200", code)
		}
		if code := doRequest(t, mw, "192.0.2.2"); code != http.StatusOK {
			t.Errorf("second IP: status = %d, want 200", code)
		}
	})
}

// Sweeping removes only entries whose window has long expired.
func TestRateLimiterSweep(t *testing.T) {
	rl := &rateLimiter{
		window:  time.Minute,
		entries: make(map[string]*rateLimitEntry),
	}
	now := time.Now()
	rl.entries["stale"] = &rateLimitEntry{count: 5, windowStart: now.Add(-time.Hour)}
	rl.entries["fresh"] = &rateLimitEntry{count: 1, windowStart: now}

	rl.sweep(now)

	if _, ok := rl.entries["stale"]; ok {
		t.Error("stale entry survived the sweep")
	}
	if _, ok := rl.entries["fresh"]; !ok {
		t.Error("fresh entry was swept")
	}
}

// Every RateLimit instance shares one cleanup goroutine instead of
// spawning its own.
func TestRateLimitSharedJanitor(t *testing.T) {
	// Force the janitor to exist before measuring.
	RateLimit(1, time.Minute)

	before := runtime.NumGoroutine()
	for i := 0; i < 10; i++ {
		RateLimit(1, time.Minute)
	}
	after := runtime.NumGoroutine()

	if after > before {
		t.Errorf("goroutines grew from %d to %d; limiters must share the janitor", before, after)
	}
}
