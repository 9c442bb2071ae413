// Package middleware provides HTTP middleware for Bookly.
// ratelimit.go implements a per-IP rate limiter using a sliding window
// counter stored in memory. Applied to the credential endpoints (login,
// signup, password reset) to slow down guessing.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// rateLimitEntry tracks request counts for a single IP within a time window.
type rateLimitEntry struct {
	count       int
	windowStart time.Time
}

// rateLimiter holds the per-IP window state for one RateLimit middleware.
type rateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	entries map[string]*rateLimitEntry
}

// sweep drops entries whose window has long expired.
func (rl *rateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, entry := range rl.entries {
		if now.Sub(entry.windowStart) > rl.window*2 {
			delete(rl.entries, ip)
		}
	}
}

// All limiters share a single cleanup goroutine, started on first use.
// RateLimit is called a fixed number of times at route registration, so
// the registry only ever grows by that fixed amount.
var (
	janitorOnce sync.Once
	limitersMu  sync.Mutex
	limiters    []*rateLimiter
)

func registerLimiter(rl *rateLimiter) {
	limitersMu.Lock()
	limiters = append(limiters, rl)
	limitersMu.Unlock()

	janitorOnce.Do(func() {
		go func() {
			for {
				time.Sleep(time.Minute)
				limitersMu.Lock()
				active := make([]*rateLimiter, len(limiters))
				copy(active, limiters)
				limitersMu.Unlock()

				now := time.Now()
				for _, rl := range active {
					rl.sweep(now)
				}
			}
		}()
	})
}

// RateLimit returns middleware that limits requests per IP to maxRequests
// within the given window duration. Returns 429 when exceeded.
func RateLimit(maxRequests int, window time.Duration) echo.MiddlewareFunc {
	rl := &rateLimiter{
		window:  window,
		entries: make(map[string]*rateLimitEntry),
	}
	registerLimiter(rl)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			now := time.Now()

			rl.mu.Lock()
			entry, exists := rl.entries[ip]
			if !exists || now.Sub(entry.windowStart) > window {
				rl.entries[ip] = &rateLimitEntry{count: 1, windowStart: now}
				rl.mu.Unlock()
				return next(c)
			}

			entry.count++
			if entry.count > maxRequests {
				rl.mu.Unlock()
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"message":    "Too many requests. Please try again later.",
					"detail":     "",
					"error_code": "RATE_LIMITED",
				})
			}
			rl.mu.Unlock()
			return next(c)
		}
	}
}
