package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/booklyhq/bookly/internal/middleware"
)

// RegisterRoutes sets up all auth endpoints on the v1 API group.
//
// Credential endpoints are rate-limited to slow down brute-force and
// credential stuffing: 10 attempts per IP per minute for login, 5 for
// signup and password reset.
func RegisterRoutes(g *echo.Group, h *Handler, guard *Guard) {
	auth := g.Group("/auth")

	// Public routes -- no token required.
	auth.POST("/signup", h.Signup, middleware.RateLimit(5, time.Minute))
	auth.GET("/verify/:token", h.VerifyAccount)
	auth.POST("/login", h.Login, middleware.RateLimit(10, time.Minute))
	auth.POST("/password-reset-request", h.RequestPasswordReset, middleware.RateLimit(5, time.Minute))
	auth.POST("/password-reset-confirm/:token", h.ConfirmPasswordReset, middleware.RateLimit(5, time.Minute))

	// Refresh takes a refresh token instead of an access token.
	auth.GET("/refresh_token", h.Refresh, guard.RequireRefreshToken())

	// Token-protected routes.
	auth.GET("/logout", h.Logout, guard.RequireAccessToken())
	auth.GET("/me", h.Me, guard.RequireAccessToken(), guard.RequireRole(RoleAdmin, RoleUser))
}
