package reviews

import (
	"github.com/labstack/echo/v4"

	"github.com/booklyhq/bookly/internal/auth"
)

// RegisterRoutes sets up all review endpoints on the v1 API group. Every
// route requires a valid access token.
func RegisterRoutes(g *echo.Group, h *Handler, guard *auth.Guard) {
	reviews := g.Group("/reviews", guard.RequireAccessToken(), guard.RequireRole(auth.RoleAdmin, auth.RoleUser))

	reviews.GET("", h.List)
	reviews.POST("/book/:book_uid", h.Create)
	reviews.GET("/book/:book_uid", h.ListByBook)
	reviews.GET("/:uid", h.Get)
	reviews.DELETE("/:uid", h.Delete)
}
