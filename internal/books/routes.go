package books

import (
	"github.com/labstack/echo/v4"

	"github.com/booklyhq/bookly/internal/auth"
)

// RegisterRoutes sets up all book endpoints on the v1 API group. Every
// route requires a valid access token.
func RegisterRoutes(g *echo.Group, h *Handler, guard *auth.Guard) {
	books := g.Group("/books", guard.RequireAccessToken(), guard.RequireRole(auth.RoleAdmin, auth.RoleUser))

	books.GET("", h.List)
	books.POST("", h.Create)
	books.GET("/user/:uid", h.ListByUser)
	books.GET("/:uid", h.Get)
	books.PATCH("/:uid", h.Update)
	books.DELETE("/:uid", h.Delete)
}
