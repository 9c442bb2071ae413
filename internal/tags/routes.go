package tags

import (
	"github.com/labstack/echo/v4"

	"github.com/booklyhq/bookly/internal/auth"
)

// RegisterRoutes sets up all tag endpoints on the v1 API group. Every
// route requires a valid access token.
func RegisterRoutes(g *echo.Group, h *Handler, guard *auth.Guard) {
	tags := g.Group("/tags", guard.RequireAccessToken(), guard.RequireRole(auth.RoleAdmin, auth.RoleUser))

	tags.GET("", h.List)
	tags.POST("", h.Create)
	tags.POST("/book/:book_uid/tags", h.AddToBook)
	tags.GET("/book/:book_uid", h.ListByBook)
	tags.GET("/:uid", h.Get)
	tags.PATCH("/:uid", h.Update)
	tags.DELETE("/:uid", h.Delete)
}
