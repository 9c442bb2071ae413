package reviews

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booklyhq/bookly/internal/apperror"
	"github.com/booklyhq/bookly/internal/auth"
	"github.com/booklyhq/bookly/internal/validation"
)

// Handler handles HTTP requests for review endpoints.
type Handler struct {
	service   ReviewService
	validator *validation.Validator
}

// NewHandler creates a new review handler.
func NewHandler(service ReviewService, validator *validation.Validator) *Handler {
	return &Handler{service: service, validator: validator}
}

// Create handles POST /api/v1/reviews/book/:book_uid.
func (h *Handler) Create(c echo.Context) error {
	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("Invalid request body.")
	}
	if err := h.validator.Validate(req); err != nil {
		return err
	}

	claims := auth.GetClaims(c)
	if claims == nil {
		return apperror.NewUnauthorized("Authentication required.")
	}

	review, err := h.service.Create(c.Request().Context(), c.Param("book_uid"), req, claims.User.UID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, review)
}

// List handles GET /api/v1/reviews.
func (h *Handler) List(c echo.Context) error {
	reviews, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

// ListByBook handles GET /api/v1/reviews/book/:book_uid.
func (h *Handler) ListByBook(c echo.Context) error {
	reviews, err := h.service.ListByBook(c.Request().Context(), c.Param("book_uid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

// Get handles GET /api/v1/reviews/:uid.
func (h *Handler) Get(c echo.Context) error {
	review, err := h.service.Get(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, review)
}

// Delete handles DELETE /api/v1/reviews/:uid. Only the author or an admin
// may delete a review.
func (h *Handler) Delete(c echo.Context) error {
	claims := auth.GetClaims(c)
	if claims == nil {
		return apperror.NewUnauthorized("Authentication required.")
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("uid"), claims); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
