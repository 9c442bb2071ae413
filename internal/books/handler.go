package books

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booklyhq/bookly/internal/apperror"
	"github.com/booklyhq/bookly/internal/auth"
	"github.com/booklyhq/bookly/internal/validation"
)

// Handler handles HTTP requests for book endpoints.
type Handler struct {
	service   BookService
	validator *validation.Validator
}

// NewHandler creates a new book handler.
func NewHandler(service BookService, validator *validation.Validator) *Handler {
	return &Handler{service: service, validator: validator}
}

// List handles GET /api/v1/books.
func (h *Handler) List(c echo.Context) error {
	books, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

// ListByUser handles GET /api/v1/books/user/:uid.
func (h *Handler) ListByUser(c echo.Context) error {
	books, err := h.service.ListByUser(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

// Create handles POST /api/v1/books. The book is attributed to the
// authenticated user.
func (h *Handler) Create(c echo.Context) error {
	var req CreateBookRequest
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

	book, err := h.service.Create(c.Request().Context(), req, claims.User.UID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, book)
}

// Get handles GET /api/v1/books/:uid.
func (h *Handler) Get(c echo.Context) error {
	book, err := h.service.Get(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, book)
}

// Update handles PATCH /api/v1/books/:uid. Only the supplied fields change.
func (h *Handler) Update(c echo.Context) error {
	var req UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("Invalid request body.")
	}
	if err := h.validator.Validate(req); err != nil {
		return err
	}

	book, err := h.service.Update(c.Request().Context(), c.Param("uid"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, book)
}

// Delete handles DELETE /api/v1/books/:uid.
func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("uid")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
