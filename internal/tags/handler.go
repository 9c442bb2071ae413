package tags

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booklyhq/bookly/internal/apperror"
	"github.com/booklyhq/bookly/internal/validation"
)

// Handler handles HTTP requests for tag endpoints.
type Handler struct {
	service   TagService
	validator *validation.Validator
}

// NewHandler creates a new tag handler.
func NewHandler(service TagService, validator *validation.Validator) *Handler {
	return &Handler{service: service, validator: validator}
}

// List handles GET /api/v1/tags.
func (h *Handler) List(c echo.Context) error {
	tags, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

// Create handles POST /api/v1/tags.
func (h *Handler) Create(c echo.Context) error {
	var req CreateTagRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("Invalid request body.")
	}
	if err := h.validator.Validate(req); err != nil {
		return err
	}

	tag, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tag)
}

// Get handles GET /api/v1/tags/:uid.
func (h *Handler) Get(c echo.Context) error {
	tag, err := h.service.Get(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tag)
}

// Update handles PATCH /api/v1/tags/:uid.
func (h *Handler) Update(c echo.Context) error {
	var req CreateTagRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("Invalid request body.")
	}
	if err := h.validator.Validate(req); err != nil {
		return err
	}

	tag, err := h.service.Update(c.Request().Context(), c.Param("uid"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tag)
}

// Delete handles DELETE /api/v1/tags/:uid.
func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("uid")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddToBook handles POST /api/v1/tags/book/:book_uid/tags.
func (h *Handler) AddToBook(c echo.Context) error {
	var req AddTagsRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("Invalid request body.")
	}
	if err := h.validator.Validate(req); err != nil {
		return err
	}

	tags, err := h.service.AddToBook(c.Request().Context(), c.Param("book_uid"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

// ListByBook handles GET /api/v1/tags/book/:book_uid.
func (h *Handler) ListByBook(c echo.Context) error {
	tags, err := h.service.ListByBook(c.Request().Context(), c.Param("book_uid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}
