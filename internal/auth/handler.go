package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booklyhq/bookly/internal/apperror"
	"github.com/booklyhq/bookly/internal/validation"
)

// ProfileLoader assembles the authenticated user's full profile, including
// content owned by the user. Implemented in the app wiring so this package
// doesn't depend on the content packages.
type ProfileLoader interface {
	LoadProfile(ctx context.Context, user *User) (any, error)
}

// Handler handles HTTP requests for authentication endpoints.
type Handler struct {
	service   AuthService
	profiles  ProfileLoader
	validator *validation.Validator
}

// NewHandler creates a new auth handler.
func NewHandler(service AuthService, profiles ProfileLoader, validator *validation.Validator) *Handler {
	return &Handler{
		service:   service,
		profiles:  profiles,
		validator: validator,
	}
}

// Signup handles POST /api/v1/auth/signup.
func (h *Handler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("Invalid request body.")
	}
	if err := h.validator.Validate(req); err != nil {
		return err
	}

	user, err := h.service.Signup(c.Request().Context(), SignupInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Account created. Check your email to verify your account.",
		"user":    user,
	})
}

// VerifyAccount handles GET /api/v1/auth/verify/:token.
func (h *Handler) VerifyAccount(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return apperror.NewBadRequest("Verification token is missing.")
	}

	user, err := h.service.VerifyAccount(c.Request().Context(), token)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Account verified successfully.",
		"user":    user,
	})
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("Invalid request body.")
	}
	if err := h.validator.Validate(req); err != nil {
		return err
	}

	pair, err := h.service.Login(c.Request().Context(), LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Login successful",
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"user": echo.Map{
			"email": pair.User.Email,
			"uid":   pair.User.UID,
		},
	})
}

// Refresh handles GET /api/v1/auth/refresh_token. The guard has already
// validated the refresh token and stored its claims.
func (h *Handler) Refresh(c echo.Context) error {
	claims := GetClaims(c)
	if claims == nil {
		return apperror.NewUnauthorized("Authentication required.")
	}

	access, err := h.service.Refresh(c.Request().Context(), claims)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": access,
	})
}

// Logout handles GET /api/v1/auth/logout. Revokes the presented access
// token so it can't be used again.
func (h *Handler) Logout(c echo.Context) error {
	claims := GetClaims(c)
	if claims == nil {
		return apperror.NewUnauthorized("Authentication required.")
	}

	if err := h.service.Logout(c.Request().Context(), claims.JTI()); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Logged out successfully",
	})
}

// Me handles GET /api/v1/auth/me. Returns the authenticated user's
// profile, including their books and reviews.
func (h *Handler) Me(c echo.Context) error {
	claims := GetClaims(c)
	if claims == nil {
		return apperror.NewUnauthorized("Authentication required.")
	}

	user, err := h.service.CurrentUser(c.Request().Context(), claims.User.UID)
	if err != nil {
		return err
	}

	profile, err := h.profiles.LoadProfile(c.Request().Context(), user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profile)
}

// RequestPasswordReset handles POST /api/v1/auth/password-reset-request.
// Always responds 200 so the endpoint can't be used to enumerate accounts.
func (h *Handler) RequestPasswordReset(c echo.Context) error {
	var req PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("Invalid request body.")
	}
	if err := h.validator.Validate(req); err != nil {
		return err
	}

	if err := h.service.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		if apperror.SafeCode(err) != http.StatusNotFound {
			return err
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Please check your email for instructions to reset your password",
	})
}

// ConfirmPasswordReset handles POST /api/v1/auth/password-reset-confirm/:token.
func (h *Handler) ConfirmPasswordReset(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return apperror.NewBadRequest("Reset token is missing.")
	}

	var req PasswordResetConfirmRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("Invalid request body.")
	}
	if err := h.validator.Validate(req); err != nil {
		return err
	}

	if err := h.service.ConfirmPasswordReset(c.Request().Context(), token, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Password reset successfully",
	})
}
