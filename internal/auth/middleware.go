package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/booklyhq/bookly/internal/apperror"
)

// claimsContextKey is where validated token claims are stored on the
// request context for downstream handlers.
const claimsContextKey = "auth.claims"

// GetClaims returns the validated token claims set by the guard, or nil
// when the route is not guarded.
func GetClaims(c echo.Context) *Claims {
	claims, _ := c.Get(claimsContextKey).(*Claims)
	return claims
}

// Guard validates bearer tokens for protected routes. One instance is
// shared by every route group; the Require* methods pick the token kind.
type Guard struct {
	issuer    *TokenIssuer
	blocklist *Blocklist
}

// NewGuard creates a request guard backed by the given token issuer and
// revocation blocklist.
func NewGuard(issuer *TokenIssuer, blocklist *Blocklist) *Guard {
	return &Guard{issuer: issuer, blocklist: blocklist}
}

// RequireAccessToken rejects requests without a valid, unrevoked access
// token. Invalid or expired tokens get 403; a missing header gets 401.
func (g *Guard) RequireAccessToken() echo.MiddlewareFunc {
	return g.requireToken(false, http.StatusForbidden)
}

// RequireRefreshToken rejects requests without a valid, unrevoked refresh
// token. Invalid or expired tokens get 400 so clients know to log in again.
func (g *Guard) RequireRefreshToken() echo.MiddlewareFunc {
	return g.requireToken(true, http.StatusBadRequest)
}

func (g *Guard) requireToken(wantRefresh bool, invalidStatus int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := extractBearerToken(c.Request())
			if err != nil {
				return err
			}

			claims, err := g.issuer.Validate(token)
			if err != nil {
				return apperror.New(invalidStatus, "Token is invalid or expired.").
					WithCode("INVALID_TOKEN").
					WithDetail("Please get a new token.")
			}

			if revoked := g.blocklist.IsRevoked(c.Request().Context(), claims.JTI()); revoked {
				slog.Info("rejected revoked token",
					slog.String("jti", claims.JTI()),
					slog.String("path", c.Request().URL.Path),
				)
				return apperror.NewForbidden("This token has been revoked.").
					WithCode("TOKEN_REVOKED").
					WithDetail("Please get a new token.")
			}

			if claims.Refresh != wantRefresh {
				if wantRefresh {
					return apperror.NewForbidden("Please provide a valid refresh token.").
						WithCode("REFRESH_TOKEN_REQUIRED")
				}
				return apperror.NewForbidden("Please provide a valid access token.").
					WithCode("ACCESS_TOKEN_REQUIRED")
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// RequireRole restricts a route to users whose token carries one of the
// given roles. Must run after RequireAccessToken.
func (g *Guard) RequireRole(roles ...Role) echo.MiddlewareFunc {
	allowed := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := GetClaims(c)
			if claims == nil {
				return apperror.NewUnauthorized("Authentication required.").
					WithCode("NOT_AUTHENTICATED")
			}
			if _, ok := allowed[claims.User.Role]; !ok {
				return apperror.NewForbidden("You are not allowed to perform this action.").
					WithCode("INSUFFICIENT_PERMISSIONS")
			}
			return next(c)
		}
	}
}

// extractBearerToken pulls the token out of the Authorization header.
func extractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", apperror.NewUnauthorized("Authorization header is missing.").
			WithCode("NOT_AUTHENTICATED").
			WithDetail("Provide a bearer token in the Authorization header.")
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", apperror.NewUnauthorized("Invalid Authorization header.").
			WithCode("NOT_AUTHENTICATED").
			WithDetail("Expected format: Bearer <token>.")
	}

	return strings.TrimSpace(token), nil
}
