package app

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booklyhq/bookly/internal/auth"
	"github.com/booklyhq/bookly/internal/books"
	"github.com/booklyhq/bookly/internal/reviews"
	"github.com/booklyhq/bookly/internal/tags"
	"github.com/booklyhq/bookly/internal/validation"
)

// RegisterRoutes builds every service and repository and mounts all
// endpoints under /api/v1. This is the single place where the domain
// packages are wired together.
func (a *App) RegisterRoutes() {
	e := a.Echo
	validator := validation.New()

	// Auth infrastructure shared by every guarded route group.
	issuer := auth.NewTokenIssuer(a.Config.JWT)
	blocklist := auth.NewBlocklist(a.Redis, issuer.AccessTTL())
	guard := auth.NewGuard(issuer, blocklist)

	// Repositories and services.
	userRepo := auth.NewUserRepository(a.DB)
	bookRepo := books.NewBookRepository(a.DB)
	reviewRepo := reviews.NewReviewRepository(a.DB)
	tagRepo := tags.NewTagRepository(a.DB)

	authService := auth.NewAuthService(userRepo, issuer, blocklist, a.Mailer, a.Config.Domain)
	bookService := books.NewBookService(bookRepo)
	reviewService := reviews.NewReviewService(reviewRepo)
	tagService := tags.NewTagService(tagRepo)

	// Handlers.
	profiles := &profileLoader{books: bookService, reviews: reviewService}
	authHandler := auth.NewHandler(authService, profiles, validator)
	bookHandler := books.NewHandler(bookService, validator)
	reviewHandler := reviews.NewHandler(reviewService, validator)
	tagHandler := tags.NewHandler(tagService, validator)

	// Health check endpoint for container orchestration.
	e.GET("/healthz", a.healthz)

	api := e.Group("/api/v1")
	auth.RegisterRoutes(api, authHandler, guard)
	books.RegisterRoutes(api, bookHandler, guard)
	reviews.RegisterRoutes(api, reviewHandler, guard)
	tags.RegisterRoutes(api, tagHandler, guard)
}

// healthz reports liveness of the server and its backing stores.
func (a *App) healthz(c echo.Context) error {
	ctx := c.Request().Context()

	status := http.StatusOK
	checks := map[string]string{"database": "ok", "redis": "ok"}

	if err := a.DB.PingContext(ctx); err != nil {
		checks["database"] = "unreachable"
		status = http.StatusServiceUnavailable
	}
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = "unreachable"
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, echo.Map{
		"status": http.StatusText(status),
		"checks": checks,
	})
}

// profileLoader assembles the /auth/me response from the content services.
// Lives here so the auth package doesn't depend on the content packages.
type profileLoader struct {
	books   books.BookService
	reviews reviews.ReviewService
}

func (p *profileLoader) LoadProfile(ctx context.Context, user *auth.User) (any, error) {
	userBooks, err := p.books.ListByUser(ctx, user.UID)
	if err != nil {
		return nil, err
	}
	userReviews, err := p.reviews.ListByUser(ctx, user.UID)
	if err != nil {
		return nil, err
	}

	return echo.Map{
		"user":    user,
		"books":   userBooks,
		"reviews": userReviews,
	}, nil
}
