package reviews

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/booklyhq/bookly/internal/apperror"
	"github.com/booklyhq/bookly/internal/auth"
)

// ReviewService defines the business logic contract for reviews.
type ReviewService interface {
	Create(ctx context.Context, bookUID string, req CreateReviewRequest, userUID string) (*Review, error)
	Get(ctx context.Context, uid string) (*Review, error)
	List(ctx context.Context) ([]Review, error)
	ListByBook(ctx context.Context, bookUID string) ([]Review, error)
	ListByUser(ctx context.Context, userUID string) ([]Review, error)
	// Delete removes a review. Only the review's author or an admin may
	// delete it.
	Delete(ctx context.Context, uid string, actor *auth.Claims) error
}

type reviewService struct {
	repo ReviewRepository
}

// NewReviewService creates a new review service.
func NewReviewService(repo ReviewRepository) ReviewService {
	return &reviewService{repo: repo}
}

// Create adds a review to a book, attributed to the given user. Both the
// book and the user must exist: a token can outlive its account, so the
// user check can't be skipped.
func (s *reviewService) Create(ctx context.Context, bookUID string, req CreateReviewRequest, userUID string) (*Review, error) {
	exists, err := s.repo.BookExists(ctx, bookUID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking book: %w", err))
	}
	if !exists {
		return nil, apperror.NewNotFound("Book not found.").WithCode("BOOK_NOT_FOUND")
	}

	exists, err = s.repo.UserExists(ctx, userUID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking user: %w", err))
	}
	if !exists {
		return nil, apperror.NewNotFound("User not found.").WithCode("USER_NOT_FOUND")
	}

	now := time.Now().UTC()
	review := &Review{
		UID:        uuid.NewString(),
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
		UserUID:    &userUID,
		BookUID:    bookUID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating review: %w", err))
	}

	slog.Info("review created",
		slog.String("review_uid", review.UID),
		slog.String("book_uid", bookUID),
		slog.String("user_uid", userUID),
	)
	return review, nil
}

// Get retrieves a single review by UID.
func (s *reviewService) Get(ctx context.Context, uid string) (*Review, error) {
	review, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		if _, ok := err.(*apperror.AppError); ok {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding review: %w", err))
	}
	return review, nil
}

// List returns all reviews, newest first.
func (s *reviewService) List(ctx context.Context) ([]Review, error) {
	reviews, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing reviews: %w", err))
	}
	return reviews, nil
}

// ListByBook returns a book's reviews, newest first.
func (s *reviewService) ListByBook(ctx context.Context, bookUID string) ([]Review, error) {
	reviews, err := s.repo.ListByBook(ctx, bookUID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing book reviews: %w", err))
	}
	return reviews, nil
}

// ListByUser returns a user's reviews, newest first.
func (s *reviewService) ListByUser(ctx context.Context, userUID string) ([]Review, error) {
	reviews, err := s.repo.ListByUser(ctx, userUID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing user reviews: %w", err))
	}
	return reviews, nil
}

// Delete removes a review after checking the actor is its author or an
// admin.
func (s *reviewService) Delete(ctx context.Context, uid string, actor *auth.Claims) error {
	review, err := s.Get(ctx, uid)
	if err != nil {
		return err
	}

	isOwner := review.UserUID != nil && *review.UserUID == actor.User.UID
	isAdmin := actor.User.Role == auth.RoleAdmin
	if !isOwner && !isAdmin {
		return apperror.NewForbidden("You are not allowed to perform this action.").
			WithCode("INSUFFICIENT_PERMISSIONS")
	}

	if err := s.repo.Delete(ctx, uid); err != nil {
		if _, ok := err.(*apperror.AppError); ok {
			return err
		}
		return apperror.NewInternal(fmt.Errorf("deleting review: %w", err))
	}

	slog.Info("review deleted",
		slog.String("review_uid", uid),
		slog.String("actor_uid", actor.User.UID),
	)
	return nil
}
