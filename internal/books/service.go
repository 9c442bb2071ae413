package books

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/booklyhq/bookly/internal/apperror"
)

// BookService defines the business logic contract for the catalog.
type BookService interface {
	Create(ctx context.Context, req CreateBookRequest, userUID string) (*Book, error)
	Get(ctx context.Context, uid string) (*Book, error)
	List(ctx context.Context) ([]Book, error)
	ListByUser(ctx context.Context, userUID string) ([]Book, error)
	Update(ctx context.Context, uid string, req UpdateBookRequest) (*Book, error)
	Delete(ctx context.Context, uid string) error
}

type bookService struct {
	repo BookRepository
}

// NewBookService creates a new book service.
func NewBookService(repo BookRepository) BookService {
	return &bookService{repo: repo}
}

// Create adds a book to the catalog attributed to the given user.
func (s *bookService) Create(ctx context.Context, req CreateBookRequest, userUID string) (*Book, error) {
	now := time.Now().UTC()
	book := &Book{
		UID:           uuid.NewString(),
		Title:         req.Title,
		Author:        req.Author,
		Publisher:     req.Publisher,
		PublishedDate: req.PublishedDate,
		PageCount:     req.PageCount,
		Language:      req.Language,
		UserUID:       &userUID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating book: %w", err))
	}

	slog.Info("book created",
		slog.String("book_uid", book.UID),
		slog.String("user_uid", userUID),
	)
	return book, nil
}

// Get retrieves a single book by UID.
func (s *bookService) Get(ctx context.Context, uid string) (*Book, error) {
	book, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		if _, ok := err.(*apperror.AppError); ok {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding book: %w", err))
	}
	return book, nil
}

// List returns the whole catalog, newest first.
func (s *bookService) List(ctx context.Context) ([]Book, error) {
	books, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing books: %w", err))
	}
	return books, nil
}

// ListByUser returns a user's submissions, newest first.
func (s *bookService) ListByUser(ctx context.Context, userUID string) ([]Book, error) {
	books, err := s.repo.ListByUser(ctx, userUID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing user books: %w", err))
	}
	return books, nil
}

// Update applies a partial update: only the fields present in the request
// are changed, and updated_at is bumped.
func (s *bookService) Update(ctx context.Context, uid string, req UpdateBookRequest) (*Book, error) {
	book, err := s.Get(ctx, uid)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Publisher != nil {
		book.Publisher = *req.Publisher
	}
	if req.PublishedDate != nil {
		book.PublishedDate = *req.PublishedDate
	}
	if req.PageCount != nil {
		book.PageCount = *req.PageCount
	}
	if req.Language != nil {
		book.Language = *req.Language
	}
	book.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, book); err != nil {
		if _, ok := err.(*apperror.AppError); ok {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("updating book: %w", err))
	}

	slog.Info("book updated", slog.String("book_uid", book.UID))
	return book, nil
}

// Delete removes a book and, through the schema, its reviews and tag links.
func (s *bookService) Delete(ctx context.Context, uid string) error {
	if err := s.repo.Delete(ctx, uid); err != nil {
		if _, ok := err.(*apperror.AppError); ok {
			return err
		}
		return apperror.NewInternal(fmt.Errorf("deleting book: %w", err))
	}

	slog.Info("book deleted", slog.String("book_uid", uid))
	return nil
}
