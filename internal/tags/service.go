package tags

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/booklyhq/bookly/internal/apperror"
)

// TagService defines the business logic contract for tags.
type TagService interface {
	Create(ctx context.Context, req CreateTagRequest) (*Tag, error)
	Get(ctx context.Context, uid string) (*Tag, error)
	List(ctx context.Context) ([]Tag, error)
	Update(ctx context.Context, uid string, req CreateTagRequest) (*Tag, error)
	Delete(ctx context.Context, uid string) error

	// AddToBook attaches a batch of tags to a book, creating any that
	// don't exist yet, and returns the book's full tag list.
	AddToBook(ctx context.Context, bookUID string, req AddTagsRequest) ([]Tag, error)
	ListByBook(ctx context.Context, bookUID string) ([]Tag, error)
}

type tagService struct {
	repo TagRepository
}

// NewTagService creates a new tag service.
func NewTagService(repo TagRepository) TagService {
	return &tagService{repo: repo}
}

// Create adds a new tag. Names are trimmed; duplicates are a conflict.
func (s *tagService) Create(ctx context.Context, req CreateTagRequest) (*Tag, error) {
	tag := &Tag{
		UID:       uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, tag); err != nil {
		if _, ok := err.(*apperror.AppError); ok {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("creating tag: %w", err))
	}

	slog.Info("tag created", slog.String("tag_uid", tag.UID), slog.String("name", tag.Name))
	return tag, nil
}

// Get retrieves a single tag by UID.
func (s *tagService) Get(ctx context.Context, uid string) (*Tag, error) {
	tag, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		if _, ok := err.(*apperror.AppError); ok {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding tag: %w", err))
	}
	return tag, nil
}

// List returns all tags ordered by name.
func (s *tagService) List(ctx context.Context) ([]Tag, error) {
	tags, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing tags: %w", err))
	}
	return tags, nil
}

// Update renames a tag.
func (s *tagService) Update(ctx context.Context, uid string, req CreateTagRequest) (*Tag, error) {
	tag, err := s.Get(ctx, uid)
	if err != nil {
		return nil, err
	}

	tag.Name = strings.TrimSpace(req.Name)
	if err := s.repo.Update(ctx, tag); err != nil {
		if _, ok := err.(*apperror.AppError); ok {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("updating tag: %w", err))
	}

	slog.Info("tag renamed", slog.String("tag_uid", uid), slog.String("name", tag.Name))
	return tag, nil
}

// Delete removes a tag from every book it's attached to.
func (s *tagService) Delete(ctx context.Context, uid string) error {
	if err := s.repo.Delete(ctx, uid); err != nil {
		if _, ok := err.(*apperror.AppError); ok {
			return err
		}
		return apperror.NewInternal(fmt.Errorf("deleting tag: %w", err))
	}

	slog.Info("tag deleted", slog.String("tag_uid", uid))
	return nil
}

// AddToBook attaches tags by name, creating missing ones. The book must
// exist.
func (s *tagService) AddToBook(ctx context.Context, bookUID string, req AddTagsRequest) ([]Tag, error) {
	exists, err := s.repo.BookExists(ctx, bookUID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking book: %w", err))
	}
	if !exists {
		return nil, apperror.NewNotFound("Book not found.").WithCode("BOOK_NOT_FOUND")
	}

	for _, item := range req.Tags {
		name := strings.TrimSpace(item.Name)

		tag, err := s.repo.FindByName(ctx, name)
		if err != nil {
			if apperror.SafeCode(err) != http.StatusNotFound {
				return nil, apperror.NewInternal(fmt.Errorf("finding tag %q: %w", name, err))
			}
			tag = &Tag{
				UID:       uuid.NewString(),
				Name:      name,
				CreatedAt: time.Now().UTC(),
			}
			if err := s.repo.Create(ctx, tag); err != nil {
				if _, ok := err.(*apperror.AppError); ok {
					return nil, err
				}
				return nil, apperror.NewInternal(fmt.Errorf("creating tag %q: %w", name, err))
			}
		}

		if err := s.repo.AttachToBook(ctx, bookUID, tag.UID); err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("attaching tag %q: %w", name, err))
		}
	}

	tags, err := s.repo.ListByBook(ctx, bookUID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing book tags: %w", err))
	}

	slog.Info("tags attached to book",
		slog.String("book_uid", bookUID),
		slog.Int("count", len(req.Tags)),
	)
	return tags, nil
}

// ListByBook returns a book's tags.
func (s *tagService) ListByBook(ctx context.Context, bookUID string) ([]Tag, error) {
	exists, err := s.repo.BookExists(ctx, bookUID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking book: %w", err))
	}
	if !exists {
		return nil, apperror.NewNotFound("Book not found.").WithCode("BOOK_NOT_FOUND")
	}

	tags, err := s.repo.ListByBook(ctx, bookUID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing book tags: %w", err))
	}
	return tags, nil
}
