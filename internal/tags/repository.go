package tags

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/booklyhq/bookly/internal/apperror"
)

// TagRepository defines the data access contract for tag operations.
type TagRepository interface {
	Create(ctx context.Context, tag *Tag) error
	FindByUID(ctx context.Context, uid string) (*Tag, error)
	FindByName(ctx context.Context, name string) (*Tag, error)
	ListAll(ctx context.Context) ([]Tag, error)
	Update(ctx context.Context, tag *Tag) error
	Delete(ctx context.Context, uid string) error

	// Book associations.
	AttachToBook(ctx context.Context, bookUID, tagUID string) error
	ListByBook(ctx context.Context, bookUID string) ([]Tag, error)
	BookExists(ctx context.Context, bookUID string) (bool, error)
}

// tagRepository implements TagRepository with MariaDB queries.
type tagRepository struct {
	db *sql.DB
}

// NewTagRepository creates a new repository backed by the given DB pool.
func NewTagRepository(db *sql.DB) TagRepository {
	return &tagRepository{db: db}
}

// Create inserts a new tag row. Duplicate names map to a conflict error.
func (r *tagRepository) Create(ctx context.Context, tag *Tag) error {
	query := `INSERT INTO tags (uid, name, created_at) VALUES (?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, tag.UID, tag.Name, tag.CreatedAt)
	if err != nil {
		if isDuplicateEntry(err) {
			return apperror.NewConflict("A tag with this name already exists.").
				WithCode("TAG_ALREADY_EXISTS")
		}
		return fmt.Errorf("inserting tag: %w", err)
	}
	return nil
}

// FindByUID retrieves a tag by its UUID.
func (r *tagRepository) FindByUID(ctx context.Context, uid string) (*Tag, error) {
	t := &Tag{}
	err := r.db.QueryRowContext(ctx,
		`SELECT uid, name, created_at FROM tags WHERE uid = ?`, uid,
	).Scan(&t.UID, &t.Name, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("Tag not found.").WithCode("TAG_NOT_FOUND")
	}
	if err != nil {
		return nil, fmt.Errorf("querying tag by uid: %w", err)
	}
	return t, nil
}

// FindByName retrieves a tag by its unique name.
func (r *tagRepository) FindByName(ctx context.Context, name string) (*Tag, error) {
	t := &Tag{}
	err := r.db.QueryRowContext(ctx,
		`SELECT uid, name, created_at FROM tags WHERE name = ?`, name,
	).Scan(&t.UID, &t.Name, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("Tag not found.").WithCode("TAG_NOT_FOUND")
	}
	if err != nil {
		return nil, fmt.Errorf("querying tag by name: %w", err)
	}
	return t, nil
}

// ListAll returns every tag ordered by name.
func (r *tagRepository) ListAll(ctx context.Context) ([]Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT uid, name, created_at FROM tags ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	return scanTags(rows)
}

// Update renames a tag.
func (r *tagRepository) Update(ctx context.Context, tag *Tag) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tags SET name = ? WHERE uid = ?`, tag.Name, tag.UID,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return apperror.NewConflict("A tag with this name already exists.").
				WithCode("TAG_ALREADY_EXISTS")
		}
		return fmt.Errorf("updating tag: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperror.NewNotFound("Tag not found.").WithCode("TAG_NOT_FOUND")
	}
	return nil
}

// Delete removes a tag and, through the schema, its book links.
func (r *tagRepository) Delete(ctx context.Context, uid string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE uid = ?`, uid)
	if err != nil {
		return fmt.Errorf("deleting tag: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperror.NewNotFound("Tag not found.").WithCode("TAG_NOT_FOUND")
	}
	return nil
}

// AttachToBook links a tag to a book. Attaching the same tag twice is a
// no-op.
func (r *tagRepository) AttachToBook(ctx context.Context, bookUID, tagUID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT IGNORE INTO book_tags (book_uid, tag_uid) VALUES (?, ?)`,
		bookUID, tagUID,
	)
	if err != nil {
		return fmt.Errorf("attaching tag to book: %w", err)
	}
	return nil
}

// ListByBook returns a book's tags ordered by name.
func (r *tagRepository) ListByBook(ctx context.Context, bookUID string) ([]Tag, error) {
	query := `SELECT t.uid, t.name, t.created_at
	          FROM tags t
	          JOIN book_tags bt ON bt.tag_uid = t.uid
	          WHERE bt.book_uid = ?
	          ORDER BY t.name`

	rows, err := r.db.QueryContext(ctx, query, bookUID)
	if err != nil {
		return nil, fmt.Errorf("querying book tags: %w", err)
	}
	defer rows.Close()

	return scanTags(rows)
}

// BookExists reports whether the given book uid is present.
func (r *tagRepository) BookExists(ctx context.Context, bookUID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM books WHERE uid = ?)`, bookUID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking book existence: %w", err)
	}
	return exists, nil
}

func scanTags(rows *sql.Rows) ([]Tag, error) {
	tags := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.UID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tag rows: %w", err)
	}
	return tags, nil
}

// isDuplicateEntry detects MariaDB unique constraint violations.
func isDuplicateEntry(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
