package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/booklyhq/bookly/internal/apperror"
)

// BookRepository defines the data access contract for book operations.
// All SQL lives in the concrete implementation -- no SQL leaks out.
type BookRepository interface {
	Create(ctx context.Context, book *Book) error
	FindByUID(ctx context.Context, uid string) (*Book, error)
	ListAll(ctx context.Context) ([]Book, error)
	ListByUser(ctx context.Context, userUID string) ([]Book, error)
	Update(ctx context.Context, book *Book) error
	Delete(ctx context.Context, uid string) error
}

// bookRepository implements BookRepository with MariaDB queries.
type bookRepository struct {
	db *sql.DB
}

// NewBookRepository creates a new repository backed by the given DB pool.
func NewBookRepository(db *sql.DB) BookRepository {
	return &bookRepository{db: db}
}

const bookColumns = `uid, title, author, publisher, published_date, page_count, language, user_uid, created_at, updated_at`

// Create inserts a new book row.
func (r *bookRepository) Create(ctx context.Context, book *Book) error {
	query := `INSERT INTO books (` + bookColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		book.UID, book.Title, book.Author, book.Publisher, book.PublishedDate,
		book.PageCount, book.Language, book.UserUID,
		book.CreatedAt, book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting book: %w", err)
	}
	return nil
}

// FindByUID retrieves a book by its UUID.
func (r *bookRepository) FindByUID(ctx context.Context, uid string) (*Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE uid = ?`

	b := &Book{}
	err := r.db.QueryRowContext(ctx, query, uid).Scan(
		&b.UID, &b.Title, &b.Author, &b.Publisher, &b.PublishedDate,
		&b.PageCount, &b.Language, &b.UserUID,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("Book not found.").WithCode("BOOK_NOT_FOUND")
	}
	if err != nil {
		return nil, fmt.Errorf("querying book by uid: %w", err)
	}
	return b, nil
}

// ListAll returns all books, newest first.
func (r *bookRepository) ListAll(ctx context.Context) ([]Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying books: %w", err)
	}
	defer rows.Close()

	return scanBooks(rows)
}

// ListByUser returns all books submitted by a user, newest first.
func (r *bookRepository) ListByUser(ctx context.Context, userUID string) ([]Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE user_uid = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("querying books by user: %w", err)
	}
	defer rows.Close()

	return scanBooks(rows)
}

// Update writes all mutable columns of the book. The service layer merges
// partial updates before calling this.
func (r *bookRepository) Update(ctx context.Context, book *Book) error {
	query := `UPDATE books
	          SET title = ?, author = ?, publisher = ?, published_date = ?, page_count = ?, language = ?, updated_at = ?
	          WHERE uid = ?`

	result, err := r.db.ExecContext(ctx, query,
		book.Title, book.Author, book.Publisher, book.PublishedDate,
		book.PageCount, book.Language, book.UpdatedAt,
		book.UID,
	)
	if err != nil {
		return fmt.Errorf("updating book: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperror.NewNotFound("Book not found.").WithCode("BOOK_NOT_FOUND")
	}
	return nil
}

// Delete removes a book. Reviews cascade, tag links cascade.
func (r *bookRepository) Delete(ctx context.Context, uid string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE uid = ?`, uid)
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperror.NewNotFound("Book not found.").WithCode("BOOK_NOT_FOUND")
	}
	return nil
}

func scanBooks(rows *sql.Rows) ([]Book, error) {
	books := []Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(
			&b.UID, &b.Title, &b.Author, &b.Publisher, &b.PublishedDate,
			&b.PageCount, &b.Language, &b.UserUID,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning book row: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating book rows: %w", err)
	}
	return books, nil
}
