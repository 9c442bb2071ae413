package reviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/booklyhq/bookly/internal/apperror"
)

// ReviewRepository defines the data access contract for review operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	FindByUID(ctx context.Context, uid string) (*Review, error)
	ListAll(ctx context.Context) ([]Review, error)
	ListByBook(ctx context.Context, bookUID string) ([]Review, error)
	ListByUser(ctx context.Context, userUID string) ([]Review, error)
	Delete(ctx context.Context, uid string) error

	// BookExists and UserExists report whether the reviewed book and the
	// reviewing user exist, so the service can return a clean 404 instead
	// of a foreign key error.
	BookExists(ctx context.Context, bookUID string) (bool, error)
	UserExists(ctx context.Context, userUID string) (bool, error)
}

// reviewRepository implements ReviewRepository with MariaDB queries.
type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new repository backed by the given DB pool.
func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

const reviewColumns = `uid, rating, review_text, user_uid, book_uid, created_at, updated_at`

// Create inserts a new review row.
func (r *reviewRepository) Create(ctx context.Context, review *Review) error {
	query := `INSERT INTO reviews (` + reviewColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		review.UID, review.Rating, review.ReviewText,
		review.UserUID, review.BookUID,
		review.CreatedAt, review.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting review: %w", err)
	}
	return nil
}

// FindByUID retrieves a review by its UUID.
func (r *reviewRepository) FindByUID(ctx context.Context, uid string) (*Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE uid = ?`

	rv := &Review{}
	err := r.db.QueryRowContext(ctx, query, uid).Scan(
		&rv.UID, &rv.Rating, &rv.ReviewText,
		&rv.UserUID, &rv.BookUID,
		&rv.CreatedAt, &rv.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("Review not found.").WithCode("REVIEW_NOT_FOUND")
	}
	if err != nil {
		return nil, fmt.Errorf("querying review by uid: %w", err)
	}
	return rv, nil
}

// ListAll returns all reviews, newest first.
func (r *reviewRepository) ListAll(ctx context.Context) ([]Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying reviews: %w", err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

// ListByBook returns all reviews of a book, newest first.
func (r *reviewRepository) ListByBook(ctx context.Context, bookUID string) ([]Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE book_uid = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, bookUID)
	if err != nil {
		return nil, fmt.Errorf("querying reviews by book: %w", err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

// ListByUser returns all reviews written by a user, newest first.
func (r *reviewRepository) ListByUser(ctx context.Context, userUID string) ([]Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE user_uid = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("querying reviews by user: %w", err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

// Delete removes a review.
func (r *reviewRepository) Delete(ctx context.Context, uid string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE uid = ?`, uid)
	if err != nil {
		return fmt.Errorf("deleting review: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperror.NewNotFound("Review not found.").WithCode("REVIEW_NOT_FOUND")
	}
	return nil
}

// BookExists reports whether the given book uid is present.
func (r *reviewRepository) BookExists(ctx context.Context, bookUID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM books WHERE uid = ?)`, bookUID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking book existence: %w", err)
	}
	return exists, nil
}

// UserExists reports whether the given user uid is present.
func (r *reviewRepository) UserExists(ctx context.Context, userUID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE uid = ?)`, userUID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking user existence: %w", err)
	}
	return exists, nil
}

func scanReviews(rows *sql.Rows) ([]Review, error) {
	reviews := []Review{}
	for rows.Next() {
		var rv Review
		if err := rows.Scan(
			&rv.UID, &rv.Rating, &rv.ReviewText,
			&rv.UserUID, &rv.BookUID,
			&rv.CreatedAt, &rv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating review rows: %w", err)
	}
	return reviews, nil
}
