// Package books implements the book catalog: models, persistence, and
// HTTP handlers for creating, listing, updating, and deleting books.
package books

import "time"

// Book is a catalog entry. UserUID points at the submitting user and is
// nil when the account has since been deleted.
type Book struct {
	UID           string    `json:"uid"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Publisher     string    `json:"publisher"`
	PublishedDate string    `json:"published_date"`
	PageCount     int       `json:"page_count"`
	Language      string    `json:"language"`
	UserUID       *string   `json:"user_uid"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateBookRequest is the POST /books payload.
type CreateBookRequest struct {
	Title         string `json:"title" validate:"required,min=1,max=100"`
	Author        string `json:"author" validate:"required,min=1,max=100"`
	Publisher     string `json:"publisher" validate:"required,min=1,max=100"`
	PublishedDate string `json:"published_date" validate:"required,datetime=2006-01-02"`
	PageCount     int    `json:"page_count" validate:"required,gt=0"`
	Language      string `json:"language" validate:"required,min=1,max=50"`
}

// UpdateBookRequest is the PATCH /books/:uid payload. Every field is
// optional; only supplied fields are applied.
type UpdateBookRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=1,max=100"`
	Author        *string `json:"author" validate:"omitempty,min=1,max=100"`
	Publisher     *string `json:"publisher" validate:"omitempty,min=1,max=100"`
	PublishedDate *string `json:"published_date" validate:"omitempty,datetime=2006-01-02"`
	PageCount     *int    `json:"page_count" validate:"omitempty,gt=0"`
	Language      *string `json:"language" validate:"omitempty,min=1,max=50"`
}
