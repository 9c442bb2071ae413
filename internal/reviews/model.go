// Package reviews implements book reviews: a rating from 0 to 4 and a
// short text, attributed to the reviewing user.
package reviews

import "time"

// Review is a user's review of a book. UserUID is nil when the account
// has since been deleted; the review stays on the book.
type Review struct {
	UID        string    `json:"uid"`
	Rating     int       `json:"rating"`
	ReviewText string    `json:"review_text"`
	UserUID    *string   `json:"user_uid"`
	BookUID    string    `json:"book_uid"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateReviewRequest is the POST /reviews/book/:book_uid payload.
// Ratings run from 0 to 4 inclusive.
type CreateReviewRequest struct {
	Rating     int    `json:"rating" validate:"gte=0,lt=5"`
	ReviewText string `json:"review_text" validate:"required,min=1,max=1000"`
}
