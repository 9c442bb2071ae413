// Package tags implements book tagging: a flat, globally unique set of
// tag names that can be attached to any book.
package tags

import "time"

// Tag is a label attachable to books. Names are unique across the system.
type Tag struct {
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTagRequest is the payload for creating or renaming a tag.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

// AddTagsRequest is the POST /tags/book/:book_uid/tags payload: a batch of
// tags to attach to a book. Tags that don't exist yet are created.
type AddTagsRequest struct {
	Tags []CreateTagRequest `json:"tags" validate:"required,min=1,max=20,dive"`
}
