package model

import (
	"errors"
	"time"
)

// Post represents a user's post. Posts are immutable after creation; the only
// mutation is a hard delete by the owner.
type Post struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	Title        *string   `db:"title" json:"title"`
	Content      string    `db:"content" json:"content"`
	MediaURL     *string   `db:"media_url" json:"video_url"`
	MediaCaption *string   `db:"media_caption" json:"video_description"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`

	// Joined author fields, populated on the public feed only
	AuthorUsername   *string `db:"author_username" json:"author_username,omitempty"`
	AuthorExternalID *string `db:"author_external_id" json:"author_external_id,omitempty"`
}

// CreatePostRequest is the request body for POST /my-posts.
type CreatePostRequest struct {
	Title        *string `json:"title"`
	Content      string  `json:"content"`
	MediaURL     *string `json:"video_url"`
	MediaCaption *string `json:"video_description"`
}

const MaxPostTitleLength = 255

var (
	// ErrPostNotFound covers both a missing post and a post owned by someone
	// else; callers cannot tell the two apart
	ErrPostNotFound = errors.New("post not found or unauthorized")

	// ErrEmptyContent is returned when a post is created with no body text
	ErrEmptyContent = errors.New("content is required")

	// ErrTitleTooLong is returned when the title exceeds the column width
	ErrTitleTooLong = errors.New("title too long")
)
