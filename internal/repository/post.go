package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"reelfeed/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// ListPublic returns every post with its author's display fields, newest first.
func (r *postRepository) ListPublic(ctx context.Context) ([]model.Post, error) {
	query := `
		SELECT p.id, p.user_id, p.title, p.content, p.media_url, p.media_caption,
		       p.created_at, p.updated_at,
		       u.username AS author_username,
		       u.external_id AS author_external_id
		FROM posts p
		JOIN users u ON p.user_id = u.id
		ORDER BY p.created_at DESC
	`

	posts := []model.Post{}
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("failed to list public posts: %w", err)
	}

	return posts, nil
}

// ListByOwner returns the user's own posts, newest first.
func (r *postRepository) ListByOwner(ctx context.Context, userID int64) ([]model.Post, error) {
	query := `
		SELECT id, user_id, title, content, media_url, media_caption, created_at, updated_at
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	posts := []model.Post{}
	if err := r.db.SelectContext(ctx, &posts, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list posts by owner: %w", err)
	}

	return posts, nil
}

// Create inserts a new post owned by userID.
func (r *postRepository) Create(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.Post, error) {
	query := `
		INSERT INTO posts (user_id, title, content, media_url, media_caption, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, user_id, title, content, media_url, media_caption, created_at, updated_at
	`

	var post model.Post
	err := r.db.GetContext(ctx, &post, query,
		userID,
		req.Title,
		req.Content,
		req.MediaURL,
		req.MediaCaption,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	return &post, nil
}

// DeleteOwned deletes a post only when it belongs to userID. Ownership check
// and delete are one conditional statement, so there is no window where the
// post can change hands between check and delete. A missing post and a post
// owned by someone else both come back as ErrPostNotFound.
func (r *postRepository) DeleteOwned(ctx context.Context, postID, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM posts WHERE id = $1 AND user_id = $2`,
		postID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrPostNotFound
	}

	return nil
}
