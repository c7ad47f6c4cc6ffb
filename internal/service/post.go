package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"reelfeed/internal/model"
	"reelfeed/internal/repository"
)

// PostService implements ownership-scoped post CRUD. Every mutation requires
// a resolved local user id; ownership is enforced at the data-access
// boundary, not just at the handlers.
type PostService struct {
	repo repository.PostRepository
}

func NewPostService(repo repository.PostRepository) *PostService {
	return &PostService{repo: repo}
}

// ListPublic returns the public feed, newest first.
func (s *PostService) ListPublic(ctx context.Context) ([]model.Post, error) {
	posts, err := s.repo.ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("list public posts: %w", err)
	}
	return posts, nil
}

// ListOwn returns the caller's posts, newest first.
func (s *PostService) ListOwn(ctx context.Context, userID int64) ([]model.Post, error) {
	posts, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list own posts: %w", err)
	}
	return posts, nil
}

// Create validates and inserts a post for userID. Optional fields are
// normalized so blanks are stored as NULL, never as empty string.
func (s *PostService) Create(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.Post, error) {
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return nil, model.ErrEmptyContent
	}

	req.Title = normalizeOptional(req.Title)
	req.MediaURL = normalizeOptional(req.MediaURL)
	req.MediaCaption = normalizeOptional(req.MediaCaption)

	if req.Title != nil && len(*req.Title) > model.MaxPostTitleLength {
		return nil, model.ErrTitleTooLong
	}

	post, err := s.repo.Create(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	log.Printf("[Post] User %d created post %d", userID, post.ID)
	return post, nil
}

// Delete removes a post the caller owns. A missing post and a post owned by
// another user both surface as model.ErrPostNotFound, so callers learn
// nothing about other users' posts.
func (s *PostService) Delete(ctx context.Context, userID, postID int64) error {
	if err := s.repo.DeleteOwned(ctx, postID, userID); err != nil {
		if err == model.ErrPostNotFound {
			return err
		}
		return fmt.Errorf("delete post: %w", err)
	}

	log.Printf("[Post] User %d deleted post %d", userID, postID)
	return nil
}

// normalizeOptional trims an optional field and collapses blanks to nil.
func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
