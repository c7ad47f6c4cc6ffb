package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"reelfeed/internal/model"
)

type mockPostRepository struct {
	listPublicFn  func(ctx context.Context) ([]model.Post, error)
	listByOwnerFn func(ctx context.Context, userID int64) ([]model.Post, error)
	createFn      func(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.Post, error)
	deleteOwnedFn func(ctx context.Context, postID, userID int64) error

	createCalls int
}

func (m *mockPostRepository) ListPublic(ctx context.Context) ([]model.Post, error) {
	if m.listPublicFn != nil {
		return m.listPublicFn(ctx)
	}
	return []model.Post{}, nil
}

func (m *mockPostRepository) ListByOwner(ctx context.Context, userID int64) ([]model.Post, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, userID)
	}
	return []model.Post{}, nil
}

func (m *mockPostRepository) Create(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.Post, error) {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, userID, req)
	}
	return &model.Post{ID: 1, UserID: userID, Content: req.Content}, nil
}

func (m *mockPostRepository) DeleteOwned(ctx context.Context, postID, userID int64) error {
	if m.deleteOwnedFn != nil {
		return m.deleteOwnedFn(ctx, postID, userID)
	}
	return nil
}

func TestPostService_Create_EmptyContent(t *testing.T) {
	mockRepo := &mockPostRepository{}
	svc := NewPostService(mockRepo)

	_, err := svc.Create(context.Background(), 1, model.CreatePostRequest{Content: "   "})

	if !errors.Is(err, model.ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
	if mockRepo.createCalls != 0 {
		t.Errorf("expected no insert for empty content, got %d", mockRepo.createCalls)
	}
}

func TestPostService_Create_BlankOptionalsStoredAsNull(t *testing.T) {
	var gotReq model.CreatePostRequest
	mockRepo := &mockPostRepository{
		createFn: func(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.Post, error) {
			gotReq = req
			return &model.Post{ID: 1, UserID: userID, Content: req.Content}, nil
		},
	}
	svc := NewPostService(mockRepo)

	empty := ""
	_, err := svc.Create(context.Background(), 1, model.CreatePostRequest{
		Content:      "hi",
		Title:        &empty,
		MediaURL:     &empty,
		MediaCaption: nil,
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotReq.Title != nil {
		t.Errorf("expected blank title normalized to nil, got %q", *gotReq.Title)
	}
	if gotReq.MediaURL != nil {
		t.Errorf("expected blank media url normalized to nil, got %q", *gotReq.MediaURL)
	}
}

func TestPostService_Create_TitleTooLong(t *testing.T) {
	svc := NewPostService(&mockPostRepository{})

	long := strings.Repeat("x", model.MaxPostTitleLength+1)
	_, err := svc.Create(context.Background(), 1, model.CreatePostRequest{Content: "hi", Title: &long})

	if !errors.Is(err, model.ErrTitleTooLong) {
		t.Fatalf("expected ErrTitleTooLong, got %v", err)
	}
}

func TestPostService_Delete_NotFoundOrForeign(t *testing.T) {
	mockRepo := &mockPostRepository{
		deleteOwnedFn: func(ctx context.Context, postID, userID int64) error {
			return model.ErrPostNotFound
		},
	}
	svc := NewPostService(mockRepo)

	err := svc.Delete(context.Background(), 2, 99)

	if !errors.Is(err, model.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostService_Delete_PassesOwnerScope(t *testing.T) {
	var gotPostID, gotUserID int64
	mockRepo := &mockPostRepository{
		deleteOwnedFn: func(ctx context.Context, postID, userID int64) error {
			gotPostID, gotUserID = postID, userID
			return nil
		},
	}
	svc := NewPostService(mockRepo)

	if err := svc.Delete(context.Background(), 7, 31); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotPostID != 31 || gotUserID != 7 {
		t.Errorf("expected delete scoped to post=31 user=7, got post=%d user=%d", gotPostID, gotUserID)
	}
}
