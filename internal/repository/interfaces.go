package repository

import (
	"context"

	"reelfeed/internal/model"
)

type UserRepository interface {
	// GetByExternalID returns the local row for an external identity id.
	GetByExternalID(ctx context.Context, externalID string) (*model.User, error)

	// CreateFromIdentity inserts a new row for the identity. The insert is a
	// no-op when a row with the same external id already exists; callers see
	// (nil, nil) in that case and should re-fetch.
	CreateFromIdentity(ctx context.Context, identity model.ExternalIdentity, username string) (*model.User, error)

	// UpdateProfile applies user-editable profile fields keyed by external id.
	UpdateProfile(ctx context.Context, externalID string, update model.ProfileUpdate) (*model.User, error)

	// ApplyProviderUpdate rewrites provider-owned fields keyed by external id.
	ApplyProviderUpdate(ctx context.Context, externalID string, update model.ProviderUpdate) (*model.User, error)

	// DeleteByExternalID hard-deletes the row, cascading to posts.
	// Deleting an absent row is not an error.
	DeleteByExternalID(ctx context.Context, externalID string) error
}

type PostRepository interface {
	// ListPublic returns every post joined with author display fields,
	// newest first.
	ListPublic(ctx context.Context) ([]model.Post, error)

	// ListByOwner returns the user's own posts, newest first.
	ListByOwner(ctx context.Context, userID int64) ([]model.Post, error)

	// Create inserts a post owned by userID.
	Create(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.Post, error)

	// DeleteOwned deletes the post only when it belongs to userID, as a
	// single conditional statement. Returns model.ErrPostNotFound when no
	// row matched (missing and not-owned are indistinguishable).
	DeleteOwned(ctx context.Context, postID, userID int64) error
}
