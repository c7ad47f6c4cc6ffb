package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"reelfeed/internal/model"
)

const userColumns = `id, external_id, email, first_name, last_name, username, bio, avatar_url, created_at, updated_at`

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByExternalID retrieves a user by their external identity id
func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE external_id = $1
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, externalID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by external id: %w", err)
	}

	return &u, nil
}

// CreateFromIdentity inserts a new user row for a first-contact identity.
// ON CONFLICT DO NOTHING makes concurrent first-contact safe: the loser of
// the race gets no row back and must re-fetch.
func (r *userRepository) CreateFromIdentity(ctx context.Context, identity model.ExternalIdentity, username string) (*model.User, error) {
	query := `
		INSERT INTO users (external_id, email, first_name, last_name, username, bio, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULL, $6, NOW(), NOW())
		ON CONFLICT (external_id) DO NOTHING
		RETURNING ` + userColumns + `
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query,
		identity.ID,
		identity.Email,
		identity.FirstName,
		identity.LastName,
		username,
		identity.AvatarURL,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			// Conflict: another request created the row first
			return nil, nil
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return &u, nil
}

// UpdateProfile applies the user-editable fields. Each optional field has its
// own named slot; nil leaves the column unchanged.
func (r *userRepository) UpdateProfile(ctx context.Context, externalID string, update model.ProfileUpdate) (*model.User, error) {
	query := `
		UPDATE users
		SET username = COALESCE($2, username),
		    bio = COALESCE($3, bio),
		    updated_at = NOW()
		WHERE external_id = $1
		RETURNING ` + userColumns + `
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, externalID, update.Username, update.Bio)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &u, nil
}

// ApplyProviderUpdate rewrites the provider-owned fields keyed by external id.
func (r *userRepository) ApplyProviderUpdate(ctx context.Context, externalID string, update model.ProviderUpdate) (*model.User, error) {
	query := `
		UPDATE users
		SET email = COALESCE($2, email),
		    first_name = COALESCE($3, first_name),
		    last_name = COALESCE($4, last_name),
		    avatar_url = COALESCE($5, avatar_url),
		    updated_at = NOW()
		WHERE external_id = $1
		RETURNING ` + userColumns + `
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query,
		externalID,
		update.Email,
		update.FirstName,
		update.LastName,
		update.AvatarURL,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to apply provider update: %w", err)
	}

	return &u, nil
}

// DeleteByExternalID hard-deletes the user row; owned posts cascade.
// The provider delivers deletions at least once, so an absent row is success.
func (r *userRepository) DeleteByExternalID(ctx context.Context, externalID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE external_id = $1`, externalID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
