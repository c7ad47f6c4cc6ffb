package model

import (
	"errors"
	"time"
)

// User represents a local user row correlated to one external identity.
type User struct {
	ID         int64     `db:"id" json:"id"`
	ExternalID string    `db:"external_id" json:"external_id"`
	Email      string    `db:"email" json:"email"`
	FirstName  *string   `db:"first_name" json:"first_name"`
	LastName   *string   `db:"last_name" json:"last_name"`
	Username   *string   `db:"username" json:"username"`
	Bio        *string   `db:"bio" json:"bio"`
	AvatarURL  *string   `db:"avatar_url" json:"avatar_url"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// ExternalIdentity is the descriptor handed to us by the identity provider.
// It is already authenticated upstream; no credential checks happen here.
type ExternalIdentity struct {
	ID        string
	Email     string
	FirstName *string
	LastName  *string
	Username  *string
	AvatarURL *string
}

// ProviderUpdate carries the provider-owned fields an "identity.updated" event
// may rewrite. One named slot per attribute; nil leaves the column alone.
type ProviderUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	AvatarURL *string
}

// ProfileUpdate carries the user-editable profile fields for PUT /profile.
type ProfileUpdate struct {
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
}

// DefaultUsername is used when the identity carries neither a username hint
// nor a first name.
const DefaultUsername = "user"

var (
	// ErrUserNotFound is returned when a user row cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrMissingPrimaryEmail is returned when the identity provider hands us
	// a descriptor with no usable email address
	ErrMissingPrimaryEmail = errors.New("no primary email found for identity")

	// ErrIdentityUnavailable is returned when no authenticated identity is
	// present on the request
	ErrIdentityUnavailable = errors.New("no authenticated identity")
)
