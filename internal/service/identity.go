package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"reelfeed/internal/model"
	"reelfeed/internal/repository"
)

// IdentityService keeps the external identity-provider record and the local
// users row consistent. Every entry point into user creation (authenticated
// request path, server-to-server sync, provider webhooks) funnels through
// Reconcile so there is exactly one find-or-create code path.
type IdentityService struct {
	repo repository.UserRepository
}

func NewIdentityService(repo repository.UserRepository) *IdentityService {
	return &IdentityService{repo: repo}
}

// Reconcile maps an externally authenticated identity to the local user row,
// creating it on first contact. The found path is read-only; profile fields
// are never refreshed implicitly on lookup.
//
// Creation is race-safe: the insert is a no-op on external-id conflict, and
// the loser re-fetches the winner's row instead of erroring.
func (s *IdentityService) Reconcile(ctx context.Context, identity model.ExternalIdentity) (*model.User, error) {
	if identity.ID == "" {
		return nil, model.ErrIdentityUnavailable
	}

	user, err := s.repo.GetByExternalID(ctx, identity.ID)
	if err == nil {
		return user, nil
	}
	if err != model.ErrUserNotFound {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if strings.TrimSpace(identity.Email) == "" {
		// Data-quality failure from the provider; surfaced, never defaulted
		return nil, model.ErrMissingPrimaryEmail
	}

	username := deriveUsername(identity)
	created, err := s.repo.CreateFromIdentity(ctx, identity, username)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if created != nil {
		log.Printf("[Identity] Created user %d for external id %s", created.ID, identity.ID)
		return created, nil
	}

	// Lost the first-contact race; the row exists now
	user, err = s.repo.GetByExternalID(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("re-fetch after conflict: %w", err)
	}
	return user, nil
}

// ApplyProviderUpdate handles an "identity.updated" push. Deliveries are
// at-least-once and may arrive before the create event, so an absent row is
// created from the same payload instead of failing.
func (s *IdentityService) ApplyProviderUpdate(ctx context.Context, identity model.ExternalIdentity) (*model.User, error) {
	if identity.ID == "" {
		return nil, model.ErrIdentityUnavailable
	}
	if strings.TrimSpace(identity.Email) == "" {
		return nil, model.ErrMissingPrimaryEmail
	}

	update := model.ProviderUpdate{
		Email:     &identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		AvatarURL: identity.AvatarURL,
	}

	user, err := s.repo.ApplyProviderUpdate(ctx, identity.ID, update)
	if err == nil {
		return user, nil
	}
	if err != model.ErrUserNotFound {
		return nil, fmt.Errorf("apply provider update: %w", err)
	}

	// Update arrived before create; reconcile creates the row
	log.Printf("[Identity] Update for unknown external id %s, creating", identity.ID)
	return s.Reconcile(ctx, identity)
}

// RemoveByExternalID handles an "identity.deleted" push. Hard delete,
// cascading to posts. Deleting an already-absent row is a success.
func (s *IdentityService) RemoveByExternalID(ctx context.Context, externalID string) error {
	if externalID == "" {
		return model.ErrIdentityUnavailable
	}
	if err := s.repo.DeleteByExternalID(ctx, externalID); err != nil {
		return fmt.Errorf("remove user: %w", err)
	}
	return nil
}

// UpdateProfile applies the user-editable fields (username, bio) to an
// existing row. Unlike Reconcile it never creates; editing a profile that
// does not exist is a not-found.
func (s *IdentityService) UpdateProfile(ctx context.Context, externalID string, update model.ProfileUpdate) (*model.User, error) {
	user, err := s.repo.UpdateProfile(ctx, externalID, update)
	if err != nil {
		if err == model.ErrUserNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// SetAvatar stores a newly uploaded avatar URL on the profile.
func (s *IdentityService) SetAvatar(ctx context.Context, externalID string, avatarURL string) (*model.User, error) {
	user, err := s.repo.ApplyProviderUpdate(ctx, externalID, model.ProviderUpdate{AvatarURL: &avatarURL})
	if err != nil {
		if err == model.ErrUserNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("set avatar: %w", err)
	}
	return user, nil
}

// deriveUsername picks the first-contact username: explicit hint, else first
// name, else a fixed placeholder. Uniqueness conflicts are left to the
// database constraint.
func deriveUsername(identity model.ExternalIdentity) string {
	if identity.Username != nil && strings.TrimSpace(*identity.Username) != "" {
		return strings.TrimSpace(*identity.Username)
	}
	if identity.FirstName != nil && strings.TrimSpace(*identity.FirstName) != "" {
		return strings.TrimSpace(*identity.FirstName)
	}
	return model.DefaultUsername
}
