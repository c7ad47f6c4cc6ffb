package model

// Provider webhook event types
const (
	EventIdentityCreated = "identity.created"
	EventIdentityUpdated = "identity.updated"
	EventIdentityDeleted = "identity.deleted"
)

// IdentityEvent is a provider-originated push notification. Deliveries are
// at-least-once; handlers must be idempotent.
type IdentityEvent struct {
	Type string            `json:"type"`
	Data IdentityEventData `json:"data"`
}

// IdentityEventData mirrors the provider's user payload. The primary email is
// referenced by id inside the email address list.
type IdentityEventData struct {
	ID                    string          `json:"id"`
	EmailAddresses        []ProviderEmail `json:"email_addresses"`
	PrimaryEmailAddressID string          `json:"primary_email_address_id"`
	FirstName             *string         `json:"first_name"`
	LastName              *string         `json:"last_name"`
	Username              *string         `json:"username"`
	ImageURL              *string         `json:"image_url"`
}

// ProviderEmail is one entry in the provider's email address list.
type ProviderEmail struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// PrimaryEmail resolves the primary email address, or "" when absent.
func (d IdentityEventData) PrimaryEmail() string {
	for _, e := range d.EmailAddresses {
		if e.ID == d.PrimaryEmailAddressID {
			return e.EmailAddress
		}
	}
	return ""
}

// Identity converts the event payload into the descriptor the reconciliation
// service consumes.
func (d IdentityEventData) Identity() ExternalIdentity {
	return ExternalIdentity{
		ID:        d.ID,
		Email:     d.PrimaryEmail(),
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Username:  d.Username,
		AvatarURL: d.ImageURL,
	}
}

// SyncRequest is the body of the server-to-server POST /identity-sync call.
// The external id travels in the X-User-Id header; the body carries the
// identity fields the caller already holds.
type SyncRequest struct {
	Email     string  `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Username  *string `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}
