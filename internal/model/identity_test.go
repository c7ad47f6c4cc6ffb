package model

import "testing"

func TestIdentityEventData_PrimaryEmail(t *testing.T) {
	data := IdentityEventData{
		ID: "ext_1",
		EmailAddresses: []ProviderEmail{
			{ID: "em_secondary", EmailAddress: "other@example.com"},
			{ID: "em_primary", EmailAddress: "main@example.com"},
		},
		PrimaryEmailAddressID: "em_primary",
	}

	if got := data.PrimaryEmail(); got != "main@example.com" {
		t.Errorf("PrimaryEmail() = %q, want %q", got, "main@example.com")
	}
}

func TestIdentityEventData_PrimaryEmail_Absent(t *testing.T) {
	data := IdentityEventData{
		ID:                    "ext_1",
		EmailAddresses:        []ProviderEmail{{ID: "em_1", EmailAddress: "a@example.com"}},
		PrimaryEmailAddressID: "em_other",
	}

	if got := data.PrimaryEmail(); got != "" {
		t.Errorf("PrimaryEmail() = %q, want empty", got)
	}
}

func TestIdentityEventData_Identity(t *testing.T) {
	first := "Alice"
	data := IdentityEventData{
		ID:                    "ext_1",
		EmailAddresses:        []ProviderEmail{{ID: "em_1", EmailAddress: "a@example.com"}},
		PrimaryEmailAddressID: "em_1",
		FirstName:             &first,
	}

	identity := data.Identity()

	if identity.ID != "ext_1" {
		t.Errorf("expected external id carried over, got %q", identity.ID)
	}
	if identity.Email != "a@example.com" {
		t.Errorf("expected primary email resolved, got %q", identity.Email)
	}
	if identity.FirstName == nil || *identity.FirstName != "Alice" {
		t.Errorf("expected first name carried over, got %v", identity.FirstName)
	}
}
