package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"reelfeed/internal/httputil"
	"reelfeed/internal/model"
	"reelfeed/internal/service"
	"reelfeed/internal/webhook"
)

// IdentityHandler exposes the two server-to-server entry points into user
// reconciliation: the header-authenticated sync call and the provider's
// webhook deliveries. Both funnel into the same IdentityService operations
// the request path uses.
type IdentityHandler struct {
	identityService *service.IdentityService
	verifier        *webhook.Verifier
}

// NewIdentityHandler creates the handler. verifier may be nil, which
// disables signature verification (development only).
func NewIdentityHandler(identityService *service.IdentityService, verifier *webhook.Verifier) *IdentityHandler {
	return &IdentityHandler{
		identityService: identityService,
		verifier:        verifier,
	}
}

// Sync handles POST /identity-sync
// Server-to-server push with the external id in X-User-Id. Idempotent
// find-or-create; an existing row is returned unchanged.
func (h *IdentityHandler) Sync(w http.ResponseWriter, r *http.Request) {
	externalID := r.Header.Get("X-User-Id")
	if externalID == "" {
		httputil.WriteBadRequest(w, "No user ID provided")
		return
	}

	var req model.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	identity := model.ExternalIdentity{
		ID:        externalID,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		AvatarURL: req.AvatarURL,
	}

	user, err := h.identityService.Reconcile(r.Context(), identity)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMissingPrimaryEmail):
			httputil.WriteBadRequest(w, "No primary email found")
		default:
			log.Printf("[ERROR] Sync identity: external_id=%s err=%v", externalID, err)
			httputil.WriteInternalError(w, "Failed to sync user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User synced successfully",
		"user":    user,
	})
}

// Webhook handles POST /identity-webhook
// Provider-originated events, delivered at least once. Malformed payloads
// get 400 so the provider's retry policy takes over; everything else
// prefers acknowledging with a logged warning over failing the delivery.
func (h *IdentityHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		httputil.WriteBadRequest(w, "Failed to read request body")
		return
	}

	if h.verifier != nil {
		if err := h.verifier.Verify(r.Header, payload); err != nil {
			log.Printf("[Webhook] Signature verification failed: %v", err)
			httputil.WriteUnauthorized(w, "Invalid webhook signature")
			return
		}
	}

	var event model.IdentityEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		httputil.WriteBadRequest(w, "Invalid webhook payload")
		return
	}

	switch event.Type {
	case model.EventIdentityCreated:
		h.handleCreated(w, r, event.Data)
	case model.EventIdentityUpdated:
		h.handleUpdated(w, r, event.Data)
	case model.EventIdentityDeleted:
		h.handleDeleted(w, r, event.Data)
	default:
		log.Printf("[Webhook] Ignoring unhandled event type %q", event.Type)
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Event ignored"})
	}
}

func (h *IdentityHandler) handleCreated(w http.ResponseWriter, r *http.Request, data model.IdentityEventData) {
	if data.ID == "" {
		httputil.WriteBadRequest(w, "Missing identity id")
		return
	}

	user, err := h.identityService.Reconcile(r.Context(), data.Identity())
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMissingPrimaryEmail):
			httputil.WriteBadRequest(w, "No primary email found")
		default:
			log.Printf("[ERROR] Webhook create: external_id=%s err=%v", data.ID, err)
			httputil.WriteInternalError(w, "Failed to create user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User created successfully",
		"user":    user,
	})
}

func (h *IdentityHandler) handleUpdated(w http.ResponseWriter, r *http.Request, data model.IdentityEventData) {
	if data.ID == "" {
		httputil.WriteBadRequest(w, "Missing identity id")
		return
	}

	user, err := h.identityService.ApplyProviderUpdate(r.Context(), data.Identity())
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMissingPrimaryEmail):
			httputil.WriteBadRequest(w, "No primary email found")
		default:
			log.Printf("[ERROR] Webhook update: external_id=%s err=%v", data.ID, err)
			httputil.WriteInternalError(w, "Failed to update user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User updated successfully",
		"user":    user,
	})
}

func (h *IdentityHandler) handleDeleted(w http.ResponseWriter, r *http.Request, data model.IdentityEventData) {
	if data.ID == "" {
		httputil.WriteBadRequest(w, "Missing identity id")
		return
	}

	if err := h.identityService.RemoveByExternalID(r.Context(), data.ID); err != nil {
		log.Printf("[ERROR] Webhook delete: external_id=%s err=%v", data.ID, err)
		httputil.WriteInternalError(w, "Failed to delete user")
		return
	}

	// Absent rows are fine: deletions arrive at least once
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
