package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"reelfeed/internal/httputil"
	"reelfeed/internal/model"
	"reelfeed/internal/service"
	"reelfeed/internal/transport/http/middleware"
)

type ProfileHandler struct {
	identityService *service.IdentityService
	mediaService    *service.MediaService
}

func NewProfileHandler(identityService *service.IdentityService, mediaService *service.MediaService) *ProfileHandler {
	return &ProfileHandler{
		identityService: identityService,
		mediaService:    mediaService,
	}
}

// Get handles GET /profile
// Finds or creates the caller's profile and returns it.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Unauthorized")
		return
	}

	profile, err := h.identityService.Reconcile(r.Context(), identity)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMissingPrimaryEmail):
			httputil.WriteBadRequest(w, "No primary email found")
		default:
			log.Printf("[ERROR] Get profile: external_id=%s err=%v", identity.ID, err)
			httputil.WriteInternalError(w, "Failed to fetch profile")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"profile": profile})
}

// Update handles PUT /profile
// Applies the user-editable fields (username, bio) to an existing profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Unauthorized")
		return
	}

	var update model.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	profile, err := h.identityService.UpdateProfile(r.Context(), identity.ID, update)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "Profile not found")
			return
		}
		log.Printf("[ERROR] Update profile: external_id=%s err=%v", identity.ID, err)
		httputil.WriteInternalError(w, "Failed to update profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"profile": profile})
}

// UploadAvatar handles POST /profile/avatar
// Accepts a multipart image, normalizes it, stores it in R2, and updates the
// profile's avatar URL.
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Unauthorized")
		return
	}

	if h.mediaService == nil {
		httputil.WriteInternalError(w, "Media storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, model.MaxAvatarSizeBytes+1<<20)
	if err := r.ParseMultipartForm(model.MaxAvatarSizeBytes); err != nil {
		httputil.WriteBadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		httputil.WriteBadRequest(w, "avatar file is required")
		return
	}
	defer file.Close()

	result, err := h.mediaService.UploadAvatar(r.Context(), file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequest(w, "Avatar exceeds 5MB limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequest(w, "Unsupported image type. Allowed: jpeg, png, gif, webp")
		default:
			log.Printf("[ERROR] Upload avatar: external_id=%s err=%v", identity.ID, err)
			httputil.WriteInternalError(w, "Failed to upload avatar")
		}
		return
	}

	profile, err := h.identityService.SetAvatar(r.Context(), identity.ID, result.URL)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "Profile not found")
			return
		}
		log.Printf("[ERROR] Set avatar: external_id=%s err=%v", identity.ID, err)
		httputil.WriteInternalError(w, "Failed to update avatar")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"profile": profile})
}
