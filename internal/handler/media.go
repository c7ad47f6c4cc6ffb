package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"reelfeed/internal/httputil"
	"reelfeed/internal/model"
	"reelfeed/internal/service"
	"reelfeed/internal/transport/http/middleware"
)

type MediaHandler struct {
	mediaService *service.MediaService
}

func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// PresignPostUpload handles POST /media/posts/presign
// Returns a presigned URL for uploading post media (image or video) directly
// to the bucket; the resulting public URL becomes the post's video_url.
func (h *MediaHandler) PresignPostUpload(w http.ResponseWriter, r *http.Request) {
	_, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Unauthorized")
		return
	}

	if h.mediaService == nil {
		httputil.WriteInternalError(w, "Media storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req model.PresignUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.ContentType = strings.TrimSpace(req.ContentType)
	if req.ContentType == "" {
		httputil.WriteBadRequest(w, "content_type is required")
		return
	}
	if req.FileSize > 0 && req.FileSize > model.MaxPostMediaSize {
		httputil.WriteBadRequest(w, "Media exceeds 50MB limit")
		return
	}

	res, err := h.mediaService.PresignPostUpload(r.Context(), req.ContentType)
	if err != nil {
		if errors.Is(err, model.ErrInvalidMediaType) {
			httputil.WriteBadRequest(w, "Unsupported media type. Allowed: jpeg, png, gif, webp, mp4, mov, webm")
			return
		}
		httputil.WriteInternalError(w, "Failed to create upload URL")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}
