package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"reelfeed/internal/httputil"
	"reelfeed/internal/model"
	"reelfeed/internal/service"
	"reelfeed/internal/transport/http/middleware"
)

type PostHandler struct {
	postService     *service.PostService
	identityService *service.IdentityService
}

func NewPostHandler(postService *service.PostService, identityService *service.IdentityService) *PostHandler {
	return &PostHandler{
		postService:     postService,
		identityService: identityService,
	}
}

// ListPublic handles GET /posts
// Returns the public feed with author display fields, newest first.
func (h *PostHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListPublic(r.Context())
	if err != nil {
		log.Printf("[ERROR] List public posts: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

// ListOwn handles GET /my-posts
// Returns the authenticated caller's posts, newest first.
func (h *PostHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	user, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	posts, err := h.postService.ListOwn(r.Context(), user.ID)
	if err != nil {
		log.Printf("[ERROR] List own posts: user=%d err=%v", user.ID, err)
		httputil.WriteInternalError(w, "Failed to fetch posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

// Create handles POST /my-posts
// Creates a post owned by the authenticated caller.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	var req model.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.postService.Create(r.Context(), user.ID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmptyContent):
			httputil.WriteBadRequest(w, "Content is required")
		case errors.Is(err, model.ErrTitleTooLong):
			httputil.WriteBadRequest(w, "Title too long (max 255 characters)")
		default:
			log.Printf("[ERROR] Create post: user=%d err=%v", user.ID, err)
			httputil.WriteInternalError(w, "Failed to create post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]interface{}{"post": post})
}

// Delete handles DELETE /my-posts?id=<id>
// Deletes a post only when the caller owns it. A missing post and a post
// owned by someone else both return 404.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	postIDStr := r.URL.Query().Get("id")
	if postIDStr == "" {
		httputil.WriteBadRequest(w, "Post ID is required")
		return
	}
	postID, err := strconv.ParseInt(postIDStr, 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	if err := h.postService.Delete(r.Context(), user.ID, postID); err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found or unauthorized")
			return
		}
		log.Printf("[ERROR] Delete post: user=%d post=%d err=%v", user.ID, postID, err)
		httputil.WriteInternalError(w, "Failed to delete post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}

// resolveUser maps the authenticated external identity to the local user row,
// creating it on first contact. Writes the error response itself on failure.
func (h *PostHandler) resolveUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Unauthorized")
		return nil, false
	}

	user, err := h.identityService.Reconcile(r.Context(), identity)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrIdentityUnavailable):
			httputil.WriteUnauthorized(w, "Unauthorized")
		case errors.Is(err, model.ErrMissingPrimaryEmail):
			httputil.WriteBadRequest(w, "No primary email found")
		default:
			log.Printf("[ERROR] Reconcile identity: external_id=%s err=%v", identity.ID, err)
			httputil.WriteInternalError(w, "Failed to resolve user")
		}
		return nil, false
	}

	return user, true
}
