package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"

	"reelfeed/internal/database"
	"reelfeed/internal/handler"
	"reelfeed/internal/httputil"
	authmw "reelfeed/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	PostHandler     *handler.PostHandler
	ProfileHandler  *handler.ProfileHandler
	IdentityHandler *handler.IdentityHandler
	MediaHandler    *handler.MediaHandler
	AdminHandler    *handler.AdminHandler
	DB              *sqlx.DB
	SessionSecret   string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(30 * time.Second))

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if !database.Check(r.Context(), cfg.DB) {
			httputil.WriteError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public feed - no authentication required
	r.Get("/posts", cfg.PostHandler.ListPublic)

	// Server-to-server entry points; authenticated by header/signature, not
	// by a user session
	r.Post("/identity-sync", cfg.IdentityHandler.Sync)
	r.Post("/identity-webhook", cfg.IdentityHandler.Webhook)

	// Operator-only bootstrap endpoints
	r.Route("/schema", func(r chi.Router) {
		r.Get("/setup", cfg.AdminHandler.Setup)
		r.Post("/reset", cfg.AdminHandler.Reset)
	})

	// Protected routes - require an authenticated external identity
	r.Group(func(r chi.Router) {
		r.Use(authmw.IdentityMiddleware(cfg.SessionSecret))

		r.Get("/my-posts", cfg.PostHandler.ListOwn)
		r.Post("/my-posts", cfg.PostHandler.Create)
		r.Delete("/my-posts", cfg.PostHandler.Delete)

		r.Get("/profile", cfg.ProfileHandler.Get)
		r.Put("/profile", cfg.ProfileHandler.Update)
		r.Post("/profile/avatar", cfg.ProfileHandler.UploadAvatar)

		r.Post("/media/posts/presign", cfg.MediaHandler.PresignPostUpload)
	})

	return r
}
