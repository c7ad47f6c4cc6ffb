package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"

	"reelfeed/internal/database"
	"reelfeed/internal/httputil"
	"reelfeed/internal/schema"
)

// AdminHandler exposes the operator-only schema bootstrap endpoints. These
// are setup-time tools, not runtime traffic.
type AdminHandler struct {
	db *sqlx.DB
}

func NewAdminHandler(db *sqlx.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// Setup handles GET /schema/setup
// Idempotently creates/verifies the schema after a connectivity check.
func (h *AdminHandler) Setup(w http.ResponseWriter, r *http.Request) {
	if !database.Check(r.Context(), h.db) {
		httputil.WriteInternalError(w, "Database connection failed")
		return
	}

	if err := schema.Ensure(r.Context(), h.db); err != nil {
		if errors.Is(err, schema.ErrVerificationFailed) {
			log.Printf("[ERROR] Schema setup verification failed")
			httputil.WriteInternalError(w, "Schema verification failed")
			return
		}
		log.Printf("[ERROR] Schema setup: %v", err)
		httputil.WriteInternalError(w, "Schema setup failed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Database schema setup completed"})
}

// Reset handles POST /schema/reset
// Drops and recreates both tables. Destroys all data; development only.
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := schema.Reset(r.Context(), h.db); err != nil {
		log.Printf("[ERROR] Schema reset: %v", err)
		httputil.WriteInternalError(w, "Schema reset failed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Database schema reset completed"})
}
