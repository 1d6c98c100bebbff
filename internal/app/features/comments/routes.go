// internal/app/features/comments/routes.go
package comments

import (
	"github.com/go-chi/chi/v5"

	"github.com/bughive/bughive/internal/app/system/auth"
)

// Routes returns the subrouter mounted under
// /workspaces/{workspaceID}/tickets/{ticketID}/comments.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Post("/", h.HandleCreate)
	r.Get("/", h.HandleList)

	return r
}
