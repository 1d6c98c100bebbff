// internal/app/features/tickets/routes.go
package tickets

import (
	"github.com/go-chi/chi/v5"

	"github.com/bughive/bughive/internal/app/system/auth"
)

// ProjectRoutes returns the subrouter mounted under
// /workspaces/{workspaceID}/projects/{projectID}/tickets.
func ProjectRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Post("/", h.HandleCreate)
	r.Get("/", h.HandleList)

	return r
}

// Routes returns the subrouter mounted under
// /workspaces/{workspaceID}/tickets. commentRoutes serves the nested
// comment endpoints.
func Routes(h *Handler, sm *auth.SessionManager, commentRoutes chi.Router) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Route("/{ticketID}", func(tr chi.Router) {
		tr.Get("/", h.HandleView)
		tr.Put("/", h.HandleUpdate)
		tr.Delete("/", h.HandleDelete)
		tr.Mount("/comments", commentRoutes)
	})

	return r
}
