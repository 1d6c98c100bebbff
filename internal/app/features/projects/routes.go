// internal/app/features/projects/routes.go
package projects

import (
	"github.com/go-chi/chi/v5"

	"github.com/bughive/bughive/internal/app/system/auth"
)

// Routes mounts the project endpoints, mounted under
// /workspaces/{workspaceID}/projects. ticketRoutes carries the
// project-scoped ticket endpoints (create/list) and is mounted under
// each project.
func Routes(h *Handler, sm *auth.SessionManager, ticketRoutes chi.Router) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Post("/", h.HandleCreate)
	r.Get("/", h.HandleList)

	r.Route("/{projectID}", func(pr chi.Router) {
		pr.Get("/", h.HandleView)
		pr.Delete("/", h.HandleDelete)

		pr.Post("/members", h.HandleAddMember)
		pr.Delete("/members/{memberID}", h.HandleRemoveMember)

		pr.Mount("/tickets", ticketRoutes)
	})

	return r
}
