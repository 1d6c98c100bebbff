// internal/app/features/workspaces/routes.go
package workspaces

import (
	"github.com/go-chi/chi/v5"

	"github.com/bughive/bughive/internal/app/system/auth"
)

// Routes mounts the workspace endpoints under /workspaces. The project
// and ticket subrouters are built by their own features and mounted
// here so the whole workspace tree hangs off one router. All routes
// require a signed-in session; resource-level authorization happens in
// the handlers via the access checker.
func Routes(h *Handler, sm *auth.SessionManager, projectRoutes, ticketRoutes chi.Router) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Post("/", h.HandleCreate)
	r.Get("/", h.HandleList)

	r.Route("/{workspaceID}", func(wr chi.Router) {
		wr.Put("/", h.HandleRename)
		wr.Delete("/", h.HandleDelete)

		wr.Get("/members", h.HandleListMembers)
		wr.Post("/members", h.HandleAddMember)
		wr.Put("/members/{memberID}", h.HandleChangeRole)
		wr.Delete("/members/{memberID}", h.HandleRemoveMember)

		wr.Mount("/projects", projectRoutes)
		wr.Mount("/tickets", ticketRoutes)
	})

	return r
}
