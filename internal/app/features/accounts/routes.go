// internal/app/features/accounts/routes.go
package accounts

import (
	"github.com/go-chi/chi/v5"

	"github.com/bughive/bughive/internal/app/system/auth"
)

// Routes mounts the account endpoints at the router root. Login and
// logout stay outside RequireSignedIn: both inspect the session
// themselves so they can answer with a conflict instead of a 401.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Post("/auth/register", h.HandleRegister)
	r.Post("/auth/login", h.HandleLogin)
	r.Post("/auth/logout", h.HandleLogout)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/me", h.HandleMe)
	})

	return r
}
