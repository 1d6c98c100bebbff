// internal/app/features/accounts/me.go
package accounts

import (
	"net/http"

	"github.com/bughive/bughive/internal/app/system/gates"
	"github.com/bughive/bughive/internal/app/system/respond"
)

// HandleMe returns the current principal.
//
// GET /me
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}
	respond.JSON(w, http.StatusOK, userView{
		ID:       g.UserID.Hex(),
		Username: g.Username,
		Email:    g.Email,
	})
}
