// internal/app/features/accounts/logout.go
package accounts

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/bughive/bughive/internal/app/system/auth"
	"github.com/bughive/bughive/internal/app/system/respond"
	"github.com/bughive/bughive/internal/app/system/timeouts"
)

// HandleLogout revokes the current session and clears the cookie.
// Signing out while not signed in is a conflict.
//
// POST /auth/logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.SessionConflict(w, "not signed in")
		return
	}

	token, err := h.SessionMgr.SignOut(w, r)
	if err != nil {
		respond.Internal(w, h.Log, "clear session cookie", err)
		return
	}

	if token != "" {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()
		if err := h.Sessions.Revoke(ctx, token); err != nil {
			respond.Internal(w, h.Log, "revoke session", err)
			return
		}
	}

	h.Log.Info("user signed out", zap.String("user_id", u.ID.Hex()))
	respond.NoContent(w)
}
