// internal/app/features/comments/list.go
package comments

import (
	"context"
	"net/http"

	"github.com/bughive/bughive/internal/app/system/gates"
	"github.com/bughive/bughive/internal/app/system/respond"
	"github.com/bughive/bughive/internal/app/system/timeouts"
	"github.com/bughive/bughive/internal/domain/authz"
)

// HandleList returns a ticket's comments oldest first. Visibility
// follows the ticket view rule; denied views read as 404.
//
// GET /workspaces/{workspaceID}/tickets/{ticketID}/comments
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, ok := h.loadTicket(ctx, w, r)
	if !ok {
		return
	}

	decision, _, err := h.Access.ForTicket(ctx, g.UserID, t, authz.ActionViewTicket)
	if err != nil {
		respond.Internal(w, h.Log, "authorize list comments", err)
		return
	}
	if !decision.Allowed {
		respond.DeniedHidden(w, decision)
		return
	}

	rows, err := h.Comments.ListByTicket(ctx, t.ID)
	if err != nil {
		respond.Internal(w, h.Log, "list comments", err)
		return
	}

	views := make([]commentView, 0, len(rows))
	for _, c := range rows {
		views = append(views, toCommentView(c))
	}
	respond.JSON(w, http.StatusOK, map[string]any{"items": views})
}
