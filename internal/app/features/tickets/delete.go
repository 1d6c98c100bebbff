// internal/app/features/tickets/delete.go
package tickets

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/bughive/bughive/internal/app/system/gates"
	"github.com/bughive/bughive/internal/app/system/respond"
	"github.com/bughive/bughive/internal/app/system/timeouts"
	"github.com/bughive/bughive/internal/app/system/txn"
	"github.com/bughive/bughive/internal/domain/authz"
)

// HandleDelete deletes a ticket with its developer rows and comments.
// ADMIN anywhere; MANAGER when assigned to the project.
//
// DELETE /workspaces/{workspaceID}/tickets/{ticketID}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

	decision, _, err := h.Access.ForTicket(ctx, g.UserID, t, authz.ActionDeleteTicket)
	if err != nil {
		respond.Internal(w, h.Log, "authorize delete ticket", err)
		return
	}
	if !decision.Allowed {
		respond.Denied(w, decision)
		return
	}

	err = txn.WithTransaction(ctx, h.Client, func(ctx context.Context) error {
		if _, err := h.Comments.DeleteByTicket(ctx, t.ID); err != nil {
			return err
		}
		_, err := h.Tickets.Delete(ctx, t.WorkspaceID, t.ID)
		return err
	})
	if err != nil {
		respond.Internal(w, h.Log, "delete ticket", err)
		return
	}

	h.Log.Info("ticket deleted", zap.String("ticket_id", t.ID.Hex()))
	respond.NoContent(w)
}
