// internal/app/features/workspaces/delete.go
package workspaces

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/bughive/bughive/internal/app/system/gates"
	"github.com/bughive/bughive/internal/app/system/respond"
	"github.com/bughive/bughive/internal/app/system/timeouts"
	"github.com/bughive/bughive/internal/app/system/txn"
	"github.com/bughive/bughive/internal/app/system/urlparam"
	"github.com/bughive/bughive/internal/domain/authz"
)

// HandleDelete deletes a workspace and everything in it: members,
// projects, project assignments, tickets, developer rows, comments.
// ADMIN only.
//
// DELETE /workspaces/{workspaceID}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}
	workspaceID, ok := urlparam.ObjectID(w, r, "workspaceID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	decision, _, err := h.Access.ForWorkspace(ctx, g.UserID, workspaceID, authz.ActionDeleteWorkspace)
	if err != nil {
		respond.Internal(w, h.Log, "authorize delete", err)
		return
	}
	if !decision.Allowed {
		respond.Denied(w, decision)
		return
	}

	var deleted int64
	err = txn.WithTransaction(ctx, h.Client, func(ctx context.Context) error {
		if _, err := h.Comments.DeleteByWorkspace(ctx, workspaceID); err != nil {
			return err
		}
		if _, err := h.Tickets.DeleteByWorkspace(ctx, workspaceID); err != nil {
			return err
		}
		if _, err := h.ProjMembers.DeleteByWorkspace(ctx, workspaceID); err != nil {
			return err
		}
		if _, err := h.Projects.DeleteByWorkspace(ctx, workspaceID); err != nil {
			return err
		}
		if _, err := h.Members.DeleteByWorkspace(ctx, workspaceID); err != nil {
			return err
		}
		n, err := h.Workspaces.Delete(ctx, workspaceID)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		respond.Internal(w, h.Log, "delete workspace", err)
		return
	}
	if deleted == 0 {
		respond.NotFound(w)
		return
	}

	h.Log.Info("workspace deleted",
		zap.String("workspace_id", workspaceID.Hex()),
		zap.String("user_id", g.UserID.Hex()))

	respond.NoContent(w)
}
