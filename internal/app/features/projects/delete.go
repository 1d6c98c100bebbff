// internal/app/features/projects/delete.go
package projects

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

// HandleDelete deletes a project with its assignments, tickets,
// developer rows, and comments. ADMIN unconditionally; MANAGER only
// when assigned to the project.
//
// DELETE /workspaces/{workspaceID}/projects/{projectID}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}
	workspaceID, ok := urlparam.ObjectID(w, r, "workspaceID")
	if !ok {
		return
	}
	projectID, ok := urlparam.ObjectID(w, r, "projectID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	decision, _, err := h.Access.ForProject(ctx, g.UserID, workspaceID, projectID, authz.ActionDeleteProject)
	if err != nil {
		respond.Internal(w, h.Log, "authorize delete project", err)
		return
	}
	if !decision.Allowed {
		respond.Denied(w, decision)
		return
	}

	var deleted int64
	err = txn.WithTransaction(ctx, h.Client, func(ctx context.Context) error {
		ticketIDs, err := h.Tickets.ListIDsByProject(ctx, projectID)
		if err != nil {
			return err
		}
		if _, err := h.Comments.DeleteByTickets(ctx, ticketIDs); err != nil {
			return err
		}
		if _, err := h.Tickets.DeleteByProject(ctx, projectID); err != nil {
			return err
		}
		if _, err := h.ProjMembers.DeleteByProject(ctx, projectID); err != nil {
			return err
		}
		n, err := h.Projects.Delete(ctx, workspaceID, projectID)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		respond.Internal(w, h.Log, "delete project", err)
		return
	}
	if deleted == 0 {
		respond.NotFound(w)
		return
	}

	h.Log.Info("project deleted",
		zap.String("project_id", projectID.Hex()),
		zap.String("workspace_id", workspaceID.Hex()))

	respond.NoContent(w)
}
