// internal/app/features/workspaces/rename.go
package workspaces

import (
	"context"
	"net/http"

	"github.com/bughive/bughive/internal/app/system/gates"
	"github.com/bughive/bughive/internal/app/system/inputval"
	"github.com/bughive/bughive/internal/app/system/limits"
	"github.com/bughive/bughive/internal/app/system/reqjson"
	"github.com/bughive/bughive/internal/app/system/respond"
	"github.com/bughive/bughive/internal/app/system/sanitize"
	"github.com/bughive/bughive/internal/app/system/timeouts"
	"github.com/bughive/bughive/internal/app/system/urlparam"
	"github.com/bughive/bughive/internal/domain/authz"
)

type renameWorkspaceRequest struct {
	Name string `json:"name"`
}

// HandleRename renames a workspace. ADMIN only.
//
// PUT /workspaces/{workspaceID}
func (h *Handler) HandleRename(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}
	workspaceID, ok := urlparam.ObjectID(w, r, "workspaceID")
	if !ok {
		return
	}

	var req renameWorkspaceRequest
	if !reqjson.Decode(w, r, &req) {
		return
	}
	req.Name = sanitize.Text(req.Name)
	if !inputval.NameValid(req.Name, limits.MaxWorkspaceName) {
		respond.InvalidInput(w, "workspace name must be 1-25 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	decision, _, err := h.Access.ForWorkspace(ctx, g.UserID, workspaceID, authz.ActionRenameWorkspace)
	if err != nil {
		respond.Internal(w, h.Log, "authorize rename", err)
		return
	}
	if !decision.Allowed {
		respond.Denied(w, decision)
		return
	}

	matched, err := h.Workspaces.Rename(ctx, workspaceID, req.Name)
	if err != nil {
		respond.Internal(w, h.Log, "rename workspace", err)
		return
	}
	if matched == 0 {
		respond.NotFound(w)
		return
	}

	ws, err := h.Workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		respond.Internal(w, h.Log, "load workspace", err)
		return
	}
	respond.JSON(w, http.StatusOK, toWorkspaceView(*ws))
}
