// internal/app/features/workspaces/create.go
package workspaces

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/bughive/bughive/internal/app/system/gates"
	"github.com/bughive/bughive/internal/app/system/inputval"
	"github.com/bughive/bughive/internal/app/system/limits"
	"github.com/bughive/bughive/internal/app/system/reqjson"
	"github.com/bughive/bughive/internal/app/system/respond"
	"github.com/bughive/bughive/internal/app/system/sanitize"
	"github.com/bughive/bughive/internal/app/system/timeouts"
	"github.com/bughive/bughive/internal/app/system/txn"
	"github.com/bughive/bughive/internal/domain/models"
)

type createWorkspaceRequest struct {
	Name string `json:"name"`
}

// HandleCreate creates a workspace. Any authenticated user may create
// one; the creator becomes its first ADMIN in the same transaction.
//
// POST /workspaces
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}

	var req createWorkspaceRequest
	if !reqjson.Decode(w, r, &req) {
		return
	}
	req.Name = sanitize.Text(req.Name)
	if !inputval.NameValid(req.Name, limits.MaxWorkspaceName) {
		respond.InvalidInput(w, "workspace name must be 1-25 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var created models.Workspace
	err := txn.WithTransaction(ctx, h.Client, func(ctx context.Context) error {
		ws, err := h.Workspaces.Create(ctx, req.Name)
		if err != nil {
			return err
		}
		if _, err := h.Members.Add(ctx, ws.ID, g.UserID, models.RoleAdmin); err != nil {
			return err
		}
		created = ws
		return nil
	})
	if err != nil {
		respond.Internal(w, h.Log, "create workspace", err)
		return
	}

	h.Log.Info("workspace created",
		zap.String("workspace_id", created.ID.Hex()),
		zap.String("user_id", g.UserID.Hex()))

	respond.JSON(w, http.StatusCreated, toWorkspaceView(created))
}
