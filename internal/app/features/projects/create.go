// internal/app/features/projects/create.go
package projects

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
	"github.com/bughive/bughive/internal/app/system/urlparam"
	"github.com/bughive/bughive/internal/domain/authz"
	"github.com/bughive/bughive/internal/domain/models"
)

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreate creates a project. ADMIN or MANAGER; the creator is
// auto-assigned as a project member in the same transaction.
//
// POST /workspaces/{workspaceID}/projects
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}
	workspaceID, ok := urlparam.ObjectID(w, r, "workspaceID")
	if !ok {
		return
	}

	var req createProjectRequest
	if !reqjson.Decode(w, r, &req) {
		return
	}
	req.Name = sanitize.Text(req.Name)
	req.Description = sanitize.Text(req.Description)
	if !inputval.NameValid(req.Name, limits.MaxProjectName) {
		respond.InvalidInput(w, "project name must be 1-25 characters")
		return
	}
	if !inputval.TextValid(req.Description, limits.MaxProjectDescription) {
		respond.InvalidInput(w, "project description must be at most 120 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	decision, member, err := h.Access.ForWorkspace(ctx, g.UserID, workspaceID, authz.ActionCreateProject)
	if err != nil {
		respond.Internal(w, h.Log, "authorize create project", err)
		return
	}
	if !decision.Allowed {
		respond.Denied(w, decision)
		return
	}

	var created models.Project
	err = txn.WithTransaction(ctx, h.Client, func(ctx context.Context) error {
		p, err := h.Projects.Create(ctx, workspaceID, req.Name, req.Description)
		if err != nil {
			return err
		}
		if _, err := h.ProjMembers.Add(ctx, workspaceID, p.ID, member.ID); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		respond.Internal(w, h.Log, "create project", err)
		return
	}

	h.Log.Info("project created",
		zap.String("project_id", created.ID.Hex()),
		zap.String("workspace_id", workspaceID.Hex()))

	respond.JSON(w, http.StatusCreated, toProjectView(created))
}
