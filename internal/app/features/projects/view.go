// internal/app/features/projects/view.go
package projects

import (
	"context"
	"net/http"

	"github.com/bughive/bughive/internal/app/system/gates"
	"github.com/bughive/bughive/internal/app/system/respond"
	"github.com/bughive/bughive/internal/app/system/timeouts"
	"github.com/bughive/bughive/internal/app/system/urlparam"
	"github.com/bughive/bughive/internal/domain/authz"
)

// HandleView returns a single project. Denied views read as 404.
//
// GET /workspaces/{workspaceID}/projects/{projectID}
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	decision, _, err := h.Access.ForProject(ctx, g.UserID, workspaceID, projectID, authz.ActionViewProject)
	if err != nil {
		respond.Internal(w, h.Log, "authorize view project", err)
		return
	}
	if !decision.Allowed {
		respond.DeniedHidden(w, decision)
		return
	}

	p, err := h.Projects.GetByID(ctx, workspaceID, projectID)
	if err != nil {
		respond.Internal(w, h.Log, "load project", err)
		return
	}
	if p == nil {
		respond.NotFound(w)
		return
	}

	respond.JSON(w, http.StatusOK, toProjectView(*p))
}
