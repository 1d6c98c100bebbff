// internal/app/features/projects/list.go
package projects

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bughive/bughive/internal/app/system/gates"
	"github.com/bughive/bughive/internal/app/system/paging"
	"github.com/bughive/bughive/internal/app/system/respond"
	"github.com/bughive/bughive/internal/app/system/timeouts"
	"github.com/bughive/bughive/internal/app/system/urlparam"
	"github.com/bughive/bughive/internal/domain/authz"
	"github.com/bughive/bughive/internal/domain/models"
)

type projectListResponse struct {
	Items      []projectView `json:"items"`
	HasPrev    bool          `json:"has_prev"`
	HasNext    bool          `json:"has_next"`
	PrevCursor string        `json:"prev_cursor,omitempty"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// HandleList returns one page of the projects visible to the
// principal: all of them for an ADMIN, only assigned ones for a
// MANAGER or DEVELOPER.
//
// GET /workspaces/{workspaceID}/projects?before=…&after=…
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}
	workspaceID, ok := urlparam.ObjectID(w, r, "workspaceID")
	if !ok {
		return
	}

	before := query.Get(r, "before")
	after := query.Get(r, "after")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	decision, member, err := h.Access.ForWorkspace(ctx, g.UserID, workspaceID, authz.ActionViewWorkspace)
	if err != nil {
		respond.Internal(w, h.Log, "authorize list projects", err)
		return
	}
	if !decision.Allowed {
		respond.DeniedHidden(w, decision)
		return
	}

	// Non-admins only see projects they are assigned to.
	var onlyIDs []primitive.ObjectID
	if member.Role != models.RoleAdmin {
		onlyIDs, err = h.ProjMembers.ListProjectIDsByMember(ctx, workspaceID, member.ID)
		if err != nil {
			respond.Internal(w, h.Log, "list assigned projects", err)
			return
		}
	}

	rows, err := h.Projects.ListByWorkspace(ctx, workspaceID, onlyIDs, before, after)
	if err != nil {
		respond.Internal(w, h.Log, "list projects", err)
		return
	}
	if before != "" {
		paging.Reverse(rows)
	}
	page := paging.TrimPage(&rows, before, after)

	prev, next := paging.BuildCursors(rows,
		func(p models.Project) string { return p.NameCI },
		func(p models.Project) primitive.ObjectID { return p.ID },
	)

	resp := projectListResponse{
		Items:   make([]projectView, 0, len(rows)),
		HasPrev: page.HasPrev,
		HasNext: page.HasNext,
	}
	for _, p := range rows {
		resp.Items = append(resp.Items, toProjectView(p))
	}
	if page.HasPrev {
		resp.PrevCursor = prev
	}
	if page.HasNext {
		resp.NextCursor = next
	}

	respond.JSON(w, http.StatusOK, resp)
}
