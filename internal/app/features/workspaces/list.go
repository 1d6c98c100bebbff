// internal/app/features/workspaces/list.go
package workspaces

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bughive/bughive/internal/app/system/gates"
	"github.com/bughive/bughive/internal/app/system/paging"
	"github.com/bughive/bughive/internal/app/system/respond"
	"github.com/bughive/bughive/internal/app/system/timeouts"
	"github.com/bughive/bughive/internal/domain/models"
)

type workspaceListResponse struct {
	Items      []workspaceView `json:"items"`
	HasPrev    bool            `json:"has_prev"`
	HasNext    bool            `json:"has_next"`
	PrevCursor string          `json:"prev_cursor,omitempty"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// HandleList returns one page of the workspaces the principal belongs
// to, ordered by name.
//
// GET /workspaces?before=…&after=…
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}

	before := query.Get(r, "before")
	after := query.Get(r, "after")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ids, err := h.Members.ListWorkspaceIDsByUser(ctx, g.UserID)
	if err != nil {
		respond.Internal(w, h.Log, "list workspace ids", err)
		return
	}

	rows, err := h.Workspaces.ListByIDs(ctx, ids, before, after)
	if err != nil {
		respond.Internal(w, h.Log, "list workspaces", err)
		return
	}
	if before != "" {
		paging.Reverse(rows)
	}
	page := paging.TrimPage(&rows, before, after)

	prev, next := paging.BuildCursors(rows,
		func(ws models.Workspace) string { return ws.NameCI },
		func(ws models.Workspace) primitive.ObjectID { return ws.ID },
	)

	resp := workspaceListResponse{
		Items:   make([]workspaceView, 0, len(rows)),
		HasPrev: page.HasPrev,
		HasNext: page.HasNext,
	}
	for _, ws := range rows {
		resp.Items = append(resp.Items, toWorkspaceView(ws))
	}
	if page.HasPrev {
		resp.PrevCursor = prev
	}
	if page.HasNext {
		resp.NextCursor = next
	}

	respond.JSON(w, http.StatusOK, resp)
}
