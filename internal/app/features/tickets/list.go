// internal/app/features/tickets/list.go
package tickets

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

type ticketListItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Priority string `json:"priority"`
	Type     string `json:"type"`
	Status   string `json:"status"`
}

type ticketListResponse struct {
	Items      []ticketListItem `json:"items"`
	HasPrev    bool             `json:"has_prev"`
	HasNext    bool             `json:"has_next"`
	PrevCursor string           `json:"prev_cursor,omitempty"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// HandleList returns one page of a project's tickets, ordered by
// title. Visibility follows the project view rule.
//
// GET /workspaces/{workspaceID}/projects/{projectID}/tickets?before=…&after=…
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
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

	before := query.Get(r, "before")
	after := query.Get(r, "after")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	decision, _, err := h.Access.ForProject(ctx, g.UserID, workspaceID, projectID, authz.ActionViewProject)
	if err != nil {
		respond.Internal(w, h.Log, "authorize list tickets", err)
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

	rows, err := h.Tickets.ListByProject(ctx, projectID, before, after)
	if err != nil {
		respond.Internal(w, h.Log, "list tickets", err)
		return
	}
	if before != "" {
		paging.Reverse(rows)
	}
	page := paging.TrimPage(&rows, before, after)

	prev, next := paging.BuildCursors(rows,
		func(t models.Ticket) string { return t.TitleCI },
		func(t models.Ticket) primitive.ObjectID { return t.ID },
	)

	resp := ticketListResponse{
		Items:   make([]ticketListItem, 0, len(rows)),
		HasPrev: page.HasPrev,
		HasNext: page.HasNext,
	}
	for _, t := range rows {
		resp.Items = append(resp.Items, ticketListItem{
			ID:       t.ID.Hex(),
			Title:    t.Title,
			Priority: string(t.Priority),
			Type:     string(t.Type),
			Status:   string(t.Status),
		})
	}
	if page.HasPrev {
		resp.PrevCursor = prev
	}
	if page.HasNext {
		resp.NextCursor = next
	}

	respond.JSON(w, http.StatusOK, resp)
}
