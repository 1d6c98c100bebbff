// internal/app/features/tickets/create.go
package tickets

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

type createTicketRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Type        string   `json:"type"`
	Developers  []string `json:"developers"`
}

// HandleCreate creates a ticket in a project. ADMIN anywhere, MANAGER
// when assigned to the project. The creating member becomes the
// immutable submitter; the optional developer set is written in the
// same transaction.
//
// POST /workspaces/{workspaceID}/projects/{projectID}/tickets
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
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

	var req createTicketRequest
	if !reqjson.Decode(w, r, &req) {
		return
	}
	req.Title = sanitize.Text(req.Title)
	req.Description = sanitize.Text(req.Description)
	if !inputval.NameValid(req.Title, limits.MaxTicketTitle) {
		respond.InvalidInput(w, "ticket title must be 1-20 characters")
		return
	}
	if !inputval.TextValid(req.Description, limits.MaxTicketDescription) {
		respond.InvalidInput(w, "ticket description must be at most 120 characters")
		return
	}
	if !models.IsValidPriority(req.Priority) {
		respond.InvalidInput(w, `priority must be "LOW", "MEDIUM" or "HIGH"`)
		return
	}
	if !models.IsValidTicketType(req.Type) {
		respond.InvalidInput(w, `type must be "BUG", "ISSUE", "ERROR", "FEATURE" or "OTHER"`)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	decision, member, err := h.Access.ForProject(ctx, g.UserID, workspaceID, projectID, authz.ActionCreateTicket)
	if err != nil {
		respond.Internal(w, h.Log, "authorize create ticket", err)
		return
	}
	if !decision.Allowed {
		respond.Denied(w, decision)
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

	developerIDs, ok := h.resolveDevelopers(ctx, w, projectID, req.Developers)
	if !ok {
		return
	}

	var created models.Ticket
	err = txn.WithTransaction(ctx, h.Client, func(ctx context.Context) error {
		t, err := h.Tickets.Create(ctx, models.Ticket{
			WorkspaceID: workspaceID,
			ProjectID:   projectID,
			Title:       req.Title,
			Description: req.Description,
			Priority:    models.Priority(req.Priority),
			Type:        models.TicketType(req.Type),
			Status:      models.StatusOpen,
			SubmitterID: member.ID,
		}, developerIDs)
		if err != nil {
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		respond.Internal(w, h.Log, "create ticket", err)
		return
	}

	h.Log.Info("ticket created",
		zap.String("ticket_id", created.ID.Hex()),
		zap.String("project_id", projectID.Hex()))

	devs, err := h.Tickets.ListDevelopers(ctx, created.ID)
	if err != nil {
		respond.Internal(w, h.Log, "load ticket developers", err)
		return
	}
	respond.JSON(w, http.StatusCreated, toTicketView(created, devs))
}
