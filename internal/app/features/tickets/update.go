// internal/app/features/tickets/update.go
package tickets

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	ticketstore "github.com/bughive/bughive/internal/app/store/tickets"
	"github.com/bughive/bughive/internal/app/system/gates"
	"github.com/bughive/bughive/internal/app/system/inputval"
	"github.com/bughive/bughive/internal/app/system/limits"
	"github.com/bughive/bughive/internal/app/system/reqjson"
	"github.com/bughive/bughive/internal/app/system/respond"
	"github.com/bughive/bughive/internal/app/system/sanitize"
	"github.com/bughive/bughive/internal/app/system/timeouts"
	"github.com/bughive/bughive/internal/app/system/txn"
	"github.com/bughive/bughive/internal/domain/authz"
	"github.com/bughive/bughive/internal/domain/models"
)

// updateTicketRequest uses pointers so the handler can tell which
// fields the client actually sent. A body carrying only "status" takes
// the status-only path, which DEVELOPERs may use on their own tickets;
// any other field routes through the full-update rule.
type updateTicketRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Priority    *string   `json:"priority"`
	Type        *string   `json:"type"`
	Status      *string   `json:"status"`
	Developers  *[]string `json:"developers"`
}

func (req *updateTicketRequest) statusOnly() bool {
	return req.Status != nil &&
		req.Title == nil && req.Description == nil &&
		req.Priority == nil && req.Type == nil && req.Developers == nil
}

// HandleUpdate updates a ticket.
//
// PUT /workspaces/{workspaceID}/tickets/{ticketID}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}

	var req updateTicketRequest
	if !reqjson.Decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, ok := h.loadTicket(ctx, w, r)
	if !ok {
		return
	}

	if req.statusOnly() {
		h.updateStatus(ctx, w, g, t, *req.Status)
		return
	}
	h.updateFull(ctx, w, g, t, &req)
}

// updateStatus is the narrow path: only the status field changes.
func (h *Handler) updateStatus(ctx context.Context, w http.ResponseWriter, g gates.Result, t *models.Ticket, status string) {
	if !models.IsValidTicketStatus(status) {
		respond.InvalidInput(w, `status must be "OPEN" or "CLOSED"`)
		return
	}

	decision, _, err := h.Access.ForTicket(ctx, g.UserID, t, authz.ActionUpdateTicketStatus)
	if err != nil {
		respond.Internal(w, h.Log, "authorize status update", err)
		return
	}
	if !decision.Allowed {
		respond.Denied(w, decision)
		return
	}

	if _, err := h.Tickets.UpdateStatus(ctx, t.WorkspaceID, t.ID, models.TicketStatus(status)); err != nil {
		respond.Internal(w, h.Log, "update ticket status", err)
		return
	}

	h.Log.Info("ticket status updated",
		zap.String("ticket_id", t.ID.Hex()),
		zap.String("status", status))

	t.Status = models.TicketStatus(status)
	devs, err := h.Tickets.ListDevelopers(ctx, t.ID)
	if err != nil {
		respond.Internal(w, h.Log, "load ticket developers", err)
		return
	}
	respond.JSON(w, http.StatusOK, toTicketView(*t, devs))
}

// updateFull rewrites every mutable field, optionally replacing the
// developer set atomically. The submitter never changes.
func (h *Handler) updateFull(ctx context.Context, w http.ResponseWriter, g gates.Result, t *models.Ticket, req *updateTicketRequest) {
	if req.Title == nil || req.Priority == nil || req.Type == nil || req.Status == nil {
		respond.InvalidInput(w, "full update requires title, priority, type and status")
		return
	}

	title := sanitize.Text(*req.Title)
	description := t.Description
	if req.Description != nil {
		description = sanitize.Text(*req.Description)
	}
	if !inputval.NameValid(title, limits.MaxTicketTitle) {
		respond.InvalidInput(w, "ticket title must be 1-20 characters")
		return
	}
	if !inputval.TextValid(description, limits.MaxTicketDescription) {
		respond.InvalidInput(w, "ticket description must be at most 120 characters")
		return
	}
	if !models.IsValidPriority(*req.Priority) {
		respond.InvalidInput(w, `priority must be "LOW", "MEDIUM" or "HIGH"`)
		return
	}
	if !models.IsValidTicketType(*req.Type) {
		respond.InvalidInput(w, `type must be "BUG", "ISSUE", "ERROR", "FEATURE" or "OTHER"`)
		return
	}
	if !models.IsValidTicketStatus(*req.Status) {
		respond.InvalidInput(w, `status must be "OPEN" or "CLOSED"`)
		return
	}

	decision, _, err := h.Access.ForTicket(ctx, g.UserID, t, authz.ActionUpdateTicket)
	if err != nil {
		respond.Internal(w, h.Log, "authorize ticket update", err)
		return
	}
	if !decision.Allowed {
		respond.Denied(w, decision)
		return
	}

	var developerIDs []primitive.ObjectID
	if req.Developers != nil {
		ids, ok := h.resolveDevelopers(ctx, w, t.ProjectID, *req.Developers)
		if !ok {
			return
		}
		developerIDs = ids
	}

	err = txn.WithTransaction(ctx, h.Client, func(ctx context.Context) error {
		if _, err := h.Tickets.Update(ctx, t.WorkspaceID, t.ID, ticketstore.Update{
			Title:       title,
			Description: description,
			Priority:    models.Priority(*req.Priority),
			Type:        models.TicketType(*req.Type),
			Status:      models.TicketStatus(*req.Status),
		}); err != nil {
			return err
		}
		if req.Developers != nil {
			if err := h.Tickets.ReplaceDevelopers(ctx, *t, developerIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respond.Internal(w, h.Log, "update ticket", err)
		return
	}

	h.Log.Info("ticket updated", zap.String("ticket_id", t.ID.Hex()))

	fresh, err := h.Tickets.GetByID(ctx, t.WorkspaceID, t.ID)
	if err != nil || fresh == nil {
		respond.Internal(w, h.Log, "reload ticket", err)
		return
	}
	devs, err := h.Tickets.ListDevelopers(ctx, t.ID)
	if err != nil {
		respond.Internal(w, h.Log, "load ticket developers", err)
		return
	}
	respond.JSON(w, http.StatusOK, toTicketView(*fresh, devs))
}
