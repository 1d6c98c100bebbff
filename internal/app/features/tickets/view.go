// internal/app/features/tickets/view.go
package tickets

import (
	"context"
	"net/http"

	"github.com/bughive/bughive/internal/app/system/gates"
	"github.com/bughive/bughive/internal/app/system/respond"
	"github.com/bughive/bughive/internal/app/system/timeouts"
	"github.com/bughive/bughive/internal/app/system/urlparam"
	"github.com/bughive/bughive/internal/domain/authz"
	"github.com/bughive/bughive/internal/domain/models"
)

// loadTicket fetches the ticket for ticket-scoped handlers, writing a
// 404 when it does not exist in this workspace.
func (h *Handler) loadTicket(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.Ticket, bool) {
	workspaceID, ok := urlparam.ObjectID(w, r, "workspaceID")
	if !ok {
		return nil, false
	}
	ticketID, ok := urlparam.ObjectID(w, r, "ticketID")
	if !ok {
		return nil, false
	}

	t, err := h.Tickets.GetByID(ctx, workspaceID, ticketID)
	if err != nil {
		respond.Internal(w, h.Log, "load ticket", err)
		return nil, false
	}
	if t == nil {
		respond.NotFound(w)
		return nil, false
	}
	return t, true
}

// HandleView returns a single ticket with its developer set. ADMIN
// always; MANAGER when assigned to the project; DEVELOPER when
// assigned to the ticket or its submitter. Denied views read as 404.
//
// GET /workspaces/{workspaceID}/tickets/{ticketID}
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, ok := h.loadTicket(ctx, w, r)
	if !ok {
		return
	}

	decision, _, err := h.Access.ForTicket(ctx, g.UserID, t, authz.ActionViewTicket)
	if err != nil {
		respond.Internal(w, h.Log, "authorize view ticket", err)
		return
	}
	if !decision.Allowed {
		respond.DeniedHidden(w, decision)
		return
	}

	devs, err := h.Tickets.ListDevelopers(ctx, t.ID)
	if err != nil {
		respond.Internal(w, h.Log, "load ticket developers", err)
		return
	}
	respond.JSON(w, http.StatusOK, toTicketView(*t, devs))
}
