// internal/app/features/comments/handler.go
package comments

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bughive/bughive/internal/app/policy/access"
	commentstore "github.com/bughive/bughive/internal/app/store/comments"
	ticketstore "github.com/bughive/bughive/internal/app/store/tickets"
	"github.com/bughive/bughive/internal/app/system/respond"
	"github.com/bughive/bughive/internal/app/system/urlparam"
	"github.com/bughive/bughive/internal/domain/models"
)

// Handler serves ticket comments.
type Handler struct {
	Log      *zap.Logger
	Access   *access.Checker
	Tickets  *ticketstore.Store
	Comments *commentstore.Store
}

type commentView struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func toCommentView(c models.Comment) commentView {
	return commentView{
		ID:        c.ID.Hex(),
		TicketID:  c.TicketID.Hex(),
		AuthorID:  c.AuthorID.Hex(),
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

// loadTicket fetches the ticket for the comment handlers, writing a
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
