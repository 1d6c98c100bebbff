// internal/app/features/comments/create.go
package comments

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
	"github.com/bughive/bughive/internal/domain/authz"
)

type createCommentRequest struct {
	Body string `json:"body"`
}

// HandleCreate adds a comment to a ticket. ADMIN anywhere; MANAGER
// when assigned to the project; DEVELOPER only when assigned to both
// the project and the ticket.
//
// POST /workspaces/{workspaceID}/tickets/{ticketID}/comments
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}

	var req createCommentRequest
	if !reqjson.Decode(w, r, &req) {
		return
	}
	req.Body = sanitize.Text(req.Body)
	if !inputval.TextValid(req.Body, limits.MaxCommentLen) || req.Body == "" {
		respond.InvalidInput(w, "comment body must be 1-120 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, ok := h.loadTicket(ctx, w, r)
	if !ok {
		return
	}

	decision, member, err := h.Access.ForTicket(ctx, g.UserID, t, authz.ActionCreateComment)
	if err != nil {
		respond.Internal(w, h.Log, "authorize create comment", err)
		return
	}
	if !decision.Allowed {
		respond.Denied(w, decision)
		return
	}

	c, err := h.Comments.Create(ctx, t.WorkspaceID, t.ID, member.ID, req.Body)
	if err != nil {
		respond.Internal(w, h.Log, "create comment", err)
		return
	}

	h.Log.Info("comment created",
		zap.String("ticket_id", t.ID.Hex()),
		zap.String("comment_id", c.ID.Hex()))

	respond.JSON(w, http.StatusCreated, toCommentView(c))
}
