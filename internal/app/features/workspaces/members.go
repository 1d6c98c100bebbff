// internal/app/features/workspaces/members.go
package workspaces

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	membershipstore "github.com/bughive/bughive/internal/app/store/memberships"
	"github.com/bughive/bughive/internal/app/system/gates"
	"github.com/bughive/bughive/internal/app/system/reqjson"
	"github.com/bughive/bughive/internal/app/system/respond"
	"github.com/bughive/bughive/internal/app/system/sanitize"
	"github.com/bughive/bughive/internal/app/system/timeouts"
	"github.com/bughive/bughive/internal/app/system/txn"
	"github.com/bughive/bughive/internal/app/system/urlparam"
	"github.com/bughive/bughive/internal/domain/authz"
	"github.com/bughive/bughive/internal/domain/models"
)

type addMemberRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// HandleAddMember adds an existing user to the workspace by username.
// ADMIN only.
//
// POST /workspaces/{workspaceID}/members
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}
	workspaceID, ok := urlparam.ObjectID(w, r, "workspaceID")
	if !ok {
		return
	}

	var req addMemberRequest
	if !reqjson.Decode(w, r, &req) {
		return
	}
	req.Username = sanitize.Text(req.Username)
	if req.Username == "" {
		respond.InvalidInput(w, "username is required")
		return
	}
	if !models.IsValidRole(req.Role) {
		respond.InvalidInput(w, `role must be "ADMIN", "MANAGER" or "DEVELOPER"`)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	decision, _, err := h.Access.ForWorkspace(ctx, g.UserID, workspaceID, authz.ActionManageMembers)
	if err != nil {
		respond.Internal(w, h.Log, "authorize add member", err)
		return
	}
	if !decision.Allowed {
		respond.Denied(w, decision)
		return
	}

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err == mongo.ErrNoDocuments {
		respond.NotFound(w)
		return
	}
	if err != nil {
		respond.Internal(w, h.Log, "look up user", err)
		return
	}

	m, err := h.Members.Add(ctx, workspaceID, u.ID, models.Role(req.Role))
	if err == membershipstore.ErrDuplicateMembership {
		respond.AlreadyExists(w, err.Error())
		return
	}
	if err != nil {
		respond.Internal(w, h.Log, "add member", err)
		return
	}

	h.Log.Info("workspace member added",
		zap.String("workspace_id", workspaceID.Hex()),
		zap.String("member_id", m.ID.Hex()),
		zap.String("role", string(m.Role)))

	respond.JSON(w, http.StatusCreated, toMemberView(m, u.Username))
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

// HandleChangeRole changes a member's role. ADMIN only. An admin may
// demote themselves; doing so revokes all of their sessions so the old
// role cannot be replayed from a live cookie.
//
// PUT /workspaces/{workspaceID}/members/{memberID}
func (h *Handler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}
	workspaceID, ok := urlparam.ObjectID(w, r, "workspaceID")
	if !ok {
		return
	}
	memberID, ok := urlparam.ObjectID(w, r, "memberID")
	if !ok {
		return
	}

	var req changeRoleRequest
	if !reqjson.Decode(w, r, &req) {
		return
	}
	if !models.IsValidRole(req.Role) {
		respond.InvalidInput(w, `role must be "ADMIN", "MANAGER" or "DEVELOPER"`)
		return
	}
	newRole := models.Role(req.Role)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	decision, _, err := h.Access.ForWorkspace(ctx, g.UserID, workspaceID, authz.ActionChangeMemberRole)
	if err != nil {
		respond.Internal(w, h.Log, "authorize role change", err)
		return
	}
	if !decision.Allowed {
		respond.Denied(w, decision)
		return
	}

	target, err := h.Members.GetByID(ctx, workspaceID, memberID)
	if err != nil {
		respond.Internal(w, h.Log, "load member", err)
		return
	}
	if target == nil {
		respond.NotFound(w)
		return
	}

	if _, err := h.Members.UpdateRole(ctx, workspaceID, memberID, newRole); err != nil {
		respond.Internal(w, h.Log, "update role", err)
		return
	}

	// Self-demotion invalidates the principal's own sessions; other
	// members keep theirs since role facts are reloaded per request.
	if target.UserID == g.UserID && target.Role == models.RoleAdmin && newRole != models.RoleAdmin {
		if _, err := h.Sessions.RevokeAllForUser(ctx, g.UserID); err != nil {
			respond.Internal(w, h.Log, "revoke sessions", err)
			return
		}
		h.Log.Info("admin self-demotion, sessions revoked",
			zap.String("workspace_id", workspaceID.Hex()),
			zap.String("user_id", g.UserID.Hex()))
	}

	target.Role = newRole
	respond.JSON(w, http.StatusOK, toMemberView(*target, ""))
}

// HandleRemoveMember removes a member and strips their project and
// ticket assignments across the workspace. ADMIN only. Removing an
// already-removed member is a benign no-op.
//
// DELETE /workspaces/{workspaceID}/members/{memberID}
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}
	workspaceID, ok := urlparam.ObjectID(w, r, "workspaceID")
	if !ok {
		return
	}
	memberID, ok := urlparam.ObjectID(w, r, "memberID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	decision, _, err := h.Access.ForWorkspace(ctx, g.UserID, workspaceID, authz.ActionManageMembers)
	if err != nil {
		respond.Internal(w, h.Log, "authorize remove member", err)
		return
	}
	if !decision.Allowed {
		respond.Denied(w, decision)
		return
	}

	err = txn.WithTransaction(ctx, h.Client, func(ctx context.Context) error {
		if _, err := h.Tickets.RemoveDeveloperFromWorkspace(ctx, workspaceID, memberID); err != nil {
			return err
		}
		if _, err := h.ProjMembers.DeleteByMember(ctx, workspaceID, memberID); err != nil {
			return err
		}
		_, err := h.Members.Remove(ctx, workspaceID, memberID)
		return err
	})
	if err != nil {
		respond.Internal(w, h.Log, "remove member", err)
		return
	}

	respond.NoContent(w)
}

// HandleListMembers lists the workspace's members with their usernames.
// Any workspace member may list; outsiders get a 404 so the workspace's
// existence is not disclosed.
//
// GET /workspaces/{workspaceID}/members
func (h *Handler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}
	workspaceID, ok := urlparam.ObjectID(w, r, "workspaceID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	decision, _, err := h.Access.ForWorkspace(ctx, g.UserID, workspaceID, authz.ActionViewWorkspace)
	if err != nil {
		respond.Internal(w, h.Log, "authorize list members", err)
		return
	}
	if !decision.Allowed {
		respond.DeniedHidden(w, decision)
		return
	}

	members, err := h.Members.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		respond.Internal(w, h.Log, "list members", err)
		return
	}

	userIDs := make([]primitive.ObjectID, 0, len(members))
	for _, m := range members {
		userIDs = append(userIDs, m.UserID)
	}
	users, err := h.Users.ListByIDs(ctx, userIDs)
	if err != nil {
		respond.Internal(w, h.Log, "load member users", err)
		return
	}

	views := make([]memberView, 0, len(members))
	for _, m := range members {
		views = append(views, toMemberView(m, users[m.UserID].Username))
	}
	respond.JSON(w, http.StatusOK, map[string]any{"items": views})
}
