// internal/app/features/projects/members.go
package projects

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/bughive/bughive/internal/app/store/projectmembers"
	"github.com/bughive/bughive/internal/app/system/gates"
	"github.com/bughive/bughive/internal/app/system/reqjson"
	"github.com/bughive/bughive/internal/app/system/respond"
	"github.com/bughive/bughive/internal/app/system/timeouts"
	"github.com/bughive/bughive/internal/app/system/txn"
	"github.com/bughive/bughive/internal/app/system/urlparam"
	"github.com/bughive/bughive/internal/domain/authz"
)

type addProjectMemberRequest struct {
	MemberID string `json:"member_id"`
}

// HandleAddMember assigns a workspace member to the project. ADMIN may
// assign anyone; MANAGER only when they are themselves assigned.
//
// POST /workspaces/{workspaceID}/projects/{projectID}/members
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
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

	var req addProjectMemberRequest
	if !reqjson.Decode(w, r, &req) {
		return
	}
	memberID, err := primitive.ObjectIDFromHex(req.MemberID)
	if err != nil {
		respond.InvalidInput(w, "malformed member_id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	decision, _, err := h.Access.ForProject(ctx, g.UserID, workspaceID, projectID, authz.ActionManageProjectMembers)
	if err != nil {
		respond.Internal(w, h.Log, "authorize add project member", err)
		return
	}
	if !decision.Allowed {
		respond.Denied(w, decision)
		return
	}

	// The project and the target member must both exist in this
	// workspace.
	p, err := h.Projects.GetByID(ctx, workspaceID, projectID)
	if err != nil {
		respond.Internal(w, h.Log, "load project", err)
		return
	}
	if p == nil {
		respond.NotFound(w)
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

	pm, err := h.ProjMembers.Add(ctx, workspaceID, projectID, memberID)
	if err == projectmembers.ErrDuplicateAssignment {
		respond.AlreadyExists(w, err.Error())
		return
	}
	if err != nil {
		respond.Internal(w, h.Log, "add project member", err)
		return
	}

	h.Log.Info("project member added",
		zap.String("project_id", projectID.Hex()),
		zap.String("member_id", memberID.Hex()))

	respond.JSON(w, http.StatusCreated, map[string]string{
		"id":         pm.ID.Hex(),
		"project_id": pm.ProjectID.Hex(),
		"member_id":  pm.MemberID.Hex(),
	})
}

// HandleRemoveMember unassigns a member from the project and strips
// them from tickets they develop within it. Removing an absent
// assignment is a benign no-op.
//
// DELETE /workspaces/{workspaceID}/projects/{projectID}/members/{memberID}
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
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
	memberID, ok := urlparam.ObjectID(w, r, "memberID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	decision, _, err := h.Access.ForProject(ctx, g.UserID, workspaceID, projectID, authz.ActionManageProjectMembers)
	if err != nil {
		respond.Internal(w, h.Log, "authorize remove project member", err)
		return
	}
	if !decision.Allowed {
		respond.Denied(w, decision)
		return
	}

	err = txn.WithTransaction(ctx, h.Client, func(ctx context.Context) error {
		if _, err := h.Tickets.RemoveDeveloperFromProject(ctx, projectID, memberID); err != nil {
			return err
		}
		_, err := h.ProjMembers.Remove(ctx, projectID, memberID)
		return err
	})
	if err != nil {
		respond.Internal(w, h.Log, "remove project member", err)
		return
	}

	respond.NoContent(w)
}
