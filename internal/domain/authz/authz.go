// Package authz is the authorization engine: a single pure decision table
// that every mutation and query gate consults.
//
// The engine never performs I/O. Callers fetch the membership facts for the
// request (see policy/access) and pass them in; the engine returns an
// ALLOW/DENY decision with a stable machine-readable reason. Expected
// denials are values, never errors, so handlers and any visibility logic
// can share one source of truth without drift.
//
// Role semantics: ADMIN bypasses the project-membership predicates that
// MANAGER and DEVELOPER must satisfy, but roles are not numerically
// ordered — each action defines its own allowed-role set. A DEVELOPER
// attempting a MANAGER/ADMIN-gated action is always denied regardless of
// other facts.
package authz

import (
	"github.com/bughive/bughive/internal/domain/models"
)

// Action identifies an operation subject to authorization.
type Action string

const (
	ActionViewWorkspace        Action = "view_workspace"
	ActionRenameWorkspace      Action = "rename_workspace"
	ActionDeleteWorkspace      Action = "delete_workspace"
	ActionManageMembers        Action = "manage_members"
	ActionChangeMemberRole     Action = "change_member_role"
	ActionCreateProject        Action = "create_project"
	ActionViewProject          Action = "view_project"
	ActionDeleteProject        Action = "delete_project"
	ActionManageProjectMembers Action = "manage_project_members"
	ActionCreateTicket         Action = "create_ticket"
	ActionUpdateTicket         Action = "update_ticket"
	ActionUpdateTicketStatus   Action = "update_ticket_status"
	ActionDeleteTicket         Action = "delete_ticket"
	ActionViewTicket           Action = "view_ticket"
	ActionCreateComment        Action = "create_comment"
)

// Reason is a stable machine-readable cause for a DENY decision.
type Reason string

const (
	// ReasonUnauthorized means the principal lacks the required role or
	// membership for the action.
	ReasonUnauthorized Reason = "UNAUTHORIZED"
	// ReasonInvalidInput means the facts are malformed: unknown action or
	// a role outside the closed enum.
	ReasonInvalidInput Reason = "INVALID_INPUT"
)

// Facts are the already-fetched membership facts for one request.
// IsMember and Role come from the workspace_members relation; the
// remaining flags only matter for actions whose rules reference them.
type Facts struct {
	// IsMember reports whether the principal is a member of the target
	// workspace. When false every action is denied and the other fields
	// are ignored.
	IsMember bool
	// Role is the principal's workspace role.
	Role models.Role
	// OnProject reports whether the principal is a member of the target
	// project.
	OnProject bool
	// OnTicket reports whether the principal is an assigned developer of
	// the target ticket.
	OnTicket bool
	// Submitter reports whether the principal created the target ticket.
	Submitter bool
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  Reason // set only when Allowed is false
}

// Allow returns an ALLOW decision.
func Allow() Decision { return Decision{Allowed: true} }

// Deny returns a DENY decision with the given reason.
func Deny(reason Reason) Decision { return Decision{Allowed: false, Reason: reason} }

// predicate is an extra membership condition a role must satisfy beyond
// holding the role itself.
type predicate func(Facts) bool

func always(Facts) bool      { return true }
func onProject(f Facts) bool { return f.OnProject }

// onAssignedTicket: project member and assigned developer. Used by the
// status-only update path and by comment creation for DEVELOPERs.
func onAssignedTicket(f Facts) bool { return f.OnProject && f.OnTicket }

// developerCanView: a developer sees a specific ticket when assigned to
// it or when they submitted it (OR short-circuits on first match).
func developerCanView(f Facts) bool { return f.OnTicket || f.Submitter }

// table is the canonical per-action rule set. A role absent from an
// action's map is denied outright; a present role must also satisfy its
// predicate. This is the only place permission rules live.
var table = map[Action]map[models.Role]predicate{
	ActionViewWorkspace: {
		models.RoleAdmin:     always,
		models.RoleManager:   always,
		models.RoleDeveloper: always,
	},
	ActionRenameWorkspace: {
		models.RoleAdmin: always,
	},
	ActionDeleteWorkspace: {
		models.RoleAdmin: always,
	},
	ActionManageMembers: {
		models.RoleAdmin: always,
	},
	ActionChangeMemberRole: {
		models.RoleAdmin: always,
	},
	ActionCreateProject: {
		models.RoleAdmin:   always,
		models.RoleManager: always,
	},
	ActionViewProject: {
		models.RoleAdmin:     always,
		models.RoleManager:   onProject,
		models.RoleDeveloper: onProject,
	},
	ActionDeleteProject: {
		models.RoleAdmin:   always,
		models.RoleManager: onProject,
	},
	ActionManageProjectMembers: {
		models.RoleAdmin:   always,
		models.RoleManager: onProject,
	},
	ActionCreateTicket: {
		models.RoleAdmin:   always,
		models.RoleManager: onProject,
	},
	ActionUpdateTicket: {
		models.RoleAdmin:   always,
		models.RoleManager: onProject,
	},
	ActionUpdateTicketStatus: {
		models.RoleAdmin:     always,
		models.RoleManager:   onProject,
		models.RoleDeveloper: onAssignedTicket,
	},
	ActionDeleteTicket: {
		models.RoleAdmin:   always,
		models.RoleManager: onProject,
	},
	ActionViewTicket: {
		models.RoleAdmin:     always,
		models.RoleManager:   onProject,
		models.RoleDeveloper: developerCanView,
	},
	ActionCreateComment: {
		models.RoleAdmin:     always,
		models.RoleManager:   onProject,
		models.RoleDeveloper: onAssignedTicket,
	},
}

// Authorize decides whether the principal described by facts may perform
// action. It never returns an error: malformed input is itself a DENY
// with ReasonInvalidInput, and a missing workspace membership
// short-circuits every rule with ReasonUnauthorized.
func Authorize(action Action, facts Facts) Decision {
	if !facts.IsMember {
		return Deny(ReasonUnauthorized)
	}
	if !models.IsValidRole(string(facts.Role)) {
		return Deny(ReasonInvalidInput)
	}
	byRole, ok := table[action]
	if !ok {
		return Deny(ReasonInvalidInput)
	}
	pred, ok := byRole[facts.Role]
	if !ok {
		return Deny(ReasonUnauthorized)
	}
	if !pred(facts) {
		return Deny(ReasonUnauthorized)
	}
	return Allow()
}
