package authz

import (
	"testing"

	"github.com/bughive/bughive/internal/domain/models"
)

func member(role models.Role) Facts {
	return Facts{IsMember: true, Role: role}
}

func TestAuthorize_NonMemberAlwaysDenied(t *testing.T) {
	actions := []Action{
		ActionViewWorkspace, ActionRenameWorkspace, ActionDeleteWorkspace,
		ActionManageMembers, ActionChangeMemberRole, ActionCreateProject,
		ActionViewProject, ActionDeleteProject, ActionManageProjectMembers,
		ActionCreateTicket, ActionUpdateTicket, ActionUpdateTicketStatus,
		ActionDeleteTicket, ActionViewTicket, ActionCreateComment,
	}
	for _, a := range actions {
		// Even with every other fact in the principal's favor the
		// workspace-membership gate short-circuits all rules.
		d := Authorize(a, Facts{IsMember: false, Role: models.RoleAdmin, OnProject: true, OnTicket: true, Submitter: true})
		if d.Allowed {
			t.Errorf("%s: expected deny for non-member", a)
		}
		if d.Reason != ReasonUnauthorized {
			t.Errorf("%s: reason = %q, want %q", a, d.Reason, ReasonUnauthorized)
		}
	}
}

func TestAuthorize_DeveloperNeverEscalates(t *testing.T) {
	adminOnly := []Action{
		ActionRenameWorkspace, ActionDeleteWorkspace, ActionManageMembers,
		ActionChangeMemberRole,
	}
	managerGated := []Action{
		ActionCreateProject, ActionDeleteProject, ActionManageProjectMembers,
		ActionCreateTicket, ActionUpdateTicket, ActionDeleteTicket,
	}
	// All facts in the developer's favor: assigned, on project, submitter.
	f := Facts{IsMember: true, Role: models.RoleDeveloper, OnProject: true, OnTicket: true, Submitter: true}
	for _, a := range append(adminOnly, managerGated...) {
		d := Authorize(a, f)
		if d.Allowed {
			t.Errorf("%s: developer must be denied", a)
		}
		if d.Reason != ReasonUnauthorized {
			t.Errorf("%s: reason = %q, want %q", a, d.Reason, ReasonUnauthorized)
		}
	}
}

func TestAuthorize_AdminBypassesProjectMembership(t *testing.T) {
	// An admin who is not on the project can still delete it.
	for _, a := range []Action{
		ActionDeleteProject, ActionManageProjectMembers, ActionCreateTicket,
		ActionUpdateTicket, ActionDeleteTicket, ActionViewProject,
		ActionViewTicket, ActionCreateComment,
	} {
		d := Authorize(a, member(models.RoleAdmin))
		if !d.Allowed {
			t.Errorf("%s: admin expected allow, got deny(%s)", a, d.Reason)
		}
	}
}

func TestAuthorize_ManagerProjectMembershipGate(t *testing.T) {
	gated := []Action{
		ActionDeleteProject, ActionManageProjectMembers, ActionCreateTicket,
		ActionUpdateTicket, ActionDeleteTicket, ActionViewProject,
		ActionViewTicket, ActionCreateComment, ActionUpdateTicketStatus,
	}
	for _, a := range gated {
		off := member(models.RoleManager)
		if d := Authorize(a, off); d.Allowed {
			t.Errorf("%s: manager off project expected deny", a)
		}

		on := member(models.RoleManager)
		on.OnProject = true
		if d := Authorize(a, on); !d.Allowed {
			t.Errorf("%s: manager on project expected allow, got deny(%s)", a, d.Reason)
		}
	}
}

func TestAuthorize_ManagerCreateProjectUnconditional(t *testing.T) {
	if d := Authorize(ActionCreateProject, member(models.RoleManager)); !d.Allowed {
		t.Errorf("manager create project expected allow, got deny(%s)", d.Reason)
	}
}

func TestAuthorize_DeveloperStatusOnlyPath(t *testing.T) {
	// Assigned developer on the project: may change status only.
	f := member(models.RoleDeveloper)
	f.OnProject = true
	f.OnTicket = true

	if d := Authorize(ActionUpdateTicketStatus, f); !d.Allowed {
		t.Errorf("assigned developer status update expected allow, got deny(%s)", d.Reason)
	}
	if d := Authorize(ActionUpdateTicket, f); d.Allowed {
		t.Error("assigned developer full ticket update must be denied")
	}

	// Project member but not assigned to the ticket: denied.
	f.OnTicket = false
	if d := Authorize(ActionUpdateTicketStatus, f); d.Allowed {
		t.Error("unassigned developer status update must be denied")
	}

	// Assigned but somehow not a project member: denied (AND semantics).
	f.OnProject = false
	f.OnTicket = true
	if d := Authorize(ActionUpdateTicketStatus, f); d.Allowed {
		t.Error("developer off project must be denied status update")
	}
}

func TestAuthorize_DeveloperTicketVisibility(t *testing.T) {
	// Visible when assigned.
	f := member(models.RoleDeveloper)
	f.OnTicket = true
	if d := Authorize(ActionViewTicket, f); !d.Allowed {
		t.Errorf("assigned developer view ticket expected allow, got deny(%s)", d.Reason)
	}

	// Visible when submitter, even if not assigned.
	f = member(models.RoleDeveloper)
	f.Submitter = true
	if d := Authorize(ActionViewTicket, f); !d.Allowed {
		t.Errorf("submitter view ticket expected allow, got deny(%s)", d.Reason)
	}

	// Neither assigned nor submitter: denied.
	f = member(models.RoleDeveloper)
	f.OnProject = true
	if d := Authorize(ActionViewTicket, f); d.Allowed {
		t.Error("developer with no ticket link must be denied view")
	}
}

func TestAuthorize_DeveloperCommentRequiresBoth(t *testing.T) {
	// Project member but not a ticket developer: denied.
	f := member(models.RoleDeveloper)
	f.OnProject = true
	d := Authorize(ActionCreateComment, f)
	if d.Allowed {
		t.Error("developer project member not on ticket must be denied comment")
	}
	if d.Reason != ReasonUnauthorized {
		t.Errorf("reason = %q, want %q", d.Reason, ReasonUnauthorized)
	}

	f.OnTicket = true
	if d := Authorize(ActionCreateComment, f); !d.Allowed {
		t.Errorf("developer on project and ticket expected allow, got deny(%s)", d.Reason)
	}
}

func TestAuthorize_MalformedInput(t *testing.T) {
	bad := Facts{IsMember: true, Role: models.Role("OWNER")}
	d := Authorize(ActionViewWorkspace, bad)
	if d.Allowed || d.Reason != ReasonInvalidInput {
		t.Errorf("unknown role: got (%v, %q), want deny INVALID_INPUT", d.Allowed, d.Reason)
	}

	d = Authorize(Action("reboot_server"), member(models.RoleAdmin))
	if d.Allowed || d.Reason != ReasonInvalidInput {
		t.Errorf("unknown action: got (%v, %q), want deny INVALID_INPUT", d.Allowed, d.Reason)
	}
}

func TestAuthorize_ScenarioMixedWorkspace(t *testing.T) {
	// Workspace with admin a, manager m (not on project P), developer d
	// (assigned to ticket T in P).
	a := member(models.RoleAdmin)
	m := member(models.RoleManager)
	dev := member(models.RoleDeveloper)
	dev.OnProject = true
	dev.OnTicket = true

	if got := Authorize(ActionCreateTicket, m); got.Allowed {
		t.Error("manager not on project must be denied ticket creation")
	}
	if got := Authorize(ActionUpdateTicketStatus, dev); !got.Allowed {
		t.Errorf("assigned developer must be allowed to close ticket, got deny(%s)", got.Reason)
	}
	if got := Authorize(ActionUpdateTicket, dev); got.Allowed {
		t.Error("developer must be denied full ticket edits")
	}
	if got := Authorize(ActionDeleteProject, a); !got.Allowed {
		t.Errorf("admin delete project must be allowed, got deny(%s)", got.Reason)
	}
}
