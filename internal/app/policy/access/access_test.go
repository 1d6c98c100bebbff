package access_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bughive/bughive/internal/app/policy/access"
	membershipstore "github.com/bughive/bughive/internal/app/store/memberships"
	"github.com/bughive/bughive/internal/app/store/projectmembers"
	ticketstore "github.com/bughive/bughive/internal/app/store/tickets"
	"github.com/bughive/bughive/internal/domain/authz"
	"github.com/bughive/bughive/internal/domain/models"
	"github.com/bughive/bughive/internal/testutil"
)

func TestForWorkspace_NonMemberDenied(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	checker := access.New(membershipstore.New(db), projectmembers.New(db), ticketstore.New(db))

	decision, member, err := checker.ForWorkspace(ctx, primitive.NewObjectID(), primitive.NewObjectID(), authz.ActionViewWorkspace)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Allowed {
		t.Error("expected non-member to be denied")
	}
	if decision.Reason != authz.ReasonUnauthorized {
		t.Errorf("expected reason UNAUTHORIZED, got %s", decision.Reason)
	}
	if member != nil {
		t.Error("expected nil member for non-member")
	}
}

func TestForProject_DeveloperNeedsAssignment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	user := f.CreateUser(ctx, "dev1", "dev1@test.com")
	ws := f.CreateWorkspace(ctx, "Acme")
	member := f.AddMember(ctx, ws.ID, user.ID, models.RoleDeveloper)
	project := f.CreateProject(ctx, ws.ID, "Backend")

	checker := access.New(membershipstore.New(db), projectmembers.New(db), ticketstore.New(db))

	decision, _, err := checker.ForProject(ctx, user.ID, ws.ID, project.ID, authz.ActionViewProject)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Allowed {
		t.Error("expected unassigned developer to be denied")
	}

	f.AddProjectMember(ctx, ws.ID, project.ID, member.ID)

	decision, got, err := checker.ForProject(ctx, user.ID, ws.ID, project.ID, authz.ActionViewProject)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Allowed {
		t.Errorf("expected assigned developer to be allowed, got reason %s", decision.Reason)
	}
	if got == nil || got.ID != member.ID {
		t.Error("expected the membership row to be returned")
	}
}

func TestForProject_AdminBypassesAssignment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	user := f.CreateUser(ctx, "admin1", "admin1@test.com")
	ws := f.CreateWorkspace(ctx, "Acme")
	f.AddMember(ctx, ws.ID, user.ID, models.RoleAdmin)
	project := f.CreateProject(ctx, ws.ID, "Backend")

	checker := access.New(membershipstore.New(db), projectmembers.New(db), ticketstore.New(db))

	decision, _, err := checker.ForProject(ctx, user.ID, ws.ID, project.ID, authz.ActionDeleteProject)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Allowed {
		t.Errorf("expected admin to be allowed without assignment, got reason %s", decision.Reason)
	}
}

func TestForTicket_DeveloperStatusUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	ws := f.CreateWorkspace(ctx, "Acme")
	project := f.CreateProject(ctx, ws.ID, "Backend")

	assigned := f.CreateUser(ctx, "assigned", "assigned@test.com")
	assignedMember := f.AddMember(ctx, ws.ID, assigned.ID, models.RoleDeveloper)
	f.AddProjectMember(ctx, ws.ID, project.ID, assignedMember.ID)

	bystander := f.CreateUser(ctx, "bystander", "bystander@test.com")
	bystanderMember := f.AddMember(ctx, ws.ID, bystander.ID, models.RoleDeveloper)
	f.AddProjectMember(ctx, ws.ID, project.ID, bystanderMember.ID)

	ticket := f.CreateTicket(ctx, ws.ID, project.ID, assignedMember.ID, "Crash on save", assignedMember.ID)

	checker := access.New(membershipstore.New(db), projectmembers.New(db), ticketstore.New(db))

	decision, _, err := checker.ForTicket(ctx, assigned.ID, &ticket, authz.ActionUpdateTicketStatus)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Allowed {
		t.Errorf("expected assigned developer to update status, got reason %s", decision.Reason)
	}

	decision, _, err = checker.ForTicket(ctx, bystander.ID, &ticket, authz.ActionUpdateTicketStatus)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Allowed {
		t.Error("expected unassigned developer to be denied status update")
	}
}

func TestForTicket_SubmitterCanView(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	ws := f.CreateWorkspace(ctx, "Acme")
	project := f.CreateProject(ctx, ws.ID, "Backend")

	submitter := f.CreateUser(ctx, "submitter", "submitter@test.com")
	submitterMember := f.AddMember(ctx, ws.ID, submitter.ID, models.RoleDeveloper)
	f.AddProjectMember(ctx, ws.ID, project.ID, submitterMember.ID)

	// Submitted by this developer but assigned to nobody.
	ticket := f.CreateTicket(ctx, ws.ID, project.ID, submitterMember.ID, "Wrong totals")

	checker := access.New(membershipstore.New(db), projectmembers.New(db), ticketstore.New(db))

	decision, _, err := checker.ForTicket(ctx, submitter.ID, &ticket, authz.ActionViewTicket)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Allowed {
		t.Errorf("expected submitter to view own ticket, got reason %s", decision.Reason)
	}

	decision, _, err = checker.ForTicket(ctx, submitter.ID, &ticket, authz.ActionUpdateTicketStatus)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Allowed {
		t.Error("submitting a ticket must not grant status updates")
	}
}
