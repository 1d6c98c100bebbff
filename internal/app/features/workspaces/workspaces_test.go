package workspaces_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/bughive/bughive/internal/app/features/workspaces"
	"github.com/bughive/bughive/internal/app/policy/access"
	commentstore "github.com/bughive/bughive/internal/app/store/comments"
	membershipstore "github.com/bughive/bughive/internal/app/store/memberships"
	"github.com/bughive/bughive/internal/app/store/projectmembers"
	projectstore "github.com/bughive/bughive/internal/app/store/projects"
	sessionstore "github.com/bughive/bughive/internal/app/store/sessions"
	ticketstore "github.com/bughive/bughive/internal/app/store/tickets"
	userstore "github.com/bughive/bughive/internal/app/store/users"
	workspacestore "github.com/bughive/bughive/internal/app/store/workspaces"
	"github.com/bughive/bughive/internal/domain/models"
	"github.com/bughive/bughive/internal/testutil"
)

func newHandler(t *testing.T, db *mongo.Database) *workspaces.Handler {
	t.Helper()

	members := membershipstore.New(db)
	projMembers := projectmembers.New(db)
	tickets := ticketstore.New(db)

	return &workspaces.Handler{
		Log:         zap.NewNop(),
		Client:      db.Client(),
		Access:      access.New(members, projMembers, tickets),
		Workspaces:  workspacestore.New(db),
		Members:     members,
		Users:       userstore.New(db),
		Projects:    projectstore.New(db),
		ProjMembers: projMembers,
		Tickets:     tickets,
		Comments:    commentstore.New(db),
		Sessions:    sessionstore.New(db),
	}
}

func TestCreateWorkspace_CreatorBecomesAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	user := f.CreateUser(ctx, "founder1", "founder@test.com")
	h := newHandler(t, db)

	req := httptest.NewRequest("POST", "/workspaces", strings.NewReader(`{"name":"Acme Corp"}`))
	req = testutil.WithUser(req, testutil.SessionUserFor(user))
	rec := httptest.NewRecorder()

	h.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	// The creator must be enrolled as ADMIN in the same operation.
	var ws models.Workspace
	if err := db.Collection("workspaces").FindOne(ctx, map[string]string{"name": "Acme Corp"}).Decode(&ws); err != nil {
		t.Fatalf("workspace not persisted: %v", err)
	}
	m, err := h.Members.GetByUserAndWorkspace(ctx, user.ID, ws.ID)
	if err != nil {
		t.Fatalf("lookup membership: %v", err)
	}
	if m == nil {
		t.Fatal("expected creator membership to exist")
	}
	if m.Role != models.RoleAdmin {
		t.Errorf("expected creator role ADMIN, got %s", m.Role)
	}
}

func TestCreateWorkspace_EmptyName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	user := f.CreateUser(ctx, "founder2", "founder2@test.com")
	h := newHandler(t, db)

	req := httptest.NewRequest("POST", "/workspaces", strings.NewReader(`{"name":"   "}`))
	req = testutil.WithUser(req, testutil.SessionUserFor(user))
	rec := httptest.NewRecorder()

	h.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank name, got %d", rec.Code)
	}
}

func TestRenameWorkspace_DeveloperDenied(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	user := f.CreateUser(ctx, "dev1", "dev1@test.com")
	ws := f.CreateWorkspace(ctx, "Acme")
	f.AddMember(ctx, ws.ID, user.ID, models.RoleDeveloper)
	h := newHandler(t, db)

	req := httptest.NewRequest("PUT", "/workspaces/"+ws.ID.Hex(), strings.NewReader(`{"name":"Evil Corp"}`))
	req = testutil.WithUser(req, testutil.SessionUserFor(user))
	req = testutil.WithChiURLParam(req, "workspaceID", ws.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleRename(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for developer rename, got %d", rec.Code)
	}
}

func TestAddMember_ByUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	admin := f.CreateUser(ctx, "admin1", "admin1@test.com")
	target := f.CreateUser(ctx, "newhire", "newhire@test.com")
	ws := f.CreateWorkspace(ctx, "Acme")
	f.AddMember(ctx, ws.ID, admin.ID, models.RoleAdmin)

	h := newHandler(t, db)
	if err := h.Members.EnsureIndexes(ctx); err != nil {
		t.Fatalf("membership indexes: %v", err)
	}

	add := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/workspaces/"+ws.ID.Hex()+"/members",
			strings.NewReader(`{"username":"NewHire","role":"DEVELOPER"}`))
		req = testutil.WithUser(req, testutil.SessionUserFor(admin))
		req = testutil.WithChiURLParam(req, "workspaceID", ws.ID.Hex())
		rec := httptest.NewRecorder()
		h.HandleAddMember(rec, req)
		return rec
	}

	if rec := add(); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	m, err := h.Members.GetByUserAndWorkspace(ctx, target.ID, ws.ID)
	if err != nil {
		t.Fatalf("lookup membership: %v", err)
	}
	if m == nil || m.Role != models.RoleDeveloper {
		t.Fatal("expected target enrolled as DEVELOPER")
	}

	if rec := add(); rec.Code != http.StatusConflict {
		t.Errorf("expected 409 on duplicate enrollment, got %d", rec.Code)
	}
}

func TestAddMember_UnknownUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	admin := f.CreateUser(ctx, "admin2", "admin2@test.com")
	ws := f.CreateWorkspace(ctx, "Acme")
	f.AddMember(ctx, ws.ID, admin.ID, models.RoleAdmin)
	h := newHandler(t, db)

	req := httptest.NewRequest("POST", "/workspaces/"+ws.ID.Hex()+"/members",
		strings.NewReader(`{"username":"ghost","role":"DEVELOPER"}`))
	req = testutil.WithUser(req, testutil.SessionUserFor(admin))
	req = testutil.WithChiURLParam(req, "workspaceID", ws.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleAddMember(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown username, got %d", rec.Code)
	}
}

func TestRemoveMember_CascadesAssignments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	admin := f.CreateUser(ctx, "admin3", "admin3@test.com")
	dev := f.CreateUser(ctx, "leaver", "leaver@test.com")
	ws := f.CreateWorkspace(ctx, "Acme")
	f.AddMember(ctx, ws.ID, admin.ID, models.RoleAdmin)
	devMember := f.AddMember(ctx, ws.ID, dev.ID, models.RoleDeveloper)

	project := f.CreateProject(ctx, ws.ID, "Backend")
	f.AddProjectMember(ctx, ws.ID, project.ID, devMember.ID)
	ticket := f.CreateTicket(ctx, ws.ID, project.ID, devMember.ID, "Leftover work", devMember.ID)

	h := newHandler(t, db)

	req := httptest.NewRequest("DELETE", "/workspaces/"+ws.ID.Hex()+"/members/"+devMember.ID.Hex(), nil)
	req = testutil.WithUser(req, testutil.SessionUserFor(admin))
	req = testutil.WithChiURLParam(req, "workspaceID", ws.ID.Hex())
	req = testutil.WithChiURLParam(req, "memberID", devMember.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleRemoveMember(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d (%s)", rec.Code, rec.Body.String())
	}

	m, err := h.Members.GetByID(ctx, ws.ID, devMember.ID)
	if err != nil {
		t.Fatalf("lookup membership: %v", err)
	}
	if m != nil {
		t.Error("expected membership to be removed")
	}

	onProject, err := h.ProjMembers.IsMember(ctx, project.ID, devMember.ID)
	if err != nil {
		t.Fatalf("lookup project membership: %v", err)
	}
	if onProject {
		t.Error("expected project assignment to be removed")
	}

	assigned, err := h.Tickets.IsDeveloper(ctx, ticket.ID, devMember.ID)
	if err != nil {
		t.Fatalf("lookup ticket assignment: %v", err)
	}
	if assigned {
		t.Error("expected ticket assignment to be removed")
	}

	// The ticket itself survives; only the assignment is severed.
	got, err := h.Tickets.GetByID(ctx, ws.ID, ticket.ID)
	if err != nil {
		t.Fatalf("lookup ticket: %v", err)
	}
	if got == nil {
		t.Error("expected ticket to survive member removal")
	}
}
