// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/bughive/bughive/internal/domain/models"
)

// Fixtures provides helper methods for creating test data. Documents
// are inserted directly so fixture setup does not depend on the store
// code under test.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a user with the given username and email and a
// bcrypt hash of "password123".
func (f *Fixtures) CreateUser(ctx context.Context, username, email string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("bcrypt hash: %v", err)
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		UsernameCI:   text.Fold(username),
		Email:        email,
		EmailCI:      text.Fold(email),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateWorkspace creates a workspace with the given name.
func (f *Fixtures) CreateWorkspace(ctx context.Context, name string) models.Workspace {
	f.t.Helper()

	now := time.Now().UTC()
	ws := models.Workspace{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("workspaces").InsertOne(ctx, ws); err != nil {
		f.t.Fatalf("failed to create test workspace: %v", err)
	}
	return ws
}

// AddMember enrolls a user in a workspace with the given role.
func (f *Fixtures) AddMember(ctx context.Context, workspaceID, userID primitive.ObjectID, role models.Role) models.WorkspaceMember {
	f.t.Helper()

	m := models.WorkspaceMember{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := f.db.Collection("workspace_members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// CreateProject creates a project inside a workspace.
func (f *Fixtures) CreateProject(ctx context.Context, workspaceID primitive.ObjectID, name string) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Project{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspaceID,
		Name:        name,
		NameCI:      text.Fold(name),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// AddProjectMember assigns a workspace member to a project.
func (f *Fixtures) AddProjectMember(ctx context.Context, workspaceID, projectID, memberID primitive.ObjectID) models.ProjectMember {
	f.t.Helper()

	pm := models.ProjectMember{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspaceID,
		ProjectID:   projectID,
		MemberID:    memberID,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := f.db.Collection("project_members").InsertOne(ctx, pm); err != nil {
		f.t.Fatalf("failed to create test project assignment: %v", err)
	}
	return pm
}

// CreateTicket creates an open BUG/MEDIUM ticket submitted by the given
// member, optionally assigning developers.
func (f *Fixtures) CreateTicket(ctx context.Context, workspaceID, projectID, submitterID primitive.ObjectID, title string, developerIDs ...primitive.ObjectID) models.Ticket {
	f.t.Helper()

	now := time.Now().UTC()
	tk := models.Ticket{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspaceID,
		ProjectID:   projectID,
		Title:       title,
		TitleCI:     text.Fold(title),
		Priority:    models.PriorityMedium,
		Type:        models.TypeBug,
		Status:      models.StatusOpen,
		SubmitterID: submitterID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("tickets").InsertOne(ctx, tk); err != nil {
		f.t.Fatalf("failed to create test ticket: %v", err)
	}

	for _, devID := range developerIDs {
		td := models.TicketDeveloper{
			WorkspaceID: workspaceID,
			ProjectID:   projectID,
			TicketID:    tk.ID,
			MemberID:    devID,
			CreatedAt:   now,
		}
		if _, err := f.db.Collection("ticket_developers").InsertOne(ctx, td); err != nil {
			f.t.Fatalf("failed to assign test developer: %v", err)
		}
	}

	return tk
}

// CreateComment adds a comment to a ticket.
func (f *Fixtures) CreateComment(ctx context.Context, workspaceID, ticketID, authorID primitive.ObjectID, body string) models.Comment {
	f.t.Helper()

	c := models.Comment{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspaceID,
		TicketID:    ticketID,
		AuthorID:    authorID,
		Body:        body,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := f.db.Collection("comments").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test comment: %v", err)
	}
	return c
}
