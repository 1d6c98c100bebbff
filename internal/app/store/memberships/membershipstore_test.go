package membershipstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	membershipstore "github.com/bughive/bughive/internal/app/store/memberships"
	"github.com/bughive/bughive/internal/domain/models"
	"github.com/bughive/bughive/internal/testutil"
)

func TestAdd_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := membershipstore.New(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	workspaceID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	if _, err := store.Add(ctx, workspaceID, userID, models.RoleDeveloper); err != nil {
		t.Fatalf("add member: %v", err)
	}

	_, err := store.Add(ctx, workspaceID, userID, models.RoleManager)
	if !errors.Is(err, membershipstore.ErrDuplicateMembership) {
		t.Errorf("expected ErrDuplicateMembership, got %v", err)
	}
}

func TestGetByUserAndWorkspace_Absent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := membershipstore.New(db)

	m, err := store.GetByUserAndWorkspace(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != nil {
		t.Error("expected nil membership when absent")
	}
}

func TestUpdateRoleAndRemove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := membershipstore.New(db)
	workspaceID := primitive.NewObjectID()

	m, err := store.Add(ctx, workspaceID, primitive.NewObjectID(), models.RoleDeveloper)
	if err != nil {
		t.Fatalf("add member: %v", err)
	}

	matched, err := store.UpdateRole(ctx, workspaceID, m.ID, models.RoleManager)
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if matched != 1 {
		t.Errorf("expected matched=1, got %d", matched)
	}

	got, err := store.GetByID(ctx, workspaceID, m.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Role != models.RoleManager {
		t.Errorf("expected role MANAGER, got %s", got.Role)
	}

	deleted, err := store.Remove(ctx, workspaceID, m.ID)
	if err != nil {
		t.Fatalf("remove member: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected deleted=1, got %d", deleted)
	}

	// Removing again is a no-op, not an error.
	deleted, err = store.Remove(ctx, workspaceID, m.ID)
	if err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected deleted=0 on repeat, got %d", deleted)
	}
}

func TestListWorkspaceIDsByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := membershipstore.New(db)
	userID := primitive.NewObjectID()

	wsA := primitive.NewObjectID()
	wsB := primitive.NewObjectID()
	if _, err := store.Add(ctx, wsA, userID, models.RoleAdmin); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if _, err := store.Add(ctx, wsB, userID, models.RoleDeveloper); err != nil {
		t.Fatalf("add member: %v", err)
	}
	// Another user's membership must not leak in.
	if _, err := store.Add(ctx, wsA, primitive.NewObjectID(), models.RoleManager); err != nil {
		t.Fatalf("add member: %v", err)
	}

	ids, err := store.ListWorkspaceIDsByUser(ctx, userID)
	if err != nil {
		t.Fatalf("list workspace ids: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 workspace ids, got %d", len(ids))
	}
	seen := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen[wsA] || !seen[wsB] {
		t.Error("expected both workspaces in the result")
	}
}
