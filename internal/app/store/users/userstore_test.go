package userstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	userstore "github.com/bughive/bughive/internal/app/store/users"
	"github.com/bughive/bughive/internal/domain/models"
	"github.com/bughive/bughive/internal/testutil"
)

func TestCreate_SetsDerivedFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	created, err := store.Create(ctx, models.User{
		Username:     "Grace_Hopper",
		Email:        "Grace@Example.com",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if created.ID.IsZero() {
		t.Error("expected a generated id")
	}
	if created.UsernameCI != "grace_hopper" {
		t.Errorf("expected folded username_ci, got %q", created.UsernameCI)
	}
	if created.EmailCI != "grace@example.com" {
		t.Errorf("expected folded email_ci, got %q", created.EmailCI)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestCreate_DuplicateUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	if _, err := store.Create(ctx, models.User{Username: "alice", Email: "alice@test.com", PasswordHash: "h"}); err != nil {
		t.Fatalf("create first user: %v", err)
	}

	// Same username in different case must still collide.
	_, err := store.Create(ctx, models.User{Username: "ALICE", Email: "other@test.com", PasswordHash: "h"})
	if !errors.Is(err, userstore.ErrDuplicateUser) {
		t.Errorf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestGetByUsername_CaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	created, err := store.Create(ctx, models.User{Username: "BobSmith", Email: "bob@test.com", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	found, err := store.GetByUsername(ctx, "bobsmith")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("expected user %s, got %s", created.ID.Hex(), found.ID.Hex())
	}
	// Original casing is preserved on the stored document.
	if found.Username != "BobSmith" {
		t.Errorf("expected stored username 'BobSmith', got %q", found.Username)
	}
}

func TestListByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	a, _ := store.Create(ctx, models.User{Username: "usera", Email: "a@test.com", PasswordHash: "h"})
	b, _ := store.Create(ctx, models.User{Username: "userb", Email: "b@test.com", PasswordHash: "h"})

	got, err := store.ListByIDs(ctx, []primitive.ObjectID{a.ID, b.ID, primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("list by ids: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 users, got %d", len(got))
	}
	if got[a.ID].Username != "usera" || got[b.ID].Username != "userb" {
		t.Error("returned map does not key users by id")
	}
}
