package gates_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bughive/bughive/internal/app/system/auth"
	"github.com/bughive/bughive/internal/app/system/gates"
)

func TestRequireAuth_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/workspaces", nil)
	rec := httptest.NewRecorder()

	res := gates.RequireAuth(rec, req)

	if res.OK {
		t.Error("expected OK=false without a user in context")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireAuth_WithUser(t *testing.T) {
	userID := primitive.NewObjectID()
	req := httptest.NewRequest("GET", "/workspaces", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:       userID,
		Username: "grace_hopper",
		Email:    "grace@example.com",
	})
	rec := httptest.NewRecorder()

	res := gates.RequireAuth(rec, req)

	if !res.OK {
		t.Fatal("expected OK=true with a user in context")
	}
	if res.UserID != userID {
		t.Errorf("expected user id %s, got %s", userID.Hex(), res.UserID.Hex())
	}
	if res.Username != "grace_hopper" {
		t.Errorf("expected username 'grace_hopper', got %q", res.Username)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("gate must not write on success, got status %d", rec.Code)
	}
}
