package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/bughive/bughive/internal/app/system/auth"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

type fakeRegistry struct {
	tokens map[string]primitive.ObjectID
}

func (f *fakeRegistry) Lookup(_ context.Context, token string) (primitive.ObjectID, bool, error) {
	id, ok := f.tokens[token]
	return id, ok, nil
}

type fakeFetcher struct {
	users map[primitive.ObjectID]*auth.SessionUser
}

func (f *fakeFetcher) FetchSessionUser(_ context.Context, userID primitive.ObjectID) (*auth.SessionUser, error) {
	return f.users[userID], nil
}

func TestRequireSignedIn_NoUser_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/workspaces", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireSignedIn_WithUser_Proceeds(t *testing.T) {
	sm := newTestSessionManager(t)

	called := false
	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/workspaces", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:       primitive.NewObjectID(),
		Username: "grace_hopper",
	})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	user, ok := auth.CurrentUser(req)
	if ok {
		t.Error("expected ok to be false when no user in context")
	}
	if user != nil {
		t.Error("expected user to be nil when no user in context")
	}
}

func TestCurrentUser_WithUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{Username: "ada_lovelace"})

	user, ok := auth.CurrentUser(req)
	if !ok {
		t.Fatal("expected ok to be true when user in context")
	}
	if user.Username != "ada_lovelace" {
		t.Errorf("expected username 'ada_lovelace', got %q", user.Username)
	}
}

func TestLoadSessionUser_ResolvesTokenThroughRegistry(t *testing.T) {
	sm := newTestSessionManager(t)

	userID := primitive.NewObjectID()
	sm.SetRegistry(&fakeRegistry{tokens: map[string]primitive.ObjectID{"tok-1": userID}})
	sm.SetUserFetcher(&fakeFetcher{users: map[primitive.ObjectID]*auth.SessionUser{
		userID: {ID: userID, Username: "grace_hopper", Email: "grace@example.com"},
	}})

	// Sign in to capture the cookie.
	signinRec := httptest.NewRecorder()
	signinReq := httptest.NewRequest("POST", "/auth/login", nil)
	if err := sm.SignIn(signinRec, signinReq, "tok-1"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := signinRec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie to be set")
	}

	var got *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/workspaces", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected user in context after LoadSessionUser")
	}
	if got.ID != userID {
		t.Errorf("expected user id %s, got %s", userID.Hex(), got.ID.Hex())
	}
}

func TestLoadSessionUser_RevokedTokenIsSignedOut(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetRegistry(&fakeRegistry{tokens: map[string]primitive.ObjectID{}})
	sm.SetUserFetcher(&fakeFetcher{users: map[primitive.ObjectID]*auth.SessionUser{}})

	signinRec := httptest.NewRecorder()
	signinReq := httptest.NewRequest("POST", "/auth/login", nil)
	if err := sm.SignIn(signinRec, signinReq, "revoked-tok"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.CurrentUser(r); ok {
			t.Error("revoked token must not resolve to a user")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/workspaces", nil)
	for _, c := range signinRec.Result().Cookies() {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestSignOut_ReturnsTokenAndClearsCookie(t *testing.T) {
	sm := newTestSessionManager(t)

	signinRec := httptest.NewRecorder()
	signinReq := httptest.NewRequest("POST", "/auth/login", nil)
	if err := sm.SignIn(signinRec, signinReq, "tok-2"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	req := httptest.NewRequest("POST", "/auth/logout", nil)
	for _, c := range signinRec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()

	token, err := sm.SignOut(rec, req)
	if err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	if token != "tok-2" {
		t.Errorf("expected token 'tok-2', got %q", token)
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected session cookie to be cleared")
	}
}
