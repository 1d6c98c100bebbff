// internal/testutil/http.go
package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bughive/bughive/internal/app/system/auth"
	"github.com/bughive/bughive/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// SessionUserFor builds a SessionUser from a fixture user.
func SessionUserFor(u models.User) *auth.SessionUser {
	return &auth.SessionUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// RandomSessionUser builds a SessionUser with a fresh ID, for tests
// that do not need a backing user document.
func RandomSessionUser(username string) *auth.SessionUser {
	return &auth.SessionUser{
		ID:       primitive.NewObjectID(),
		Username: username,
		Email:    username + "@test.com",
	}
}

// WithUser adds a signed-in user to the request context, bypassing the
// session middleware.
func WithUser(r *http.Request, u *auth.SessionUser) *http.Request {
	return auth.WithTestUser(r, u)
}

// NewAuthenticatedRequest creates an HTTP request with a user already
// in context.
func NewAuthenticatedRequest(method, target string, u *auth.SessionUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), u)
}
