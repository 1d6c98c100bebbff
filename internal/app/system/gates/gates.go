// Package gates provides handler-level authorization checks.
//
// BugHive checks access in two tiers: route middleware
// (auth.RequireSignedIn) rejects anonymous requests up front, and the
// access checker (internal/app/policy/access) answers resource-level
// questions that need membership lookups. Gates sit between the two:
// a handler calls gates.RequireAuth to pull the authenticated user out
// of context, writing the 401 itself when the middleware was bypassed
// (direct handler tests, mixed-access route groups).
package gates

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bughive/bughive/internal/app/system/auth"
	"github.com/bughive/bughive/internal/app/system/respond"
)

// Result carries the authenticated principal out of a gate check.
type Result struct {
	UserID   primitive.ObjectID
	Username string
	Email    string
	OK       bool
}

// RequireAuth ensures a user is authenticated. If not, it writes a 401
// and returns OK=false; the handler must return immediately.
func RequireAuth(w http.ResponseWriter, r *http.Request) Result {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.NotSignedIn(w)
		return Result{OK: false}
	}
	return Result{UserID: u.ID, Username: u.Username, Email: u.Email, OK: true}
}
