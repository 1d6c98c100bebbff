// internal/app/features/accounts/login.go
package accounts

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bughive/bughive/internal/app/system/auth"
	"github.com/bughive/bughive/internal/app/system/reqjson"
	"github.com/bughive/bughive/internal/app/system/respond"
	"github.com/bughive/bughive/internal/app/system/timeouts"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin authenticates a username/password pair and opens a
// session. Signing in while already signed in is a conflict; the
// client must sign out first.
//
// POST /auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		respond.SessionConflict(w, "already signed in")
		return
	}

	var req loginRequest
	if !reqjson.Decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		respond.InvalidInput(w, "username and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err == mongo.ErrNoDocuments {
		// Same response as a wrong password so usernames cannot be
		// probed.
		respond.Error(w, http.StatusUnauthorized, respond.CodeUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		respond.Internal(w, h.Log, "look up user", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		respond.Error(w, http.StatusUnauthorized, respond.CodeUnauthorized, "invalid credentials")
		return
	}

	sess, err := h.Sessions.Create(ctx, u.ID, h.SessionTTL)
	if err != nil {
		respond.Internal(w, h.Log, "create session", err)
		return
	}
	if err := h.SessionMgr.SignIn(w, r, sess.Token); err != nil {
		respond.Internal(w, h.Log, "write session cookie", err)
		return
	}

	h.Log.Info("user signed in", zap.String("user_id", u.ID.Hex()))

	respond.JSON(w, http.StatusOK, userView{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Email:    u.Email,
	})
}
