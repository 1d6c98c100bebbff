// internal/app/features/accounts/handler.go
package accounts

import (
	"time"

	"go.uber.org/zap"

	"github.com/bughive/bughive/internal/app/store/sessions"
	userstore "github.com/bughive/bughive/internal/app/store/users"
	"github.com/bughive/bughive/internal/app/system/auth"
)

// Handler serves registration, password login/logout, and the current
// principal endpoint.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Users      *userstore.Store
	Sessions   *sessions.Store
	SessionTTL time.Duration
}

func NewHandler(users *userstore.Store, sessStore *sessions.Store, sessionMgr *auth.SessionManager, sessionTTL time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Users:      users,
		Sessions:   sessStore,
		SessionTTL: sessionTTL,
	}
}

// userView is the public JSON shape of a user.
type userView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
