// Package auth manages browser sessions. The cookie carries only an
// opaque session token; the token is resolved against the server-side
// session registry on every request and the user record is refetched,
// so revoking a session or changing a role takes effect on the next
// request, not at next login.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/bughive/bughive/internal/app/system/respond"
)

const tokenKey = "session_token"

// SessionUser is the authenticated principal injected into r.Context().
type SessionUser struct {
	ID       primitive.ObjectID
	Username string
	Email    string
}

// SessionRegistry resolves an opaque session token to the user that
// owns it. A token that has been revoked resolves to ok=false.
type SessionRegistry interface {
	Lookup(ctx context.Context, token string) (userID primitive.ObjectID, ok bool, err error)
}

// UserFetcher loads the current user record for a session. Returning
// (nil, nil) means the user no longer exists.
type UserFetcher interface {
	FetchSessionUser(ctx context.Context, userID primitive.ObjectID) (*SessionUser, error)
}

// SessionManager owns the cookie store and the hooks used to resolve
// sessions. The registry and fetcher are wired in during startup, after
// the database connection exists.
type SessionManager struct {
	store    *sessions.CookieStore
	name     string
	logger   *zap.Logger
	registry SessionRegistry
	fetcher  UserFetcher
}

// NewSessionManager builds a cookie-backed session manager. secure
// controls the Secure flag and SameSite mode; local dev over plain
// http needs secure=false.
func NewSessionManager(sessionKey, name, domain string, ttl time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide 32+ random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, logger: logger}, nil
}

// SetRegistry wires the server-side token registry.
func (sm *SessionManager) SetRegistry(r SessionRegistry) { sm.registry = r }

// SetUserFetcher wires the per-request user loader.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) { sm.fetcher = f }

// SignIn writes the session token into the cookie.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, token string) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[tokenKey] = token
	return sess.Save(r, w)
}

// SignOut clears the cookie and returns the token it carried so the
// caller can revoke it in the registry. Returns "" when there was no
// session.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) (string, error) {
	sess, _ := sm.store.Get(r, sm.name)
	token, _ := sess.Values[tokenKey].(string)
	sess.Options.MaxAge = -1
	delete(sess.Values, tokenKey)
	return token, sess.Save(r, w)
}

// Token returns the session token from the cookie, or "". A cookie
// that no longer decodes (key rotation, corruption) reads as signed
// out rather than an error.
func (sm *SessionManager) Token(r *http.Request) string {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			sm.logger.Debug("undecodable session cookie; treating as signed out")
			return ""
		}
		return ""
	}
	token, _ := sess.Values[tokenKey].(string)
	return token
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user loaded by LoadSessionUser, if any.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// LoadSessionUser resolves the cookie's token against the registry,
// refetches the user, and injects it into the request context. A
// missing, revoked, or orphaned token is treated as signed out; the
// request still proceeds so public routes keep working.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sm.Token(r)
		if token == "" || sm.registry == nil || sm.fetcher == nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, ok, err := sm.registry.Lookup(r.Context(), token)
		if err != nil {
			sm.logger.Error("session lookup failed", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		u, err := sm.fetcher.FetchSessionUser(r.Context(), userID)
		if err != nil {
			sm.logger.Error("session user fetch failed", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if u == nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, WithTestUser(r, u))
	})
}

// RequireSignedIn rejects requests without a user in context.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			respond.NotSignedIn(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithTestUser returns a copy of r with u injected into context. Used
// by LoadSessionUser and by handler tests that bypass the cookie layer.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}
