// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/bughive/bughive/internal/app/store/oauthstate"
	"github.com/bughive/bughive/internal/app/store/sessions"
	userstore "github.com/bughive/bughive/internal/app/store/users"
	"github.com/bughive/bughive/internal/app/system/auth"
	"github.com/bughive/bughive/internal/app/system/respond"
	"github.com/bughive/bughive/internal/app/system/timeouts"
)

// Handler implements Google sign-in for existing accounts. There is no
// sign-up path here: the Google email must match a registered user.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Users      *userstore.Store
	Sessions   *sessions.Store
	StateStore *oauthstate.Store
	SessionTTL time.Duration

	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func NewHandler(
	users *userstore.Store,
	sessStore *sessions.Store,
	stateStore *oauthstate.Store,
	sessionMgr *auth.SessionManager,
	sessionTTL time.Duration,
	clientID, clientSecret, baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:          logger,
		SessionMgr:   sessionMgr,
		Users:        users,
		Sessions:     sessStore,
		StateStore:   stateStore,
		SessionTTL:   sessionTTL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
	}
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

// HandleLogin initiates the OAuth flow by redirecting to Google's
// consent screen.
//
// GET /auth/google
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		respond.Error(w, http.StatusNotImplemented, respond.CodeInvalidInput, "google sign-in is not configured")
		return
	}
	if _, ok := auth.CurrentUser(r); ok {
		respond.SessionConflict(w, "already signed in")
		return
	}

	state, err := generateState()
	if err != nil {
		respond.Internal(w, h.Log, "generate oauth state", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := h.StateStore.Save(ctx, state, expiresAt); err != nil {
		respond.Internal(w, h.Log, "save oauth state", err)
		return
	}

	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// HandleCallback completes the OAuth flow: validates the state nonce,
// exchanges the code, and signs in the account whose email matches the
// verified Google email.
//
// GET /auth/google/callback
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("google oauth denied", zap.String("error", errParam))
		respond.Error(w, http.StatusUnauthorized, respond.CodeUnauthorized, "google sign-in was denied")
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		respond.InvalidInput(w, "missing oauth state")
		return
	}

	shortCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	valid, err := h.StateStore.Validate(shortCtx, state)
	if err != nil {
		respond.Internal(w, h.Log, "validate oauth state", err)
		return
	}
	if !valid {
		respond.InvalidInput(w, "invalid or expired oauth state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		respond.InvalidInput(w, "missing oauth code")
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		respond.Internal(w, h.Log, "exchange oauth code", err)
		return
	}

	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		respond.Internal(w, h.Log, "fetch google user info", err)
		return
	}
	if !googleUser.EmailVerified {
		respond.Error(w, http.StatusUnauthorized, respond.CodeUnauthorized, "google email is not verified")
		return
	}

	u, err := h.Users.GetByEmail(shortCtx, googleUser.Email)
	if err == mongo.ErrNoDocuments {
		h.Log.Info("google oauth: no account for email")
		respond.Error(w, http.StatusUnauthorized, respond.CodeUnauthorized, "no account for this google email")
		return
	}
	if err != nil {
		respond.Internal(w, h.Log, "look up user", err)
		return
	}

	sess, err := h.Sessions.Create(shortCtx, u.ID, h.SessionTTL)
	if err != nil {
		respond.Internal(w, h.Log, "create session", err)
		return
	}
	if err := h.SessionMgr.SignIn(w, r, sess.Token); err != nil {
		respond.Internal(w, h.Log, "write session cookie", err)
		return
	}

	h.Log.Info("user signed in via google", zap.String("user_id", u.ID.Hex()))

	respond.JSON(w, http.StatusOK, map[string]string{
		"id":       u.ID.Hex(),
		"username": u.Username,
		"email":    u.Email,
	})
}

// googleUserInfo is the subset of Google's userinfo response we use.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
}

func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &info, nil
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
