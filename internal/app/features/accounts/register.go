// internal/app/features/accounts/register.go
package accounts

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userstore "github.com/bughive/bughive/internal/app/store/users"
	"github.com/bughive/bughive/internal/app/system/inputval"
	"github.com/bughive/bughive/internal/app/system/reqjson"
	"github.com/bughive/bughive/internal/app/system/respond"
	"github.com/bughive/bughive/internal/app/system/sanitize"
	"github.com/bughive/bughive/internal/app/system/timeouts"
	"github.com/bughive/bughive/internal/domain/models"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new user account.
//
// POST /auth/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !reqjson.Decode(w, r, &req) {
		return
	}

	req.Username = sanitize.Text(req.Username)
	req.Email = sanitize.Text(req.Email)

	if !inputval.UsernameValid(req.Username) {
		respond.InvalidInput(w, "username must be 6-24 characters of letters, digits, '_' or '-'")
		return
	}
	if !inputval.EmailValid(req.Email) {
		respond.InvalidInput(w, "invalid email address")
		return
	}
	if !inputval.PasswordValid(req.Password) {
		respond.InvalidInput(w, "password must be 6-24 alphanumeric characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respond.Internal(w, h.Log, "hash password", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	})
	if err == userstore.ErrDuplicateUser {
		respond.AlreadyExists(w, err.Error())
		return
	}
	if err != nil {
		respond.Internal(w, h.Log, "create user", err)
		return
	}

	h.Log.Info("user registered",
		zap.String("user_id", u.ID.Hex()),
		zap.String("username", u.Username))

	respond.JSON(w, http.StatusCreated, userView{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Email:    u.Email,
	})
}
