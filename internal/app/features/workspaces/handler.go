// internal/app/features/workspaces/handler.go
package workspaces

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/bughive/bughive/internal/app/policy/access"
	"github.com/bughive/bughive/internal/app/store/comments"
	membershipstore "github.com/bughive/bughive/internal/app/store/memberships"
	"github.com/bughive/bughive/internal/app/store/projectmembers"
	projectstore "github.com/bughive/bughive/internal/app/store/projects"
	"github.com/bughive/bughive/internal/app/store/sessions"
	ticketstore "github.com/bughive/bughive/internal/app/store/tickets"
	userstore "github.com/bughive/bughive/internal/app/store/users"
	workspacestore "github.com/bughive/bughive/internal/app/store/workspaces"
	"github.com/bughive/bughive/internal/domain/models"
)

// Handler serves workspace CRUD and workspace membership management.
type Handler struct {
	Log         *zap.Logger
	Client      *mongo.Client
	Access      *access.Checker
	Workspaces  *workspacestore.Store
	Members     *membershipstore.Store
	Users       *userstore.Store
	Projects    *projectstore.Store
	ProjMembers *projectmembers.Store
	Tickets     *ticketstore.Store
	Comments    *comments.Store
	Sessions    *sessions.Store
}

type workspaceView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toWorkspaceView(w models.Workspace) workspaceView {
	return workspaceView{
		ID:        w.ID.Hex(),
		Name:      w.Name,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

type memberView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toMemberView(m models.WorkspaceMember, username string) memberView {
	return memberView{
		ID:        m.ID.Hex(),
		UserID:    m.UserID.Hex(),
		Username:  username,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt,
	}
}
