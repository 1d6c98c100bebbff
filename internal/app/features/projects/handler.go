// internal/app/features/projects/handler.go
package projects

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/bughive/bughive/internal/app/policy/access"
	"github.com/bughive/bughive/internal/app/store/comments"
	membershipstore "github.com/bughive/bughive/internal/app/store/memberships"
	"github.com/bughive/bughive/internal/app/store/projectmembers"
	projectstore "github.com/bughive/bughive/internal/app/store/projects"
	ticketstore "github.com/bughive/bughive/internal/app/store/tickets"
	"github.com/bughive/bughive/internal/domain/models"
)

// Handler serves project CRUD and project membership management within
// a workspace.
type Handler struct {
	Log         *zap.Logger
	Client      *mongo.Client
	Access      *access.Checker
	Members     *membershipstore.Store
	Projects    *projectstore.Store
	ProjMembers *projectmembers.Store
	Tickets     *ticketstore.Store
	Comments    *comments.Store
}

type projectView struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProjectView(p models.Project) projectView {
	return projectView{
		ID:          p.ID.Hex(),
		WorkspaceID: p.WorkspaceID.Hex(),
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
