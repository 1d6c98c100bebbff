// internal/app/features/tickets/handler.go
package tickets

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/bughive/bughive/internal/app/policy/access"
	"github.com/bughive/bughive/internal/app/store/comments"
	membershipstore "github.com/bughive/bughive/internal/app/store/memberships"
	"github.com/bughive/bughive/internal/app/store/projectmembers"
	projectstore "github.com/bughive/bughive/internal/app/store/projects"
	ticketstore "github.com/bughive/bughive/internal/app/store/tickets"
	"github.com/bughive/bughive/internal/app/system/respond"
	"github.com/bughive/bughive/internal/domain/models"
)

// Handler serves ticket creation, listing, viewing, updating, and
// deletion.
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

type ticketView struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	ProjectID   string    `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    string    `json:"priority"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	SubmitterID string    `json:"submitter_id"`
	Developers  []string  `json:"developers"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTicketView(t models.Ticket, devs []models.TicketDeveloper) ticketView {
	v := ticketView{
		ID:          t.ID.Hex(),
		WorkspaceID: t.WorkspaceID.Hex(),
		ProjectID:   t.ProjectID.Hex(),
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Type:        string(t.Type),
		Status:      string(t.Status),
		SubmitterID: t.SubmitterID.Hex(),
		Developers:  []string{},
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	for _, d := range devs {
		v.Developers = append(v.Developers, d.MemberID.Hex())
	}
	return v
}

// resolveDevelopers parses developer member IDs and verifies each one
// is assigned to the project. A developer outside the project is an
// input error, not an authorization denial.
func (h *Handler) resolveDevelopers(ctx context.Context, w http.ResponseWriter, projectID primitive.ObjectID, raw []string) ([]primitive.ObjectID, bool) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	seen := make(map[primitive.ObjectID]struct{}, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			respond.InvalidInput(w, "malformed developer member id")
			return nil, false
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		onProject, err := h.ProjMembers.IsMember(ctx, projectID, id)
		if err != nil {
			respond.Internal(w, h.Log, "check developer assignment", err)
			return nil, false
		}
		if !onProject {
			respond.InvalidInput(w, "developers must be members of the project")
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
