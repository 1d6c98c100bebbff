// Package access glues the membership stores to the authorization
// engine. For each request it loads only the facts the action's rule
// can reference, then asks the engine for a decision.
//
// Lookups are fresh per request; there is no caching. Two concurrent
// requests may both pass a check and then both mutate, so handlers
// treat "already gone" as a benign no-op.
package access

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	membershipstore "github.com/bughive/bughive/internal/app/store/memberships"
	"github.com/bughive/bughive/internal/app/store/projectmembers"
	ticketstore "github.com/bughive/bughive/internal/app/store/tickets"
	"github.com/bughive/bughive/internal/domain/authz"
	"github.com/bughive/bughive/internal/domain/models"
)

// Checker answers authorization questions for HTTP handlers.
type Checker struct {
	members     *membershipstore.Store
	projMembers *projectmembers.Store
	tickets     *ticketstore.Store
}

func New(members *membershipstore.Store, projMembers *projectmembers.Store, tickets *ticketstore.Store) *Checker {
	return &Checker{members: members, projMembers: projMembers, tickets: tickets}
}

// ForWorkspace authorizes a workspace-scoped action. The returned
// membership is the principal's own row (nil when not a member) so the
// handler does not need a second lookup.
func (c *Checker) ForWorkspace(ctx context.Context, userID, workspaceID primitive.ObjectID, action authz.Action) (authz.Decision, *models.WorkspaceMember, error) {
	m, err := c.members.GetByUserAndWorkspace(ctx, userID, workspaceID)
	if err != nil {
		return authz.Decision{}, nil, err
	}
	facts := authz.Facts{}
	if m != nil {
		facts.IsMember = true
		facts.Role = m.Role
	}
	return authz.Authorize(action, facts), m, nil
}

// ForProject authorizes a project-scoped action, additionally loading
// the principal's project-membership flag.
func (c *Checker) ForProject(ctx context.Context, userID, workspaceID, projectID primitive.ObjectID, action authz.Action) (authz.Decision, *models.WorkspaceMember, error) {
	m, err := c.members.GetByUserAndWorkspace(ctx, userID, workspaceID)
	if err != nil {
		return authz.Decision{}, nil, err
	}
	facts := authz.Facts{}
	if m != nil {
		facts.IsMember = true
		facts.Role = m.Role
		onProject, err := c.projMembers.IsMember(ctx, projectID, m.ID)
		if err != nil {
			return authz.Decision{}, nil, err
		}
		facts.OnProject = onProject
	}
	return authz.Authorize(action, facts), m, nil
}

// ForTicket authorizes a ticket-scoped action with the full fact set:
// workspace role, project membership, developer assignment, and
// submitter identity.
func (c *Checker) ForTicket(ctx context.Context, userID primitive.ObjectID, t *models.Ticket, action authz.Action) (authz.Decision, *models.WorkspaceMember, error) {
	m, err := c.members.GetByUserAndWorkspace(ctx, userID, t.WorkspaceID)
	if err != nil {
		return authz.Decision{}, nil, err
	}
	facts := authz.Facts{}
	if m != nil {
		facts.IsMember = true
		facts.Role = m.Role

		onProject, err := c.projMembers.IsMember(ctx, t.ProjectID, m.ID)
		if err != nil {
			return authz.Decision{}, nil, err
		}
		facts.OnProject = onProject

		onTicket, err := c.tickets.IsDeveloper(ctx, t.ID, m.ID)
		if err != nil {
			return authz.Decision{}, nil, err
		}
		facts.OnTicket = onTicket
		facts.Submitter = t.SubmitterID == m.ID
	}
	return authz.Authorize(action, facts), m, nil
}
