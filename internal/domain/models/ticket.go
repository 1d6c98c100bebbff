// internal/domain/models/ticket.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Priority is a ticket's urgency level.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// TicketType classifies what kind of work a ticket represents.
type TicketType string

const (
	TypeBug     TicketType = "BUG"
	TypeIssue   TicketType = "ISSUE"
	TypeError   TicketType = "ERROR"
	TypeFeature TicketType = "FEATURE"
	TypeOther   TicketType = "OTHER"
)

// TicketStatus is a ticket's open/closed state. This is the only field
// a DEVELOPER may change, and only on tickets they are assigned to.
type TicketStatus string

const (
	StatusOpen   TicketStatus = "OPEN"
	StatusClosed TicketStatus = "CLOSED"
)

// AllPriorities lists the valid priorities, used for input validation.
var AllPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// AllTicketTypes lists the valid ticket types, used for input validation.
var AllTicketTypes = []TicketType{TypeBug, TypeIssue, TypeError, TypeFeature, TypeOther}

// AllTicketStatuses lists the valid statuses, used for input validation.
var AllTicketStatuses = []TicketStatus{StatusOpen, StatusClosed}

// IsValidPriority checks whether value is one of the closed priority set.
func IsValidPriority(value string) bool {
	for _, p := range AllPriorities {
		if Priority(value) == p {
			return true
		}
	}
	return false
}

// IsValidTicketType checks whether value is one of the closed type set.
func IsValidTicketType(value string) bool {
	for _, t := range AllTicketTypes {
		if TicketType(value) == t {
			return true
		}
	}
	return false
}

// IsValidTicketStatus checks whether value is one of the closed status set.
func IsValidTicketStatus(value string) bool {
	for _, s := range AllTicketStatuses {
		if TicketStatus(value) == s {
			return true
		}
	}
	return false
}

// Ticket is a unit of work inside a project. SubmitterID records the
// workspace member who created the ticket (1:1, immutable); the set of
// assigned developers lives in the ticket_developers collection.
type Ticket struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	WorkspaceID primitive.ObjectID `bson:"workspace_id" json:"workspace_id"`
	ProjectID   primitive.ObjectID `bson:"project_id" json:"project_id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"-"`
	Description string             `bson:"description" json:"description"`
	Priority    Priority           `bson:"priority" json:"priority"`
	Type        TicketType         `bson:"type" json:"type"`
	Status      TicketStatus       `bson:"status" json:"status"`
	SubmitterID primitive.ObjectID `bson:"submitter_id" json:"submitter_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// TicketDeveloper assigns a workspace member to implement a ticket.
// Exactly one document per (ticket_id, member_id). ProjectID and
// WorkspaceID are denormalized so membership cascades need no ticket
// lookups.
type TicketDeveloper struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkspaceID primitive.ObjectID `bson:"workspace_id" json:"workspace_id"`
	ProjectID   primitive.ObjectID `bson:"project_id" json:"project_id"`
	TicketID    primitive.ObjectID `bson:"ticket_id" json:"ticket_id"`
	MemberID    primitive.ObjectID `bson:"member_id" json:"member_id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
