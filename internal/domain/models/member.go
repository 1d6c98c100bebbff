// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is a workspace member's role. Roles are not numerically ordered;
// each action defines its own allowed-role set.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleManager   Role = "MANAGER"
	RoleDeveloper Role = "DEVELOPER"
)

// AllRoles lists the valid roles, used for input validation.
var AllRoles = []Role{RoleAdmin, RoleManager, RoleDeveloper}

// IsValidRole checks whether value is one of the closed role set.
func IsValidRole(value string) bool {
	for _, r := range AllRoles {
		if Role(value) == r {
			return true
		}
	}
	return false
}

// WorkspaceMember is the authoritative join between users and workspaces.
// Exactly one document per (workspace_id, user_id); the role is a scalar.
// Project membership and ticket assignment reference the member document,
// not the user, so removing a member severs all downstream assignments.
type WorkspaceMember struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkspaceID primitive.ObjectID `bson:"workspace_id" json:"workspace_id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role        Role               `bson:"role" json:"role"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// ProjectMember links a workspace member to a project they work on.
// Exactly one document per (project_id, member_id). WorkspaceID is
// denormalized so member-removal cascades need no project lookups.
type ProjectMember struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkspaceID primitive.ObjectID `bson:"workspace_id" json:"workspace_id"`
	ProjectID   primitive.ObjectID `bson:"project_id" json:"project_id"`
	MemberID    primitive.ObjectID `bson:"member_id" json:"member_id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
