// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a short note on a ticket. AuthorID references the workspace
// member who wrote it, not the user, so comment authorship follows the
// same membership chain as every other permission.
type Comment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkspaceID primitive.ObjectID `bson:"workspace_id" json:"workspace_id"`
	TicketID    primitive.ObjectID `bson:"ticket_id" json:"ticket_id"`
	AuthorID    primitive.ObjectID `bson:"author_id" json:"author_id"`
	Body        string             `bson:"body" json:"body"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
