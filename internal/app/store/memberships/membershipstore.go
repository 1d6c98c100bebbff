// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bughive/bughive/internal/domain/models"
)

// Store manages workspace membership rows, the root of the role
// hierarchy. Every authorization fact starts with a lookup here.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("workspace_members")}
}

var (
	// ErrDuplicateMembership is returned when the user is already a
	// member of the workspace.
	ErrDuplicateMembership = errors.New("user is already a member of this workspace")

	errBadRole = errors.New(`role must be "ADMIN"|"MANAGER"|"DEVELOPER"`)
)

// EnsureIndexes creates the unique pair index and the per-user lookup
// index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workspace_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_members_ws_user"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_members_user"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Add creates a membership. The role must be one of the closed enum.
func (s *Store) Add(ctx context.Context, workspaceID, userID primitive.ObjectID, role models.Role) (models.WorkspaceMember, error) {
	if !models.IsValidRole(string(role)) {
		return models.WorkspaceMember{}, errBadRole
	}

	m := models.WorkspaceMember{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.WorkspaceMember{}, ErrDuplicateMembership
		}
		return models.WorkspaceMember{}, err
	}
	return m, nil
}

// GetByUserAndWorkspace loads the membership for (userID, workspaceID).
// Returns (nil, nil) when the user is not a member; the caller feeds
// that straight into the authorization facts.
func (s *Store) GetByUserAndWorkspace(ctx context.Context, userID, workspaceID primitive.ObjectID) (*models.WorkspaceMember, error) {
	var m models.WorkspaceMember
	err := s.c.FindOne(ctx, bson.M{"workspace_id": workspaceID, "user_id": userID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByID loads a membership by its own ID, scoped to the workspace so
// a member ID from another workspace reads as missing.
func (s *Store) GetByID(ctx context.Context, workspaceID, memberID primitive.ObjectID) (*models.WorkspaceMember, error) {
	var m models.WorkspaceMember
	err := s.c.FindOne(ctx, bson.M{"_id": memberID, "workspace_id": workspaceID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateRole changes a member's role. Returns the number of documents
// matched (0 or 1).
func (s *Store) UpdateRole(ctx context.Context, workspaceID, memberID primitive.ObjectID, role models.Role) (int64, error) {
	if !models.IsValidRole(string(role)) {
		return 0, errBadRole
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": memberID, "workspace_id": workspaceID},
		bson.M{"$set": bson.M{"role": role}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Remove deletes the membership row. Returns the number of documents
// deleted (0 or 1); removing an already-removed member is a no-op.
func (s *Store) Remove(ctx context.Context, workspaceID, memberID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": memberID, "workspace_id": workspaceID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByWorkspace returns all members of a workspace ordered by
// creation.
func (s *Store) ListByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]models.WorkspaceMember, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"workspace_id": workspaceID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var members []models.WorkspaceMember
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// ListWorkspaceIDsByUser returns the IDs of every workspace the user
// belongs to.
func (s *Store) ListWorkspaceIDsByUser(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var m models.WorkspaceMember
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		ids = append(ids, m.WorkspaceID)
	}
	return ids, cur.Err()
}

// DeleteByWorkspace removes all memberships for a workspace. Returns
// the number of documents deleted.
func (s *Store) DeleteByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"workspace_id": workspaceID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
