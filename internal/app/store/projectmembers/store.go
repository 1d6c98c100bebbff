// internal/app/store/projectmembers/store.go
package projectmembers

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

// Store manages project assignment rows. member_id always references a
// workspace member in the same workspace.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("project_members")}
}

// ErrDuplicateAssignment is returned when the member is already
// assigned to the project.
var ErrDuplicateAssignment = errors.New("member is already assigned to this project")

// EnsureIndexes creates the unique pair index and the per-member
// cascade index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "member_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_projmembers_proj_member"),
		},
		{
			Keys:    bson.D{{Key: "workspace_id", Value: 1}, {Key: "member_id", Value: 1}},
			Options: options.Index().SetName("idx_projmembers_ws_member"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Add assigns a workspace member to a project.
func (s *Store) Add(ctx context.Context, workspaceID, projectID, memberID primitive.ObjectID) (models.ProjectMember, error) {
	pm := models.ProjectMember{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspaceID,
		ProjectID:   projectID,
		MemberID:    memberID,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, pm); err != nil {
		if wafflemongo.IsDup(err) {
			return models.ProjectMember{}, ErrDuplicateAssignment
		}
		return models.ProjectMember{}, err
	}
	return pm, nil
}

// Remove deletes the assignment for (projectID, memberID). Returns the
// number of documents deleted; removing an absent assignment is a
// no-op.
func (s *Store) Remove(ctx context.Context, projectID, memberID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"project_id": projectID, "member_id": memberID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// IsMember reports whether the workspace member is assigned to the
// project. This is one of the four authorization fact lookups.
func (s *Store) IsMember(ctx context.Context, projectID, memberID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"project_id": projectID, "member_id": memberID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByProject returns all assignments for a project.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.ProjectMember, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.ProjectMember
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListProjectIDsByMember returns the IDs of every project in the
// workspace the member is assigned to. The result is never nil so
// callers can distinguish "no assignments" from "no restriction".
func (s *Store) ListProjectIDsByMember(ctx context.Context, workspaceID, memberID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"workspace_id": workspaceID, "member_id": memberID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	ids := []primitive.ObjectID{}
	for cur.Next(ctx) {
		var pm models.ProjectMember
		if err := cur.Decode(&pm); err != nil {
			return nil, err
		}
		ids = append(ids, pm.ProjectID)
	}
	return ids, cur.Err()
}

// DeleteByProject removes all assignments for a project.
func (s *Store) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByMember removes all of a workspace member's assignments across
// the workspace. Used when the member is removed from the workspace.
func (s *Store) DeleteByMember(ctx context.Context, workspaceID, memberID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"workspace_id": workspaceID, "member_id": memberID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByWorkspace removes all assignments in a workspace.
func (s *Store) DeleteByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"workspace_id": workspaceID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
