// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bughive/bughive/internal/app/system/paging"
	"github.com/bughive/bughive/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

// EnsureIndexes creates the per-workspace list index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workspace_id", Value: 1}, {Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_projects_ws_name"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a new project.
func (s *Store) Create(ctx context.Context, workspaceID primitive.ObjectID, name, description string) (models.Project, error) {
	now := time.Now().UTC()
	p := models.Project{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspaceID,
		Name:        name,
		NameCI:      text.Fold(name),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// GetByID loads a project scoped to its workspace, so a project ID from
// another workspace reads as missing. Returns (nil, nil) if not found.
func (s *Store) GetByID(ctx context.Context, workspaceID, projectID primitive.ObjectID) (*models.Project, error) {
	var p models.Project
	err := s.c.FindOne(ctx, bson.M{"_id": projectID, "workspace_id": workspaceID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes the project document only. Dependent rows are cascaded
// by the handler inside a transaction.
func (s *Store) Delete(ctx context.Context, workspaceID, projectID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": projectID, "workspace_id": workspaceID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByWorkspace returns one keyset page of the workspace's projects
// ordered by (name_ci, _id). When onlyIDs is non-nil the page is
// restricted to those project IDs (non-admin visibility).
func (s *Store) ListByWorkspace(ctx context.Context, workspaceID primitive.ObjectID, onlyIDs []primitive.ObjectID, before, after string) ([]models.Project, error) {
	cfg := paging.ConfigureKeyset(before, after)
	filter := bson.M{"workspace_id": workspaceID}
	if onlyIDs != nil {
		filter["_id"] = bson.M{"$in": onlyIDs}
	}
	if window := cfg.KeysetWindow("name_ci"); window != nil {
		filter = bson.M{"$and": bson.A{filter, window}}
	}

	find := options.Find()
	cfg.ApplyToFind(find, "name_ci")

	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.Project
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteByWorkspace removes all projects in a workspace. Returns the
// number of documents deleted.
func (s *Store) DeleteByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"workspace_id": workspaceID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
