// internal/app/store/workspaces/workspacestore.go
package workspacestore

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
	return &Store{c: db.Collection("workspaces")}
}

// EnsureIndexes creates the list-sort index. Workspace names are not
// unique; two teams may both call theirs "Platform".
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_workspaces_name_ci"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a new workspace.
func (s *Store) Create(ctx context.Context, name string) (models.Workspace, error) {
	now := time.Now().UTC()
	w := models.Workspace{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, w); err != nil {
		return models.Workspace{}, err
	}
	return w, nil
}

// GetByID loads a workspace. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Workspace, error) {
	var w models.Workspace
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&w); err != nil {
		return nil, err
	}
	return &w, nil
}

// Rename sets a new name. Returns the number of documents matched (0 or
// 1).
func (s *Store) Rename(ctx context.Context, id primitive.ObjectID, name string) (int64, error) {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":       name,
		"name_ci":    text.Fold(name),
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Delete removes the workspace document only. Dependent rows are
// cascaded by the handler inside a transaction.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByIDs returns one keyset page of the workspaces in ids, ordered
// by (name_ci, _id).
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID, before, after string) ([]models.Workspace, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cfg := paging.ConfigureKeyset(before, after)
	filter := bson.M{"_id": bson.M{"$in": ids}}
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

	var rows []models.Workspace
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
