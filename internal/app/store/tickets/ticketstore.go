// internal/app/store/tickets/ticketstore.go
package ticketstore

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

// Store manages tickets and their developer assignment rows. The two
// collections move together: every ticket mutation that touches the
// developer set runs both inside one transaction.
type Store struct {
	c    *mongo.Collection
	devs *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:    db.Collection("tickets"),
		devs: db.Collection("ticket_developers"),
	}
}

// EnsureIndexes creates list and fact-lookup indexes for both
// collections.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ticketIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_tickets_proj_title"),
		},
		{
			Keys:    bson.D{{Key: "workspace_id", Value: 1}},
			Options: options.Index().SetName("idx_tickets_ws"),
		},
	}
	if _, err := s.c.Indexes().CreateMany(ctx, ticketIndexes); err != nil {
		return err
	}

	devIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ticket_id", Value: 1}, {Key: "member_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_ticketdevs_ticket_member"),
		},
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "member_id", Value: 1}},
			Options: options.Index().SetName("idx_ticketdevs_proj_member"),
		},
		{
			Keys:    bson.D{{Key: "workspace_id", Value: 1}, {Key: "member_id", Value: 1}},
			Options: options.Index().SetName("idx_ticketdevs_ws_member"),
		},
	}
	_, err := s.devs.Indexes().CreateMany(ctx, devIndexes)
	return err
}

// Create inserts a ticket and its initial developer rows. Run inside a
// transaction when developerIDs is non-empty.
func (s *Store) Create(ctx context.Context, t models.Ticket, developerIDs []primitive.ObjectID) (models.Ticket, error) {
	t.ID = primitive.NewObjectID()
	t.TitleCI = text.Fold(t.Title)

	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Ticket{}, err
	}
	if err := s.insertDevelopers(ctx, t, developerIDs); err != nil {
		return models.Ticket{}, err
	}
	return t, nil
}

// GetByID loads a ticket scoped to its workspace. Returns (nil, nil) if
// not found.
func (s *Store) GetByID(ctx context.Context, workspaceID, ticketID primitive.ObjectID) (*models.Ticket, error) {
	var t models.Ticket
	err := s.c.FindOne(ctx, bson.M{"_id": ticketID, "workspace_id": workspaceID}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Update holds the full-update field set. SubmitterID is immutable and
// deliberately absent.
type Update struct {
	Title       string
	Description string
	Priority    models.Priority
	Type        models.TicketType
	Status      models.TicketStatus
}

// Update rewrites the mutable ticket fields. Returns the number of
// documents matched (0 or 1).
func (s *Store) Update(ctx context.Context, workspaceID, ticketID primitive.ObjectID, upd Update) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": ticketID, "workspace_id": workspaceID},
		bson.M{"$set": bson.M{
			"title":       upd.Title,
			"title_ci":    text.Fold(upd.Title),
			"description": upd.Description,
			"priority":    upd.Priority,
			"type":        upd.Type,
			"status":      upd.Status,
			"updated_at":  time.Now().UTC(),
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// UpdateStatus changes only the status field (the developer path).
func (s *Store) UpdateStatus(ctx context.Context, workspaceID, ticketID primitive.ObjectID, status models.TicketStatus) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": ticketID, "workspace_id": workspaceID},
		bson.M{"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Delete removes the ticket and its developer rows. Comments are
// cascaded by the handler. Returns the number of tickets deleted.
func (s *Store) Delete(ctx context.Context, workspaceID, ticketID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": ticketID, "workspace_id": workspaceID})
	if err != nil {
		return 0, err
	}
	if _, err := s.devs.DeleteMany(ctx, bson.M{"ticket_id": ticketID}); err != nil {
		return res.DeletedCount, err
	}
	return res.DeletedCount, nil
}

// ReplaceDevelopers swaps the ticket's developer set. Run inside a
// transaction so the set is never half-applied.
func (s *Store) ReplaceDevelopers(ctx context.Context, t models.Ticket, developerIDs []primitive.ObjectID) error {
	if _, err := s.devs.DeleteMany(ctx, bson.M{"ticket_id": t.ID}); err != nil {
		return err
	}
	return s.insertDevelopers(ctx, t, developerIDs)
}

func (s *Store) insertDevelopers(ctx context.Context, t models.Ticket, developerIDs []primitive.ObjectID) error {
	if len(developerIDs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(developerIDs))
	for _, memberID := range developerIDs {
		docs = append(docs, models.TicketDeveloper{
			ID:          primitive.NewObjectID(),
			WorkspaceID: t.WorkspaceID,
			ProjectID:   t.ProjectID,
			TicketID:    t.ID,
			MemberID:    memberID,
			CreatedAt:   now,
		})
	}
	_, err := s.devs.InsertMany(ctx, docs)
	return err
}

// IsDeveloper reports whether the workspace member is assigned to the
// ticket. This is one of the four authorization fact lookups.
func (s *Store) IsDeveloper(ctx context.Context, ticketID, memberID primitive.ObjectID) (bool, error) {
	err := s.devs.FindOne(ctx, bson.M{"ticket_id": ticketID, "member_id": memberID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListDevelopers returns the developer assignment rows for a ticket.
func (s *Store) ListDevelopers(ctx context.Context, ticketID primitive.ObjectID) ([]models.TicketDeveloper, error) {
	cur, err := s.devs.Find(ctx, bson.M{"ticket_id": ticketID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.TicketDeveloper
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByProject returns one keyset page of a project's tickets ordered
// by (title_ci, _id).
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID, before, after string) ([]models.Ticket, error) {
	cfg := paging.ConfigureKeyset(before, after)
	filter := bson.M{"project_id": projectID}
	if window := cfg.KeysetWindow("title_ci"); window != nil {
		filter = bson.M{"$and": bson.A{filter, window}}
	}

	find := options.Find()
	cfg.ApplyToFind(find, "title_ci")

	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.Ticket
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListIDsByProject returns all ticket IDs in a project, for comment
// cascades.
func (s *Store) ListIDsByProject(ctx context.Context, projectID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var t models.Ticket
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		ids = append(ids, t.ID)
	}
	return ids, cur.Err()
}

// RemoveDeveloperFromProject strips the member from every ticket they
// develop within the project. Used when a project member is removed.
func (s *Store) RemoveDeveloperFromProject(ctx context.Context, projectID, memberID primitive.ObjectID) (int64, error) {
	res, err := s.devs.DeleteMany(ctx, bson.M{"project_id": projectID, "member_id": memberID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// RemoveDeveloperFromWorkspace strips the member from every ticket they
// develop anywhere in the workspace. Used when a workspace member is
// removed.
func (s *Store) RemoveDeveloperFromWorkspace(ctx context.Context, workspaceID, memberID primitive.ObjectID) (int64, error) {
	res, err := s.devs.DeleteMany(ctx, bson.M{"workspace_id": workspaceID, "member_id": memberID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByProject removes all tickets and developer rows in a project.
func (s *Store) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	if _, err := s.devs.DeleteMany(ctx, bson.M{"project_id": projectID}); err != nil {
		return 0, err
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByWorkspace removes all tickets and developer rows in a
// workspace.
func (s *Store) DeleteByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) (int64, error) {
	if _, err := s.devs.DeleteMany(ctx, bson.M{"workspace_id": workspaceID}); err != nil {
		return 0, err
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"workspace_id": workspaceID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
