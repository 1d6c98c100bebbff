// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/bughive/bughive/internal/app/store/comments"
	membershipstore "github.com/bughive/bughive/internal/app/store/memberships"
	"github.com/bughive/bughive/internal/app/store/oauthstate"
	"github.com/bughive/bughive/internal/app/store/projectmembers"
	projectstore "github.com/bughive/bughive/internal/app/store/projects"
	"github.com/bughive/bughive/internal/app/store/sessions"
	ticketstore "github.com/bughive/bughive/internal/app/store/tickets"
	userstore "github.com/bughive/bughive/internal/app/store/users"
	workspacestore "github.com/bughive/bughive/internal/app/store/workspaces"
	"github.com/bughive/bughive/internal/app/system/timeouts"
)

// ConnectDB establishes the MongoDB connection and verifies it with a
// ping before the rest of startup proceeds.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes every store depends on, including
// the unique keys that back duplicate detection and the TTL indexes
// that expire sessions and OAuth state.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	indexed := []interface {
		EnsureIndexes(ctx context.Context) error
	}{
		userstore.New(db),
		sessions.New(db),
		oauthstate.New(db),
		workspacestore.New(db),
		membershipstore.New(db),
		projectstore.New(db),
		projectmembers.New(db),
		ticketstore.New(db),
		comments.New(db),
	}

	for _, s := range indexed {
		if err := s.EnsureIndexes(ctx); err != nil {
			logger.Error("index creation failed", zap.Error(err))
			return err
		}
	}

	logger.Info("database indexes ensured")
	return nil
}
