package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/workpulse/workpulse/internal/config"
)

// Collection names
const (
	colUsers      = "users"
	colRoles      = "roles"
	colWorkspaces = "workspaces"
	colMembers    = "members"
	colProjects   = "projects"
	colTasks      = "tasks"
)

// DB wraps the MongoDB client and database handle
type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewDB connects to MongoDB and verifies the connection
func NewDB(ctx context.Context, cfg config.MongoConfig) (*DB, error) {
	clientOpts := options.Client().ApplyURI(cfg.URI())
	if cfg.Timeout > 0 {
		clientOpts.SetConnectTimeout(cfg.Timeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		Client:   client,
		Database: client.Database(cfg.Database),
	}, nil
}

// Close disconnects the client
func (db *DB) Close(ctx context.Context) error {
	if db.Client != nil {
		return db.Client.Disconnect(ctx)
	}
	return nil
}

// Ping verifies database connectivity
func (db *DB) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the indexes the repositories rely on. Creating an
// index that already exists is a no-op, so this is safe to run repeatedly.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		colRoles: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		},
		colWorkspaces: {
			{Keys: bson.D{{Key: "invite_code", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		},
		colMembers: {
			// The at-most-one-membership-per-(user, workspace) invariant
			// lives here, not in application code.
			{Keys: bson.D{{Key: "workspace_id", Value: 1}, {Key: "user_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		colProjects: {
			{Keys: bson.D{{Key: "workspace_id", Value: 1}}},
		},
		colTasks: {
			{Keys: bson.D{{Key: "workspace_id", Value: 1}}},
			{Keys: bson.D{{Key: "project_id", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Database.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}

	return nil
}
