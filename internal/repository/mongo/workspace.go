package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/workpulse/workpulse/internal/domain"
)

// WorkspaceRepository handles workspace data access
type WorkspaceRepository struct {
	db  *DB
	col *mongo.Collection
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(db *DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db, col: db.Database.Collection(colWorkspaces)}
}

type workspaceDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description,omitempty"`
	OwnerID     string    `bson:"owner_id"`
	InviteCode  string    `bson:"invite_code"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func workspaceToDoc(w *domain.Workspace) workspaceDoc {
	return workspaceDoc{
		ID:          w.ID.String(),
		Name:        w.Name,
		Description: w.Description,
		OwnerID:     w.OwnerID.String(),
		InviteCode:  w.InviteCode,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func (d *workspaceDoc) toDomain() (*domain.Workspace, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace id %q: %w", d.ID, err)
	}
	ownerID, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id %q: %w", d.OwnerID, err)
	}

	return &domain.Workspace{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		OwnerID:     ownerID,
		InviteCode:  d.InviteCode,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

// Create inserts a new workspace
func (r *WorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	if _, err := r.col.InsertOne(ctx, workspaceToDoc(workspace)); err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	return nil
}

// GetByID retrieves a workspace by ID
func (r *WorkspaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	var doc workspaceDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return doc.toDomain()
}

// GetByInviteCode retrieves the workspace owning an invite code
func (r *WorkspaceRepository) GetByInviteCode(ctx context.Context, code string) (*domain.Workspace, error) {
	var doc workspaceDoc
	err := r.col.FindOne(ctx, bson.M{"invite_code": code}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workspace by invite code: %w", err)
	}
	return doc.toDomain()
}

// ListByUserID retrieves all workspaces the user is a member of
func (r *WorkspaceRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error) {
	members := r.db.Database.Collection(colMembers)

	cursor, err := members.Find(ctx, bson.M{"user_id": userID.String()})
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var m memberDoc
		if err := cursor.Decode(&m); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		ids = append(ids, m.WorkspaceID)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	wsCursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer wsCursor.Close(ctx)

	var workspaces []domain.Workspace
	for wsCursor.Next(ctx) {
		var doc workspaceDoc
		if err := wsCursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		ws, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		workspaces = append(workspaces, *ws)
	}
	return workspaces, wsCursor.Err()
}

// Update applies a partial update to a workspace
func (r *WorkspaceRepository) Update(ctx context.Context, id uuid.UUID, update *domain.WorkspaceUpdate) error {
	set := bson.M{"updated_at": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}

	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}
	return nil
}

// Delete removes a workspace document. Cascading deletion of memberships,
// projects, and tasks is the service's responsibility.
func (r *WorkspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id.String()}); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	return nil
}
