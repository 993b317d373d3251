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

// ProjectRepository handles project data access
type ProjectRepository struct {
	col *mongo.Collection
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{col: db.Database.Collection(colProjects)}
}

type projectDoc struct {
	ID          string    `bson:"_id"`
	WorkspaceID string    `bson:"workspace_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description,omitempty"`
	Emoji       string    `bson:"emoji,omitempty"`
	CreatedBy   string    `bson:"created_by"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func projectToDoc(p *domain.Project) projectDoc {
	return projectDoc{
		ID:          p.ID.String(),
		WorkspaceID: p.WorkspaceID.String(),
		Name:        p.Name,
		Description: p.Description,
		Emoji:       p.Emoji,
		CreatedBy:   p.CreatedBy.String(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d *projectDoc) toDomain() (*domain.Project, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id %q: %w", d.ID, err)
	}
	workspaceID, err := uuid.Parse(d.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace id %q: %w", d.WorkspaceID, err)
	}
	createdBy, err := uuid.Parse(d.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("invalid creator id %q: %w", d.CreatedBy, err)
	}

	return &domain.Project{
		ID:          id,
		WorkspaceID: workspaceID,
		Name:        d.Name,
		Description: d.Description,
		Emoji:       d.Emoji,
		CreatedBy:   createdBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

// Create inserts a new project
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	if _, err := r.col.InsertOne(ctx, projectToDoc(project)); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var doc projectDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return doc.toDomain()
}

// ListByWorkspace retrieves projects in a workspace, newest first
func (r *ProjectRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, limit, offset int) ([]domain.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit)).SetSkip(int64(offset))
	}

	cursor, err := r.col.Find(ctx, bson.M{"workspace_id": workspaceID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []domain.Project
	for cursor.Next(ctx) {
		var doc projectDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		project, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}
	return projects, cursor.Err()
}

// Update applies a partial update to a project
func (r *ProjectRepository) Update(ctx context.Context, id uuid.UUID, update *domain.ProjectUpdate) error {
	set := bson.M{"updated_at": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Emoji != nil {
		set["emoji"] = *update.Emoji
	}

	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}

// Delete removes a project document
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id.String()}); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// DeleteByWorkspace removes every project in a workspace
func (r *ProjectRepository) DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"workspace_id": workspaceID.String()}); err != nil {
		return fmt.Errorf("failed to delete workspace projects: %w", err)
	}
	return nil
}
