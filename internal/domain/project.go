package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Project groups tasks within a workspace
type Project struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Emoji       string    `json:"emoji,omitempty"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectCreate represents project creation data
type ProjectCreate struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description,omitempty" validate:"max=2000"`
	Emoji       string `json:"emoji,omitempty" validate:"max=16"`
}

// ProjectUpdate represents project update data
type ProjectUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Emoji       *string `json:"emoji,omitempty" validate:"omitempty,max=16"`
}

// ProjectAnalytics holds task counts for a single project
type ProjectAnalytics struct {
	TotalTasks     int64 `json:"total_tasks"`
	OverdueTasks   int64 `json:"overdue_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
}

// ProjectRepository defines the interface for project storage
type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, limit, offset int) ([]Project, error)
	Update(ctx context.Context, id uuid.UUID, update *ProjectUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error
}
