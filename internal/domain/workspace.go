package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Workspace represents a tenant workspace
type Workspace struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     uuid.UUID `json:"owner_id"`
	InviteCode  string    `json:"invite_code"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WorkspaceCreate represents workspace creation data
type WorkspaceCreate struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

// WorkspaceUpdate represents workspace update data
type WorkspaceUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// WorkspaceAnalytics holds task counts across a whole workspace
type WorkspaceAnalytics struct {
	TotalTasks     int64 `json:"total_tasks"`
	OverdueTasks   int64 `json:"overdue_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
}

// WorkspaceRepository defines the interface for workspace storage
type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *Workspace) error
	GetByID(ctx context.Context, id uuid.UUID) (*Workspace, error)
	GetByInviteCode(ctx context.Context, code string) (*Workspace, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]Workspace, error)
	Update(ctx context.Context, id uuid.UUID, update *WorkspaceUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
}
