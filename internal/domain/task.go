package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Task statuses
const (
	TaskStatusBacklog    = "BACKLOG"
	TaskStatusTodo       = "TODO"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusInReview   = "IN_REVIEW"
	TaskStatusDone       = "DONE"
)

// Task priorities
const (
	TaskPriorityLow    = "LOW"
	TaskPriorityMedium = "MEDIUM"
	TaskPriorityHigh   = "HIGH"
)

// Task is a unit of work within a project
type Task struct {
	ID          uuid.UUID  `json:"id"`
	TaskCode    string     `json:"task_code"`
	WorkspaceID uuid.UUID  `json:"workspace_id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssignedTo  *uuid.UUID `json:"assigned_to,omitempty"`
	CreatedBy   uuid.UUID  `json:"created_by"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskCreate represents task creation data
type TaskCreate struct {
	Title       string     `json:"title" validate:"required,min=1,max=255"`
	Description string     `json:"description,omitempty" validate:"max=4000"`
	Status      string     `json:"status,omitempty" validate:"omitempty,oneof=BACKLOG TODO IN_PROGRESS IN_REVIEW DONE"`
	Priority    string     `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	AssignedTo  *uuid.UUID `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// TaskUpdate represents task update data
type TaskUpdate struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=4000"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,oneof=BACKLOG TODO IN_PROGRESS IN_REVIEW DONE"`
	Priority    *string    `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	AssignedTo  *uuid.UUID `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// TaskFilter narrows task listings
type TaskFilter struct {
	ProjectID  *uuid.UUID
	Status     string
	Priority   string
	AssignedTo *uuid.UUID
	Keyword    string
	Limit      int
	Offset     int
}

// TaskRepository defines the interface for task storage
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, filter TaskFilter) ([]Task, int64, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
	DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error
	// Analytics counts tasks for a workspace, optionally narrowed to a
	// single project. Overdue means due before now and not DONE.
	Analytics(ctx context.Context, workspaceID uuid.UUID, projectID *uuid.UUID, now time.Time) (*ProjectAnalytics, error)
}
