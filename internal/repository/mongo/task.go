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

// TaskRepository handles task data access
type TaskRepository struct {
	col *mongo.Collection
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{col: db.Database.Collection(colTasks)}
}

type taskDoc struct {
	ID          string     `bson:"_id"`
	TaskCode    string     `bson:"task_code"`
	WorkspaceID string     `bson:"workspace_id"`
	ProjectID   string     `bson:"project_id"`
	Title       string     `bson:"title"`
	Description string     `bson:"description,omitempty"`
	Status      string     `bson:"status"`
	Priority    string     `bson:"priority"`
	AssignedTo  string     `bson:"assigned_to,omitempty"`
	CreatedBy   string     `bson:"created_by"`
	DueDate     *time.Time `bson:"due_date,omitempty"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

func taskToDoc(t *domain.Task) taskDoc {
	doc := taskDoc{
		ID:          t.ID.String(),
		TaskCode:    t.TaskCode,
		WorkspaceID: t.WorkspaceID.String(),
		ProjectID:   t.ProjectID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		CreatedBy:   t.CreatedBy.String(),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.AssignedTo != nil {
		doc.AssignedTo = t.AssignedTo.String()
	}
	return doc
}

func (d *taskDoc) toDomain() (*domain.Task, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid task id %q: %w", d.ID, err)
	}
	workspaceID, err := uuid.Parse(d.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace id %q: %w", d.WorkspaceID, err)
	}
	projectID, err := uuid.Parse(d.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id %q: %w", d.ProjectID, err)
	}
	createdBy, err := uuid.Parse(d.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("invalid creator id %q: %w", d.CreatedBy, err)
	}

	task := &domain.Task{
		ID:          id,
		TaskCode:    d.TaskCode,
		WorkspaceID: workspaceID,
		ProjectID:   projectID,
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		Priority:    d.Priority,
		CreatedBy:   createdBy,
		DueDate:     d.DueDate,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.AssignedTo != "" {
		assignee, err := uuid.Parse(d.AssignedTo)
		if err != nil {
			return nil, fmt.Errorf("invalid assignee id %q: %w", d.AssignedTo, err)
		}
		task.AssignedTo = &assignee
	}
	return task, nil
}

// Create inserts a new task
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if _, err := r.col.InsertOne(ctx, taskToDoc(task)); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetByID retrieves a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var doc taskDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return doc.toDomain()
}

// ListByWorkspace retrieves tasks in a workspace with filters and pagination.
// Returns the page of tasks plus the total count matching the filter.
func (r *TaskRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, filter domain.TaskFilter) ([]domain.Task, int64, error) {
	query := bson.M{"workspace_id": workspaceID.String()}
	if filter.ProjectID != nil {
		query["project_id"] = filter.ProjectID.String()
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.AssignedTo != nil {
		query["assigned_to"] = filter.AssignedTo.String()
	}
	if filter.Keyword != "" {
		query["title"] = bson.M{"$regex": filter.Keyword, "$options": "i"}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit)).SetSkip(int64(filter.Offset))
	}

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []domain.Task
	for cursor.Next(ctx) {
		var doc taskDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("failed to scan task: %w", err)
		}
		task, err := doc.toDomain()
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, total, cursor.Err()
}

// Update replaces the stored task document
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	task.UpdatedAt = time.Now()
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": task.ID.String()}, taskToDoc(task))
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

// Delete removes a task document
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id.String()}); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// DeleteByProject removes every task in a project
func (r *TaskRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"project_id": projectID.String()}); err != nil {
		return fmt.Errorf("failed to delete project tasks: %w", err)
	}
	return nil
}

// DeleteByWorkspace removes every task in a workspace
func (r *TaskRepository) DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"workspace_id": workspaceID.String()}); err != nil {
		return fmt.Errorf("failed to delete workspace tasks: %w", err)
	}
	return nil
}

// Analytics counts total, overdue, and completed tasks
func (r *TaskRepository) Analytics(ctx context.Context, workspaceID uuid.UUID, projectID *uuid.UUID, now time.Time) (*domain.ProjectAnalytics, error) {
	base := bson.M{"workspace_id": workspaceID.String()}
	if projectID != nil {
		base["project_id"] = projectID.String()
	}

	total, err := r.col.CountDocuments(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	overdueQuery := bson.M{
		"due_date": bson.M{"$lt": now},
		"status":   bson.M{"$ne": domain.TaskStatusDone},
	}
	for k, v := range base {
		overdueQuery[k] = v
	}
	overdue, err := r.col.CountDocuments(ctx, overdueQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue tasks: %w", err)
	}

	completedQuery := bson.M{"status": domain.TaskStatusDone}
	for k, v := range base {
		completedQuery[k] = v
	}
	completed, err := r.col.CountDocuments(ctx, completedQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}

	return &domain.ProjectAnalytics{
		TotalTasks:     total,
		OverdueTasks:   overdue,
		CompletedTasks: completed,
	}, nil
}
