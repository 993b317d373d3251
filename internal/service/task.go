package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/workpulse/workpulse/internal/domain"
	"github.com/workpulse/workpulse/internal/rbac"
	"github.com/workpulse/workpulse/internal/security"
)

// TaskService handles task operations within a project
type TaskService struct {
	taskRepo    domain.TaskRepository
	projectRepo domain.ProjectRepository
	memberRepo  domain.MemberRepository
	members     *MemberService
	events      domain.EventPublisher
}

// NewTaskService creates a new task service
func NewTaskService(
	taskRepo domain.TaskRepository,
	projectRepo domain.ProjectRepository,
	memberRepo domain.MemberRepository,
	members *MemberService,
	events domain.EventPublisher,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		memberRepo:  memberRepo,
		members:     members,
		events:      events,
	}
}

// Create creates a task in a project; requires CREATE_TASK
func (s *TaskService) Create(ctx context.Context, userID, workspaceID, projectID uuid.UUID, input domain.TaskCreate) (*domain.Task, error) {
	if _, err := s.members.Authorize(ctx, userID, workspaceID, rbac.CreateTask); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil || project.WorkspaceID != workspaceID {
		return nil, domain.ErrProjectNotFound
	}

	if err := s.checkAssignee(ctx, workspaceID, input.AssignedTo); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.TaskStatusTodo
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}

	now := time.Now()
	task := &domain.Task{
		ID:          uuid.New(),
		TaskCode:    security.GenerateTaskCode(),
		WorkspaceID: workspaceID,
		ProjectID:   projectID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   userID,
		DueDate:     input.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.publish(ctx, domain.Event{
		WorkspaceID: workspaceID,
		Kind:        domain.EventTaskCreated,
		Payload:     task,
	})

	return task, nil
}

// GetByID retrieves a task; the caller must be a workspace member
func (s *TaskService) GetByID(ctx context.Context, userID, workspaceID, taskID uuid.UUID) (*domain.Task, error) {
	if _, err := s.members.Resolve(ctx, userID, workspaceID); err != nil {
		return nil, err
	}
	return s.getInWorkspace(ctx, workspaceID, taskID)
}

// List retrieves tasks in a workspace with filters; the caller must be a
// member. Returns the page plus the total matching count.
func (s *TaskService) List(ctx context.Context, userID, workspaceID uuid.UUID, filter domain.TaskFilter) ([]domain.Task, int64, error) {
	if _, err := s.members.Resolve(ctx, userID, workspaceID); err != nil {
		return nil, 0, err
	}

	tasks, total, err := s.taskRepo.ListByWorkspace(ctx, workspaceID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// Update edits a task; requires EDIT_TASK
func (s *TaskService) Update(ctx context.Context, userID, workspaceID, taskID uuid.UUID, input domain.TaskUpdate) (*domain.Task, error) {
	if _, err := s.members.Authorize(ctx, userID, workspaceID, rbac.EditTask); err != nil {
		return nil, err
	}

	task, err := s.getInWorkspace(ctx, workspaceID, taskID)
	if err != nil {
		return nil, err
	}

	if input.AssignedTo != nil {
		if err := s.checkAssignee(ctx, workspaceID, input.AssignedTo); err != nil {
			return nil, err
		}
		task.AssignedTo = input.AssignedTo
	}
	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.publish(ctx, domain.Event{
		WorkspaceID: workspaceID,
		Kind:        domain.EventTaskUpdated,
		Payload:     task,
	})

	return task, nil
}

// Delete removes a task; requires DELETE_TASK
func (s *TaskService) Delete(ctx context.Context, userID, workspaceID, taskID uuid.UUID) error {
	if _, err := s.members.Authorize(ctx, userID, workspaceID, rbac.DeleteTask); err != nil {
		return err
	}

	if _, err := s.getInWorkspace(ctx, workspaceID, taskID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return err
	}

	s.publish(ctx, domain.Event{
		WorkspaceID: workspaceID,
		Kind:        domain.EventTaskDeleted,
		Payload:     map[string]string{"task_id": taskID.String()},
	})

	return nil
}

// checkAssignee verifies the assignee, when set, is a workspace member
func (s *TaskService) checkAssignee(ctx context.Context, workspaceID uuid.UUID, assignee *uuid.UUID) error {
	if assignee == nil {
		return nil
	}
	member, err := s.memberRepo.Get(ctx, workspaceID, *assignee)
	if err != nil {
		return fmt.Errorf("failed to get assignee membership: %w", err)
	}
	if member == nil {
		return domain.ErrAssigneeNotMember
	}
	return nil
}

func (s *TaskService) getInWorkspace(ctx context.Context, workspaceID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil || task.WorkspaceID != workspaceID {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskService) publish(ctx context.Context, event domain.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("kind", event.Kind).Msg("failed to publish event")
	}
}
