package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/workpulse/workpulse/internal/domain"
	"github.com/workpulse/workpulse/internal/rbac"
)

// ProjectService handles project operations within a workspace
type ProjectService struct {
	projectRepo domain.ProjectRepository
	taskRepo    domain.TaskRepository
	members     *MemberService
	events      domain.EventPublisher
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo domain.ProjectRepository,
	taskRepo domain.TaskRepository,
	members *MemberService,
	events domain.EventPublisher,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		members:     members,
		events:      events,
	}
}

// Create creates a project; requires CREATE_PROJECT
func (s *ProjectService) Create(ctx context.Context, userID, workspaceID uuid.UUID, input domain.ProjectCreate) (*domain.Project, error) {
	if _, err := s.members.Authorize(ctx, userID, workspaceID, rbac.CreateProject); err != nil {
		return nil, err
	}

	now := time.Now()
	project := &domain.Project{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Name:        input.Name,
		Description: input.Description,
		Emoji:       input.Emoji,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.publish(ctx, domain.Event{
		WorkspaceID: workspaceID,
		Kind:        domain.EventProjectCreated,
		Payload:     project,
	})

	return project, nil
}

// GetByID retrieves a project; the caller must be a workspace member
func (s *ProjectService) GetByID(ctx context.Context, userID, workspaceID, projectID uuid.UUID) (*domain.Project, error) {
	if _, err := s.members.Resolve(ctx, userID, workspaceID); err != nil {
		return nil, err
	}
	return s.getInWorkspace(ctx, workspaceID, projectID)
}

// List retrieves projects in a workspace; the caller must be a member
func (s *ProjectService) List(ctx context.Context, userID, workspaceID uuid.UUID, limit, offset int) ([]domain.Project, error) {
	if _, err := s.members.Resolve(ctx, userID, workspaceID); err != nil {
		return nil, err
	}

	projects, err := s.projectRepo.ListByWorkspace(ctx, workspaceID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Update edits a project; requires EDIT_PROJECT
func (s *ProjectService) Update(ctx context.Context, userID, workspaceID, projectID uuid.UUID, input domain.ProjectUpdate) (*domain.Project, error) {
	if _, err := s.members.Authorize(ctx, userID, workspaceID, rbac.EditProject); err != nil {
		return nil, err
	}

	if _, err := s.getInWorkspace(ctx, workspaceID, projectID); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Update(ctx, projectID, &input); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	project, err := s.getInWorkspace(ctx, workspaceID, projectID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.Event{
		WorkspaceID: workspaceID,
		Kind:        domain.EventProjectUpdated,
		Payload:     project,
	})

	return project, nil
}

// Delete removes a project and its tasks; requires DELETE_PROJECT
func (s *ProjectService) Delete(ctx context.Context, userID, workspaceID, projectID uuid.UUID) error {
	if _, err := s.members.Authorize(ctx, userID, workspaceID, rbac.DeleteProject); err != nil {
		return err
	}

	if _, err := s.getInWorkspace(ctx, workspaceID, projectID); err != nil {
		return err
	}

	if err := s.taskRepo.DeleteByProject(ctx, projectID); err != nil {
		return err
	}
	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return err
	}

	s.publish(ctx, domain.Event{
		WorkspaceID: workspaceID,
		Kind:        domain.EventProjectDeleted,
		Payload:     map[string]string{"project_id": projectID.String()},
	})

	return nil
}

// Analytics returns task counts for a project; the caller must be a member
func (s *ProjectService) Analytics(ctx context.Context, userID, workspaceID, projectID uuid.UUID) (*domain.ProjectAnalytics, error) {
	if _, err := s.members.Resolve(ctx, userID, workspaceID); err != nil {
		return nil, err
	}

	if _, err := s.getInWorkspace(ctx, workspaceID, projectID); err != nil {
		return nil, err
	}

	analytics, err := s.taskRepo.Analytics(ctx, workspaceID, &projectID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to compute analytics: %w", err)
	}
	return analytics, nil
}

// getInWorkspace loads a project and verifies it belongs to the workspace.
// A project reached through the wrong workspace is reported as not found.
func (s *ProjectService) getInWorkspace(ctx context.Context, workspaceID, projectID uuid.UUID) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil || project.WorkspaceID != workspaceID {
		return nil, domain.ErrProjectNotFound
	}
	return project, nil
}

func (s *ProjectService) publish(ctx context.Context, event domain.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("kind", event.Kind).Msg("failed to publish event")
	}
}
