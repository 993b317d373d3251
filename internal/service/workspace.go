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

// WorkspaceService handles workspace lifecycle and the invite/join flow
type WorkspaceService struct {
	workspaceRepo domain.WorkspaceRepository
	memberRepo    domain.MemberRepository
	roleRepo      domain.RoleRepository
	userRepo      domain.UserRepository
	projectRepo   domain.ProjectRepository
	taskRepo      domain.TaskRepository
	members       *MemberService
	events        domain.EventPublisher
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(
	workspaceRepo domain.WorkspaceRepository,
	memberRepo domain.MemberRepository,
	roleRepo domain.RoleRepository,
	userRepo domain.UserRepository,
	projectRepo domain.ProjectRepository,
	taskRepo domain.TaskRepository,
	members *MemberService,
	events domain.EventPublisher,
) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		memberRepo:    memberRepo,
		roleRepo:      roleRepo,
		userRepo:      userRepo,
		projectRepo:   projectRepo,
		taskRepo:      taskRepo,
		members:       members,
		events:        events,
	}
}

// Create creates a workspace, mints its invite code, and makes the creator
// its OWNER and sole initial member.
func (s *WorkspaceService) Create(ctx context.Context, userID uuid.UUID, input domain.WorkspaceCreate) (*domain.Workspace, error) {
	ownerRole, err := s.roleRepo.GetByName(ctx, rbac.RoleOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner role: %w", err)
	}
	if ownerRole == nil {
		return nil, domain.ErrRoleNotFound
	}

	now := time.Now()
	workspace := &domain.Workspace{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     userID,
		InviteCode:  security.GenerateInviteCode(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.workspaceRepo.Create(ctx, workspace); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	member := &domain.Member{
		ID:          uuid.New(),
		UserID:      userID,
		WorkspaceID: workspace.ID,
		RoleID:      ownerRole.ID,
		JoinedAt:    now,
	}
	if err := s.memberRepo.Add(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add owner member: %w", err)
	}

	s.setCurrentWorkspace(ctx, userID, workspace.ID)

	return workspace, nil
}

// GetByID retrieves a workspace; the caller must be a member
func (s *WorkspaceService) GetByID(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.Workspace, error) {
	if _, err := s.members.Resolve(ctx, userID, workspaceID); err != nil {
		return nil, err
	}

	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return nil, domain.ErrWorkspaceNotFound
	}
	return workspace, nil
}

// ListByUser retrieves all workspaces the user belongs to
func (s *WorkspaceService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error) {
	workspaces, err := s.workspaceRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return workspaces, nil
}

// Update edits workspace name/description; requires EDIT_WORKSPACE
func (s *WorkspaceService) Update(ctx context.Context, userID, workspaceID uuid.UUID, input domain.WorkspaceUpdate) (*domain.Workspace, error) {
	if _, err := s.members.Authorize(ctx, userID, workspaceID, rbac.EditWorkspace); err != nil {
		return nil, err
	}

	if err := s.workspaceRepo.Update(ctx, workspaceID, &input); err != nil {
		return nil, fmt.Errorf("failed to update workspace: %w", err)
	}

	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return nil, domain.ErrWorkspaceNotFound
	}
	return workspace, nil
}

// Delete removes a workspace and everything scoped to it; requires
// DELETE_WORKSPACE (held only by OWNER).
func (s *WorkspaceService) Delete(ctx context.Context, userID, workspaceID uuid.UUID) error {
	if _, err := s.members.Authorize(ctx, userID, workspaceID, rbac.DeleteWorkspace); err != nil {
		return err
	}

	if err := s.taskRepo.DeleteByWorkspace(ctx, workspaceID); err != nil {
		return err
	}
	if err := s.projectRepo.DeleteByWorkspace(ctx, workspaceID); err != nil {
		return err
	}
	if err := s.memberRepo.RemoveByWorkspace(ctx, workspaceID); err != nil {
		return err
	}
	return s.workspaceRepo.Delete(ctx, workspaceID)
}

// Analytics returns task counts across a workspace; the caller must be a
// member.
func (s *WorkspaceService) Analytics(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.WorkspaceAnalytics, error) {
	if _, err := s.members.Resolve(ctx, userID, workspaceID); err != nil {
		return nil, err
	}

	counts, err := s.taskRepo.Analytics(ctx, workspaceID, nil, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to compute analytics: %w", err)
	}

	return &domain.WorkspaceAnalytics{
		TotalTasks:     counts.TotalTasks,
		OverdueTasks:   counts.OverdueTasks,
		CompletedTasks: counts.CompletedTasks,
	}, nil
}

// Join redeems an invite code for the calling user. Joining a workspace the
// user already belongs to succeeds without creating a second membership; a
// first join creates a MEMBER-role record and notifies workspace observers.
func (s *WorkspaceService) Join(ctx context.Context, userID uuid.UUID, inviteCode string) (*domain.Workspace, error) {
	workspace, err := s.workspaceRepo.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}
	if workspace == nil {
		return nil, domain.ErrInvalidInviteCode
	}

	existing, err := s.memberRepo.Get(ctx, workspace.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if existing != nil {
		return workspace, nil
	}

	memberRole, err := s.roleRepo.GetByName(ctx, rbac.RoleMember)
	if err != nil {
		return nil, fmt.Errorf("failed to get member role: %w", err)
	}
	if memberRole == nil {
		return nil, domain.ErrRoleNotFound
	}

	member := &domain.Member{
		ID:          uuid.New(),
		UserID:      userID,
		WorkspaceID: workspace.ID,
		RoleID:      memberRole.ID,
		JoinedAt:    time.Now(),
	}
	if err := s.memberRepo.Add(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	s.setCurrentWorkspace(ctx, userID, workspace.ID)

	s.publish(ctx, domain.Event{
		WorkspaceID: workspace.ID,
		Kind:        domain.EventMemberJoined,
		Payload:     map[string]string{"user_id": userID.String()},
	})

	return workspace, nil
}

// setCurrentWorkspace points the user's profile at a workspace they just
// created or joined. Failures here never fail the primary operation.
func (s *WorkspaceService) setCurrentWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to load user for current workspace update")
		return
	}
	user.CurrentWorkspace = &workspaceID
	if err := s.userRepo.Update(ctx, user); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to set current workspace")
	}
}

func (s *WorkspaceService) publish(ctx context.Context, event domain.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("kind", event.Kind).Msg("failed to publish event")
	}
}
