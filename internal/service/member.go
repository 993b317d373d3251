package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/workpulse/workpulse/internal/domain"
	"github.com/workpulse/workpulse/internal/rbac"
)

// MemberService resolves memberships to effective roles and permissions and
// manages the membership lifecycle. The repair of dangling role references
// lives here and nowhere else.
type MemberService struct {
	memberRepo    domain.MemberRepository
	roleRepo      domain.RoleRepository
	workspaceRepo domain.WorkspaceRepository
	userRepo      domain.UserRepository
	events        domain.EventPublisher
}

// NewMemberService creates a new member service
func NewMemberService(
	memberRepo domain.MemberRepository,
	roleRepo domain.RoleRepository,
	workspaceRepo domain.WorkspaceRepository,
	userRepo domain.UserRepository,
	events domain.EventPublisher,
) *MemberService {
	return &MemberService{
		memberRepo:    memberRepo,
		roleRepo:      roleRepo,
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
		events:        events,
	}
}

// Resolve produces the effective role and permission set for a user in a
// workspace. A membership whose role reference no longer resolves is
// repaired in place (workspace owner gets OWNER, anyone else MEMBER) and the
// repair is persisted so it does not repeat on the next request. The caller
// never observes the corruption.
func (s *MemberService) Resolve(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.ResolvedMember, error) {
	member, err := s.memberRepo.Get(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return nil, domain.ErrNotAMember
	}

	role, err := s.roleRepo.GetByID(ctx, member.RoleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	if role == nil {
		role, err = s.repair(ctx, member)
		if err != nil {
			return nil, err
		}
	}

	return &domain.ResolvedMember{
		Member:      member,
		Role:        role,
		Permissions: rbac.PermissionsFor(role.Name),
	}, nil
}

// repair assigns a valid role to a membership with a dangling reference and
// persists it. Owner of the workspace gets OWNER; everyone else MEMBER.
func (s *MemberService) repair(ctx context.Context, member *domain.Member) (*domain.Role, error) {
	workspace, err := s.workspaceRepo.GetByID(ctx, member.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	name := rbac.RoleMember
	if workspace != nil && workspace.OwnerID == member.UserID {
		name = rbac.RoleOwner
	}

	role, err := s.roleRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return nil, domain.ErrRoleNotFound
	}

	if err := s.memberRepo.UpdateRole(ctx, member.WorkspaceID, member.UserID, role.ID); err != nil {
		return nil, fmt.Errorf("failed to repair member role: %w", err)
	}
	member.RoleID = role.ID

	log.Warn().
		Str("user_id", member.UserID.String()).
		Str("workspace_id", member.WorkspaceID.String()).
		Str("role", role.Name).
		Msg("repaired membership with dangling role reference")

	return role, nil
}

// ReconcileAll sweeps every membership record, repairing dangling role
// references. Running it twice in a row reports zero repairs the second
// time and leaves valid records untouched.
func (s *MemberService) ReconcileAll(ctx context.Context) (*domain.RepairReport, error) {
	members, err := s.memberRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	report := &domain.RepairReport{}
	for i := range members {
		member := &members[i]
		report.Checked++

		role, err := s.roleRepo.GetByID(ctx, member.RoleID)
		if err != nil {
			return nil, fmt.Errorf("failed to get role: %w", err)
		}
		if role != nil {
			continue
		}

		repaired, err := s.repair(ctx, member)
		if err != nil {
			return nil, err
		}

		report.Repaired++
		if repaired.Name == rbac.RoleOwner {
			report.RepairedByOwnerRule++
		} else {
			report.RepairedByDefaultRule++
		}
	}

	return report, nil
}

// Authorize resolves the caller's membership and checks the required
// permissions in one step. Every privileged operation goes through here.
func (s *MemberService) Authorize(ctx context.Context, userID, workspaceID uuid.UUID, required ...rbac.Permission) (*domain.ResolvedMember, error) {
	resolved, err := s.Resolve(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}
	if err := rbac.Authorize(resolved.Role.Name, required...); err != nil {
		return nil, err
	}
	return resolved, nil
}

// List returns the members of a workspace with user and role details.
// Any member may view the member list.
func (s *MemberService) List(ctx context.Context, requesterID, workspaceID uuid.UUID) ([]domain.MemberInfo, error) {
	if _, err := s.Resolve(ctx, requesterID, workspaceID); err != nil {
		return nil, err
	}

	members, err := s.memberRepo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	infos := make([]domain.MemberInfo, 0, len(members))
	for i := range members {
		member := &members[i]

		role, err := s.roleRepo.GetByID(ctx, member.RoleID)
		if err != nil {
			return nil, fmt.Errorf("failed to get role: %w", err)
		}
		roleName := ""
		if role != nil {
			roleName = role.Name
		}

		user, err := s.userRepo.GetByID(ctx, member.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}

		info := domain.MemberInfo{
			UserID:   member.UserID,
			Role:     roleName,
			JoinedAt: member.JoinedAt,
		}
		if user != nil {
			info.Name = user.Name
			info.Email = user.Email
		}
		infos = append(infos, info)
	}

	return infos, nil
}

// ChangeRole assigns a new role to a workspace member. The OWNER role can
// neither be granted nor taken away here.
func (s *MemberService) ChangeRole(ctx context.Context, requesterID, workspaceID uuid.UUID, input domain.ChangeRole) error {
	if _, err := s.Authorize(ctx, requesterID, workspaceID, rbac.ChangeMemberRole); err != nil {
		return err
	}

	role, err := s.roleRepo.GetByID(ctx, input.RoleID)
	if err != nil {
		return fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return domain.ErrRoleNotFound
	}
	if role.Name == rbac.RoleOwner {
		return domain.ErrOwnerImmutable
	}

	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return domain.ErrWorkspaceNotFound
	}
	if workspace.OwnerID == input.MemberUserID {
		return domain.ErrOwnerImmutable
	}

	target, err := s.memberRepo.Get(ctx, workspaceID, input.MemberUserID)
	if err != nil {
		return fmt.Errorf("failed to get member: %w", err)
	}
	if target == nil {
		return domain.ErrNotAMember
	}

	if err := s.memberRepo.UpdateRole(ctx, workspaceID, input.MemberUserID, input.RoleID); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	s.publish(ctx, domain.Event{
		WorkspaceID: workspaceID,
		Kind:        domain.EventMemberRoleChanged,
		Payload: map[string]string{
			"user_id": input.MemberUserID.String(),
			"role":    role.Name,
		},
	})

	return nil
}

// Remove deletes a member from a workspace. The owner cannot be removed.
func (s *MemberService) Remove(ctx context.Context, requesterID, workspaceID, memberUserID uuid.UUID) error {
	if _, err := s.Authorize(ctx, requesterID, workspaceID, rbac.RemoveMember); err != nil {
		return err
	}

	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return domain.ErrWorkspaceNotFound
	}
	if workspace.OwnerID == memberUserID {
		return domain.ErrOwnerImmutable
	}

	target, err := s.memberRepo.Get(ctx, workspaceID, memberUserID)
	if err != nil {
		return fmt.Errorf("failed to get member: %w", err)
	}
	if target == nil {
		return domain.ErrNotAMember
	}

	if err := s.memberRepo.Remove(ctx, workspaceID, memberUserID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	s.publish(ctx, domain.Event{
		WorkspaceID: workspaceID,
		Kind:        domain.EventMemberLeft,
		Payload:     map[string]string{"user_id": memberUserID.String()},
	})

	return nil
}

func (s *MemberService) publish(ctx context.Context, event domain.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("kind", event.Kind).Msg("failed to publish event")
	}
}
