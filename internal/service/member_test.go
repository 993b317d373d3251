package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/workpulse/workpulse/internal/domain"
	"github.com/workpulse/workpulse/internal/rbac"
)

func newMemberService() (*MemberService, *MockMemberRepository, *MockRoleRepository, *MockWorkspaceRepository, *MockUserRepository, *MockEventPublisher) {
	memberRepo := new(MockMemberRepository)
	roleRepo := new(MockRoleRepository)
	workspaceRepo := new(MockWorkspaceRepository)
	userRepo := new(MockUserRepository)
	events := new(MockEventPublisher)
	svc := NewMemberService(memberRepo, roleRepo, workspaceRepo, userRepo, events)
	return svc, memberRepo, roleRepo, workspaceRepo, userRepo, events
}

func TestMemberService_Resolve(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	workspaceID := uuid.New()

	t.Run("valid role resolves without repair", func(t *testing.T) {
		svc, memberRepo, roleRepo, _, _, _ := newMemberService()

		roleID := uuid.New()
		member := &domain.Member{ID: uuid.New(), UserID: userID, WorkspaceID: workspaceID, RoleID: roleID}
		role := &domain.Role{ID: roleID, Name: rbac.RoleAdmin}

		memberRepo.On("Get", ctx, workspaceID, userID).Return(member, nil)
		roleRepo.On("GetByID", ctx, roleID).Return(role, nil)

		resolved, err := svc.Resolve(ctx, userID, workspaceID)
		assert.NoError(t, err)
		assert.Equal(t, rbac.RoleAdmin, resolved.Role.Name)
		assert.Contains(t, resolved.Permissions, rbac.DeleteProject)
		memberRepo.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		svc, memberRepo, _, _, _, _ := newMemberService()

		memberRepo.On("Get", ctx, workspaceID, userID).Return(nil, nil)

		_, err := svc.Resolve(ctx, userID, workspaceID)
		assert.ErrorIs(t, err, domain.ErrNotAMember)
	})

	t.Run("dangling role on workspace owner repairs to OWNER", func(t *testing.T) {
		svc, memberRepo, roleRepo, workspaceRepo, _, _ := newMemberService()

		danglingID := uuid.New()
		ownerRoleID := uuid.New()
		member := &domain.Member{ID: uuid.New(), UserID: userID, WorkspaceID: workspaceID, RoleID: danglingID}
		workspace := &domain.Workspace{ID: workspaceID, OwnerID: userID}
		ownerRole := &domain.Role{ID: ownerRoleID, Name: rbac.RoleOwner}

		memberRepo.On("Get", ctx, workspaceID, userID).Return(member, nil)
		roleRepo.On("GetByID", ctx, danglingID).Return(nil, nil)
		workspaceRepo.On("GetByID", ctx, workspaceID).Return(workspace, nil)
		roleRepo.On("GetByName", ctx, rbac.RoleOwner).Return(ownerRole, nil)
		memberRepo.On("UpdateRole", ctx, workspaceID, userID, ownerRoleID).Return(nil)

		resolved, err := svc.Resolve(ctx, userID, workspaceID)
		assert.NoError(t, err)
		assert.Equal(t, rbac.RoleOwner, resolved.Role.Name)
		assert.Equal(t, ownerRoleID, resolved.Member.RoleID)
		memberRepo.AssertExpectations(t)
	})

	t.Run("dangling role on regular member repairs to MEMBER", func(t *testing.T) {
		svc, memberRepo, roleRepo, workspaceRepo, _, _ := newMemberService()

		danglingID := uuid.New()
		memberRoleID := uuid.New()
		member := &domain.Member{ID: uuid.New(), UserID: userID, WorkspaceID: workspaceID, RoleID: danglingID}
		workspace := &domain.Workspace{ID: workspaceID, OwnerID: uuid.New()}
		memberRole := &domain.Role{ID: memberRoleID, Name: rbac.RoleMember}

		memberRepo.On("Get", ctx, workspaceID, userID).Return(member, nil)
		roleRepo.On("GetByID", ctx, danglingID).Return(nil, nil)
		workspaceRepo.On("GetByID", ctx, workspaceID).Return(workspace, nil)
		roleRepo.On("GetByName", ctx, rbac.RoleMember).Return(memberRole, nil)
		memberRepo.On("UpdateRole", ctx, workspaceID, userID, memberRoleID).Return(nil)

		resolved, err := svc.Resolve(ctx, userID, workspaceID)
		assert.NoError(t, err)
		assert.Equal(t, rbac.RoleMember, resolved.Role.Name)
		assert.NotContains(t, resolved.Permissions, rbac.DeleteTask)
		memberRepo.AssertExpectations(t)
	})
}

func TestMemberService_ReconcileAll(t *testing.T) {
	ctx := context.Background()

	t.Run("repairs only dangling records and reports rule counts", func(t *testing.T) {
		svc, memberRepo, roleRepo, workspaceRepo, _, _ := newMemberService()

		validRoleID := uuid.New()
		danglingA := uuid.New()
		danglingB := uuid.New()
		wsA := uuid.New()
		wsB := uuid.New()
		ownerID := uuid.New()
		regularID := uuid.New()

		members := []domain.Member{
			{ID: uuid.New(), UserID: uuid.New(), WorkspaceID: wsA, RoleID: validRoleID},
			{ID: uuid.New(), UserID: ownerID, WorkspaceID: wsA, RoleID: danglingA},
			{ID: uuid.New(), UserID: regularID, WorkspaceID: wsB, RoleID: danglingB},
		}

		ownerRole := &domain.Role{ID: uuid.New(), Name: rbac.RoleOwner}
		memberRole := &domain.Role{ID: uuid.New(), Name: rbac.RoleMember}

		memberRepo.On("ListAll", ctx).Return(members, nil)
		roleRepo.On("GetByID", ctx, validRoleID).Return(&domain.Role{ID: validRoleID, Name: rbac.RoleAdmin}, nil)
		roleRepo.On("GetByID", ctx, danglingA).Return(nil, nil)
		roleRepo.On("GetByID", ctx, danglingB).Return(nil, nil)
		workspaceRepo.On("GetByID", ctx, wsA).Return(&domain.Workspace{ID: wsA, OwnerID: ownerID}, nil)
		workspaceRepo.On("GetByID", ctx, wsB).Return(&domain.Workspace{ID: wsB, OwnerID: uuid.New()}, nil)
		roleRepo.On("GetByName", ctx, rbac.RoleOwner).Return(ownerRole, nil)
		roleRepo.On("GetByName", ctx, rbac.RoleMember).Return(memberRole, nil)
		memberRepo.On("UpdateRole", ctx, wsA, ownerID, ownerRole.ID).Return(nil)
		memberRepo.On("UpdateRole", ctx, wsB, regularID, memberRole.ID).Return(nil)

		report, err := svc.ReconcileAll(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 3, report.Checked)
		assert.Equal(t, 2, report.Repaired)
		assert.Equal(t, 1, report.RepairedByOwnerRule)
		assert.Equal(t, 1, report.RepairedByDefaultRule)
		memberRepo.AssertExpectations(t)
	})

	t.Run("second pass over healthy records repairs nothing", func(t *testing.T) {
		svc, memberRepo, roleRepo, _, _, _ := newMemberService()

		roleID := uuid.New()
		members := []domain.Member{
			{ID: uuid.New(), UserID: uuid.New(), WorkspaceID: uuid.New(), RoleID: roleID},
			{ID: uuid.New(), UserID: uuid.New(), WorkspaceID: uuid.New(), RoleID: roleID},
		}

		memberRepo.On("ListAll", ctx).Return(members, nil)
		roleRepo.On("GetByID", ctx, roleID).Return(&domain.Role{ID: roleID, Name: rbac.RoleMember}, nil)

		report, err := svc.ReconcileAll(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 2, report.Checked)
		assert.Equal(t, 0, report.Repaired)
		memberRepo.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestMemberService_Authorize(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	workspaceID := uuid.New()

	setupRole := func(name string) (*MemberService, *MockMemberRepository) {
		svc, memberRepo, roleRepo, _, _, _ := newMemberService()
		roleID := uuid.New()
		memberRepo.On("Get", ctx, workspaceID, userID).
			Return(&domain.Member{UserID: userID, WorkspaceID: workspaceID, RoleID: roleID}, nil)
		roleRepo.On("GetByID", ctx, roleID).Return(&domain.Role{ID: roleID, Name: name}, nil)
		return svc, memberRepo
	}

	t.Run("member may create tasks", func(t *testing.T) {
		svc, _ := setupRole(rbac.RoleMember)
		_, err := svc.Authorize(ctx, userID, workspaceID, rbac.CreateTask)
		assert.NoError(t, err)
	})

	t.Run("member may not delete tasks", func(t *testing.T) {
		svc, _ := setupRole(rbac.RoleMember)
		_, err := svc.Authorize(ctx, userID, workspaceID, rbac.DeleteTask)
		assert.ErrorIs(t, err, rbac.ErrInsufficientPermissions)
	})

	t.Run("all required permissions must be held", func(t *testing.T) {
		svc, _ := setupRole(rbac.RoleMember)
		_, err := svc.Authorize(ctx, userID, workspaceID, rbac.CreateTask, rbac.DeleteProject)
		assert.ErrorIs(t, err, rbac.ErrInsufficientPermissions)
	})

	t.Run("non-member is rejected before the permission check", func(t *testing.T) {
		svc, memberRepo, _, _, _, _ := newMemberService()
		memberRepo.On("Get", ctx, workspaceID, userID).Return(nil, nil)

		_, err := svc.Authorize(ctx, userID, workspaceID, rbac.ViewOnly)
		assert.ErrorIs(t, err, domain.ErrNotAMember)
	})
}

func TestMemberService_ChangeRole(t *testing.T) {
	ctx := context.Background()
	requesterID := uuid.New()
	workspaceID := uuid.New()
	ownerID := uuid.New()

	setup := func() (*MemberService, *MockMemberRepository, *MockRoleRepository, *MockWorkspaceRepository, *MockEventPublisher) {
		svc, memberRepo, roleRepo, workspaceRepo, _, events := newMemberService()

		adminRoleID := uuid.New()
		memberRepo.On("Get", ctx, workspaceID, requesterID).
			Return(&domain.Member{UserID: requesterID, WorkspaceID: workspaceID, RoleID: adminRoleID}, nil)
		roleRepo.On("GetByID", ctx, adminRoleID).Return(&domain.Role{ID: adminRoleID, Name: rbac.RoleAdmin}, nil)
		return svc, memberRepo, roleRepo, workspaceRepo, events
	}

	t.Run("assigns a new role and notifies observers", func(t *testing.T) {
		svc, memberRepo, roleRepo, workspaceRepo, events := setup()

		targetID := uuid.New()
		newRoleID := uuid.New()
		roleRepo.On("GetByID", ctx, newRoleID).Return(&domain.Role{ID: newRoleID, Name: rbac.RoleMember}, nil)
		workspaceRepo.On("GetByID", ctx, workspaceID).Return(&domain.Workspace{ID: workspaceID, OwnerID: ownerID}, nil)
		memberRepo.On("Get", ctx, workspaceID, targetID).
			Return(&domain.Member{UserID: targetID, WorkspaceID: workspaceID}, nil)
		memberRepo.On("UpdateRole", ctx, workspaceID, targetID, newRoleID).Return(nil)
		events.On("Publish", ctx, mock.MatchedBy(func(e domain.Event) bool {
			return e.Kind == domain.EventMemberRoleChanged
		})).Return(nil)

		err := svc.ChangeRole(ctx, requesterID, workspaceID, domain.ChangeRole{MemberUserID: targetID, RoleID: newRoleID})
		assert.NoError(t, err)
		events.AssertExpectations(t)
	})

	t.Run("OWNER cannot be granted", func(t *testing.T) {
		svc, _, roleRepo, _, _ := setup()

		targetID := uuid.New()
		ownerRoleID := uuid.New()
		roleRepo.On("GetByID", ctx, ownerRoleID).Return(&domain.Role{ID: ownerRoleID, Name: rbac.RoleOwner}, nil)

		err := svc.ChangeRole(ctx, requesterID, workspaceID, domain.ChangeRole{MemberUserID: targetID, RoleID: ownerRoleID})
		assert.ErrorIs(t, err, domain.ErrOwnerImmutable)
	})

	t.Run("the owner's role cannot be changed", func(t *testing.T) {
		svc, _, roleRepo, workspaceRepo, _ := setup()

		newRoleID := uuid.New()
		roleRepo.On("GetByID", ctx, newRoleID).Return(&domain.Role{ID: newRoleID, Name: rbac.RoleMember}, nil)
		workspaceRepo.On("GetByID", ctx, workspaceID).Return(&domain.Workspace{ID: workspaceID, OwnerID: ownerID}, nil)

		err := svc.ChangeRole(ctx, requesterID, workspaceID, domain.ChangeRole{MemberUserID: ownerID, RoleID: newRoleID})
		assert.ErrorIs(t, err, domain.ErrOwnerImmutable)
	})
}

func TestMemberService_Remove(t *testing.T) {
	ctx := context.Background()
	requesterID := uuid.New()
	workspaceID := uuid.New()
	ownerID := uuid.New()

	setup := func() (*MemberService, *MockMemberRepository, *MockWorkspaceRepository, *MockEventPublisher) {
		svc, memberRepo, roleRepo, workspaceRepo, _, events := newMemberService()

		adminRoleID := uuid.New()
		memberRepo.On("Get", ctx, workspaceID, requesterID).
			Return(&domain.Member{UserID: requesterID, WorkspaceID: workspaceID, RoleID: adminRoleID}, nil)
		roleRepo.On("GetByID", ctx, adminRoleID).Return(&domain.Role{ID: adminRoleID, Name: rbac.RoleAdmin}, nil)
		return svc, memberRepo, workspaceRepo, events
	}

	t.Run("removes a member and notifies observers", func(t *testing.T) {
		svc, memberRepo, workspaceRepo, events := setup()

		targetID := uuid.New()
		workspaceRepo.On("GetByID", ctx, workspaceID).Return(&domain.Workspace{ID: workspaceID, OwnerID: ownerID}, nil)
		memberRepo.On("Get", ctx, workspaceID, targetID).
			Return(&domain.Member{UserID: targetID, WorkspaceID: workspaceID}, nil)
		memberRepo.On("Remove", ctx, workspaceID, targetID).Return(nil)
		events.On("Publish", ctx, mock.MatchedBy(func(e domain.Event) bool {
			return e.Kind == domain.EventMemberLeft
		})).Return(nil)

		err := svc.Remove(ctx, requesterID, workspaceID, targetID)
		assert.NoError(t, err)
		memberRepo.AssertExpectations(t)
	})

	t.Run("the owner cannot be removed", func(t *testing.T) {
		svc, memberRepo, workspaceRepo, _ := setup()

		workspaceRepo.On("GetByID", ctx, workspaceID).Return(&domain.Workspace{ID: workspaceID, OwnerID: ownerID}, nil)

		err := svc.Remove(ctx, requesterID, workspaceID, ownerID)
		assert.ErrorIs(t, err, domain.ErrOwnerImmutable)
		memberRepo.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
	})
}
