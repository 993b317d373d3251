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

func newTaskService(roleName string, userID, workspaceID uuid.UUID) (*TaskService, *MockTaskRepository, *MockProjectRepository, *MockMemberRepository, *MockEventPublisher) {
	taskRepo := new(MockTaskRepository)
	projectRepo := new(MockProjectRepository)
	memberRepo := new(MockMemberRepository)
	roleRepo := new(MockRoleRepository)
	workspaceRepo := new(MockWorkspaceRepository)
	userRepo := new(MockUserRepository)
	events := new(MockEventPublisher)

	roleID := uuid.New()
	memberRepo.On("Get", mock.Anything, workspaceID, userID).
		Return(&domain.Member{UserID: userID, WorkspaceID: workspaceID, RoleID: roleID}, nil)
	roleRepo.On("GetByID", mock.Anything, roleID).Return(&domain.Role{ID: roleID, Name: roleName}, nil)

	members := NewMemberService(memberRepo, roleRepo, workspaceRepo, userRepo, events)
	svc := NewTaskService(taskRepo, projectRepo, memberRepo, members, events)
	return svc, taskRepo, projectRepo, memberRepo, events
}

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	workspaceID := uuid.New()
	projectID := uuid.New()
	project := &domain.Project{ID: projectID, WorkspaceID: workspaceID}

	t.Run("member creates a task with defaults and a task code", func(t *testing.T) {
		svc, taskRepo, projectRepo, _, events := newTaskService(rbac.RoleMember, userID, workspaceID)

		projectRepo.On("GetByID", ctx, projectID).Return(project, nil)
		taskRepo.On("Create", ctx, mock.AnythingOfType("*domain.Task")).Return(nil)
		events.On("Publish", ctx, mock.MatchedBy(func(e domain.Event) bool {
			return e.Kind == domain.EventTaskCreated
		})).Return(nil)

		task, err := svc.Create(ctx, userID, workspaceID, projectID, domain.TaskCreate{Title: "Ship it"})
		assert.NoError(t, err)
		assert.Equal(t, domain.TaskStatusTodo, task.Status)
		assert.Equal(t, domain.TaskPriorityMedium, task.Priority)
		assert.Regexp(t, `^TASK-[0-9A-F]{6}$`, task.TaskCode)
		assert.Equal(t, userID, task.CreatedBy)
	})

	t.Run("assignee outside the workspace is rejected", func(t *testing.T) {
		svc, taskRepo, projectRepo, memberRepo, _ := newTaskService(rbac.RoleAdmin, userID, workspaceID)

		outsider := uuid.New()
		projectRepo.On("GetByID", ctx, projectID).Return(project, nil)
		memberRepo.On("Get", ctx, workspaceID, outsider).Return(nil, nil)

		_, err := svc.Create(ctx, userID, workspaceID, projectID, domain.TaskCreate{Title: "Ship it", AssignedTo: &outsider})
		assert.ErrorIs(t, err, domain.ErrAssigneeNotMember)
		taskRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("project in another workspace is not found", func(t *testing.T) {
		svc, taskRepo, projectRepo, _, _ := newTaskService(rbac.RoleAdmin, userID, workspaceID)

		foreign := &domain.Project{ID: projectID, WorkspaceID: uuid.New()}
		projectRepo.On("GetByID", ctx, projectID).Return(foreign, nil)

		_, err := svc.Create(ctx, userID, workspaceID, projectID, domain.TaskCreate{Title: "Ship it"})
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
		taskRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestTaskService_Delete(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	workspaceID := uuid.New()
	taskID := uuid.New()

	t.Run("member may not delete tasks", func(t *testing.T) {
		svc, taskRepo, _, _, _ := newTaskService(rbac.RoleMember, userID, workspaceID)

		err := svc.Delete(ctx, userID, workspaceID, taskID)
		assert.ErrorIs(t, err, rbac.ErrInsufficientPermissions)
		taskRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("admin deletion notifies observers", func(t *testing.T) {
		svc, taskRepo, _, _, events := newTaskService(rbac.RoleAdmin, userID, workspaceID)

		taskRepo.On("GetByID", ctx, taskID).Return(&domain.Task{ID: taskID, WorkspaceID: workspaceID}, nil)
		taskRepo.On("Delete", ctx, taskID).Return(nil)
		events.On("Publish", ctx, mock.MatchedBy(func(e domain.Event) bool {
			return e.Kind == domain.EventTaskDeleted
		})).Return(nil)

		err := svc.Delete(ctx, userID, workspaceID, taskID)
		assert.NoError(t, err)
		events.AssertExpectations(t)
	})
}

func TestTaskService_Update(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	workspaceID := uuid.New()
	taskID := uuid.New()

	t.Run("only provided fields change", func(t *testing.T) {
		svc, taskRepo, _, _, events := newTaskService(rbac.RoleMember, userID, workspaceID)

		existing := &domain.Task{
			ID:          taskID,
			WorkspaceID: workspaceID,
			Title:       "Old title",
			Status:      domain.TaskStatusTodo,
			Priority:    domain.TaskPriorityHigh,
		}
		taskRepo.On("GetByID", ctx, taskID).Return(existing, nil)
		taskRepo.On("Update", ctx, mock.AnythingOfType("*domain.Task")).Return(nil)
		events.On("Publish", ctx, mock.Anything).Return(nil)

		status := domain.TaskStatusDone
		task, err := svc.Update(ctx, userID, workspaceID, taskID, domain.TaskUpdate{Status: &status})
		assert.NoError(t, err)
		assert.Equal(t, domain.TaskStatusDone, task.Status)
		assert.Equal(t, "Old title", task.Title)
		assert.Equal(t, domain.TaskPriorityHigh, task.Priority)
	})
}
