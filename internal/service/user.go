package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/workpulse/workpulse/internal/domain"
)

// UserService handles profile operations
type UserService struct {
	userRepo   domain.UserRepository
	memberRepo domain.MemberRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo domain.UserRepository, memberRepo domain.MemberRepository) *UserService {
	return &UserService{userRepo: userRepo, memberRepo: memberRepo}
}

// GetCurrent retrieves the calling user's profile
func (s *UserService) GetCurrent(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// UpdateCurrent updates the calling user's profile
func (s *UserService) UpdateCurrent(ctx context.Context, userID uuid.UUID, input domain.UserUpdate) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if input.Name != nil {
		user.Name = *input.Name
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// SetCurrentWorkspace switches the user's active workspace; the user must
// be a member of the target workspace.
func (s *UserService) SetCurrentWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.User, error) {
	member, err := s.memberRepo.Get(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return nil, domain.ErrNotAMember
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	user.CurrentWorkspace = &workspaceID
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
