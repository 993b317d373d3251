package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/workpulse/workpulse/internal/rbac"
)

// Member associates a user with a workspace and a role. At most one record
// exists per (user, workspace) pair; the storage layer enforces this with a
// unique compound index.
type Member struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	RoleID      uuid.UUID `json:"role_id"`
	JoinedAt    time.Time `json:"joined_at"`
}

// ResolvedMember is the effective view of a membership after the role
// reference has been resolved (and repaired if it was dangling).
type ResolvedMember struct {
	Member      *Member           `json:"member"`
	Role        *Role             `json:"role"`
	Permissions []rbac.Permission `json:"permissions"`
}

// MemberInfo is the member listing shape returned to clients
type MemberInfo struct {
	UserID   uuid.UUID `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// ChangeRole represents a role-change request for a workspace member
type ChangeRole struct {
	MemberUserID uuid.UUID `json:"member_user_id" validate:"required"`
	RoleID       uuid.UUID `json:"role_id" validate:"required"`
}

// RepairReport summarizes one reconciliation pass over membership records
type RepairReport struct {
	Checked               int `json:"checked"`
	Repaired              int `json:"repaired"`
	RepairedByOwnerRule   int `json:"repaired_by_owner_rule"`
	RepairedByDefaultRule int `json:"repaired_by_default_rule"`
}

// MemberRepository defines the interface for membership storage
type MemberRepository interface {
	// Add creates the membership if no record exists for the
	// (workspace, user) pair and leaves an existing record untouched, so
	// concurrent duplicate joins cannot produce two records.
	Add(ctx context.Context, member *Member) error
	Get(ctx context.Context, workspaceID, userID uuid.UUID) (*Member, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]Member, error)
	ListAll(ctx context.Context) ([]Member, error)
	UpdateRole(ctx context.Context, workspaceID, userID, roleID uuid.UUID) error
	Remove(ctx context.Context, workspaceID, userID uuid.UUID) error
	RemoveByWorkspace(ctx context.Context, workspaceID uuid.UUID) error
}
