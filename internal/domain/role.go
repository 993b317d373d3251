package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/workpulse/workpulse/internal/rbac"
)

// Role is the persisted record for one of the canonical roles. Memberships
// reference roles by ID so a role rename never rewrites membership documents.
// The permission grants themselves are owned by the rbac registry; the stored
// permission list exists for inspection and client display.
type Role struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Permissions []rbac.Permission `json:"permissions"`
}

// RoleRepository defines the interface for role storage
type RoleRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
	// Seed inserts any missing canonical roles and returns the number
	// created. Running it against an already-seeded store creates nothing.
	Seed(ctx context.Context) (int, error)
}
