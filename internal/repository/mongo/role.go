package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/workpulse/workpulse/internal/domain"
	"github.com/workpulse/workpulse/internal/rbac"
)

// RoleRepository handles role data access
type RoleRepository struct {
	col *mongo.Collection
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *DB) *RoleRepository {
	return &RoleRepository{col: db.Database.Collection(colRoles)}
}

type roleDoc struct {
	ID          string   `bson:"_id"`
	Name        string   `bson:"name"`
	Permissions []string `bson:"permissions"`
}

func (d *roleDoc) toDomain() (*domain.Role, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid role id %q: %w", d.ID, err)
	}

	perms := make([]rbac.Permission, len(d.Permissions))
	for i, p := range d.Permissions {
		perms[i] = rbac.Permission(p)
	}

	return &domain.Role{ID: id, Name: d.Name, Permissions: perms}, nil
}

// GetByID retrieves a role by ID. Returns nil without error when no role
// matches, so the resolver can treat a dangling reference as repairable.
func (r *RoleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	var doc roleDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return doc.toDomain()
}

// GetByName retrieves a role by its canonical name
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	var doc roleDoc
	err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return doc.toDomain()
}

// Seed inserts any missing canonical roles with their registry grants.
// Lookup-before-insert keeps the operation idempotent; the unique index on
// name backs it up under concurrent seeding.
func (r *RoleRepository) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, name := range rbac.RoleNames() {
		existing, err := r.GetByName(ctx, name)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}

		perms := rbac.PermissionsFor(name)
		strs := make([]string, len(perms))
		for i, p := range perms {
			strs[i] = string(p)
		}

		doc := roleDoc{
			ID:          uuid.NewString(),
			Name:        name,
			Permissions: strs,
		}
		if _, err := r.col.InsertOne(ctx, doc); err != nil {
			return created, fmt.Errorf("failed to seed role %s: %w", name, err)
		}
		created++
	}

	return created, nil
}
