package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/workpulse/workpulse/internal/domain"
)

// MemberRepository handles membership data access
type MemberRepository struct {
	col *mongo.Collection
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *DB) *MemberRepository {
	return &MemberRepository{col: db.Database.Collection(colMembers)}
}

type memberDoc struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"user_id"`
	WorkspaceID string    `bson:"workspace_id"`
	RoleID      string    `bson:"role_id"`
	JoinedAt    time.Time `bson:"joined_at"`
}

func (d *memberDoc) toDomain() (*domain.Member, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid member id %q: %w", d.ID, err)
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", d.UserID, err)
	}
	workspaceID, err := uuid.Parse(d.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace id %q: %w", d.WorkspaceID, err)
	}
	// A malformed role reference is not fatal here: the resolver treats
	// uuid.Nil as a dangling reference and repairs it.
	roleID, _ := uuid.Parse(d.RoleID)

	return &domain.Member{
		ID:          id,
		UserID:      userID,
		WorkspaceID: workspaceID,
		RoleID:      roleID,
		JoinedAt:    d.JoinedAt,
	}, nil
}

// Add creates the membership if none exists for the (workspace, user) pair.
// $setOnInsert against the unique compound index makes concurrent duplicate
// joins converge on a single record without touching an existing role.
func (r *MemberRepository) Add(ctx context.Context, member *domain.Member) error {
	filter := bson.M{
		"workspace_id": member.WorkspaceID.String(),
		"user_id":      member.UserID.String(),
	}
	update := bson.M{
		"$setOnInsert": memberDoc{
			ID:          member.ID.String(),
			UserID:      member.UserID.String(),
			WorkspaceID: member.WorkspaceID.String(),
			RoleID:      member.RoleID.String(),
			JoinedAt:    member.JoinedAt,
		},
	}

	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// Get retrieves the membership for a (workspace, user) pair
func (r *MemberRepository) Get(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.Member, error) {
	filter := bson.M{
		"workspace_id": workspaceID.String(),
		"user_id":      userID.String(),
	}

	var doc memberDoc
	err := r.col.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return doc.toDomain()
}

// ListByWorkspace retrieves all memberships in a workspace
func (r *MemberRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Member, error) {
	return r.list(ctx, bson.M{"workspace_id": workspaceID.String()})
}

// ListAll retrieves every membership record; used by reconciliation
func (r *MemberRepository) ListAll(ctx context.Context) ([]domain.Member, error) {
	return r.list(ctx, bson.M{})
}

func (r *MemberRepository) list(ctx context.Context, filter bson.M) ([]domain.Member, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer cursor.Close(ctx)

	var members []domain.Member
	for cursor.Next(ctx) {
		var doc memberDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		member, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		members = append(members, *member)
	}
	return members, cursor.Err()
}

// UpdateRole sets the role reference for a membership. Last write wins; role
// changes carry no optimistic-concurrency token.
func (r *MemberRepository) UpdateRole(ctx context.Context, workspaceID, userID, roleID uuid.UUID) error {
	filter := bson.M{
		"workspace_id": workspaceID.String(),
		"user_id":      userID.String(),
	}
	_, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"role_id": roleID.String()}})
	if err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}
	return nil
}

// Remove deletes the membership for a (workspace, user) pair
func (r *MemberRepository) Remove(ctx context.Context, workspaceID, userID uuid.UUID) error {
	filter := bson.M{
		"workspace_id": workspaceID.String(),
		"user_id":      userID.String(),
	}
	if _, err := r.col.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// RemoveByWorkspace deletes every membership in a workspace
func (r *MemberRepository) RemoveByWorkspace(ctx context.Context, workspaceID uuid.UUID) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"workspace_id": workspaceID.String()}); err != nil {
		return fmt.Errorf("failed to remove workspace members: %w", err)
	}
	return nil
}
