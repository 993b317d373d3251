package domain

import (
	"context"

	"github.com/google/uuid"
)

// Event kinds broadcast to workspace observers. The relay process handles
// delivery and fan-out; the core only emits.
const (
	EventMemberJoined      = "member:joined"
	EventMemberLeft        = "member:left"
	EventMemberRoleChanged = "member:role-changed"

	EventProjectCreated = "project:created"
	EventProjectUpdated = "project:updated"
	EventProjectDeleted = "project:deleted"

	EventTaskCreated = "task:created"
	EventTaskUpdated = "task:updated"
	EventTaskDeleted = "task:deleted"
)

// Event is a fire-and-forget notification scoped to a workspace
type Event struct {
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Kind        string    `json:"kind"`
	Payload     any       `json:"payload,omitempty"`
}

// EventPublisher delivers events to the real-time relay. Implementations
// must not block request handling on delivery; failures are logged, never
// returned to the triggering operation.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
