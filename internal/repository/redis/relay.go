package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/workpulse/workpulse/internal/domain"
)

const relayChannelPrefix = "workspace:"

// Relay publishes workspace events to the real-time relay over Redis
// pub/sub. The WebSocket fan-out process subscribes to workspace channels
// and owns delivery; the core never waits on observers.
type Relay struct {
	client *Client
}

// NewRelay creates a new event relay
func NewRelay(client *Client) *Relay {
	return &Relay{client: client}
}

// Publish sends an event to the channel of the workspace it is scoped to
func (r *Relay) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	channel := relayChannelPrefix + event.WorkspaceID.String()
	if err := r.client.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}
