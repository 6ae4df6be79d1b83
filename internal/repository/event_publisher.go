package repository

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/canvasshq/canvass-backend/internal/config"
	"github.com/canvasshq/canvass-backend/internal/websocket"
)

// EventPublisher fans survey activity out to the dashboard events channel.
// Publishing goes through Redis Pub/Sub so every server instance sees
// events regardless of which one handled the request.
type EventPublisher struct {
	rdb *redis.Client
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(rdb *redis.Client) *EventPublisher {
	return &EventPublisher{rdb: rdb}
}

// Publish serializes the event and publishes it. Delivery is best effort.
func (p *EventPublisher) Publish(ctx context.Context, event websocket.DashboardEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, config.CacheKey.DashboardEventsChannel(), data).Err()
}
