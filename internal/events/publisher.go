// Package events publishes domain events to Redis pub/sub. The email
// notification function and other out-of-process consumers subscribe to
// these channels; nothing in this service consumes them.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"crushquest/internal/middleware"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Event types published by the API.
const (
	TypeDoroCompleted  = "doro.completed"
	TypeDoroLiked      = "doro.liked"
	TypeCommentCreated = "comment.created"
	TypeFollowCreated  = "follow.created"
)

// Channel is the Redis pub/sub channel all domain events are published to.
const Channel = "crushquest:events"

// Event is the wire shape of a published domain event.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	ActorID    uint      `json:"actor_id"`
	TargetUser uint      `json:"target_user_id,omitempty"`
	DoroID     uint      `json:"doro_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher publishes domain events. A Publisher with a nil Redis client is
// valid and publishes nothing.
type Publisher struct {
	rdb *redis.Client
}

// NewPublisher creates a new Publisher using the provided Redis client.
func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// Publish emits the event. Failures are logged, never returned: event
// delivery is best-effort and must not fail the triggering request.
func (p *Publisher) Publish(ctx context.Context, eventType string, actorID, targetUserID, doroID uint) {
	if p == nil || p.rdb == nil {
		return
	}

	evt := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		ActorID:    actorID,
		TargetUser: targetUserID,
		DoroID:     doroID,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "event marshal failed",
			slog.String("type", eventType), slog.String("error", err.Error()))
		return
	}

	if err := p.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
		middleware.Logger.ErrorContext(ctx, "event publish failed",
			slog.String("type", eventType), slog.String("error", err.Error()))
	}
}
