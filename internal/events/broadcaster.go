// Package events fans state-change notifications out to connected
// clients through Redis pub/sub, so every API instance sees changes
// made by any other instance or worker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/logger"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/redis"
)

// DefaultChannel is the Redis channel state changes are published on.
const DefaultChannel = "court:state-changed"

// Broadcaster publishes state-change notifications. Publishing is
// advisory: callers never fail their own operation on a publish error.
type Broadcaster interface {
	Publish(ctx context.Context, kind domain.StateChangedKind)
}

// Subscriber delivers state-change notifications published by any
// instance. Returned channels are closed when the context ends.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan domain.StateChanged, error)
}

// RedisBroadcaster implements Broadcaster and Subscriber over a shared
// Redis channel
type RedisBroadcaster struct {
	client  *redis.Client
	channel string
	log     *logger.Logger
}

// NewRedisBroadcaster creates a broadcaster on the given channel.
// An empty channel falls back to DefaultChannel.
func NewRedisBroadcaster(client *redis.Client, channel string) *RedisBroadcaster {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisBroadcaster{
		client:  client,
		channel: channel,
		log:     logger.Get().With(zap.String("component", "broadcaster")),
	}
}

// Publish sends the event and logs failures instead of returning them
func (b *RedisBroadcaster) Publish(ctx context.Context, kind domain.StateChangedKind) {
	event := domain.StateChanged{Kind: kind, At: time.Now().UTC()}
	payload, err := json.Marshal(event)
	if err != nil {
		b.log.Error("failed to marshal state change", zap.Error(err))
		return
	}
	if err := b.client.Publish(ctx, b.channel, payload); err != nil {
		b.log.Warn("failed to publish state change",
			zap.String("kind", string(kind)),
			zap.Error(err))
	}
}

// Subscribe opens a Redis subscription and decodes messages until ctx
// is done. Malformed payloads are dropped with a warning.
func (b *RedisBroadcaster) Subscribe(ctx context.Context) (<-chan domain.StateChanged, error) {
	sub := b.client.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	out := make(chan domain.StateChanged, 16)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event domain.StateChanged
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.log.Warn("dropping malformed state change", zap.Error(err))
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// NoopBroadcaster discards events. Used when Redis is unavailable so
// the API keeps serving without live updates.
type NoopBroadcaster struct{}

func (NoopBroadcaster) Publish(context.Context, domain.StateChangedKind) {}

var (
	_ Broadcaster = (*RedisBroadcaster)(nil)
	_ Subscriber  = (*RedisBroadcaster)(nil)
	_ Broadcaster = NoopBroadcaster{}
)
