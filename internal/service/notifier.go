package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/repository"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/kafka"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/logger"
)

// Notifier delivers player notifications. Delivery is fire and forget:
// no method returns an error and a failed send never fails the
// operation that produced it.
type Notifier interface {
	// WindowOpened announces that a priority window just started
	WindowOpened(ctx context.Context, startedAt time.Time)

	// OpenedForAll announces that booking is open without restriction
	OpenedForAll(ctx context.Context)

	// Evicted tells a player their idle queue slot was released
	Evicted(ctx context.Context, entry *domain.QueueEntry)
}

type notificationEvent struct {
	EventID   string    `json:"event_id"`
	Type      string    `json:"type"`
	UserID    string    `json:"user_id,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// KafkaNotifier publishes notification events to a Kafka topic for the
// notification pipeline to deliver. When a profile repository is
// provided, per-user events carry the player's name and phone; lookups
// are best effort and a miss just produces an anonymous event.
type KafkaNotifier struct {
	producer *kafka.Producer
	topic    string
	profiles repository.ProfileRepository
	log      *logger.Logger
}

// NewKafkaNotifier creates a notifier publishing to topic. profiles
// may be nil when the caller has no database handle.
func NewKafkaNotifier(producer *kafka.Producer, topic string, profiles repository.ProfileRepository) *KafkaNotifier {
	return &KafkaNotifier{
		producer: producer,
		topic:    topic,
		profiles: profiles,
		log:      logger.Get().With(zap.String("component", "notifier")),
	}
}

func (n *KafkaNotifier) WindowOpened(ctx context.Context, startedAt time.Time) {
	n.send(ctx, notificationEvent{
		EventID:   uuid.New().String(),
		Type:      "priority_window_opened",
		Message:   "Booking is now open for priority queue members",
		Timestamp: startedAt,
	})
}

func (n *KafkaNotifier) OpenedForAll(ctx context.Context) {
	n.send(ctx, notificationEvent{
		EventID:   uuid.New().String(),
		Type:      "open_for_all",
		Message:   "Booking is now open for everyone",
		Timestamp: time.Now().UTC(),
	})
}

func (n *KafkaNotifier) Evicted(ctx context.Context, entry *domain.QueueEntry) {
	event := notificationEvent{
		EventID:   uuid.New().String(),
		Type:      "queue_slot_released",
		UserID:    entry.UserID,
		Message:   "Your queue slot was released after a period of inactivity",
		Timestamp: time.Now().UTC(),
	}
	if n.profiles != nil {
		if profile, err := n.profiles.GetByUserID(ctx, entry.UserID); err == nil {
			event.Phone = profile.Phone
			event.Message = fmt.Sprintf("%s, your queue slot was released after a period of inactivity", profile.Name)
		}
	}
	n.send(ctx, event)
}

func (n *KafkaNotifier) send(ctx context.Context, event notificationEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		n.log.Error("failed to marshal notification", zap.Error(err))
		return
	}
	msg := &kafka.Message{
		Topic:     n.topic,
		Key:       []byte(event.UserID),
		Value:     payload,
		Timestamp: event.Timestamp,
	}
	if err := n.producer.Produce(ctx, msg); err != nil {
		n.log.Warn("failed to publish notification",
			zap.String("type", event.Type),
			zap.Error(err))
	}
}

// NoopNotifier drops notifications. Used when Kafka is unreachable at
// startup so the API keeps serving.
type NoopNotifier struct{}

func (NoopNotifier) WindowOpened(context.Context, time.Time)     {}
func (NoopNotifier) OpenedForAll(context.Context)                {}
func (NoopNotifier) Evicted(context.Context, *domain.QueueEntry) {}

var (
	_ Notifier = (*KafkaNotifier)(nil)
	_ Notifier = NoopNotifier{}
)
