package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/subtrack/internal/shared/constants"
	"github.com/orris-inc/subtrack/internal/shared/goroutine"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

// ReminderEventType distinguishes what happened to a reminder.
type ReminderEventType string

const (
	ReminderEventSent   ReminderEventType = "reminder.sent"
	ReminderEventFailed ReminderEventType = "reminder.failed"
)

// ReminderEvent is fanned out to every instance so each can push it to its
// own websocket clients.
type ReminderEvent struct {
	Type          ReminderEventType `json:"type"`
	AssignmentID  uint              `json:"assignment_id"`
	AssignmentSID string            `json:"assignment_sid"`
	CustomerName  string            `json:"customer_name"`
	ProductName   string            `json:"product_name"`
	Expiry        string            `json:"expiry"`
	Manual        bool              `json:"manual"`
	Timestamp     int64             `json:"timestamp"`
}

type ReminderEventHandler func(ctx context.Context, event ReminderEvent)

type ReminderEventPublisher interface {
	Publish(ctx context.Context, event ReminderEvent) error
}

// RedisReminderEventBus publishes and consumes reminder events over Redis Pub/Sub.
type RedisReminderEventBus struct {
	client  *redis.Client
	channel string
	logger  logger.Interface
}

func NewRedisReminderEventBus(client *redis.Client, logger logger.Interface) *RedisReminderEventBus {
	return &RedisReminderEventBus{
		client:  client,
		channel: constants.RedisChannelEvents,
		logger:  logger,
	}
}

func (b *RedisReminderEventBus) Publish(ctx context.Context, event ReminderEvent) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish reminder event",
			"assignment_id", event.AssignmentID,
			"type", event.Type,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("reminder event published",
		"assignment_id", event.AssignmentID,
		"type", event.Type,
	)
	return nil
}

// Subscribe consumes events until ctx is done or the connection drops.
// ready, if non-nil, is closed once the subscription is confirmed.
func (b *RedisReminderEventBus) Subscribe(ctx context.Context, handler ReminderEventHandler, ready chan<- struct{}) error {
	ps := b.client.Subscribe(ctx, b.channel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}
	if ready != nil {
		close(ready)
	}

	b.logger.Infow("subscribed to reminder events", "channel", b.channel)

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return errors.New("reminder event channel closed")
			}

			var event ReminderEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warnw("failed to unmarshal reminder event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}

			goroutine.SafeGo(b.logger, "reminder-event-handler", func() {
				handler(context.Background(), event)
			})
		}
	}
}

// Run keeps a subscription alive, reconnecting with exponential backoff
// until ctx is cancelled.
func (b *RedisReminderEventBus) Run(ctx context.Context, handler ReminderEventHandler) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = 30 * time.Second

	for {
		err := b.Subscribe(ctx, handler, nil)
		if ctx.Err() != nil {
			b.logger.Infow("reminder event subscriber stopped")
			return
		}

		wait := bo.NextBackOff()
		b.logger.Warnw("reminder event subscription lost, reconnecting",
			"error", err,
			"retry_in", wait,
		)
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}
