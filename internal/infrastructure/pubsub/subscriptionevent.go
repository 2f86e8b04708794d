package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/buildhomemart/homemart/internal/domain/subscription"
	"github.com/buildhomemart/homemart/internal/shared/constants"
	"github.com/buildhomemart/homemart/internal/shared/goroutine"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

// SubscriptionEventHandler is a callback function for handling subscription events
type SubscriptionEventHandler func(ctx context.Context, event subscription.StatusChangedEvent)

// RedisSubscriptionEventBus publishes reconciler status changes on a Redis
// channel and lets other services follow them.
type RedisSubscriptionEventBus struct {
	client  *redis.Client
	channel string
	logger  logger.Interface
}

func NewRedisSubscriptionEventBus(client *redis.Client, logger logger.Interface) *RedisSubscriptionEventBus {
	return &RedisSubscriptionEventBus{
		client:  client,
		channel: constants.RedisChannelSubscriptionEv,
		logger:  logger,
	}
}

func (b *RedisSubscriptionEventBus) PublishStatusChanged(ctx context.Context, event subscription.StatusChangedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish subscription status event",
			"subscription_id", event.SubscriptionID,
			"event_type", event.EventType,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("subscription status event published",
		"subscription_id", event.SubscriptionID,
		"event_type", event.EventType,
	)
	return nil
}

// Subscribe blocks until ctx is done, calling handler for each event.
// Handlers run on their own goroutine.
func (b *RedisSubscriptionEventBus) Subscribe(ctx context.Context, handler SubscriptionEventHandler) error {
	ps := b.client.Subscribe(ctx, b.channel)
	defer ps.Close()

	// Wait for subscription confirmation
	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Infow("subscribed to subscription status events", "channel", b.channel)

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("subscription event channel closed")
				return nil
			}

			var event subscription.StatusChangedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warnw("failed to unmarshal subscription event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}

			goroutine.SafeGo(b.logger, "subscription-event-handler", func() {
				handler(context.Background(), event)
			})
		}
	}
}
