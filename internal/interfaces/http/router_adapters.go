package http

import (
	"context"

	"github.com/buildhomemart/homemart/internal/domain/subscription"
	"github.com/buildhomemart/homemart/internal/infrastructure/pubsub"
	"github.com/buildhomemart/homemart/internal/interfaces/http/handlers"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

// healthChecks adapts the database and Redis clients to health checks.
func (c *Container) healthChecks() map[string]handlers.HealthCheck {
	checks := map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := c.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if c.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return c.redis.Ping(ctx).Err()
		}
	}
	return checks
}

// newSubscriptionAuditHandler logs every subscription status change seen on
// the event channel, including those made by other instances.
func newSubscriptionAuditHandler(log logger.Interface) pubsub.SubscriptionEventHandler {
	return func(ctx context.Context, event subscription.StatusChangedEvent) {
		log.Infow("subscription status changed",
			"event_type", event.EventType,
			"subscription_id", event.SubscriptionID,
			"user_id", event.UserID,
			"plan_id", event.PlanID,
			"status", event.Status,
			"reason", event.Reason,
			"payment_id", event.PaymentID,
		)
	}
}
