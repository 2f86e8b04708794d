package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	propertyusecases "github.com/buildhomemart/homemart/internal/application/property/usecases"
	"github.com/buildhomemart/homemart/internal/domain/payment"
	"github.com/buildhomemart/homemart/internal/domain/subscription"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

// ListingUnarchiver is satisfied by the property unarchive use case.
type ListingUnarchiver interface {
	Execute(ctx context.Context, cmd propertyusecases.UnarchiveFreeListingsCommand) *propertyusecases.UnarchiveFreeListingsResult
}

// CascadeError reports that the payment write succeeded but the linked
// subscription could not be updated. The payment write is not rolled back.
type CascadeError struct {
	SubscriptionID uint
	Err            error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("subscription %d: %v", e.SubscriptionID, e.Err)
}

func (e *CascadeError) Unwrap() error {
	return e.Err
}

// SubscriptionCascade propagates a payment's terminal status onto the
// subscription it funds.
type SubscriptionCascade struct {
	subscriptionRepo subscription.SubscriptionRepository
	publisher        subscription.EventPublisher
	listings         ListingUnarchiver
	logger           logger.Interface
}

// NewSubscriptionCascade wires the cascade. publisher and listings may be nil.
func NewSubscriptionCascade(
	subscriptionRepo subscription.SubscriptionRepository,
	publisher subscription.EventPublisher,
	listings ListingUnarchiver,
	logger logger.Interface,
) *SubscriptionCascade {
	return &SubscriptionCascade{
		subscriptionRepo: subscriptionRepo,
		publisher:        publisher,
		listings:         listings,
		logger:           logger,
	}
}

// CancelFor cancels the linked subscription with reason.
func (c *SubscriptionCascade) CancelFor(ctx context.Context, p *payment.Payment, reason string, now time.Time) error {
	sub, err := c.load(ctx, p)
	if err != nil || sub == nil {
		return err
	}

	if err := sub.Cancel(reason, now); err != nil {
		c.logger.Warnw("linked subscription cannot be cancelled",
			"payment_id", p.ID(),
			"subscription_id", sub.ID(),
			"status", sub.Status(),
			"error", err,
		)
		return nil
	}
	if !sub.IsDirty() {
		return nil
	}

	return c.save(ctx, p, sub)
}

// ActivateFor activates the linked subscription and, for purchases that grant
// listings, releases the owner's archived properties.
func (c *SubscriptionCascade) ActivateFor(ctx context.Context, p *payment.Payment, now time.Time) error {
	var cascadeErr error

	sub, err := c.load(ctx, p)
	switch {
	case err != nil:
		cascadeErr = err
	case sub == nil:
	case sub.Status().IsActive():
	default:
		if err := sub.Activate(now); err != nil {
			c.logger.Warnw("linked subscription cannot be activated",
				"payment_id", p.ID(),
				"subscription_id", sub.ID(),
				"status", sub.Status(),
				"error", err,
			)
		} else {
			cascadeErr = c.save(ctx, p, sub)
		}
	}

	if c.listings != nil && p.Type().GrantsListings() {
		result := c.listings.Execute(ctx, propertyusecases.UnarchiveFreeListingsCommand{UserID: p.UserID()})
		if !result.Success {
			c.logger.Warnw("listings were not released after payment",
				"payment_id", p.ID(),
				"user_id", p.UserID(),
				"error", result.Error,
			)
		}
	}

	return cascadeErr
}

func (c *SubscriptionCascade) load(ctx context.Context, p *payment.Payment) (*subscription.Subscription, error) {
	if p.SubscriptionID() == nil {
		return nil, nil
	}
	subscriptionID := *p.SubscriptionID()

	sub, err := c.subscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			c.logger.Warnw("subscription not found for payment",
				"payment_id", p.ID(),
				"subscription_id", subscriptionID,
			)
			return nil, nil
		}
		return nil, &CascadeError{SubscriptionID: subscriptionID, Err: err}
	}
	return sub, nil
}

func (c *SubscriptionCascade) save(ctx context.Context, p *payment.Payment, sub *subscription.Subscription) error {
	if err := c.subscriptionRepo.SaveStatus(ctx, sub); err != nil {
		if errors.Is(err, subscription.ErrStaleStatus) {
			c.logger.Warnw("subscription changed concurrently, skipping cascade",
				"payment_id", p.ID(),
				"subscription_id", sub.ID(),
			)
			return nil
		}
		return &CascadeError{SubscriptionID: sub.ID(), Err: err}
	}

	c.logger.Infow("subscription status updated from payment",
		"payment_id", p.ID(),
		"subscription_id", sub.ID(),
		"status", sub.Status(),
	)

	if c.publisher != nil {
		if err := c.publisher.PublishStatusChanged(ctx, subscription.NewStatusChangedEvent(sub, p.ID())); err != nil {
			c.logger.Warnw("failed to publish subscription event",
				"subscription_id", sub.ID(),
				"error", err,
			)
		}
	}
	return nil
}
