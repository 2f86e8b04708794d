package subscription

import (
	"context"

	vo "github.com/buildhomemart/homemart/internal/domain/subscription/valueobjects"
)

// Subscriber is the account data shown next to a subscription.
type Subscriber struct {
	UserID    uint
	Email     string
	FirstName string
	LastName  string
}

// AffectedSubscription pairs a subscription with its owner.
type AffectedSubscription struct {
	Subscription *Subscription
	Subscriber   Subscriber
}

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	// SaveStatus writes status and cancellation reason only while the row still
	// holds PersistedStatus. It returns ErrStaleStatus otherwise.
	SaveStatus(ctx context.Context, subscription *Subscription) error
	CountByPlanAndStatus(ctx context.Context, planID uint, status vo.SubscriptionStatus) (int64, error)
	// ListAffected returns subscriptions on a plan with the given status, newest start first.
	ListAffected(ctx context.Context, planID uint, status vo.SubscriptionStatus) ([]AffectedSubscription, error)
}

type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetByIdentifier(ctx context.Context, identifier string) (*Plan, error)
	Update(ctx context.Context, plan *Plan) error
	ListActive(ctx context.Context) ([]*Plan, error)
}

// EventPublisher fans subscription status changes out to other services.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, event StatusChangedEvent) error
}
