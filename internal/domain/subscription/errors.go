package subscription

import (
	"errors"
	"fmt"
)

var (
	ErrSubscriptionNotFound    = errors.New("subscription not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	// ErrStaleStatus means the stored status changed since the subscription was loaded.
	ErrStaleStatus          = errors.New("subscription status changed concurrently")
	ErrPlanNotFound         = errors.New("plan not found")
	ErrPlanIdentifierExists = errors.New("plan identifier already exists")
	ErrInvalidPrice         = errors.New("invalid price")
)

func ErrInvalidTransition(from, to string) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
