package subscription

import "time"

const (
	EventTypeActivated = "subscription.activated"
	EventTypeCancelled = "subscription.cancelled"
)

// StatusChangedEvent is emitted when payment reconciliation moves a subscription.
type StatusChangedEvent struct {
	EventType      string    `json:"event_type"`
	SubscriptionID uint      `json:"subscription_id"`
	UserID         uint      `json:"user_id"`
	PlanID         uint      `json:"plan_id"`
	Status         string    `json:"status"`
	Reason         string    `json:"reason,omitempty"`
	PaymentID      uint      `json:"payment_id,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewStatusChangedEvent describes the subscription's current status.
func NewStatusChangedEvent(sub *Subscription, paymentID uint) StatusChangedEvent {
	eventType := EventTypeCancelled
	if sub.Status().IsActive() {
		eventType = EventTypeActivated
	}
	reason := ""
	if sub.CancellationReason() != nil {
		reason = *sub.CancellationReason()
	}
	return StatusChangedEvent{
		EventType:      eventType,
		SubscriptionID: sub.ID(),
		UserID:         sub.UserID(),
		PlanID:         sub.PlanID(),
		Status:         sub.Status().String(),
		Reason:         reason,
		PaymentID:      paymentID,
		Timestamp:      time.Now().UTC(),
	}
}
