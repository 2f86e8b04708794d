package subscription

import (
	"fmt"
	"time"

	vo "github.com/buildhomemart/homemart/internal/domain/subscription/valueobjects"
)

// Cancellation reasons written by payment reconciliation.
const (
	ReasonPaymentTimeout = "Payment timeout"
)

// PaymentFailedReason is the cancellation reason for a failed charge.
func PaymentFailedReason(reason string) string {
	return "Payment failed: " + reason
}

// Subscription represents the subscription aggregate root
type Subscription struct {
	id                 uint
	userID             uint
	planID             uint
	status             vo.SubscriptionStatus
	startDate          time.Time
	endDate            time.Time
	amount             int64
	billingCycle       vo.BillingCycle
	autoRenew          bool
	cancellationReason *string
	planSnapshot       *PlanSnapshot
	createdAt          time.Time
	updatedAt          time.Time

	// status as loaded, used for the conditional write
	persistedStatus vo.SubscriptionStatus
}

// NewSubscription starts a pending subscription on plan, freezing its terms.
func NewSubscription(userID uint, plan *Plan, startDate time.Time, autoRenew bool) (*Subscription, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if plan == nil || plan.ID() == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}

	snapshot := plan.Snapshot()
	now := time.Now().UTC()
	return &Subscription{
		userID:          userID,
		planID:          plan.ID(),
		status:          vo.StatusPending,
		startDate:       startDate,
		endDate:         plan.BillingPeriod().EndDate(startDate),
		amount:          plan.Price(),
		billingCycle:    plan.BillingPeriod(),
		autoRenew:       autoRenew,
		planSnapshot:    &snapshot,
		createdAt:       now,
		updatedAt:       now,
		persistedStatus: vo.StatusPending,
	}, nil
}

// SubscriptionReconstructParams carries persisted subscription state.
type SubscriptionReconstructParams struct {
	ID                 uint
	UserID             uint
	PlanID             uint
	Status             vo.SubscriptionStatus
	StartDate          time.Time
	EndDate            time.Time
	Amount             int64
	BillingCycle       vo.BillingCycle
	AutoRenew          bool
	CancellationReason *string
	PlanSnapshot       *PlanSnapshot
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func ReconstructSubscription(p SubscriptionReconstructParams) (*Subscription, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if !vo.ValidStatuses[p.Status] {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}
	if p.EndDate.Before(p.StartDate) {
		return nil, fmt.Errorf("subscription %d ends before it starts", p.ID)
	}

	return &Subscription{
		id:                 p.ID,
		userID:             p.UserID,
		planID:             p.PlanID,
		status:             p.Status,
		startDate:          p.StartDate,
		endDate:            p.EndDate,
		amount:             p.Amount,
		billingCycle:       p.BillingCycle,
		autoRenew:          p.AutoRenew,
		cancellationReason: p.CancellationReason,
		planSnapshot:       p.PlanSnapshot,
		createdAt:          p.CreatedAt,
		updatedAt:          p.UpdatedAt,
		persistedStatus:    p.Status,
	}, nil
}

func (s *Subscription) ID() uint {
	return s.id
}

func (s *Subscription) UserID() uint {
	return s.userID
}

func (s *Subscription) PlanID() uint {
	return s.planID
}

func (s *Subscription) Status() vo.SubscriptionStatus {
	return s.status
}

// PersistedStatus is the status the row had when loaded or last saved.
func (s *Subscription) PersistedStatus() vo.SubscriptionStatus {
	return s.persistedStatus
}

func (s *Subscription) StartDate() time.Time {
	return s.startDate
}

func (s *Subscription) EndDate() time.Time {
	return s.endDate
}

func (s *Subscription) Amount() int64 {
	return s.amount
}

func (s *Subscription) BillingCycle() vo.BillingCycle {
	return s.billingCycle
}

func (s *Subscription) AutoRenew() bool {
	return s.autoRenew
}

func (s *Subscription) CancellationReason() *string {
	return s.cancellationReason
}

// PlanSnapshot is nil only for legacy rows sold before snapshots existed.
func (s *Subscription) PlanSnapshot() *PlanSnapshot {
	return s.planSnapshot
}

func (s *Subscription) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Subscription) UpdatedAt() time.Time {
	return s.updatedAt
}

func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	s.id = id
	return nil
}

// MarkPersisted records that the current status has been written.
func (s *Subscription) MarkPersisted() {
	s.persistedStatus = s.status
}

func (s *Subscription) transition(target vo.SubscriptionStatus, now time.Time) error {
	if !s.status.CanTransitionTo(target) {
		return ErrInvalidTransition(s.status.String(), target.String())
	}
	s.status = target
	s.updatedAt = now
	return nil
}

// Activate is called once the purchase payment settles.
func (s *Subscription) Activate(now time.Time) error {
	return s.transition(vo.StatusActive, now)
}

// Cancel closes the subscription with a reason. Cancelling a cancelled
// subscription is a no-op.
func (s *Subscription) Cancel(reason string, now time.Time) error {
	if s.status == vo.StatusCancelled {
		return nil
	}
	if err := s.transition(vo.StatusCancelled, now); err != nil {
		return err
	}
	s.cancellationReason = &reason
	return nil
}

// IsDirty reports whether the status changed since load.
func (s *Subscription) IsDirty() bool {
	return s.status != s.persistedStatus
}
