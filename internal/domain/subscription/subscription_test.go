package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	payvo "github.com/buildhomemart/homemart/internal/domain/payment/valueobjects"
	vo "github.com/buildhomemart/homemart/internal/domain/subscription/valueobjects"
)

func testPlan(t *testing.T) *Plan {
	t.Helper()
	p, err := NewPlan("Premium", "Premium", "For busy agents", 199900, payvo.CurrencyINR, vo.BillingCycleMonthly)
	require.NoError(t, err)
	require.NoError(t, p.SetID(3))
	p.SetLimit(vo.LimitProperties, vo.Capped(10), time.Now())
	return p
}

func reconstructSub(t *testing.T, status vo.SubscriptionStatus) *Subscription {
	t.Helper()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := ReconstructSubscription(SubscriptionReconstructParams{
		ID:           1,
		UserID:       2,
		PlanID:       3,
		Status:       status,
		StartDate:    start,
		EndDate:      start.AddDate(0, 1, 0),
		Amount:       199900,
		BillingCycle: vo.BillingCycleMonthly,
	})
	require.NoError(t, err)
	return s
}

func TestNewSubscription_FreezesPlanTerms(t *testing.T) {
	plan := testPlan(t)
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	sub, err := NewSubscription(7, plan, start, true)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusPending, sub.Status())
	assert.False(t, sub.EndDate().Before(sub.StartDate()))

	plan.SetLimit(vo.LimitProperties, vo.Unlimited(), time.Now())
	require.NoError(t, plan.ChangePrice(299900, 1, "", time.Now()))

	snap := sub.PlanSnapshot()
	require.NotNil(t, snap)
	assert.True(t, snap.Limits[vo.LimitProperties].Equal(vo.Capped(10)))
	assert.Equal(t, int64(199900), snap.Price)
}

func TestNewSubscription_Invalid(t *testing.T) {
	_, err := NewSubscription(0, testPlan(t), time.Now(), false)
	assert.Error(t, err)

	unsaved, err := NewPlan("basic", "Basic", "", 0, payvo.CurrencyINR, vo.BillingCycleMonthly)
	require.NoError(t, err)
	_, err = NewSubscription(1, unsaved, time.Now(), false)
	assert.Error(t, err)
}

func TestReconstructSubscription_RejectsEndBeforeStart(t *testing.T) {
	start := time.Now()
	_, err := ReconstructSubscription(SubscriptionReconstructParams{
		ID: 1, Status: vo.StatusActive, StartDate: start, EndDate: start.Add(-time.Hour),
	})
	assert.Error(t, err)
}

func TestSubscription_Cancel(t *testing.T) {
	sub := reconstructSub(t, vo.StatusPending)
	now := time.Now()

	require.NoError(t, sub.Cancel(ReasonPaymentTimeout, now))
	assert.Equal(t, vo.StatusCancelled, sub.Status())
	assert.Equal(t, "Payment timeout", *sub.CancellationReason())
	assert.True(t, sub.IsDirty())

	require.NoError(t, sub.Cancel("other", now))
	assert.Equal(t, "Payment timeout", *sub.CancellationReason(), "second cancel keeps the first reason")
}

func TestSubscription_InvalidTransitions(t *testing.T) {
	now := time.Now()

	expired := reconstructSub(t, vo.StatusExpired)
	assert.ErrorIs(t, expired.Activate(now), ErrInvalidStatusTransition)
	assert.ErrorIs(t, expired.Cancel("x", now), ErrInvalidStatusTransition)

	active := reconstructSub(t, vo.StatusActive)
	assert.ErrorIs(t, active.Activate(now), ErrInvalidStatusTransition)
}

func TestSubscription_MarkPersisted(t *testing.T) {
	sub := reconstructSub(t, vo.StatusPending)
	require.NoError(t, sub.Activate(time.Now()))
	assert.Equal(t, vo.StatusPending, sub.PersistedStatus())

	sub.MarkPersisted()
	assert.Equal(t, vo.StatusActive, sub.PersistedStatus())
	assert.False(t, sub.IsDirty())
}

func TestPaymentFailedReason(t *testing.T) {
	assert.Equal(t, "Payment failed: Card declined", PaymentFailedReason("Card declined"))
}

func TestNewStatusChangedEvent(t *testing.T) {
	sub := reconstructSub(t, vo.StatusPending)
	require.NoError(t, sub.Cancel(ReasonPaymentTimeout, time.Now()))

	ev := NewStatusChangedEvent(sub, 44)
	assert.Equal(t, EventTypeCancelled, ev.EventType)
	assert.Equal(t, "Payment timeout", ev.Reason)
	assert.Equal(t, uint(44), ev.PaymentID)

	active := reconstructSub(t, vo.StatusPending)
	require.NoError(t, active.Activate(time.Now()))
	assert.Equal(t, EventTypeActivated, NewStatusChangedEvent(active, 1).EventType)
}
