package usecases

import (
	"context"
	"time"

	payvo "github.com/buildhomemart/homemart/internal/domain/payment/valueobjects"
	"github.com/buildhomemart/homemart/internal/domain/subscription"
	vo "github.com/buildhomemart/homemart/internal/domain/subscription/valueobjects"
)

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }
func intPtr(v int) *int       { return &v }

type mockPlanRepository struct {
	CreateFunc          func(ctx context.Context, plan *subscription.Plan) error
	GetByIDFunc         func(ctx context.Context, id uint) (*subscription.Plan, error)
	GetByIdentifierFunc func(ctx context.Context, identifier string) (*subscription.Plan, error)
	UpdateFunc          func(ctx context.Context, plan *subscription.Plan) error
	ListActiveFunc      func(ctx context.Context) ([]*subscription.Plan, error)
}

func (m *mockPlanRepository) Create(ctx context.Context, plan *subscription.Plan) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, plan)
	}
	return nil
}

func (m *mockPlanRepository) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, subscription.ErrPlanNotFound
}

func (m *mockPlanRepository) GetByIdentifier(ctx context.Context, identifier string) (*subscription.Plan, error) {
	if m.GetByIdentifierFunc != nil {
		return m.GetByIdentifierFunc(ctx, identifier)
	}
	return nil, subscription.ErrPlanNotFound
}

func (m *mockPlanRepository) Update(ctx context.Context, plan *subscription.Plan) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, plan)
	}
	return nil
}

func (m *mockPlanRepository) ListActive(ctx context.Context) ([]*subscription.Plan, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

// planStore serves a single plan by id and records updates.
func planStore(plan *subscription.Plan) (*mockPlanRepository, *int) {
	updates := 0
	return &mockPlanRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*subscription.Plan, error) {
			if plan == nil || plan.ID() != id {
				return nil, subscription.ErrPlanNotFound
			}
			return plan, nil
		},
		UpdateFunc: func(ctx context.Context, p *subscription.Plan) error {
			updates++
			return nil
		},
	}, &updates
}

type mockSubscriptionRepository struct {
	CountByPlanAndStatusFunc func(ctx context.Context, planID uint, status vo.SubscriptionStatus) (int64, error)
	ListAffectedFunc         func(ctx context.Context, planID uint, status vo.SubscriptionStatus) ([]subscription.AffectedSubscription, error)
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	return nil
}

func (m *mockSubscriptionRepository) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	return nil, subscription.ErrSubscriptionNotFound
}

func (m *mockSubscriptionRepository) SaveStatus(ctx context.Context, sub *subscription.Subscription) error {
	return nil
}

func (m *mockSubscriptionRepository) CountByPlanAndStatus(ctx context.Context, planID uint, status vo.SubscriptionStatus) (int64, error) {
	if m.CountByPlanAndStatusFunc != nil {
		return m.CountByPlanAndStatusFunc(ctx, planID, status)
	}
	return 0, nil
}

func (m *mockSubscriptionRepository) ListAffected(ctx context.Context, planID uint, status vo.SubscriptionStatus) ([]subscription.AffectedSubscription, error) {
	if m.ListAffectedFunc != nil {
		return m.ListAffectedFunc(ctx, planID, status)
	}
	return nil, nil
}

// newTestPlan is the "basic" plan: 999.00 INR monthly, 10 properties.
func newTestPlan() *subscription.Plan {
	return subscription.ReconstructPlan(subscription.PlanReconstructParams{
		ID:            3,
		Identifier:    "basic",
		Name:          "Basic",
		Description:   "For individual owners",
		Price:         99900,
		Currency:      payvo.CurrencyINR,
		BillingPeriod: vo.BillingCycleMonthly,
		Features:      []string{"10 listings", "Email support"},
		Limits: vo.Limits{
			vo.LimitProperties: vo.Capped(10),
			vo.LimitPhotos:     vo.Capped(10),
		},
		IsActive:  true,
		SortOrder: 1,
		CreatedAt: testNow.AddDate(0, -2, 0),
		UpdatedAt: testNow.AddDate(0, -2, 0),
	})
}
