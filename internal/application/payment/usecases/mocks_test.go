package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/buildhomemart/homemart/internal/application/payment/paymentgateway"
	propertyusecases "github.com/buildhomemart/homemart/internal/application/property/usecases"
	"github.com/buildhomemart/homemart/internal/domain/payment"
	payvo "github.com/buildhomemart/homemart/internal/domain/payment/valueobjects"
	"github.com/buildhomemart/homemart/internal/domain/subscription"
	subvo "github.com/buildhomemart/homemart/internal/domain/subscription/valueobjects"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

type mockPaymentRepository struct {
	CreateFunc                    func(ctx context.Context, p *payment.Payment) error
	GetByIDFunc                   func(ctx context.Context, id uint) (*payment.Payment, error)
	FindFunc                      func(ctx context.Context, lookup payment.Lookup) (*payment.Payment, error)
	FindExpiredPendingFunc        func(ctx context.Context, now time.Time) ([]*payment.Payment, error)
	SaveTransitionFunc            func(ctx context.Context, p *payment.Payment) error
	AttachGatewayPaymentFunc      func(ctx context.Context, p *payment.Payment) error
	SummarizeByStatusFunc         func(ctx context.Context) ([]payment.StatusSummary, error)
	ListRecentFunc                func(ctx context.Context, status payvo.PaymentStatus, orderColumn string, limit int) ([]*payment.Payment, error)
	CountTimeoutCancellationsFunc func(ctx context.Context) (int64, error)
}

func (m *mockPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

func (m *mockPaymentRepository) GetByID(ctx context.Context, id uint) (*payment.Payment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, payment.ErrPaymentNotFound
}

func (m *mockPaymentRepository) Find(ctx context.Context, lookup payment.Lookup) (*payment.Payment, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, lookup)
	}
	return nil, payment.ErrPaymentNotFound
}

func (m *mockPaymentRepository) FindExpiredPending(ctx context.Context, now time.Time) ([]*payment.Payment, error) {
	if m.FindExpiredPendingFunc != nil {
		return m.FindExpiredPendingFunc(ctx, now)
	}
	return nil, nil
}

func (m *mockPaymentRepository) SaveTransition(ctx context.Context, p *payment.Payment) error {
	if m.SaveTransitionFunc != nil {
		return m.SaveTransitionFunc(ctx, p)
	}
	return nil
}

func (m *mockPaymentRepository) AttachGatewayPayment(ctx context.Context, p *payment.Payment) error {
	if m.AttachGatewayPaymentFunc != nil {
		return m.AttachGatewayPaymentFunc(ctx, p)
	}
	return nil
}

func (m *mockPaymentRepository) SummarizeByStatus(ctx context.Context) ([]payment.StatusSummary, error) {
	if m.SummarizeByStatusFunc != nil {
		return m.SummarizeByStatusFunc(ctx)
	}
	return nil, nil
}

func (m *mockPaymentRepository) ListRecent(ctx context.Context, status payvo.PaymentStatus, orderColumn string, limit int) ([]*payment.Payment, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, status, orderColumn, limit)
	}
	return nil, nil
}

func (m *mockPaymentRepository) CountTimeoutCancellations(ctx context.Context) (int64, error) {
	if m.CountTimeoutCancellationsFunc != nil {
		return m.CountTimeoutCancellationsFunc(ctx)
	}
	return 0, nil
}

type mockSubscriptionRepository struct {
	CreateFunc               func(ctx context.Context, sub *subscription.Subscription) error
	GetByIDFunc              func(ctx context.Context, id uint) (*subscription.Subscription, error)
	SaveStatusFunc           func(ctx context.Context, sub *subscription.Subscription) error
	CountByPlanAndStatusFunc func(ctx context.Context, planID uint, status subvo.SubscriptionStatus) (int64, error)
	ListAffectedFunc         func(ctx context.Context, planID uint, status subvo.SubscriptionStatus) ([]subscription.AffectedSubscription, error)
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubscriptionRepository) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, subscription.ErrSubscriptionNotFound
}

func (m *mockSubscriptionRepository) SaveStatus(ctx context.Context, sub *subscription.Subscription) error {
	if m.SaveStatusFunc != nil {
		return m.SaveStatusFunc(ctx, sub)
	}
	sub.MarkPersisted()
	return nil
}

func (m *mockSubscriptionRepository) CountByPlanAndStatus(ctx context.Context, planID uint, status subvo.SubscriptionStatus) (int64, error) {
	if m.CountByPlanAndStatusFunc != nil {
		return m.CountByPlanAndStatusFunc(ctx, planID, status)
	}
	return 0, nil
}

func (m *mockSubscriptionRepository) ListAffected(ctx context.Context, planID uint, status subvo.SubscriptionStatus) ([]subscription.AffectedSubscription, error) {
	if m.ListAffectedFunc != nil {
		return m.ListAffectedFunc(ctx, planID, status)
	}
	return nil, nil
}

type mockEventPublisher struct {
	events []subscription.StatusChangedEvent
}

func (m *mockEventPublisher) PublishStatusChanged(ctx context.Context, event subscription.StatusChangedEvent) error {
	m.events = append(m.events, event)
	return nil
}

type mockGatewayClient struct {
	FetchPaymentFunc func(ctx context.Context, gatewayPaymentID string) (*paymentgateway.Payment, error)
	calls            int
}

func (m *mockGatewayClient) FetchPayment(ctx context.Context, gatewayPaymentID string) (*paymentgateway.Payment, error) {
	m.calls++
	if m.FetchPaymentFunc != nil {
		return m.FetchPaymentFunc(ctx, gatewayPaymentID)
	}
	return nil, nil
}

type mockListingUnarchiver struct {
	userIDs []uint
}

func (m *mockListingUnarchiver) Execute(ctx context.Context, cmd propertyusecases.UnarchiveFreeListingsCommand) *propertyusecases.UnarchiveFreeListingsResult {
	m.userIDs = append(m.userIDs, cmd.UserID)
	return &propertyusecases.UnarchiveFreeListingsResult{Success: true, UnarchivedCount: 1}
}

type mockSignatureVerifier struct {
	err error
}

func (m *mockSignatureVerifier) Verify(body []byte, signature string) error {
	return m.err
}

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func uintPtr(v uint) *uint { return &v }

func strPtr(s string) *string { return &s }

type paymentFixture struct {
	id               uint
	status           payvo.PaymentStatus
	createdAt        time.Time
	expiresAt        *time.Time
	subscriptionID   *uint
	gatewayPaymentID *string
	paymentType      payvo.PaymentType
	failureReason    *string
}

func newTestPayment(f paymentFixture) *payment.Payment {
	if f.status == "" {
		f.status = payvo.PaymentStatusPending
	}
	if f.paymentType == "" {
		f.paymentType = payvo.PaymentTypeSubscriptionPurchase
	}
	if f.createdAt.IsZero() {
		f.createdAt = testNow.Add(-time.Minute)
	}
	return payment.ReconstructPayment(payment.ReconstructParams{
		ID:               f.id,
		GatewayOrderID:   fmt.Sprintf("order_%d", f.id),
		GatewayPaymentID: f.gatewayPaymentID,
		SubscriptionID:   f.subscriptionID,
		UserID:           77,
		Amount:           payvo.NewMoney(99900, payvo.CurrencyINR),
		Type:             f.paymentType,
		Status:           f.status,
		FailureReason:    f.failureReason,
		ExpiresAt:        f.expiresAt,
		CreatedAt:        f.createdAt,
		UpdatedAt:        f.createdAt,
	})
}

func newTestSubscription(id uint, status subvo.SubscriptionStatus) *subscription.Subscription {
	start := testNow.Add(-time.Hour)
	sub, err := subscription.ReconstructSubscription(subscription.SubscriptionReconstructParams{
		ID:           id,
		UserID:       77,
		PlanID:       3,
		Status:       status,
		StartDate:    start,
		EndDate:      start.AddDate(0, 1, 0),
		Amount:       99900,
		BillingCycle: subvo.BillingCycleMonthly,
		CreatedAt:    start,
		UpdatedAt:    start,
	})
	if err != nil {
		panic(err)
	}
	return sub
}

// subscriptionStore is a tiny stateful stand-in that honours the conditional
// status write.
type subscriptionStore struct {
	subs    map[uint]*subscription.Subscription
	saveErr error
}

func (s *subscriptionStore) repo() *mockSubscriptionRepository {
	return &mockSubscriptionRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*subscription.Subscription, error) {
			sub, ok := s.subs[id]
			if !ok {
				return nil, subscription.ErrSubscriptionNotFound
			}
			return sub, nil
		},
		SaveStatusFunc: func(ctx context.Context, sub *subscription.Subscription) error {
			if s.saveErr != nil {
				return s.saveErr
			}
			sub.MarkPersisted()
			return nil
		},
	}
}

func newCascade(subs *mockSubscriptionRepository, pub *mockEventPublisher, listings *mockListingUnarchiver) *SubscriptionCascade {
	var publisher subscription.EventPublisher
	if pub != nil {
		publisher = pub
	}
	var unarchiver ListingUnarchiver
	if listings != nil {
		unarchiver = listings
	}
	return NewSubscriptionCascade(subs, publisher, unarchiver, logger.NewNop())
}
