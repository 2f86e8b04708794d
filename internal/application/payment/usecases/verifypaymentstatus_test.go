package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildhomemart/homemart/internal/application/payment/paymentgateway"
	"github.com/buildhomemart/homemart/internal/domain/payment"
	payvo "github.com/buildhomemart/homemart/internal/domain/payment/valueobjects"
	"github.com/buildhomemart/homemart/internal/domain/subscription"
	subvo "github.com/buildhomemart/homemart/internal/domain/subscription/valueobjects"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

type verifyFixture struct {
	payment  *payment.Payment
	sub      *subscription.Subscription
	gateway  *mockGatewayClient
	listings *mockListingUnarchiver
	writes   int
}

func (f *verifyFixture) useCase() *VerifyPaymentStatusUseCase {
	repo := &mockPaymentRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*payment.Payment, error) {
			if f.payment == nil || f.payment.ID() != id {
				return nil, payment.ErrPaymentNotFound
			}
			return f.payment, nil
		},
		SaveTransitionFunc: func(ctx context.Context, p *payment.Payment) error {
			f.writes++
			return nil
		},
	}
	subs := map[uint]*subscription.Subscription{}
	if f.sub != nil {
		subs[f.sub.ID()] = f.sub
	}
	store := &subscriptionStore{subs: subs}

	var gateway paymentgateway.Client
	if f.gateway != nil {
		gateway = f.gateway
	}
	uc := NewVerifyPaymentStatusUseCase(repo, gateway, newCascade(store.repo(), nil, f.listings), logger.NewNop())
	uc.now = fixedClock
	return uc
}

func TestVerifyPaymentStatusUseCase_TerminalShortCircuit(t *testing.T) {
	for _, status := range []payvo.PaymentStatus{
		payvo.PaymentStatusPaid,
		payvo.PaymentStatusFailed,
		payvo.PaymentStatusCancelled,
		payvo.PaymentStatusRefunded,
	} {
		t.Run(status.String(), func(t *testing.T) {
			f := &verifyFixture{
				payment: newTestPayment(paymentFixture{id: 1, status: status, gatewayPaymentID: strPtr("pay_1")}),
				gateway: &mockGatewayClient{},
			}

			result := f.useCase().Execute(context.Background(), VerifyPaymentStatusCommand{PaymentID: 1})

			assert.True(t, result.Success)
			assert.Equal(t, status.String(), result.Status)
			assert.Equal(t, "Payment already processed", result.Message)
			assert.Zero(t, f.gateway.calls)
			assert.Zero(t, f.writes)
		})
	}
}

func TestVerifyPaymentStatusUseCase_LocallyExpired(t *testing.T) {
	f := &verifyFixture{
		payment: newTestPayment(paymentFixture{
			id:               1,
			createdAt:        testNow.Add(-15*time.Minute - time.Second),
			subscriptionID:   uintPtr(5),
			gatewayPaymentID: strPtr("pay_1"),
		}),
		sub:     newTestSubscription(5, subvo.StatusPending),
		gateway: &mockGatewayClient{},
	}

	result := f.useCase().Execute(context.Background(), VerifyPaymentStatusCommand{PaymentID: 1})

	require.True(t, result.Success)
	assert.Equal(t, "cancelled", result.Status)
	assert.Equal(t, "Payment expired and cancelled", result.Message)
	assert.Zero(t, f.gateway.calls)
	assert.Equal(t, payment.VerifyTimeoutReason, *f.payment.FailureReason())
	assert.Equal(t, subvo.StatusCancelled, f.sub.Status())
	assert.Equal(t, subscription.ReasonPaymentTimeout, *f.sub.CancellationReason())
}

func TestVerifyPaymentStatusUseCase_GatewayOutcomes(t *testing.T) {
	t.Run("captured settles and releases listings", func(t *testing.T) {
		f := &verifyFixture{
			payment:  newTestPayment(paymentFixture{id: 1, subscriptionID: uintPtr(5), gatewayPaymentID: strPtr("pay_1")}),
			sub:      newTestSubscription(5, subvo.StatusPending),
			listings: &mockListingUnarchiver{},
			gateway: &mockGatewayClient{
				FetchPaymentFunc: func(ctx context.Context, id string) (*paymentgateway.Payment, error) {
					assert.Equal(t, "pay_1", id)
					return &paymentgateway.Payment{ID: id, Status: paymentgateway.StatusCaptured}, nil
				},
			},
		}

		result := f.useCase().Execute(context.Background(), VerifyPaymentStatusCommand{PaymentID: 1})

		require.True(t, result.Success)
		assert.Equal(t, "paid", result.Status)
		assert.Equal(t, "Payment verified as successful", result.Message)
		assert.Equal(t, payvo.PaymentStatusPaid, f.payment.Status())
		assert.NotNil(t, f.payment.PaidAt())
		assert.Equal(t, subvo.StatusActive, f.sub.Status())
		assert.Equal(t, []uint{77}, f.listings.userIDs)
	})

	t.Run("failed records the gateway reason", func(t *testing.T) {
		f := &verifyFixture{
			payment: newTestPayment(paymentFixture{id: 1, subscriptionID: uintPtr(5), gatewayPaymentID: strPtr("pay_1")}),
			sub:     newTestSubscription(5, subvo.StatusPending),
			gateway: &mockGatewayClient{
				FetchPaymentFunc: func(ctx context.Context, id string) (*paymentgateway.Payment, error) {
					return &paymentgateway.Payment{
						ID:          id,
						Status:      paymentgateway.StatusFailed,
						ErrorReason: "payment_declined",
					}, nil
				},
			},
		}

		result := f.useCase().Execute(context.Background(), VerifyPaymentStatusCommand{PaymentID: 1})

		require.True(t, result.Success)
		assert.Equal(t, "failed", result.Status)
		assert.Equal(t, "payment_declined", result.Reason)
		assert.Equal(t, "Payment failed: payment_declined", *f.sub.CancellationReason())
	})

	t.Run("authorized stays pending", func(t *testing.T) {
		f := &verifyFixture{
			payment: newTestPayment(paymentFixture{id: 1, gatewayPaymentID: strPtr("pay_1")}),
			gateway: &mockGatewayClient{
				FetchPaymentFunc: func(ctx context.Context, id string) (*paymentgateway.Payment, error) {
					return &paymentgateway.Payment{ID: id, Status: paymentgateway.StatusAuthorized}, nil
				},
			},
		}

		result := f.useCase().Execute(context.Background(), VerifyPaymentStatusCommand{PaymentID: 1})

		assert.True(t, result.Success)
		assert.Equal(t, "pending", result.Status)
		assert.Equal(t, "Payment authorized, awaiting capture", result.Message)
		assert.Zero(t, f.writes)
	})
}

func TestVerifyPaymentStatusUseCase_GatewayErrorKeepsLocalState(t *testing.T) {
	f := &verifyFixture{
		payment: newTestPayment(paymentFixture{id: 1, subscriptionID: uintPtr(5), gatewayPaymentID: strPtr("pay_1")}),
		sub:     newTestSubscription(5, subvo.StatusPending),
		gateway: &mockGatewayClient{
			FetchPaymentFunc: func(ctx context.Context, id string) (*paymentgateway.Payment, error) {
				return nil, errors.New("502 bad gateway")
			},
		},
	}

	result := f.useCase().Execute(context.Background(), VerifyPaymentStatusCommand{PaymentID: 1})

	assert.True(t, result.Success)
	assert.Equal(t, "pending", result.Status)
	assert.Equal(t, "Payment status unchanged", result.Message)
	assert.Equal(t, payvo.PaymentStatusPending, f.payment.Status())
	assert.Equal(t, subvo.StatusPending, f.sub.Status())
	assert.Zero(t, f.writes)
}

func TestVerifyPaymentStatusUseCase_NoGatewayPaymentYet(t *testing.T) {
	f := &verifyFixture{
		payment: newTestPayment(paymentFixture{id: 1, createdAt: testNow.Add(-14*time.Minute - 59*time.Second)}),
		gateway: &mockGatewayClient{},
	}

	result := f.useCase().Execute(context.Background(), VerifyPaymentStatusCommand{PaymentID: 1})

	assert.True(t, result.Success)
	assert.Equal(t, "pending", result.Status)
	assert.Zero(t, f.gateway.calls)
}

func TestVerifyPaymentStatusUseCase_NotFound(t *testing.T) {
	f := &verifyFixture{}

	result := f.useCase().Execute(context.Background(), VerifyPaymentStatusCommand{PaymentID: 9})

	assert.False(t, result.Success)
	assert.Equal(t, "Payment not found", result.Error)
}
