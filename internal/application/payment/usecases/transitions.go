package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/buildhomemart/homemart/internal/domain/payment"
	"github.com/buildhomemart/homemart/internal/domain/subscription"
)

// transitioner is the single write path for payment status changes. The
// payment row is written first with a pending guard, then the subscription
// cascade runs. Callers tell the outcomes apart with errors.Is/As:
// payment.ErrInvalidTransition, payment.ErrStaleStatus and *CascadeError.
type transitioner struct {
	paymentRepo payment.PaymentRepository
	cascade     *SubscriptionCascade
}

func (t *transitioner) cancel(ctx context.Context, p *payment.Payment, reason, subscriptionReason string, now time.Time) error {
	if err := p.MarkAsCancelled(reason, now); err != nil {
		return err
	}
	if err := t.paymentRepo.SaveTransition(ctx, p); err != nil {
		return err
	}
	return t.cascade.CancelFor(ctx, p, subscriptionReason, now)
}

func (t *transitioner) fail(ctx context.Context, p *payment.Payment, reason string, now time.Time) error {
	if err := p.MarkAsFailed(reason, now); err != nil {
		return err
	}
	if err := t.paymentRepo.SaveTransition(ctx, p); err != nil {
		return err
	}
	return t.cascade.CancelFor(ctx, p, subscription.PaymentFailedReason(*p.FailureReason()), now)
}

func (t *transitioner) settle(ctx context.Context, p *payment.Payment, gatewayPaymentID string, now time.Time) error {
	if err := p.MarkAsPaid(gatewayPaymentID, now); err != nil {
		return err
	}
	if err := t.paymentRepo.SaveTransition(ctx, p); err != nil {
		return err
	}
	return t.cascade.ActivateFor(ctx, p, now)
}

// isAlreadyResolved reports errors meaning someone else finished the payment.
func isAlreadyResolved(err error) bool {
	return errors.Is(err, payment.ErrInvalidTransition) || errors.Is(err, payment.ErrStaleStatus)
}

func asCascadeError(err error) (*CascadeError, bool) {
	var cascadeErr *CascadeError
	if errors.As(err, &cascadeErr) {
		return cascadeErr, true
	}
	return nil, false
}

// findPayment tries each lookup in order and returns the first match.
func findPayment(ctx context.Context, repo payment.PaymentRepository, lookups []payment.Lookup) (*payment.Payment, error) {
	for _, lookup := range lookups {
		p, err := repo.Find(ctx, lookup)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, payment.ErrPaymentNotFound) {
			return nil, err
		}
	}
	return nil, payment.ErrPaymentNotFound
}
