package usecases

import (
	"context"
	"time"

	"github.com/buildhomemart/homemart/internal/domain/payment"
	vo "github.com/buildhomemart/homemart/internal/domain/payment/valueobjects"
	"github.com/buildhomemart/homemart/internal/domain/subscription"
	"github.com/buildhomemart/homemart/internal/shared/biztime"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

const itemStatusError = "error"

type ExpiredPaymentResult struct {
	PaymentID      uint   `json:"paymentId"`
	OrderID        string `json:"orderId,omitempty"`
	Amount         int64  `json:"amount,omitempty"`
	MinutesExpired int    `json:"minutesExpired"`
	Status         string `json:"status"`
	Error          string `json:"error,omitempty"`
}

type CheckExpiredPaymentsResult struct {
	Success      bool                   `json:"success"`
	TotalExpired int                    `json:"totalExpired"`
	UpdatedCount int                    `json:"updatedCount"`
	Results      []ExpiredPaymentResult `json:"results"`
	Timestamp    time.Time              `json:"timestamp"`
	Error        string                 `json:"error,omitempty"`
}

// CheckExpiredPaymentsUseCase cancels pending payments past their deadline
// together with the subscriptions they fund.
type CheckExpiredPaymentsUseCase struct {
	paymentRepo payment.PaymentRepository
	transitions *transitioner
	logger      logger.Interface
	now         func() time.Time
}

func NewCheckExpiredPaymentsUseCase(
	paymentRepo payment.PaymentRepository,
	cascade *SubscriptionCascade,
	logger logger.Interface,
) *CheckExpiredPaymentsUseCase {
	return &CheckExpiredPaymentsUseCase{
		paymentRepo: paymentRepo,
		transitions: &transitioner{paymentRepo: paymentRepo, cascade: cascade},
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

func (uc *CheckExpiredPaymentsUseCase) Execute(ctx context.Context) *CheckExpiredPaymentsResult {
	now := uc.now()

	expiredPayments, err := uc.paymentRepo.FindExpiredPending(ctx, now)
	if err != nil {
		uc.logger.Errorw("failed to get expired payments", "error", err)
		return &CheckExpiredPaymentsResult{Success: false, Error: err.Error(), Timestamp: now}
	}

	uc.logger.Infow("found expired pending payments", "count", len(expiredPayments))

	results := make([]ExpiredPaymentResult, 0, len(expiredPayments))
	updatedCount := 0
	for _, p := range expiredPayments {
		item, updated := uc.expire(ctx, p, now)
		results = append(results, item)
		if updated {
			updatedCount++
		}
	}

	uc.logger.Infow("expired payments processed",
		"total", len(expiredPayments),
		"updated", updatedCount,
	)

	return &CheckExpiredPaymentsResult{
		Success:      true,
		TotalExpired: len(expiredPayments),
		UpdatedCount: updatedCount,
		Results:      results,
		Timestamp:    now,
	}
}

// expire reports whether the payment row itself was cancelled by this call.
func (uc *CheckExpiredPaymentsUseCase) expire(ctx context.Context, p *payment.Payment, now time.Time) (ExpiredPaymentResult, bool) {
	minutes := p.MinutesSinceCreation(now)
	item := ExpiredPaymentResult{
		PaymentID:      p.ID(),
		OrderID:        p.GatewayOrderID(),
		Amount:         p.Amount().AmountMinor(),
		MinutesExpired: minutes,
	}

	err := uc.transitions.cancel(ctx, p, payment.TimeoutReason(minutes), subscription.ReasonPaymentTimeout, now)
	if err == nil {
		item.Status = vo.PaymentStatusCancelled.String()
		uc.logger.Infow("cancelled expired payment",
			"payment_id", p.ID(),
			"order_id", p.GatewayOrderID(),
			"minutes_expired", minutes,
		)
		return item, true
	}

	if cascadeErr, ok := asCascadeError(err); ok {
		uc.logger.Errorw("payment cancelled but subscription update failed",
			"payment_id", p.ID(),
			"subscription_id", cascadeErr.SubscriptionID,
			"error", cascadeErr.Err,
		)
		item.Status = vo.PaymentStatusCancelled.String()
		item.Error = cascadeErr.Error()
		return item, true
	}

	if isAlreadyResolved(err) {
		uc.logger.Infow("payment resolved concurrently, skipping",
			"payment_id", p.ID(),
		)
		item.Status = "skipped"
		return item, false
	}

	uc.logger.Errorw("failed to cancel expired payment",
		"payment_id", p.ID(),
		"order_id", p.GatewayOrderID(),
		"error", err,
	)
	item.Status = itemStatusError
	item.Error = err.Error()
	return item, false
}
