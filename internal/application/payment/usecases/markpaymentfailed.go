package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/buildhomemart/homemart/internal/domain/payment"
	vo "github.com/buildhomemart/homemart/internal/domain/payment/valueobjects"
	"github.com/buildhomemart/homemart/internal/shared/biztime"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

// MarkPaymentFailedCommand identifies the payment by the first lookup that
// matches, in order.
type MarkPaymentFailedCommand struct {
	Lookups []payment.Lookup
	Reason  string
}

type MarkPaymentFailedResult struct {
	Success           bool   `json:"success"`
	PaymentID         uint   `json:"paymentId,omitempty"`
	Status            string `json:"status,omitempty"`
	Message           string `json:"message,omitempty"`
	Reason            string `json:"reason,omitempty"`
	CurrentStatus     string `json:"currentStatus,omitempty"`
	SubscriptionError string `json:"subscriptionError,omitempty"`
	Error             string `json:"error,omitempty"`
}

type MarkPaymentFailedUseCase struct {
	paymentRepo payment.PaymentRepository
	transitions *transitioner
	logger      logger.Interface
	now         func() time.Time
}

func NewMarkPaymentFailedUseCase(
	paymentRepo payment.PaymentRepository,
	cascade *SubscriptionCascade,
	logger logger.Interface,
) *MarkPaymentFailedUseCase {
	return &MarkPaymentFailedUseCase{
		paymentRepo: paymentRepo,
		transitions: &transitioner{paymentRepo: paymentRepo, cascade: cascade},
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

func (uc *MarkPaymentFailedUseCase) Execute(ctx context.Context, cmd MarkPaymentFailedCommand) *MarkPaymentFailedResult {
	p, err := findPayment(ctx, uc.paymentRepo, cmd.Lookups)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			return &MarkPaymentFailedResult{Success: false, Error: ErrMsgPaymentNotFound}
		}
		uc.logger.Errorw("failed to look up payment", "error", err)
		return &MarkPaymentFailedResult{Success: false, Error: err.Error()}
	}

	if !p.Status().IsPending() {
		return alreadyResolved(p)
	}

	err = uc.transitions.fail(ctx, p, cmd.Reason, uc.now())
	if err != nil {
		if isAlreadyResolved(err) {
			current, loadErr := uc.paymentRepo.GetByID(ctx, p.ID())
			if loadErr != nil {
				return &MarkPaymentFailedResult{Success: false, Error: loadErr.Error()}
			}
			return alreadyResolved(current)
		}

		cascadeErr, ok := asCascadeError(err)
		if !ok {
			uc.logger.Errorw("failed to mark payment as failed",
				"payment_id", p.ID(),
				"error", err,
			)
			return &MarkPaymentFailedResult{Success: false, Error: err.Error()}
		}

		uc.logger.Errorw("payment failed but subscription cascade failed",
			"payment_id", p.ID(),
			"subscription_id", cascadeErr.SubscriptionID,
			"error", cascadeErr.Err,
		)
		result := uc.succeeded(p)
		result.SubscriptionError = cascadeErr.Error()
		return result
	}

	uc.logger.Infow("marked payment as failed",
		"payment_id", p.ID(),
		"reason", *p.FailureReason(),
	)
	return uc.succeeded(p)
}

func (uc *MarkPaymentFailedUseCase) succeeded(p *payment.Payment) *MarkPaymentFailedResult {
	return &MarkPaymentFailedResult{
		Success:   true,
		PaymentID: p.ID(),
		Status:    vo.PaymentStatusFailed.String(),
		Message:   "Payment marked as failed",
		Reason:    *p.FailureReason(),
	}
}

func alreadyResolved(p *payment.Payment) *MarkPaymentFailedResult {
	return &MarkPaymentFailedResult{
		Success:       false,
		PaymentID:     p.ID(),
		Message:       fmt.Sprintf("Payment already %s", p.Status()),
		CurrentStatus: p.Status().String(),
	}
}
