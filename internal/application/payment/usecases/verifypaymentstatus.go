package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/buildhomemart/homemart/internal/application/payment/paymentgateway"
	"github.com/buildhomemart/homemart/internal/domain/payment"
	vo "github.com/buildhomemart/homemart/internal/domain/payment/valueobjects"
	"github.com/buildhomemart/homemart/internal/domain/subscription"
	"github.com/buildhomemart/homemart/internal/shared/biztime"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

const (
	msgAlreadyProcessed = "Payment already processed"
	msgExpiredCancelled = "Payment expired and cancelled"
	msgVerifiedSuccess  = "Payment verified as successful"
	msgPaymentFailed    = "Payment failed"
	msgAwaitingCapture  = "Payment authorized, awaiting capture"
	msgStatusUnchanged  = "Payment status unchanged"

	ErrMsgPaymentNotFound = "Payment not found"
)

type VerifyPaymentStatusCommand struct {
	PaymentID uint
}

type VerifyPaymentStatusResult struct {
	Success bool   `json:"success"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Error   string `json:"error,omitempty"`
}

// VerifyPaymentStatusUseCase reconciles one payment against the gateway.
// Gateway errors never change local state.
type VerifyPaymentStatusUseCase struct {
	paymentRepo payment.PaymentRepository
	gateway     paymentgateway.Client
	transitions *transitioner
	logger      logger.Interface
	now         func() time.Time
}

// NewVerifyPaymentStatusUseCase accepts a nil gateway, in which case only the
// local expiry check runs.
func NewVerifyPaymentStatusUseCase(
	paymentRepo payment.PaymentRepository,
	gateway paymentgateway.Client,
	cascade *SubscriptionCascade,
	logger logger.Interface,
) *VerifyPaymentStatusUseCase {
	return &VerifyPaymentStatusUseCase{
		paymentRepo: paymentRepo,
		gateway:     gateway,
		transitions: &transitioner{paymentRepo: paymentRepo, cascade: cascade},
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

func (uc *VerifyPaymentStatusUseCase) Execute(ctx context.Context, cmd VerifyPaymentStatusCommand) *VerifyPaymentStatusResult {
	p, err := uc.paymentRepo.GetByID(ctx, cmd.PaymentID)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			return &VerifyPaymentStatusResult{Success: false, Error: ErrMsgPaymentNotFound}
		}
		uc.logger.Errorw("failed to load payment for verification",
			"payment_id", cmd.PaymentID,
			"error", err,
		)
		return &VerifyPaymentStatusResult{Success: false, Error: err.Error()}
	}

	if p.Status().IsTerminal() {
		return uc.processed(p)
	}

	now := uc.now()
	if p.IsExpiredAt(now) {
		err := uc.transitions.cancel(ctx, p, payment.VerifyTimeoutReason, subscription.ReasonPaymentTimeout, now)
		return uc.outcome(ctx, p, err, vo.PaymentStatusCancelled, msgExpiredCancelled, "")
	}

	if uc.gateway == nil || !p.HasGatewayPayment() {
		return uc.unchanged(p)
	}

	gatewayPayment, err := uc.gateway.FetchPayment(ctx, *p.GatewayPaymentID())
	if err != nil {
		uc.logger.Warnw("gateway lookup failed, keeping local status",
			"payment_id", p.ID(),
			"gateway_payment_id", *p.GatewayPaymentID(),
			"error", err,
		)
		return uc.unchanged(p)
	}

	uc.logger.Infow("gateway status fetched",
		"payment_id", p.ID(),
		"gateway_status", gatewayPayment.Status,
	)

	switch gatewayPayment.Status {
	case paymentgateway.StatusCaptured:
		err := uc.transitions.settle(ctx, p, gatewayPayment.ID, now)
		return uc.outcome(ctx, p, err, vo.PaymentStatusPaid, msgVerifiedSuccess, "")
	case paymentgateway.StatusFailed:
		reason := payment.EffectiveFailureReason(gatewayPayment.FailureReason())
		err := uc.transitions.fail(ctx, p, reason, now)
		return uc.outcome(ctx, p, err, vo.PaymentStatusFailed, msgPaymentFailed, reason)
	case paymentgateway.StatusAuthorized:
		return &VerifyPaymentStatusResult{
			Success: true,
			Status:  vo.PaymentStatusPending.String(),
			Message: msgAwaitingCapture,
		}
	default:
		return uc.unchanged(p)
	}
}

func (uc *VerifyPaymentStatusUseCase) outcome(
	ctx context.Context,
	p *payment.Payment,
	err error,
	target vo.PaymentStatus,
	message, reason string,
) *VerifyPaymentStatusResult {
	if err == nil {
		return &VerifyPaymentStatusResult{Success: true, Status: target.String(), Message: message, Reason: reason}
	}

	if cascadeErr, ok := asCascadeError(err); ok {
		uc.logger.Errorw("payment updated but subscription cascade failed",
			"payment_id", p.ID(),
			"subscription_id", cascadeErr.SubscriptionID,
			"error", cascadeErr.Err,
		)
		return &VerifyPaymentStatusResult{Success: true, Status: target.String(), Message: message, Reason: reason}
	}

	if isAlreadyResolved(err) {
		current, loadErr := uc.paymentRepo.GetByID(ctx, p.ID())
		if loadErr == nil {
			return uc.processed(current)
		}
		err = loadErr
	}

	uc.logger.Errorw("failed to update payment during verification",
		"payment_id", p.ID(),
		"target_status", target,
		"error", err,
	)
	return &VerifyPaymentStatusResult{Success: false, Error: err.Error()}
}

func (uc *VerifyPaymentStatusUseCase) processed(p *payment.Payment) *VerifyPaymentStatusResult {
	return &VerifyPaymentStatusResult{Success: true, Status: p.Status().String(), Message: msgAlreadyProcessed}
}

func (uc *VerifyPaymentStatusUseCase) unchanged(p *payment.Payment) *VerifyPaymentStatusResult {
	return &VerifyPaymentStatusResult{Success: true, Status: p.Status().String(), Message: msgStatusUnchanged}
}
