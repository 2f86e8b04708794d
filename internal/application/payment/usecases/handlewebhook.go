package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/buildhomemart/homemart/internal/application/payment/paymentgateway"
	"github.com/buildhomemart/homemart/internal/domain/payment"
	"github.com/buildhomemart/homemart/internal/shared/biztime"
	apperrors "github.com/buildhomemart/homemart/internal/shared/errors"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

const (
	EventPaymentFailed     = "payment.failed"
	EventPaymentCaptured   = "payment.captured"
	EventPaymentAuthorized = "payment.authorized"
	EventOrderPaid         = "order.paid"
)

type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment *struct {
			Entity webhookPaymentEntity `json:"entity"`
		} `json:"payment"`
		Order *struct {
			Entity struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

type webhookPaymentEntity struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Status           string `json:"status"`
	ErrorDescription string `json:"error_description"`
	ErrorReason      string `json:"error_reason"`
}

type HandleWebhookCommand struct {
	Body      []byte
	Signature string
}

type HandleWebhookResult struct {
	Success   bool   `json:"success"`
	Event     string `json:"event"`
	Handled   bool   `json:"handled"`
	PaymentID uint   `json:"paymentId,omitempty"`
	Status    string `json:"status,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HandleWebhookUseCase applies Razorpay webhook events through the same
// guarded transitions as the reconciler.
type HandleWebhookUseCase struct {
	paymentRepo payment.PaymentRepository
	verifier    paymentgateway.SignatureVerifier
	markFailed  *MarkPaymentFailedUseCase
	transitions *transitioner
	logger      logger.Interface
	now         func() time.Time
}

func NewHandleWebhookUseCase(
	paymentRepo payment.PaymentRepository,
	verifier paymentgateway.SignatureVerifier,
	markFailed *MarkPaymentFailedUseCase,
	cascade *SubscriptionCascade,
	logger logger.Interface,
) *HandleWebhookUseCase {
	return &HandleWebhookUseCase{
		paymentRepo: paymentRepo,
		verifier:    verifier,
		markFailed:  markFailed,
		transitions: &transitioner{paymentRepo: paymentRepo, cascade: cascade},
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

// Execute returns an AppError only for requests that must be rejected: a bad
// signature or an unreadable body. Everything else is acknowledged.
func (uc *HandleWebhookUseCase) Execute(ctx context.Context, cmd HandleWebhookCommand) (*HandleWebhookResult, error) {
	if err := uc.verifier.Verify(cmd.Body, cmd.Signature); err != nil {
		uc.logger.Warnw("rejected webhook with invalid signature", "error", err)
		return nil, apperrors.NewSignatureError("invalid webhook signature")
	}

	var env webhookEnvelope
	if err := json.Unmarshal(cmd.Body, &env); err != nil {
		return nil, apperrors.NewBadRequestError("malformed webhook payload", err.Error())
	}

	uc.logger.Infow("webhook received", "event", env.Event)

	var entity webhookPaymentEntity
	if env.Payload.Payment != nil {
		entity = env.Payload.Payment.Entity
	}

	switch env.Event {
	case EventPaymentFailed:
		return uc.handleFailed(ctx, env.Event, entity), nil
	case EventPaymentCaptured:
		return uc.handlePaid(ctx, env.Event, payment.Lookups(entity.OrderID, entity.ID, 0), entity.ID), nil
	case EventPaymentAuthorized:
		return uc.handleAuthorized(ctx, env.Event, entity), nil
	case EventOrderPaid:
		orderID := entity.OrderID
		if env.Payload.Order != nil && env.Payload.Order.Entity.ID != "" {
			orderID = env.Payload.Order.Entity.ID
		}
		return uc.handlePaid(ctx, env.Event, payment.Lookups(orderID, "", 0), entity.ID), nil
	default:
		return &HandleWebhookResult{Success: true, Event: env.Event, Message: "Event ignored"}, nil
	}
}

func (uc *HandleWebhookUseCase) handleFailed(ctx context.Context, event string, entity webhookPaymentEntity) *HandleWebhookResult {
	reason := entity.ErrorDescription
	if reason == "" {
		reason = entity.ErrorReason
	}

	res := uc.markFailed.Execute(ctx, MarkPaymentFailedCommand{
		Lookups: payment.Lookups(entity.OrderID, entity.ID, 0),
		Reason:  reason,
	})

	out := &HandleWebhookResult{
		Success:   res.Success,
		Event:     event,
		Handled:   res.Success,
		PaymentID: res.PaymentID,
		Status:    res.Status,
		Message:   res.Message,
		Error:     res.Error,
	}
	if !res.Success && res.CurrentStatus != "" {
		// a repeated delivery for a resolved payment is not an error
		out.Success = true
		out.Status = res.CurrentStatus
	}
	return out
}

func (uc *HandleWebhookUseCase) handlePaid(ctx context.Context, event string, lookups []payment.Lookup, gatewayPaymentID string) *HandleWebhookResult {
	out := &HandleWebhookResult{Event: event}

	p, ok := uc.find(ctx, lookups, out)
	if !ok {
		return out
	}
	out.PaymentID = p.ID()

	if !p.Status().IsPending() {
		out.Success = true
		out.Status = p.Status().String()
		out.Message = msgAlreadyProcessed
		return out
	}

	err := uc.transitions.settle(ctx, p, gatewayPaymentID, uc.now())
	if err != nil {
		if cascadeErr, ok := asCascadeError(err); ok {
			uc.logger.Errorw("payment settled but subscription cascade failed",
				"payment_id", p.ID(),
				"subscription_id", cascadeErr.SubscriptionID,
				"error", cascadeErr.Err,
			)
		} else if isAlreadyResolved(err) {
			out.Success = true
			out.Message = msgAlreadyProcessed
			return out
		} else {
			uc.logger.Errorw("failed to settle payment from webhook",
				"payment_id", p.ID(),
				"event", event,
				"error", err,
			)
			out.Error = err.Error()
			return out
		}
	}

	uc.logger.Infow("payment settled from webhook",
		"payment_id", p.ID(),
		"event", event,
	)
	out.Success = true
	out.Handled = true
	out.Status = p.Status().String()
	out.Message = msgVerifiedSuccess
	return out
}

func (uc *HandleWebhookUseCase) handleAuthorized(ctx context.Context, event string, entity webhookPaymentEntity) *HandleWebhookResult {
	out := &HandleWebhookResult{Event: event}

	p, ok := uc.find(ctx, payment.Lookups(entity.OrderID, entity.ID, 0), out)
	if !ok {
		return out
	}
	out.PaymentID = p.ID()
	out.Status = p.Status().String()
	out.Success = true

	alreadyAttached := p.HasGatewayPayment() && *p.GatewayPaymentID() == entity.ID
	if entity.ID == "" || !p.Status().IsPending() || alreadyAttached {
		out.Message = msgStatusUnchanged
		return out
	}

	if err := p.AttachGatewayPayment(entity.ID, uc.now()); err == nil {
		err = uc.paymentRepo.AttachGatewayPayment(ctx, p)
		if err != nil && !errors.Is(err, payment.ErrStaleStatus) {
			uc.logger.Errorw("failed to record gateway payment id",
				"payment_id", p.ID(),
				"error", err,
			)
			out.Success = false
			out.Error = err.Error()
			return out
		}
	}

	out.Handled = true
	out.Message = msgAwaitingCapture
	return out
}

func (uc *HandleWebhookUseCase) find(ctx context.Context, lookups []payment.Lookup, out *HandleWebhookResult) (*payment.Payment, bool) {
	p, err := findPayment(ctx, uc.paymentRepo, lookups)
	if err == nil {
		return p, true
	}
	if errors.Is(err, payment.ErrPaymentNotFound) {
		uc.logger.Warnw("webhook for unknown payment", "event", out.Event)
		out.Error = ErrMsgPaymentNotFound
		return nil, false
	}
	uc.logger.Errorw("failed to look up webhook payment", "event", out.Event, "error", err)
	out.Error = err.Error()
	return nil, false
}
