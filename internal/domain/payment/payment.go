package payment

import (
	"fmt"
	"math"
	"strings"
	"time"

	vo "github.com/buildhomemart/homemart/internal/domain/payment/valueobjects"
	"github.com/buildhomemart/homemart/internal/shared/biztime"
)

// FixedTimeout is Razorpay's checkout session lifetime. A pending payment
// without an explicit expiry is considered abandoned after it.
const FixedTimeout = 15 * time.Minute

const defaultFailureReason = "Payment failed during processing"

type Payment struct {
	id               uint
	gatewayOrderID   string
	gatewayPaymentID *string
	subscriptionID   *uint
	userID           uint
	amount           vo.Money
	paymentType      vo.PaymentType
	status           vo.PaymentStatus
	failureReason    *string
	description      string
	metadata         map[string]interface{}

	expiresAt *time.Time
	paidAt    *time.Time
	createdAt time.Time
	updatedAt time.Time
}

// NewPayment opens a pending checkout for an existing Razorpay order.
func NewPayment(userID uint, gatewayOrderID string, amount vo.Money, paymentType vo.PaymentType, subscriptionID *uint) (*Payment, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if strings.TrimSpace(gatewayOrderID) == "" {
		return nil, fmt.Errorf("gateway order ID is required")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}
	if !amount.Currency().IsValid() {
		return nil, fmt.Errorf("unsupported currency: %s", amount.Currency())
	}
	if !paymentType.IsValid() {
		return nil, fmt.Errorf("invalid payment type: %s", paymentType)
	}

	now := biztime.NowUTC()
	expiresAt := now.Add(FixedTimeout)

	return &Payment{
		gatewayOrderID: gatewayOrderID,
		subscriptionID: subscriptionID,
		userID:         userID,
		amount:         amount,
		paymentType:    paymentType,
		status:         vo.PaymentStatusPending,
		metadata:       make(map[string]interface{}),
		expiresAt:      &expiresAt,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// DeadlineAt is the explicit expiry when present, otherwise createdAt plus FixedTimeout.
func (p *Payment) DeadlineAt() time.Time {
	if p.expiresAt != nil {
		return *p.expiresAt
	}
	return p.createdAt.Add(FixedTimeout)
}

// IsExpiredAt reports whether a pending payment's deadline has strictly passed.
func (p *Payment) IsExpiredAt(now time.Time) bool {
	return p.status.IsPending() && now.After(p.DeadlineAt())
}

// MinutesSinceCreation is floored to whole minutes.
func (p *Payment) MinutesSinceCreation(now time.Time) int {
	return biztime.WholeMinutes(now.Sub(p.createdAt))
}

// MinutesRemaining is floored at zero and is zero when no explicit expiry is set.
func (p *Payment) MinutesRemaining(now time.Time) int {
	if p.expiresAt == nil {
		return 0
	}
	return int(math.Max(0, float64(biztime.WholeMinutes(p.expiresAt.Sub(now)))))
}

func (p *Payment) transition(target vo.PaymentStatus, now time.Time) error {
	if !p.status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.status, target)
	}
	p.status = target
	p.updatedAt = now
	return nil
}

// MarkAsCancelled closes an abandoned checkout.
func (p *Payment) MarkAsCancelled(reason string, now time.Time) error {
	if err := p.transition(vo.PaymentStatusCancelled, now); err != nil {
		return err
	}
	p.failureReason = &reason
	return nil
}

// MarkAsFailed records a gateway or user reported failure. An empty reason is
// replaced by the generic processing failure text.
func (p *Payment) MarkAsFailed(reason string, now time.Time) error {
	reason = EffectiveFailureReason(reason)
	if err := p.transition(vo.PaymentStatusFailed, now); err != nil {
		return err
	}
	p.failureReason = &reason
	return nil
}

// MarkAsPaid settles the payment. gatewayPaymentID may be empty when the
// settlement came from an order-level event.
func (p *Payment) MarkAsPaid(gatewayPaymentID string, now time.Time) error {
	if err := p.transition(vo.PaymentStatusPaid, now); err != nil {
		return err
	}
	if gatewayPaymentID != "" {
		p.gatewayPaymentID = &gatewayPaymentID
	}
	p.paidAt = &now
	return nil
}

// AttachGatewayPayment records the charge attempt id while the payment is still pending.
func (p *Payment) AttachGatewayPayment(gatewayPaymentID string, now time.Time) error {
	if !p.status.IsPending() {
		return fmt.Errorf("%w: payment is %s", ErrInvalidTransition, p.status)
	}
	p.gatewayPaymentID = &gatewayPaymentID
	p.updatedAt = now
	return nil
}

// EffectiveFailureReason substitutes the default text for blank reasons.
func EffectiveFailureReason(reason string) string {
	if strings.TrimSpace(reason) == "" {
		return defaultFailureReason
	}
	return reason
}

// TimeoutReason is the failure reason stored by the expiry sweep.
func TimeoutReason(minutesElapsed int) string {
	return fmt.Sprintf("Payment timeout - exceeded Razorpay's 15-minute limit (%d minutes elapsed)", minutesElapsed)
}

// VerifyTimeoutReason is stored when a verification request finds the session expired.
const VerifyTimeoutReason = "Payment timeout - exceeded Razorpay's 15-minute limit"

func (p *Payment) ID() uint                         { return p.id }
func (p *Payment) GatewayOrderID() string           { return p.gatewayOrderID }
func (p *Payment) GatewayPaymentID() *string        { return p.gatewayPaymentID }
func (p *Payment) SubscriptionID() *uint            { return p.subscriptionID }
func (p *Payment) UserID() uint                     { return p.userID }
func (p *Payment) Amount() vo.Money                 { return p.amount }
func (p *Payment) Type() vo.PaymentType             { return p.paymentType }
func (p *Payment) Status() vo.PaymentStatus         { return p.status }
func (p *Payment) FailureReason() *string           { return p.failureReason }
func (p *Payment) Description() string              { return p.description }
func (p *Payment) Metadata() map[string]interface{} { return p.metadata }
func (p *Payment) ExpiresAt() *time.Time            { return p.expiresAt }
func (p *Payment) PaidAt() *time.Time               { return p.paidAt }
func (p *Payment) CreatedAt() time.Time             { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time             { return p.updatedAt }

// HasGatewayPayment reports whether Razorpay has created a charge attempt.
func (p *Payment) HasGatewayPayment() bool {
	return p.gatewayPaymentID != nil && *p.gatewayPaymentID != ""
}

// SetID sets the payment ID after persistence (used by repository after Create)
func (p *Payment) SetID(id uint) {
	p.id = id
}

// ReconstructParams carries persisted state back into a Payment.
type ReconstructParams struct {
	ID               uint
	GatewayOrderID   string
	GatewayPaymentID *string
	SubscriptionID   *uint
	UserID           uint
	Amount           vo.Money
	Type             vo.PaymentType
	Status           vo.PaymentStatus
	FailureReason    *string
	Description      string
	Metadata         map[string]interface{}
	ExpiresAt        *time.Time
	PaidAt           *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func ReconstructPayment(params ReconstructParams) *Payment {
	metadata := params.Metadata
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	return &Payment{
		id:               params.ID,
		gatewayOrderID:   params.GatewayOrderID,
		gatewayPaymentID: params.GatewayPaymentID,
		subscriptionID:   params.SubscriptionID,
		userID:           params.UserID,
		amount:           params.Amount,
		paymentType:      params.Type,
		status:           params.Status,
		failureReason:    params.FailureReason,
		description:      params.Description,
		metadata:         metadata,
		expiresAt:        params.ExpiresAt,
		paidAt:           params.PaidAt,
		createdAt:        params.CreatedAt,
		updatedAt:        params.UpdatedAt,
	}
}
