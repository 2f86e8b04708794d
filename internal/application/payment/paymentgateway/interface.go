// Package paymentgateway describes the slice of the payment provider the
// reconciler depends on.
package paymentgateway

import "context"

// Status is the provider's view of a charge attempt.
type Status string

const (
	StatusCreated    Status = "created"
	StatusAuthorized Status = "authorized"
	StatusCaptured   Status = "captured"
	StatusFailed     Status = "failed"
	StatusRefunded   Status = "refunded"
)

// Payment is what FetchPayment returns. Amount is in the minor currency unit.
type Payment struct {
	ID               string
	OrderID          string
	Status           Status
	Amount           int64
	Currency         string
	ErrorDescription string
	ErrorReason      string
}

// FailureReason prefers the human readable description over the reason code.
func (p *Payment) FailureReason() string {
	if p.ErrorDescription != "" {
		return p.ErrorDescription
	}
	return p.ErrorReason
}

// Client is implemented by the Razorpay REST client. An error means the
// status is unknown.
type Client interface {
	FetchPayment(ctx context.Context, gatewayPaymentID string) (*Payment, error)
}

// SignatureVerifier checks webhook payload authenticity.
type SignatureVerifier interface {
	Verify(body []byte, signature string) error
}
