package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/buildhomemart/homemart/internal/application/payment/paymentgateway"
)

var (
	ErrMissingSignature = errors.New("razorpay: missing webhook signature")
	ErrInvalidSignature = errors.New("razorpay: invalid webhook signature")
	ErrNoWebhookSecret  = errors.New("razorpay: webhook secret not configured")
)

// WebhookVerifier checks X-Razorpay-Signature, a hex HMAC-SHA256 of the raw
// request body keyed with the webhook secret.
type WebhookVerifier struct {
	secret []byte
}

var _ paymentgateway.SignatureVerifier = (*WebhookVerifier)(nil)

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: []byte(secret)}
}

func (v *WebhookVerifier) Verify(body []byte, signature string) error {
	if len(v.secret) == 0 {
		return ErrNoWebhookSecret
	}
	if signature == "" {
		return ErrMissingSignature
	}

	got, err := hex.DecodeString(signature)
	if err != nil {
		return ErrInvalidSignature
	}
	if !hmac.Equal(got, Sign(v.secret, body)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign computes the raw signature bytes for body.
func Sign(secret, body []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return mac.Sum(nil)
}
