package payment

import "errors"

var (
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrInvalidTransition = errors.New("invalid payment status transition")
	// ErrStaleStatus means another writer moved the payment out of pending first.
	ErrStaleStatus = errors.New("payment is no longer pending")
)
