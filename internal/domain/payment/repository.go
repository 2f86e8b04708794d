package payment

import (
	"context"
	"time"

	vo "github.com/buildhomemart/homemart/internal/domain/payment/valueobjects"
)

// StatusSummary is one bucket of the status histogram.
type StatusSummary struct {
	Status      vo.PaymentStatus
	Count       int64
	TotalAmount int64
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id uint) (*Payment, error)
	// Find returns ErrPaymentNotFound when nothing matches.
	Find(ctx context.Context, lookup Lookup) (*Payment, error)
	// FindExpiredPending returns pending payments whose deadline is before now.
	FindExpiredPending(ctx context.Context, now time.Time) ([]*Payment, error)
	// SaveTransition persists a status change made on payment, but only while
	// the stored row is still pending. It returns ErrStaleStatus otherwise.
	SaveTransition(ctx context.Context, payment *Payment) error
	// AttachGatewayPayment stores the charge id on a still-pending payment.
	AttachGatewayPayment(ctx context.Context, payment *Payment) error
	SummarizeByStatus(ctx context.Context) ([]StatusSummary, error)
	// ListRecent returns the newest payments of a status ordered by orderColumn.
	ListRecent(ctx context.Context, status vo.PaymentStatus, orderColumn string, limit int) ([]*Payment, error)
	CountTimeoutCancellations(ctx context.Context) (int64, error)
}
