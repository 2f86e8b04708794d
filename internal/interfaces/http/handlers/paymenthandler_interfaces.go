package handlers

import (
	"context"

	paymentUsecases "github.com/buildhomemart/homemart/internal/application/payment/usecases"
)

// Use case interfaces for PaymentHandler

type handleWebhookUseCase interface {
	Execute(ctx context.Context, cmd paymentUsecases.HandleWebhookCommand) (*paymentUsecases.HandleWebhookResult, error)
}

type getPaymentDetailUseCase interface {
	Execute(ctx context.Context, cmd paymentUsecases.GetPaymentDetailCommand) *paymentUsecases.GetPaymentDetailResult
}

type verifyPaymentStatusUseCase interface {
	Execute(ctx context.Context, cmd paymentUsecases.VerifyPaymentStatusCommand) *paymentUsecases.VerifyPaymentStatusResult
}

type markPaymentFailedUseCase interface {
	Execute(ctx context.Context, cmd paymentUsecases.MarkPaymentFailedCommand) *paymentUsecases.MarkPaymentFailedResult
}

type getPaymentStatsUseCase interface {
	Execute(ctx context.Context) *paymentUsecases.GetPaymentStatsResult
}
