package usecases

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/buildhomemart/homemart/internal/domain/payment"
	vo "github.com/buildhomemart/homemart/internal/domain/payment/valueobjects"
	"github.com/buildhomemart/homemart/internal/shared/biztime"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

const recentPaymentsLimit = 10

type StatusStat struct {
	Status      string `json:"status"`
	Count       int64  `json:"count"`
	TotalAmount int64  `json:"totalAmount"`
}

type PaymentSummary struct {
	ID            uint      `json:"id"`
	OrderID       string    `json:"orderId"`
	Amount        int64     `json:"amount"`
	FailureReason string    `json:"failureReason,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type GetPaymentStatsResult struct {
	Success               bool             `json:"success"`
	Stats                 []StatusStat     `json:"stats,omitempty"`
	RecentFailed          []PaymentSummary `json:"recentFailed,omitempty"`
	RecentCancelled       []PaymentSummary `json:"recentCancelled,omitempty"`
	CancelledDueToTimeout int64            `json:"cancelledDueToTimeout"`
	Timestamp             time.Time        `json:"timestamp"`
	Error                 string           `json:"error,omitempty"`
}

type GetPaymentStatsUseCase struct {
	paymentRepo payment.PaymentRepository
	logger      logger.Interface
	now         func() time.Time
}

func NewGetPaymentStatsUseCase(paymentRepo payment.PaymentRepository, logger logger.Interface) *GetPaymentStatsUseCase {
	return &GetPaymentStatsUseCase{
		paymentRepo: paymentRepo,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

func (uc *GetPaymentStatsUseCase) Execute(ctx context.Context) *GetPaymentStatsResult {
	// Each goroutine writes to its own variable; Wait orders the reads.
	var (
		summary         []payment.StatusSummary
		recentFailed    []*payment.Payment
		recentCancelled []*payment.Payment
		timeoutCount    int64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := uc.paymentRepo.SummarizeByStatus(gctx)
		if err != nil {
			return fmt.Errorf("status summary: %w", err)
		}
		summary = rows
		return nil
	})

	g.Go(func() error {
		rows, err := uc.paymentRepo.ListRecent(gctx, vo.PaymentStatusFailed, "created_at", recentPaymentsLimit)
		if err != nil {
			return fmt.Errorf("recent failed: %w", err)
		}
		recentFailed = rows
		return nil
	})

	g.Go(func() error {
		rows, err := uc.paymentRepo.ListRecent(gctx, vo.PaymentStatusCancelled, "updated_at", recentPaymentsLimit)
		if err != nil {
			return fmt.Errorf("recent cancelled: %w", err)
		}
		recentCancelled = rows
		return nil
	})

	g.Go(func() error {
		count, err := uc.paymentRepo.CountTimeoutCancellations(gctx)
		if err != nil {
			return fmt.Errorf("timeout count: %w", err)
		}
		timeoutCount = count
		return nil
	})

	now := uc.now()
	if err := g.Wait(); err != nil {
		uc.logger.Errorw("failed to build payment stats", "error", err)
		return &GetPaymentStatsResult{Success: false, Error: err.Error(), Timestamp: now}
	}

	return &GetPaymentStatsResult{
		Success:               true,
		Stats:                 toStatusStats(summary),
		RecentFailed:          toPaymentSummaries(recentFailed),
		RecentCancelled:       toPaymentSummaries(recentCancelled),
		CancelledDueToTimeout: timeoutCount,
		Timestamp:             now,
	}
}

// toStatusStats lists the histogram in status display order.
func toStatusStats(summary []payment.StatusSummary) []StatusStat {
	byStatus := make(map[vo.PaymentStatus]payment.StatusSummary, len(summary))
	for _, s := range summary {
		byStatus[s.Status] = s
	}

	stats := make([]StatusStat, 0, len(summary))
	for _, status := range vo.AllPaymentStatuses() {
		s, ok := byStatus[status]
		if !ok {
			continue
		}
		stats = append(stats, StatusStat{
			Status:      status.String(),
			Count:       s.Count,
			TotalAmount: s.TotalAmount,
		})
	}
	return stats
}

func toPaymentSummaries(payments []*payment.Payment) []PaymentSummary {
	out := make([]PaymentSummary, 0, len(payments))
	for _, p := range payments {
		s := PaymentSummary{
			ID:        p.ID(),
			OrderID:   p.GatewayOrderID(),
			Amount:    p.Amount().AmountMinor(),
			CreatedAt: p.CreatedAt(),
			UpdatedAt: p.UpdatedAt(),
		}
		if p.FailureReason() != nil {
			s.FailureReason = *p.FailureReason()
		}
		out = append(out, s)
	}
	return out
}
