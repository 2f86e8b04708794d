package usecases

import (
	"context"
	"strings"

	"github.com/buildhomemart/homemart/internal/application/subscription/dto"
	"github.com/buildhomemart/homemart/internal/domain/subscription"
	vo "github.com/buildhomemart/homemart/internal/domain/subscription/valueobjects"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

type GetAffectedSubscriptionsQuery struct {
	PlanID uint
	// Status defaults to active.
	Status vo.SubscriptionStatus
}

type GetAffectedSubscriptionsResult struct {
	Success       bool                          `json:"success"`
	Subscriptions []dto.AffectedSubscriptionDTO `json:"subscriptions"`
	Count         int                           `json:"count"`
	Error         string                        `json:"error,omitempty"`
}

// GetAffectedSubscriptionsUseCase lists who is on a plan and what they bought.
// Terms come from each subscription's snapshot, never from the live plan.
type GetAffectedSubscriptionsUseCase struct {
	planRepo         subscription.PlanRepository
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

func NewGetAffectedSubscriptionsUseCase(
	planRepo subscription.PlanRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *GetAffectedSubscriptionsUseCase {
	return &GetAffectedSubscriptionsUseCase{
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *GetAffectedSubscriptionsUseCase) Execute(ctx context.Context, query GetAffectedSubscriptionsQuery) *GetAffectedSubscriptionsResult {
	status := query.Status
	if status == "" {
		status = vo.StatusActive
	}

	plan, msg := loadPlan(ctx, uc.planRepo, query.PlanID)
	if plan == nil {
		return &GetAffectedSubscriptionsResult{Success: false, Error: msg}
	}

	rows, err := uc.subscriptionRepo.ListAffected(ctx, plan.ID(), status)
	if err != nil {
		uc.logger.Errorw("failed to list plan subscriptions",
			"plan_id", plan.ID(),
			"status", status,
			"error", err,
		)
		return &GetAffectedSubscriptionsResult{Success: false, Error: err.Error()}
	}

	out := make([]dto.AffectedSubscriptionDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toAffectedDTO(row))
	}

	return &GetAffectedSubscriptionsResult{Success: true, Subscriptions: out, Count: len(out)}
}

func toAffectedDTO(row subscription.AffectedSubscription) dto.AffectedSubscriptionDTO {
	sub := row.Subscription
	item := dto.AffectedSubscriptionDTO{
		SubscriptionID: sub.ID(),
		UserID:         sub.UserID(),
		UserEmail:      row.Subscriber.Email,
		UserName:       strings.TrimSpace(row.Subscriber.FirstName + " " + row.Subscriber.LastName),
		Status:         sub.Status().String(),
		StartDate:      sub.StartDate(),
		EndDate:        sub.EndDate(),
		Amount:         sub.Amount(),
	}
	if snap := sub.PlanSnapshot(); snap != nil {
		item.PlanSnapshotExists = true
		item.PlanSnapshot = &dto.SnapshotDTO{
			Name:   snap.Name,
			Price:  snap.Price,
			Limits: snap.Limits,
		}
	}
	return item
}
