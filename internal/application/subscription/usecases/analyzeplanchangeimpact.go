package usecases

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/buildhomemart/homemart/internal/application/subscription/dto"
	"github.com/buildhomemart/homemart/internal/domain/subscription"
	vo "github.com/buildhomemart/homemart/internal/domain/subscription/valueobjects"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

const impactNote = "Existing subscriptions will continue with their original plan details. Only new subscriptions will get the updated plan."

type AnalyzePlanChangeImpactCommand struct {
	PlanID  uint
	Changes dto.PlanChanges
}

type AnalyzePlanChangeImpactResult struct {
	Success bool                  `json:"success"`
	Impact  *dto.PlanChangeImpact `json:"impact,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// AnalyzePlanChangeImpactUseCase reports what a plan edit would change and who
// is on the plan. It never writes.
type AnalyzePlanChangeImpactUseCase struct {
	planRepo         subscription.PlanRepository
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

func NewAnalyzePlanChangeImpactUseCase(
	planRepo subscription.PlanRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *AnalyzePlanChangeImpactUseCase {
	return &AnalyzePlanChangeImpactUseCase{
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *AnalyzePlanChangeImpactUseCase) Execute(ctx context.Context, cmd AnalyzePlanChangeImpactCommand) *AnalyzePlanChangeImpactResult {
	plan, msg := loadPlan(ctx, uc.planRepo, cmd.PlanID)
	if plan == nil {
		return &AnalyzePlanChangeImpactResult{Success: false, Error: msg}
	}

	var active, pending int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := uc.subscriptionRepo.CountByPlanAndStatus(gctx, plan.ID(), vo.StatusActive)
		if err != nil {
			return fmt.Errorf("count active: %w", err)
		}
		active = n
		return nil
	})
	g.Go(func() error {
		n, err := uc.subscriptionRepo.CountByPlanAndStatus(gctx, plan.ID(), vo.StatusPending)
		if err != nil {
			return fmt.Errorf("count pending: %w", err)
		}
		pending = n
		return nil
	})
	if err := g.Wait(); err != nil {
		uc.logger.Errorw("failed to count plan subscriptions",
			"plan_id", plan.ID(),
			"error", err,
		)
		return &AnalyzePlanChangeImpactResult{Success: false, Error: err.Error()}
	}

	impact := &dto.PlanChangeImpact{
		PlanName:             plan.Name(),
		ActiveSubscriptions:  active,
		PendingSubscriptions: pending,
		TotalAffected:        active + pending,
		Changes:              diffPlan(plan, cmd.Changes),
		AffectsExistingUsers: false,
		AffectsNewUsers:      true,
		Note:                 impactNote,
	}

	uc.logger.Debugw("analyzed plan change impact",
		"plan_id", plan.ID(),
		"changes", len(impact.Changes),
		"subscribers", impact.TotalAffected,
	)

	return &AnalyzePlanChangeImpactResult{Success: true, Impact: impact}
}
