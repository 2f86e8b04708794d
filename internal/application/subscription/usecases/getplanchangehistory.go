package usecases

import (
	"context"

	"github.com/buildhomemart/homemart/internal/application/subscription/dto"
	"github.com/buildhomemart/homemart/internal/domain/subscription"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

type GetPlanChangeHistoryResult struct {
	Success bool             `json:"success"`
	History *dto.PlanHistory `json:"history,omitempty"`
	Error   string           `json:"error,omitempty"`
}

type GetPlanChangeHistoryUseCase struct {
	planRepo subscription.PlanRepository
	logger   logger.Interface
}

func NewGetPlanChangeHistoryUseCase(planRepo subscription.PlanRepository, logger logger.Interface) *GetPlanChangeHistoryUseCase {
	return &GetPlanChangeHistoryUseCase{
		planRepo: planRepo,
		logger:   logger,
	}
}

func (uc *GetPlanChangeHistoryUseCase) Execute(ctx context.Context, planID uint) *GetPlanChangeHistoryResult {
	plan, msg := loadPlan(ctx, uc.planRepo, planID)
	if plan == nil {
		if msg != ErrMsgPlanNotFound {
			uc.logger.Errorw("failed to load plan history", "plan_id", planID, "error", msg)
		}
		return &GetPlanChangeHistoryResult{Success: false, Error: msg}
	}

	history := &dto.PlanHistory{
		PlanName:       plan.Name(),
		PriceHistory:   make([]dto.PriceChangeDTO, 0, len(plan.PriceHistory())),
		FeatureHistory: make([]dto.FeatureChangeDTO, 0, len(plan.FeatureHistory())),
	}
	for _, c := range plan.PriceHistory() {
		history.PriceHistory = append(history.PriceHistory, dto.PriceChangeDTO{
			OldPrice:  c.OldPrice,
			NewPrice:  c.NewPrice,
			ChangedAt: c.ChangedAt,
			ChangedBy: c.ChangedBy,
			Reason:    c.Reason,
		})
	}
	for _, c := range plan.FeatureHistory() {
		history.FeatureHistory = append(history.FeatureHistory, dto.FeatureChangeDTO{
			OldFeatures: c.OldFeatures,
			NewFeatures: c.NewFeatures,
			ChangedAt:   c.ChangedAt,
			ChangedBy:   c.ChangedBy,
		})
	}

	return &GetPlanChangeHistoryResult{Success: true, History: history}
}
