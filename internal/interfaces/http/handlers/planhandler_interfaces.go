package handlers

import (
	"context"

	"github.com/buildhomemart/homemart/internal/application/subscription/usecases"
)

// Use case interfaces for PlanHandler

type analyzePlanChangeImpactUseCase interface {
	Execute(ctx context.Context, cmd usecases.AnalyzePlanChangeImpactCommand) *usecases.AnalyzePlanChangeImpactResult
}

type validatePlanChangesUseCase interface {
	Execute(ctx context.Context, cmd usecases.ValidatePlanChangesCommand) *usecases.ValidatePlanChangesResult
}

type applyPlanChangesUseCase interface {
	Execute(ctx context.Context, cmd usecases.ApplyPlanChangesCommand) *usecases.ApplyPlanChangesResult
}

type getPlanChangeHistoryUseCase interface {
	Execute(ctx context.Context, planID uint) *usecases.GetPlanChangeHistoryResult
}

type getAffectedSubscriptionsUseCase interface {
	Execute(ctx context.Context, query usecases.GetAffectedSubscriptionsQuery) *usecases.GetAffectedSubscriptionsResult
}
