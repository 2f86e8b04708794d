package usecases

import (
	"context"
	"time"

	"github.com/buildhomemart/homemart/internal/application/subscription/dto"
	"github.com/buildhomemart/homemart/internal/domain/subscription"
	vo "github.com/buildhomemart/homemart/internal/domain/subscription/valueobjects"
	"github.com/buildhomemart/homemart/internal/shared/biztime"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

const msgInvalidPlanChanges = "Invalid plan changes"

type ApplyPlanChangesCommand struct {
	PlanID    uint
	Changes   dto.PlanChanges
	ChangedBy uint
}

type ApplyPlanChangesResult struct {
	Success    bool                  `json:"success"`
	Plan       *dto.PlanDTO          `json:"plan,omitempty"`
	Changes    []dto.PlanFieldChange `json:"changes,omitempty"`
	Validation *dto.ValidationReport `json:"validation,omitempty"`
	Error      string                `json:"error,omitempty"`
}

// ApplyPlanChangesUseCase writes a validated edit to the live plan and logs
// price and feature changes. Subscriptions keep their snapshots.
type ApplyPlanChangesUseCase struct {
	planRepo subscription.PlanRepository
	logger   logger.Interface
	now      func() time.Time
}

func NewApplyPlanChangesUseCase(planRepo subscription.PlanRepository, logger logger.Interface) *ApplyPlanChangesUseCase {
	return &ApplyPlanChangesUseCase{
		planRepo: planRepo,
		logger:   logger,
		now:      biztime.NowUTC,
	}
}

func (uc *ApplyPlanChangesUseCase) Execute(ctx context.Context, cmd ApplyPlanChangesCommand) *ApplyPlanChangesResult {
	plan, msg := loadPlan(ctx, uc.planRepo, cmd.PlanID)
	if plan == nil {
		return &ApplyPlanChangesResult{Success: false, Error: msg}
	}

	report := validateChanges(plan, cmd.Changes)
	if !report.IsValid {
		return &ApplyPlanChangesResult{Success: false, Validation: &report, Error: msgInvalidPlanChanges}
	}

	diff := diffPlan(plan, cmd.Changes)
	if err := uc.apply(plan, cmd); err != nil {
		return &ApplyPlanChangesResult{Success: false, Validation: &report, Error: err.Error()}
	}

	if err := uc.planRepo.Update(ctx, plan); err != nil {
		uc.logger.Errorw("failed to save plan changes",
			"plan_id", plan.ID(),
			"error", err,
		)
		return &ApplyPlanChangesResult{Success: false, Error: err.Error()}
	}

	uc.logger.Infow("plan updated",
		"plan_id", plan.ID(),
		"changed_by", cmd.ChangedBy,
		"changes", len(diff),
	)

	return &ApplyPlanChangesResult{
		Success:    true,
		Plan:       toPlanDTO(plan),
		Changes:    diff,
		Validation: &report,
	}
}

func (uc *ApplyPlanChangesUseCase) apply(plan *subscription.Plan, cmd ApplyPlanChangesCommand) error {
	now := uc.now()
	changes := cmd.Changes

	if changes.Price != nil {
		if err := plan.ChangePrice(*changes.Price, cmd.ChangedBy, changes.Reason, now); err != nil {
			return err
		}
	}

	if changes.Features != nil {
		plan.ReplaceFeatures(changes.Features, cmd.ChangedBy, now)
	}

	for _, key := range sortedLimitKeys(changes.Limits) {
		limit, err := vo.LimitFromStored(changes.Limits[key])
		if err != nil {
			return err
		}
		plan.SetLimit(key, limit, now)
	}

	if changes.Name == nil && changes.Description == nil && changes.IsActive == nil &&
		changes.IsPopular == nil && changes.SortOrder == nil {
		return nil
	}

	name, description := plan.Name(), plan.Description()
	isActive, isPopular, sortOrder := plan.IsActive(), plan.IsPopular(), plan.SortOrder()
	if changes.Name != nil {
		name = *changes.Name
	}
	if changes.Description != nil {
		description = *changes.Description
	}
	if changes.IsActive != nil {
		isActive = *changes.IsActive
	}
	if changes.IsPopular != nil {
		isPopular = *changes.IsPopular
	}
	if changes.SortOrder != nil {
		sortOrder = *changes.SortOrder
	}
	return plan.UpdateDetails(name, description, plan.BillingPeriod(), isActive, isPopular, sortOrder)
}
