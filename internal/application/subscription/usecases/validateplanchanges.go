package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/buildhomemart/homemart/internal/application/subscription/dto"
	"github.com/buildhomemart/homemart/internal/domain/subscription"
	vo "github.com/buildhomemart/homemart/internal/domain/subscription/valueobjects"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

const (
	msgNegativePrice         = "Price cannot be negative"
	msgNegativePropertyLimit = "Property limit cannot be negative"
	msgBlankName             = "Plan name cannot be empty"
	msgSteepPriceIncrease    = "Price increase is more than 100%. This might affect new subscriptions."
)

type ValidatePlanChangesCommand struct {
	PlanID  uint
	Changes dto.PlanChanges
}

type ValidatePlanChangesResult struct {
	Success    bool                  `json:"success"`
	Validation *dto.ValidationReport `json:"validation,omitempty"`
	Error      string                `json:"error,omitempty"`
}

type ValidatePlanChangesUseCase struct {
	planRepo subscription.PlanRepository
	logger   logger.Interface
}

func NewValidatePlanChangesUseCase(planRepo subscription.PlanRepository, logger logger.Interface) *ValidatePlanChangesUseCase {
	return &ValidatePlanChangesUseCase{
		planRepo: planRepo,
		logger:   logger,
	}
}

func (uc *ValidatePlanChangesUseCase) Execute(ctx context.Context, cmd ValidatePlanChangesCommand) *ValidatePlanChangesResult {
	plan, msg := loadPlan(ctx, uc.planRepo, cmd.PlanID)
	if plan == nil {
		return &ValidatePlanChangesResult{Success: false, Error: msg}
	}

	report := validateChanges(plan, cmd.Changes)
	return &ValidatePlanChangesResult{Success: true, Validation: &report}
}

// validateChanges checks changes against the current plan. Errors block an
// edit; warnings do not.
func validateChanges(plan *subscription.Plan, changes dto.PlanChanges) dto.ValidationReport {
	report := dto.ValidationReport{Errors: []string{}, Warnings: []string{}}

	if changes.Price != nil {
		price := *changes.Price
		if price < 0 {
			report.Errors = append(report.Errors, msgNegativePrice)
		} else if price > 2*plan.Price() {
			report.Warnings = append(report.Warnings, msgSteepPriceIncrease)
		}
	}

	for _, key := range sortedLimitKeys(changes.Limits) {
		if changes.Limits[key] >= 0 {
			continue
		}
		if key == vo.LimitProperties {
			report.Errors = append(report.Errors, msgNegativePropertyLimit)
			continue
		}
		report.Errors = append(report.Errors, fmt.Sprintf("Limit %s cannot be negative", key))
	}

	if changes.Name != nil && strings.TrimSpace(*changes.Name) == "" {
		report.Errors = append(report.Errors, msgBlankName)
	}

	report.IsValid = len(report.Errors) == 0
	return report
}
