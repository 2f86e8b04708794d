package usecases

import (
	"context"
	"errors"
	"slices"

	"github.com/buildhomemart/homemart/internal/application/subscription/dto"
	"github.com/buildhomemart/homemart/internal/domain/subscription"
	vo "github.com/buildhomemart/homemart/internal/domain/subscription/valueobjects"
)

// ErrMsgPlanNotFound is the result error for an unknown plan id.
const ErrMsgPlanNotFound = "Plan not found"

// loadPlan returns the plan or the message to put in a failed result.
func loadPlan(ctx context.Context, repo subscription.PlanRepository, planID uint) (*subscription.Plan, string) {
	plan, err := repo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, subscription.ErrPlanNotFound) {
			return nil, ErrMsgPlanNotFound
		}
		return nil, err.Error()
	}
	return plan, ""
}

// limitValue renders a raw admin limit for a report. Negative input cannot
// become a Limit and is shown as given.
func limitValue(raw int64) interface{} {
	l, err := vo.LimitFromStored(raw)
	if err != nil {
		return raw
	}
	return l
}

func sortedLimitKeys(limits map[string]int64) []string {
	keys := make([]string, 0, len(limits))
	for key := range limits {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// diffPlan lists the fields of plan that changes would alter.
func diffPlan(plan *subscription.Plan, changes dto.PlanChanges) []dto.PlanFieldChange {
	diff := []dto.PlanFieldChange{}

	if changes.Price != nil && *changes.Price != plan.Price() {
		changeType := dto.ChangeTypeIncrease
		if *changes.Price < plan.Price() {
			changeType = dto.ChangeTypeDecrease
		}
		diff = append(diff, dto.PlanFieldChange{
			Field:    "price",
			OldValue: plan.Price(),
			NewValue: *changes.Price,
			Type:     changeType,
		})
	}

	for _, key := range sortedLimitKeys(changes.Limits) {
		raw := changes.Limits[key]
		old, defined := plan.Limit(key)
		if next, err := vo.LimitFromStored(raw); err == nil && defined && old.Equal(next) {
			continue
		}
		change := dto.PlanFieldChange{
			Field:    "limits." + key,
			NewValue: limitValue(raw),
			Type:     dto.ChangeTypeLimitChange,
		}
		if defined {
			change.OldValue = old
		}
		diff = append(diff, change)
	}

	if changes.Features != nil && !slices.Equal(changes.Features, plan.Features()) {
		diff = append(diff, dto.PlanFieldChange{
			Field: "features",
			Type:  dto.ChangeTypeFeaturesModified,
			Note:  "Features have been modified",
		})
	}

	return diff
}

func toPlanDTO(plan *subscription.Plan) *dto.PlanDTO {
	return &dto.PlanDTO{
		ID:            plan.ID(),
		Identifier:    plan.Identifier(),
		Name:          plan.Name(),
		Description:   plan.Description(),
		Price:         plan.Price(),
		Currency:      plan.Currency().String(),
		BillingPeriod: plan.BillingPeriod().String(),
		Features:      plan.Features(),
		Limits:        plan.Limits(),
		IsActive:      plan.IsActive(),
		IsPopular:     plan.IsPopular(),
		SortOrder:     plan.SortOrder(),
		UpdatedAt:     plan.UpdatedAt(),
	}
}
