package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/buildhomemart/homemart/internal/application/subscription/dto"
	payvo "github.com/buildhomemart/homemart/internal/domain/payment/valueobjects"
	"github.com/buildhomemart/homemart/internal/domain/subscription"
	vo "github.com/buildhomemart/homemart/internal/domain/subscription/valueobjects"
	"github.com/buildhomemart/homemart/internal/shared/biztime"
	"github.com/buildhomemart/homemart/internal/shared/logger"
	"github.com/buildhomemart/homemart/internal/shared/utils"
)

const seedChangeReason = "plan catalogue seed"

type SeedPlansCommand struct {
	Plans []dto.PlanSeed
}

type SeedPlansResult struct {
	Success bool     `json:"success"`
	Created []string `json:"created"`
	Updated []string `json:"updated"`
	Errors  []string `json:"errors,omitempty"`
}

// TransactionRunner runs fn inside one database transaction carried on ctx.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

var errSeedRolledBack = errors.New("plan seed rolled back")

// SeedPlansUseCase upserts catalogue plans by identifier. Price and feature
// edits on existing plans are logged in their history like any admin edit.
// The catalogue is written all or nothing.
type SeedPlansUseCase struct {
	planRepo subscription.PlanRepository
	tx       TransactionRunner
	logger   logger.Interface
	now      func() time.Time
}

func NewSeedPlansUseCase(planRepo subscription.PlanRepository, tx TransactionRunner, logger logger.Interface) *SeedPlansUseCase {
	return &SeedPlansUseCase{
		planRepo: planRepo,
		tx:       tx,
		logger:   logger,
		now:      biztime.NowUTC,
	}
}

// Execute checks every entry and reports each failure; any failure rolls back
// the whole catalogue.
func (uc *SeedPlansUseCase) Execute(ctx context.Context, cmd SeedPlansCommand) *SeedPlansResult {
	result := &SeedPlansResult{Created: []string{}, Updated: []string{}}

	err := uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		for _, seed := range cmd.Plans {
			created, err := uc.seedOne(txCtx, seed)
			if err != nil {
				uc.logger.Errorw("failed to seed plan",
					"identifier", seed.Identifier,
					"error", err,
				)
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", seed.Identifier, err))
				continue
			}
			id := strings.ToLower(strings.TrimSpace(seed.Identifier))
			if created {
				result.Created = append(result.Created, id)
			} else {
				result.Updated = append(result.Updated, id)
			}
		}
		if len(result.Errors) > 0 {
			return errSeedRolledBack
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, errSeedRolledBack) {
			result.Errors = append(result.Errors, err.Error())
		}
		uc.logger.Warnw("plan seeding rolled back",
			"failed", len(result.Errors),
		)
		result.Created, result.Updated = []string{}, []string{}
		return result
	}

	result.Success = true
	uc.logger.Infow("plan seeding finished",
		"created", len(result.Created),
		"updated", len(result.Updated),
	)
	return result
}

func (uc *SeedPlansUseCase) seedOne(ctx context.Context, seed dto.PlanSeed) (bool, error) {
	if err := utils.ValidateStruct(seed); err != nil {
		return false, err
	}

	limits, err := vo.LimitsFromStored(seed.Limits)
	if err != nil {
		return false, err
	}
	billing := vo.BillingCycle(seed.BillingPeriod)
	isActive := seed.IsActive == nil || *seed.IsActive

	existing, err := uc.planRepo.GetByIdentifier(ctx, seed.Identifier)
	if err != nil && !errors.Is(err, subscription.ErrPlanNotFound) {
		return false, err
	}

	if existing == nil {
		plan, err := subscription.NewPlan(seed.Identifier, seed.Name, seed.Description, seed.Price,
			payvo.Currency(seed.Currency), billing)
		if err != nil {
			return false, err
		}
		if err := plan.SetInitialFeatures(seed.Features); err != nil {
			return false, err
		}
		if err := plan.UpdateDetails(seed.Name, seed.Description, billing, isActive, seed.IsPopular, seed.SortOrder); err != nil {
			return false, err
		}
		now := uc.now()
		for _, key := range limits.Keys() {
			plan.SetLimit(key, limits[key], now)
		}
		return true, uc.planRepo.Create(ctx, plan)
	}

	now := uc.now()
	if err := existing.ChangePrice(seed.Price, 0, seedChangeReason, now); err != nil {
		return false, err
	}
	if seed.Features != nil {
		existing.ReplaceFeatures(seed.Features, 0, now)
	}
	for _, key := range limits.Keys() {
		existing.SetLimit(key, limits[key], now)
	}
	if err := existing.UpdateDetails(seed.Name, seed.Description, billing, isActive, seed.IsPopular, seed.SortOrder); err != nil {
		return false, err
	}
	return false, uc.planRepo.Update(ctx, existing)
}
