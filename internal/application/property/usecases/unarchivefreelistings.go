package usecases

import (
	"context"

	"github.com/buildhomemart/homemart/internal/domain/property"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

type UnarchiveFreeListingsCommand struct {
	UserID uint
}

type UnarchiveFreeListingsResult struct {
	Success         bool   `json:"success"`
	UnarchivedCount int64  `json:"unarchivedCount"`
	Error           string `json:"error,omitempty"`
}

// UnarchiveFreeListingsUseCase releases every archived listing of a vendor
// once a subscription purchase settles. The new plan's cap is not re-checked.
type UnarchiveFreeListingsUseCase struct {
	propertyRepo property.Repository
	logger       logger.Interface
}

func NewUnarchiveFreeListingsUseCase(
	propertyRepo property.Repository,
	logger logger.Interface,
) *UnarchiveFreeListingsUseCase {
	return &UnarchiveFreeListingsUseCase{
		propertyRepo: propertyRepo,
		logger:       logger,
	}
}

func (uc *UnarchiveFreeListingsUseCase) Execute(ctx context.Context, cmd UnarchiveFreeListingsCommand) *UnarchiveFreeListingsResult {
	count, err := uc.propertyRepo.UnarchiveByOwner(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to unarchive listings",
			"user_id", cmd.UserID,
			"error", err,
		)
		return &UnarchiveFreeListingsResult{Success: false, Error: err.Error()}
	}

	if count > 0 {
		uc.logger.Infow("unarchived listings after subscription",
			"user_id", cmd.UserID,
			"count", count,
		)
	}

	return &UnarchiveFreeListingsResult{Success: true, UnarchivedCount: count}
}
