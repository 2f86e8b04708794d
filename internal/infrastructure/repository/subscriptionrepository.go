package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/buildhomemart/homemart/internal/domain/subscription"
	vo "github.com/buildhomemart/homemart/internal/domain/subscription/valueobjects"
	"github.com/buildhomemart/homemart/internal/infrastructure/persistence/mappers"
	"github.com/buildhomemart/homemart/internal/infrastructure/persistence/models"
	"github.com/buildhomemart/homemart/internal/shared/constants"
	"github.com/buildhomemart/homemart/internal/shared/db"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewSubscriptionRepository(db *gorm.DB, logger logger.Interface) *SubscriptionRepositoryImpl {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(),
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, sub *subscription.Subscription) error {
	model, err := r.mapper.ToModel(sub)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription in database", "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := sub.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set subscription ID: %w", err)
	}
	sub.MarkPersisted()
	return nil
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SubscriptionRepositoryImpl) SaveStatus(ctx context.Context, sub *subscription.Subscription) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("id = ? AND status = ?", sub.ID(), sub.PersistedStatus().String()).
		Updates(map[string]interface{}{
			"status":              sub.Status().String(),
			"cancellation_reason": sub.CancellationReason(),
			"updated_at":          sub.UpdatedAt(),
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update subscription status",
			"subscription_id", sub.ID(),
			"error", result.Error,
		)
		return fmt.Errorf("failed to update subscription status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return subscription.ErrStaleStatus
	}

	sub.MarkPersisted()
	return nil
}

func (r *SubscriptionRepositoryImpl) CountByPlanAndStatus(ctx context.Context, planID uint, status vo.SubscriptionStatus) (int64, error) {
	var count int64

	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("plan_id = ?", planID).
		Scopes(db.WithStatus(status.String())).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	return count, nil
}

func (r *SubscriptionRepositoryImpl) ListAffected(ctx context.Context, planID uint, status vo.SubscriptionStatus) ([]subscription.AffectedSubscription, error) {
	var rows []models.AffectedSubscriptionRow

	if err := db.GetTxFromContext(ctx, r.db).
		Table(constants.TableSubscriptions+" AS s").
		Select("s.*, u.email AS email, u.first_name AS first_name, u.last_name AS last_name").
		Joins("LEFT JOIN "+constants.TableUsers+" AS u ON u.id = s.user_id").
		Where("s.plan_id = ? AND s.status = ?", planID, status.String()).
		Order("s.start_date DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list affected subscriptions: %w", err)
	}

	out := make([]subscription.AffectedSubscription, 0, len(rows))
	for i := range rows {
		sub, err := r.mapper.ToEntity(&rows[i].SubscriptionModel)
		if err != nil {
			r.logger.Warnw("skipping unreadable subscription row",
				"subscription_id", rows[i].ID,
				"error", err,
			)
			continue
		}
		out = append(out, subscription.AffectedSubscription{
			Subscription: sub,
			Subscriber: subscription.Subscriber{
				UserID:    rows[i].UserID,
				Email:     rows[i].Email,
				FirstName: rows[i].FirstName,
				LastName:  rows[i].LastName,
			},
		})
	}
	return out, nil
}
