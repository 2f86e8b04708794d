package mappers

import (
	"fmt"

	payvo "github.com/buildhomemart/homemart/internal/domain/payment/valueobjects"
	"github.com/buildhomemart/homemart/internal/domain/subscription"
	vo "github.com/buildhomemart/homemart/internal/domain/subscription/valueobjects"
	"github.com/buildhomemart/homemart/internal/infrastructure/persistence/models"
)

// SubscriptionMapper converts between subscription entities and rows.
type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error)
	ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error)
}

type subscriptionMapper struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &subscriptionMapper{}
}

func (m *subscriptionMapper) ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	var snapshot *subscription.PlanSnapshot
	if len(model.PlanSnapshot) > 0 && string(model.PlanSnapshot) != "null" {
		var record models.PlanSnapshotRecord
		if err := unmarshalJSON(model.PlanSnapshot, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan snapshot: %w", err)
		}
		limits, err := vo.LimitsFromStored(record.Limits)
		if err != nil {
			return nil, fmt.Errorf("subscription %d snapshot limits: %w", model.ID, err)
		}
		snapshot = &subscription.PlanSnapshot{
			Name:          record.Name,
			Price:         record.Price,
			Currency:      payvo.Currency(record.Currency),
			BillingPeriod: vo.BillingCycle(record.BillingPeriod),
			Limits:        limits,
			Features:      record.Features,
		}
	}

	return subscription.ReconstructSubscription(subscription.SubscriptionReconstructParams{
		ID:                 model.ID,
		UserID:             model.UserID,
		PlanID:             model.PlanID,
		Status:             vo.SubscriptionStatus(model.Status),
		StartDate:          model.StartDate,
		EndDate:            model.EndDate,
		Amount:             model.Amount,
		BillingCycle:       vo.BillingCycle(model.BillingCycle),
		AutoRenew:          model.AutoRenew,
		CancellationReason: model.CancellationReason,
		PlanSnapshot:       snapshot,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	})
}

func (m *subscriptionMapper) ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error) {
	if entity == nil {
		return nil, nil
	}

	model := &models.SubscriptionModel{
		ID:                 entity.ID(),
		UserID:             entity.UserID(),
		PlanID:             entity.PlanID(),
		Status:             entity.Status().String(),
		StartDate:          entity.StartDate(),
		EndDate:            entity.EndDate(),
		Amount:             entity.Amount(),
		BillingCycle:       entity.BillingCycle().String(),
		AutoRenew:          entity.AutoRenew(),
		CancellationReason: entity.CancellationReason(),
		CreatedAt:          entity.CreatedAt(),
		UpdatedAt:          entity.UpdatedAt(),
	}

	if snap := entity.PlanSnapshot(); snap != nil {
		features := snap.Features
		if features == nil {
			features = []string{}
		}
		raw, err := marshalJSON(models.PlanSnapshotRecord{
			Name:          snap.Name,
			Price:         snap.Price,
			Currency:      snap.Currency.String(),
			BillingPeriod: snap.BillingPeriod.String(),
			Limits:        snap.Limits.Stored(),
			Features:      features,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal plan snapshot: %w", err)
		}
		model.PlanSnapshot = raw
	}

	return model, nil
}
