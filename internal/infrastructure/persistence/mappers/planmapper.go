package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	payvo "github.com/buildhomemart/homemart/internal/domain/payment/valueobjects"
	"github.com/buildhomemart/homemart/internal/domain/subscription"
	vo "github.com/buildhomemart/homemart/internal/domain/subscription/valueobjects"
	"github.com/buildhomemart/homemart/internal/infrastructure/persistence/models"
)

// PlanMapper handles the conversion between plan entities and persistence models
type PlanMapper interface {
	ToEntity(model *models.PlanModel) (*subscription.Plan, error)
	ToModel(entity *subscription.Plan) (*models.PlanModel, error)
	ToEntities(models []*models.PlanModel) ([]*subscription.Plan, error)
}

type planMapper struct{}

func NewPlanMapper() PlanMapper {
	return &planMapper{}
}

func (m *planMapper) ToEntity(model *models.PlanModel) (*subscription.Plan, error) {
	if model == nil {
		return nil, nil
	}

	var features []string
	if err := unmarshalJSON(model.Features, &features); err != nil {
		return nil, fmt.Errorf("failed to unmarshal features: %w", err)
	}

	var rawLimits map[string]int64
	if err := unmarshalJSON(model.Limits, &rawLimits); err != nil {
		return nil, fmt.Errorf("failed to unmarshal limits: %w", err)
	}
	limits, err := vo.LimitsFromStored(rawLimits)
	if err != nil {
		return nil, fmt.Errorf("plan %d limits: %w", model.ID, err)
	}

	var priceRecords []models.PriceChangeRecord
	if err := unmarshalJSON(model.PriceHistory, &priceRecords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal price history: %w", err)
	}
	priceHistory := make([]subscription.PriceChange, 0, len(priceRecords))
	for _, r := range priceRecords {
		priceHistory = append(priceHistory, subscription.PriceChange{
			OldPrice:  r.OldPrice,
			NewPrice:  r.NewPrice,
			ChangedAt: r.ChangedAt,
			ChangedBy: r.ChangedBy,
			Reason:    r.Reason,
		})
	}

	var featureRecords []models.FeatureChangeRecord
	if err := unmarshalJSON(model.FeatureHistory, &featureRecords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feature history: %w", err)
	}
	featureHistory := make([]subscription.FeatureChange, 0, len(featureRecords))
	for _, r := range featureRecords {
		featureHistory = append(featureHistory, subscription.FeatureChange{
			OldFeatures: r.OldFeatures,
			NewFeatures: r.NewFeatures,
			ChangedAt:   r.ChangedAt,
			ChangedBy:   r.ChangedBy,
		})
	}

	return subscription.ReconstructPlan(subscription.PlanReconstructParams{
		ID:             model.ID,
		Identifier:     model.Identifier,
		Name:           model.Name,
		Description:    model.Description,
		Price:          model.Price,
		Currency:       payvo.Currency(model.Currency),
		BillingPeriod:  vo.BillingCycle(model.BillingPeriod),
		Features:       features,
		Limits:         limits,
		IsActive:       model.IsActive,
		IsPopular:      model.IsPopular,
		SortOrder:      model.SortOrder,
		PriceHistory:   priceHistory,
		FeatureHistory: featureHistory,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}), nil
}

func (m *planMapper) ToModel(entity *subscription.Plan) (*models.PlanModel, error) {
	if entity == nil {
		return nil, nil
	}

	features := entity.Features()
	if features == nil {
		features = []string{}
	}

	priceRecords := make([]models.PriceChangeRecord, 0, len(entity.PriceHistory()))
	for _, c := range entity.PriceHistory() {
		priceRecords = append(priceRecords, models.PriceChangeRecord{
			OldPrice:  c.OldPrice,
			NewPrice:  c.NewPrice,
			ChangedAt: c.ChangedAt,
			ChangedBy: c.ChangedBy,
			Reason:    c.Reason,
		})
	}

	featureRecords := make([]models.FeatureChangeRecord, 0, len(entity.FeatureHistory()))
	for _, c := range entity.FeatureHistory() {
		featureRecords = append(featureRecords, models.FeatureChangeRecord{
			OldFeatures: c.OldFeatures,
			NewFeatures: c.NewFeatures,
			ChangedAt:   c.ChangedAt,
			ChangedBy:   c.ChangedBy,
		})
	}

	model := &models.PlanModel{
		ID:            entity.ID(),
		Identifier:    entity.Identifier(),
		Name:          entity.Name(),
		Description:   entity.Description(),
		Price:         entity.Price(),
		Currency:      entity.Currency().String(),
		BillingPeriod: entity.BillingPeriod().String(),
		IsActive:      entity.IsActive(),
		IsPopular:     entity.IsPopular(),
		SortOrder:     entity.SortOrder(),
		CreatedAt:     entity.CreatedAt(),
		UpdatedAt:     entity.UpdatedAt(),
	}

	var err error
	if model.Features, err = marshalJSON(features); err != nil {
		return nil, fmt.Errorf("failed to marshal features: %w", err)
	}
	if model.Limits, err = marshalJSON(entity.Limits().Stored()); err != nil {
		return nil, fmt.Errorf("failed to marshal limits: %w", err)
	}
	if model.PriceHistory, err = marshalJSON(priceRecords); err != nil {
		return nil, fmt.Errorf("failed to marshal price history: %w", err)
	}
	if model.FeatureHistory, err = marshalJSON(featureRecords); err != nil {
		return nil, fmt.Errorf("failed to marshal feature history: %w", err)
	}

	return model, nil
}

func (m *planMapper) ToEntities(rows []*models.PlanModel) ([]*subscription.Plan, error) {
	entities := make([]*subscription.Plan, 0, len(rows))
	for _, row := range rows {
		entity, err := m.ToEntity(row)
		if err != nil {
			return nil, fmt.Errorf("failed to map plan ID %d: %w", row.ID, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

func marshalJSON(v interface{}) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// unmarshalJSON leaves v untouched for empty or NULL columns.
func unmarshalJSON(raw datatypes.JSON, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}
