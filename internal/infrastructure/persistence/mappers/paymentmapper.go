package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/buildhomemart/homemart/internal/domain/payment"
	vo "github.com/buildhomemart/homemart/internal/domain/payment/valueobjects"
	"github.com/buildhomemart/homemart/internal/infrastructure/persistence/models"
)

func PaymentToModel(p *payment.Payment) (*models.PaymentModel, error) {
	model := &models.PaymentModel{
		ID:               p.ID(),
		GatewayOrderID:   p.GatewayOrderID(),
		GatewayPaymentID: p.GatewayPaymentID(),
		SubscriptionID:   p.SubscriptionID(),
		UserID:           p.UserID(),
		Amount:           p.Amount().AmountMinor(),
		Currency:         p.Amount().Currency().String(),
		Type:             p.Type().String(),
		Status:           p.Status().String(),
		FailureReason:    p.FailureReason(),
		Description:      p.Description(),
		ExpiresAt:        p.ExpiresAt(),
		PaidAt:           p.PaidAt(),
		CreatedAt:        p.CreatedAt(),
		UpdatedAt:        p.UpdatedAt(),
	}

	if len(p.Metadata()) > 0 {
		raw, err := json.Marshal(p.Metadata())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payment metadata: %w", err)
		}
		model.Metadata = datatypes.JSON(raw)
	}

	return model, nil
}

func PaymentToDomain(model *models.PaymentModel) (*payment.Payment, error) {
	status, err := vo.ParsePaymentStatus(model.Status)
	if err != nil {
		return nil, err
	}

	paymentType, err := vo.NewPaymentType(model.Type)
	if err != nil {
		return nil, err
	}

	var metadata map[string]interface{}
	if len(model.Metadata) > 0 {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payment metadata: %w", err)
		}
	}

	return payment.ReconstructPayment(payment.ReconstructParams{
		ID:               model.ID,
		GatewayOrderID:   model.GatewayOrderID,
		GatewayPaymentID: model.GatewayPaymentID,
		SubscriptionID:   model.SubscriptionID,
		UserID:           model.UserID,
		Amount:           vo.NewMoney(model.Amount, vo.Currency(model.Currency)),
		Type:             paymentType,
		Status:           status,
		FailureReason:    model.FailureReason,
		Description:      model.Description,
		Metadata:         metadata,
		ExpiresAt:        model.ExpiresAt,
		PaidAt:           model.PaidAt,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}), nil
}

func PaymentsToDomain(rows []*models.PaymentModel) ([]*payment.Payment, error) {
	out := make([]*payment.Payment, 0, len(rows))
	for _, row := range rows {
		p, err := PaymentToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("payment %d: %w", row.ID, err)
		}
		out = append(out, p)
	}
	return out, nil
}
