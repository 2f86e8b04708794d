package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/buildhomemart/homemart/internal/domain/payment"
	vo "github.com/buildhomemart/homemart/internal/domain/payment/valueobjects"
	"github.com/buildhomemart/homemart/internal/infrastructure/persistence/mappers"
	"github.com/buildhomemart/homemart/internal/infrastructure/persistence/models"
	"github.com/buildhomemart/homemart/internal/shared/db"
)

var allowedPaymentOrderColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
}

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	model, err := mappers.PaymentToModel(p)
	if err != nil {
		return err
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	p.SetID(model.ID)
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uint) (*payment.Payment, error) {
	return r.Find(ctx, payment.ByID(id))
}

func (r *PaymentRepository) Find(ctx context.Context, lookup payment.Lookup) (*payment.Payment, error) {
	if lookup.IsZero() {
		return nil, payment.ErrPaymentNotFound
	}

	query := db.GetTxFromContext(ctx, r.db)
	switch lookup.Kind {
	case payment.LookupByID:
		query = query.Where("id = ?", lookup.ID)
	case payment.LookupByOrderID:
		query = query.Where("gateway_order_id = ?", lookup.Value)
	case payment.LookupByGatewayPaymentID:
		query = query.Where("gateway_payment_id = ?", lookup.Value)
	}

	var model models.PaymentModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment by %s: %w", lookup.Kind, err)
	}

	return mappers.PaymentToDomain(&model)
}

func (r *PaymentRepository) FindExpiredPending(ctx context.Context, now time.Time) ([]*payment.Payment, error) {
	var rows []*models.PaymentModel

	fallbackCutoff := now.Add(-payment.FixedTimeout)
	if err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.WithStatus(vo.PaymentStatusPending.String())).
		Where("(expires_at IS NOT NULL AND expires_at < ?) OR (expires_at IS NULL AND created_at < ?)", now, fallbackCutoff).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query expired payments: %w", err)
	}

	return mappers.PaymentsToDomain(rows)
}

func (r *PaymentRepository) SaveTransition(ctx context.Context, p *payment.Payment) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentModel{}).
		Where("id = ? AND status = ?", p.ID(), vo.PaymentStatusPending.String()).
		Updates(map[string]interface{}{
			"status":             p.Status().String(),
			"failure_reason":     p.FailureReason(),
			"gateway_payment_id": p.GatewayPaymentID(),
			"paid_at":            p.PaidAt(),
			"updated_at":         p.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update payment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return payment.ErrStaleStatus
	}
	return nil
}

func (r *PaymentRepository) AttachGatewayPayment(ctx context.Context, p *payment.Payment) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentModel{}).
		Where("id = ? AND status = ?", p.ID(), vo.PaymentStatusPending.String()).
		Updates(map[string]interface{}{
			"gateway_payment_id": p.GatewayPaymentID(),
			"updated_at":         p.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to attach gateway payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return payment.ErrStaleStatus
	}
	return nil
}

func (r *PaymentRepository) SummarizeByStatus(ctx context.Context) ([]payment.StatusSummary, error) {
	var rows []models.PaymentStatusRow

	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentModel{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total_amount").
		Group("status").
		Order("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to summarize payments: %w", err)
	}

	out := make([]payment.StatusSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, payment.StatusSummary{
			Status:      vo.PaymentStatus(row.Status),
			Count:       row.Count,
			TotalAmount: row.TotalAmount,
		})
	}
	return out, nil
}

func (r *PaymentRepository) ListRecent(ctx context.Context, status vo.PaymentStatus, orderColumn string, limit int) ([]*payment.Payment, error) {
	if !allowedPaymentOrderColumns[orderColumn] {
		return nil, fmt.Errorf("invalid order column: %s", orderColumn)
	}

	var rows []*models.PaymentModel
	if err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.WithStatus(status.String()), db.Latest(orderColumn, limit)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s payments: %w", status, err)
	}

	return mappers.PaymentsToDomain(rows)
}

func (r *PaymentRepository) CountTimeoutCancellations(ctx context.Context) (int64, error) {
	var count int64

	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentModel{}).
		Scopes(db.WithStatus(vo.PaymentStatusCancelled.String())).
		Where("LOWER(failure_reason) LIKE ? OR LOWER(failure_reason) LIKE ?", "%timeout%", "%exceeded%").
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count timeout cancellations: %w", err)
	}

	return count, nil
}
