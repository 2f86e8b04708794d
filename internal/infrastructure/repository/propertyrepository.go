package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/buildhomemart/homemart/internal/domain/property"
	"github.com/buildhomemart/homemart/internal/infrastructure/persistence/mappers"
	"github.com/buildhomemart/homemart/internal/infrastructure/persistence/models"
	"github.com/buildhomemart/homemart/internal/shared/biztime"
	"github.com/buildhomemart/homemart/internal/shared/db"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) UnarchiveByOwner(ctx context.Context, ownerID uint) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PropertyModel{}).
		Scopes(db.ArchivedBy(ownerID)).
		Updates(map[string]interface{}{
			"archived":                false,
			"archived_at":             nil,
			"archived_reason":         nil,
			"is_free_listing":         false,
			"free_listing_expires_at": nil,
			"updated_at":              biztime.NowUTC(),
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to unarchive properties: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *PropertyRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*property.Property, error) {
	var rows []*models.PropertyModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	out := make([]*property.Property, 0, len(rows))
	for _, row := range rows {
		out = append(out, mappers.PropertyToDomain(row))
	}
	return out, nil
}
