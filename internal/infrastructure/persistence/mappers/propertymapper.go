package mappers

import (
	"github.com/buildhomemart/homemart/internal/domain/property"
	"github.com/buildhomemart/homemart/internal/infrastructure/persistence/models"
)

func PropertyToDomain(model *models.PropertyModel) *property.Property {
	return property.ReconstructProperty(property.ReconstructParams{
		ID:                   model.ID,
		OwnerID:              model.OwnerID,
		Archived:             model.Archived,
		ArchivedAt:           model.ArchivedAt,
		ArchivedReason:       model.ArchivedReason,
		IsFreeListing:        model.IsFreeListing,
		FreeListingExpiresAt: model.FreeListingExpiresAt,
	})
}
