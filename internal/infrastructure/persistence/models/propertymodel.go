package models

import (
	"time"

	"github.com/buildhomemart/homemart/internal/shared/constants"
)

// PropertyModel maps only the archive columns of a listing.
type PropertyModel struct {
	ID                   uint       `gorm:"primarykey"`
	OwnerID              uint       `gorm:"not null;index:idx_properties_owner_archived,priority:1"`
	Archived             bool       `gorm:"not null;default:false;index:idx_properties_owner_archived,priority:2"`
	ArchivedAt           *time.Time
	ArchivedReason       *string `gorm:"size:255"`
	IsFreeListing        bool    `gorm:"not null;default:false"`
	FreeListingExpiresAt *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (PropertyModel) TableName() string {
	return constants.TableProperties
}
