package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/buildhomemart/homemart/internal/shared/constants"
)

// PlanModel is the persisted plan. Limits are stored as integers where 0 means unlimited.
type PlanModel struct {
	ID             uint   `gorm:"primarykey"`
	Identifier     string `gorm:"uniqueIndex;not null;size:50"`
	Name           string `gorm:"not null;size:100"`
	Description    string `gorm:"type:text"`
	Price          int64  `gorm:"not null"`
	Currency       string `gorm:"not null;size:3;default:INR"`
	BillingPeriod  string `gorm:"not null;size:20"`
	Features       datatypes.JSON
	Limits         datatypes.JSON
	IsActive       bool `gorm:"not null;default:true"`
	IsPopular      bool `gorm:"not null;default:false"`
	SortOrder      int  `gorm:"default:0"`
	PriceHistory   datatypes.JSON
	FeatureHistory datatypes.JSON
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (PlanModel) TableName() string {
	return constants.TablePlans
}

// PriceChangeRecord is the stored shape of one price history entry.
type PriceChangeRecord struct {
	OldPrice  int64     `json:"old_price"`
	NewPrice  int64     `json:"new_price"`
	ChangedAt time.Time `json:"changed_at"`
	ChangedBy uint      `json:"changed_by,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// FeatureChangeRecord is the stored shape of one feature history entry.
type FeatureChangeRecord struct {
	OldFeatures []string  `json:"old_features"`
	NewFeatures []string  `json:"new_features"`
	ChangedAt   time.Time `json:"changed_at"`
	ChangedBy   uint      `json:"changed_by,omitempty"`
}

// BeforeCreate fills empty JSON columns so reads never see NULL.
func (p *PlanModel) BeforeCreate(tx *gorm.DB) error {
	if len(p.Features) == 0 {
		p.Features = datatypes.JSON("[]")
	}
	if len(p.Limits) == 0 {
		p.Limits = datatypes.JSON("{}")
	}
	if len(p.PriceHistory) == 0 {
		p.PriceHistory = datatypes.JSON("[]")
	}
	if len(p.FeatureHistory) == 0 {
		p.FeatureHistory = datatypes.JSON("[]")
	}
	return nil
}
