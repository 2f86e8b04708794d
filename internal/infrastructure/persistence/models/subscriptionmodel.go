package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/buildhomemart/homemart/internal/shared/constants"
)

type SubscriptionModel struct {
	ID                 uint      `gorm:"primarykey"`
	UserID             uint      `gorm:"not null;index"`
	PlanID             uint      `gorm:"not null;index:idx_subscriptions_plan_status,priority:1"`
	Status             string    `gorm:"not null;size:20;index:idx_subscriptions_plan_status,priority:2"`
	StartDate          time.Time `gorm:"not null"`
	EndDate            time.Time `gorm:"not null"`
	Amount             int64     `gorm:"not null"`
	BillingCycle       string    `gorm:"not null;size:20"`
	AutoRenew          bool      `gorm:"not null;default:false"`
	CancellationReason *string   `gorm:"size:500"`
	PlanSnapshot       datatypes.JSON
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}

// PlanSnapshotRecord is the stored snapshot document.
type PlanSnapshotRecord struct {
	Name          string           `json:"name"`
	Price         int64            `json:"price"`
	Currency      string           `json:"currency"`
	BillingPeriod string           `json:"billing_period"`
	Limits        map[string]int64 `json:"limits"`
	Features      []string         `json:"features"`
}

// AffectedSubscriptionRow is a subscription joined with its owner.
type AffectedSubscriptionRow struct {
	SubscriptionModel
	Email     string
	FirstName string
	LastName  string
}
