package dto

import (
	"time"

	vo "github.com/buildhomemart/homemart/internal/domain/subscription/valueobjects"
)

// PlanChanges is a proposed plan edit. Nil fields are left unchanged. Limits
// use the admin input convention where 0 means unlimited; negative values are
// accepted here so validation can report them.
type PlanChanges struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *int64           `json:"price,omitempty"`
	Limits      map[string]int64 `json:"limits,omitempty"`
	Features    []string         `json:"features,omitempty"`
	IsActive    *bool            `json:"isActive,omitempty"`
	IsPopular   *bool            `json:"isPopular,omitempty"`
	SortOrder   *int             `json:"sortOrder,omitempty"`
	Reason      string           `json:"reason,omitempty"`
}

const (
	ChangeTypeIncrease         = "increase"
	ChangeTypeDecrease         = "decrease"
	ChangeTypeLimitChange      = "limit_change"
	ChangeTypeFeaturesModified = "features_modified"
)

// PlanFieldChange is one line of an impact report. Old and new values are
// numbers, vo.Limit values or absent.
type PlanFieldChange struct {
	Field    string      `json:"field"`
	OldValue interface{} `json:"oldValue,omitempty"`
	NewValue interface{} `json:"newValue,omitempty"`
	Type     string      `json:"type"`
	Note     string      `json:"note,omitempty"`
}

type PlanChangeImpact struct {
	PlanName             string            `json:"planName"`
	ActiveSubscriptions  int64             `json:"activeSubscriptions"`
	PendingSubscriptions int64             `json:"pendingSubscriptions"`
	TotalAffected        int64             `json:"totalAffected"`
	Changes              []PlanFieldChange `json:"changes"`
	AffectsExistingUsers bool              `json:"affectsExistingUsers"`
	AffectsNewUsers      bool              `json:"affectsNewUsers"`
	Note                 string            `json:"note"`
}

type PriceChangeDTO struct {
	OldPrice  int64     `json:"oldPrice"`
	NewPrice  int64     `json:"newPrice"`
	ChangedAt time.Time `json:"changedAt"`
	ChangedBy uint      `json:"changedBy,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

type FeatureChangeDTO struct {
	OldFeatures []string  `json:"oldFeatures"`
	NewFeatures []string  `json:"newFeatures"`
	ChangedAt   time.Time `json:"changedAt"`
	ChangedBy   uint      `json:"changedBy,omitempty"`
}

type PlanHistory struct {
	PlanName       string             `json:"planName"`
	PriceHistory   []PriceChangeDTO   `json:"priceHistory"`
	FeatureHistory []FeatureChangeDTO `json:"featureHistory"`
}

// SnapshotDTO is the entitlement a subscriber actually holds.
type SnapshotDTO struct {
	Name   string    `json:"name"`
	Price  int64     `json:"price"`
	Limits vo.Limits `json:"limits"`
}

type AffectedSubscriptionDTO struct {
	SubscriptionID     uint         `json:"subscriptionId"`
	UserID             uint         `json:"userId"`
	UserEmail          string       `json:"userEmail"`
	UserName           string       `json:"userName"`
	Status             string       `json:"status"`
	StartDate          time.Time    `json:"startDate"`
	EndDate            time.Time    `json:"endDate"`
	Amount             int64        `json:"amount"`
	PlanSnapshotExists bool         `json:"planSnapshotExists"`
	PlanSnapshot       *SnapshotDTO `json:"planSnapshot"`
}

type ValidationReport struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

type PlanDTO struct {
	ID            uint      `json:"id"`
	Identifier    string    `json:"identifier"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         int64     `json:"price"`
	Currency      string    `json:"currency"`
	BillingPeriod string    `json:"billingPeriod"`
	Features      []string  `json:"features"`
	Limits        vo.Limits `json:"limits"`
	IsActive      bool      `json:"isActive"`
	IsPopular     bool      `json:"isPopular"`
	SortOrder     int       `json:"sortOrder"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PlanSeed is one catalogue entry from a seed file. Limits use the storage
// convention where 0 means unlimited.
type PlanSeed struct {
	Identifier    string           `json:"identifier" yaml:"identifier" validate:"required,slug,max=50"`
	Name          string           `json:"name" yaml:"name" validate:"required,max=100"`
	Description   string           `json:"description" yaml:"description"`
	Price         int64            `json:"price" yaml:"price" validate:"gte=0"`
	Currency      string           `json:"currency" yaml:"currency" validate:"omitempty,oneof=INR USD EUR"`
	BillingPeriod string           `json:"billing_period" yaml:"billing_period" validate:"required,oneof=monthly yearly lifetime"`
	Features      []string         `json:"features" yaml:"features"`
	Limits        map[string]int64 `json:"limits" yaml:"limits"`
	IsActive      *bool            `json:"is_active" yaml:"is_active"`
	IsPopular     bool             `json:"is_popular" yaml:"is_popular"`
	SortOrder     int              `json:"sort_order" yaml:"sort_order"`
}
