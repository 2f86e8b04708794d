package subscription

import (
	"fmt"
	"slices"
	"strings"
	"time"

	payvo "github.com/buildhomemart/homemart/internal/domain/payment/valueobjects"
	vo "github.com/buildhomemart/homemart/internal/domain/subscription/valueobjects"
)

// PriceChange is one entry of a plan's price log.
type PriceChange struct {
	OldPrice  int64     `json:"oldPrice"`
	NewPrice  int64     `json:"newPrice"`
	ChangedAt time.Time `json:"changedAt"`
	ChangedBy uint      `json:"changedBy,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// FeatureChange is one entry of a plan's feature log.
type FeatureChange struct {
	OldFeatures []string  `json:"oldFeatures"`
	NewFeatures []string  `json:"newFeatures"`
	ChangedAt   time.Time `json:"changedAt"`
	ChangedBy   uint      `json:"changedBy,omitempty"`
}

// Plan is a live, editable product definition. Prices are in minor units.
type Plan struct {
	id             uint
	identifier     string
	name           string
	description    string
	price          int64
	currency       payvo.Currency
	billingPeriod  vo.BillingCycle
	features       []string
	limits         vo.Limits
	isActive       bool
	isPopular      bool
	sortOrder      int
	priceHistory   []PriceChange
	featureHistory []FeatureChange
	createdAt      time.Time
	updatedAt      time.Time
}

func NewPlan(identifier, name, description string, price int64, currency payvo.Currency,
	billingPeriod vo.BillingCycle) (*Plan, error) {

	identifier = strings.ToLower(strings.TrimSpace(identifier))
	name = strings.TrimSpace(name)
	if identifier == "" {
		return nil, fmt.Errorf("plan identifier is required")
	}
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrInvalidPrice)
	}
	if currency == "" {
		currency = payvo.CurrencyINR
	}
	if !currency.IsValid() {
		return nil, fmt.Errorf("invalid currency code: %s", currency)
	}
	if !billingPeriod.IsValid() {
		return nil, fmt.Errorf("invalid billing period: %s", billingPeriod)
	}

	now := time.Now().UTC()
	return &Plan{
		identifier:    identifier,
		name:          name,
		description:   description,
		price:         price,
		currency:      currency,
		billingPeriod: billingPeriod,
		limits:        vo.DefaultLimits(),
		isActive:      true,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// PlanReconstructParams carries persisted plan state.
type PlanReconstructParams struct {
	ID             uint
	Identifier     string
	Name           string
	Description    string
	Price          int64
	Currency       payvo.Currency
	BillingPeriod  vo.BillingCycle
	Features       []string
	Limits         vo.Limits
	IsActive       bool
	IsPopular      bool
	SortOrder      int
	PriceHistory   []PriceChange
	FeatureHistory []FeatureChange
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func ReconstructPlan(p PlanReconstructParams) *Plan {
	limits := p.Limits
	if limits == nil {
		limits = vo.Limits{}
	}
	return &Plan{
		id:             p.ID,
		identifier:     p.Identifier,
		name:           p.Name,
		description:    p.Description,
		price:          p.Price,
		currency:       p.Currency,
		billingPeriod:  p.BillingPeriod,
		features:       p.Features,
		limits:         limits,
		isActive:       p.IsActive,
		isPopular:      p.IsPopular,
		sortOrder:      p.SortOrder,
		priceHistory:   p.PriceHistory,
		featureHistory: p.FeatureHistory,
		createdAt:      p.CreatedAt,
		updatedAt:      p.UpdatedAt,
	}
}

func (p *Plan) ID() uint {
	return p.id
}

func (p *Plan) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("plan ID is already set")
	}
	p.id = id
	return nil
}

func (p *Plan) Identifier() string              { return p.identifier }
func (p *Plan) Name() string                    { return p.name }
func (p *Plan) Description() string             { return p.description }
func (p *Plan) Price() int64                    { return p.price }
func (p *Plan) Currency() payvo.Currency        { return p.currency }
func (p *Plan) BillingPeriod() vo.BillingCycle  { return p.billingPeriod }
func (p *Plan) Features() []string              { return p.features }
func (p *Plan) Limits() vo.Limits               { return p.limits }
func (p *Plan) IsActive() bool                  { return p.isActive }
func (p *Plan) IsPopular() bool                 { return p.isPopular }
func (p *Plan) SortOrder() int                  { return p.sortOrder }
func (p *Plan) PriceHistory() []PriceChange     { return p.priceHistory }
func (p *Plan) FeatureHistory() []FeatureChange { return p.featureHistory }
func (p *Plan) CreatedAt() time.Time            { return p.createdAt }
func (p *Plan) UpdatedAt() time.Time            { return p.updatedAt }

// Limit returns the cap for key; ok is false when the plan does not define it.
func (p *Plan) Limit(key string) (vo.Limit, bool) {
	l, ok := p.limits[key]
	return l, ok
}

// ChangePrice updates the price and appends a history entry. A no-op change is ignored.
func (p *Plan) ChangePrice(newPrice int64, changedBy uint, reason string, now time.Time) error {
	if newPrice < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidPrice)
	}
	if newPrice == p.price {
		return nil
	}
	p.priceHistory = append(p.priceHistory, PriceChange{
		OldPrice:  p.price,
		NewPrice:  newPrice,
		ChangedAt: now,
		ChangedBy: changedBy,
		Reason:    reason,
	})
	p.price = newPrice
	p.updatedAt = now
	return nil
}

// ReplaceFeatures swaps the feature list and logs the previous one.
func (p *Plan) ReplaceFeatures(features []string, changedBy uint, now time.Time) {
	if slices.Equal(p.features, features) {
		return
	}
	p.featureHistory = append(p.featureHistory, FeatureChange{
		OldFeatures: slices.Clone(p.features),
		NewFeatures: slices.Clone(features),
		ChangedAt:   now,
		ChangedBy:   changedBy,
	})
	p.features = slices.Clone(features)
	p.updatedAt = now
}

// SetInitialFeatures sets the feature list of a plan that has not been saved
// yet, without writing history.
func (p *Plan) SetInitialFeatures(features []string) error {
	if p.id != 0 {
		return fmt.Errorf("plan %d already persisted; use ReplaceFeatures", p.id)
	}
	p.features = slices.Clone(features)
	return nil
}

func (p *Plan) SetLimit(key string, limit vo.Limit, now time.Time) {
	if p.limits == nil {
		p.limits = vo.Limits{}
	}
	p.limits[key] = limit
	p.updatedAt = now
}

// UpdateDetails overwrites catalogue fields used by plan seeding.
func (p *Plan) UpdateDetails(name, description string, billingPeriod vo.BillingCycle, isActive, isPopular bool, sortOrder int) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("plan name is required")
	}
	if !billingPeriod.IsValid() {
		return fmt.Errorf("invalid billing period: %s", billingPeriod)
	}
	p.name = strings.TrimSpace(name)
	p.description = description
	p.billingPeriod = billingPeriod
	p.isActive = isActive
	p.isPopular = isPopular
	p.sortOrder = sortOrder
	p.updatedAt = time.Now().UTC()
	return nil
}

// Snapshot freezes the plan terms for a new subscription.
func (p *Plan) Snapshot() PlanSnapshot {
	return PlanSnapshot{
		Name:          p.name,
		Price:         p.price,
		Currency:      p.currency,
		BillingPeriod: p.billingPeriod,
		Limits:        p.limits.Clone(),
		Features:      slices.Clone(p.features),
	}
}

// PlanSnapshot is the copy of plan terms a subscription was sold with.
// Later plan edits never reach it.
type PlanSnapshot struct {
	Name          string          `json:"name"`
	Price         int64           `json:"price"`
	Currency      payvo.Currency  `json:"currency"`
	BillingPeriod vo.BillingCycle `json:"billingPeriod"`
	Limits        vo.Limits       `json:"limits"`
	Features      []string        `json:"features"`
}
