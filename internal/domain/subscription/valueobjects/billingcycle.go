package valueobjects

import (
	"fmt"
	"strings"
	"time"
)

type BillingCycle string

const (
	BillingCycleMonthly  BillingCycle = "monthly"
	BillingCycleYearly   BillingCycle = "yearly"
	BillingCycleLifetime BillingCycle = "lifetime"
)

func ParseBillingCycle(value string) (BillingCycle, error) {
	cycle := BillingCycle(strings.ToLower(strings.TrimSpace(value)))
	if !cycle.IsValid() {
		return "", fmt.Errorf("invalid billing cycle: %s", value)
	}
	return cycle, nil
}

func (b BillingCycle) IsValid() bool {
	switch b {
	case BillingCycleMonthly, BillingCycleYearly, BillingCycleLifetime:
		return true
	default:
		return false
	}
}

// EndDate returns the end of a period starting at start. Lifetime plans get a
// far-future date so that end >= start always holds.
func (b BillingCycle) EndDate(start time.Time) time.Time {
	switch b {
	case BillingCycleMonthly:
		return start.AddDate(0, 1, 0)
	case BillingCycleYearly:
		return start.AddDate(1, 0, 0)
	default:
		return start.AddDate(100, 0, 0)
	}
}

func (b BillingCycle) String() string {
	return string(b)
}
