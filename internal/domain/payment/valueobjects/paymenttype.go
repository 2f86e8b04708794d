package valueobjects

import "fmt"

// PaymentType is what the checkout was for.
type PaymentType string

const (
	PaymentTypeSubscriptionPurchase PaymentType = "subscription_purchase"
	PaymentTypeAddonPurchase        PaymentType = "addon_purchase"
	PaymentTypeRenewal              PaymentType = "renewal"
	PaymentTypeUpgrade              PaymentType = "upgrade"
)

func NewPaymentType(s string) (PaymentType, error) {
	pt := PaymentType(s)
	if !pt.IsValid() {
		return "", fmt.Errorf("invalid payment type: %s", s)
	}
	return pt, nil
}

func (pt PaymentType) IsValid() bool {
	switch pt {
	case PaymentTypeSubscriptionPurchase, PaymentTypeAddonPurchase,
		PaymentTypeRenewal, PaymentTypeUpgrade:
		return true
	default:
		return false
	}
}

// GrantsListings reports whether a successful payment of this type should
// release the vendor's archived listings.
func (pt PaymentType) GrantsListings() bool {
	return pt != PaymentTypeAddonPurchase
}

func (pt PaymentType) String() string {
	return string(pt)
}
