package payment

import (
	"fmt"
	"strconv"
	"strings"
)

type LookupKind int

const (
	LookupByID LookupKind = iota + 1
	LookupByOrderID
	LookupByGatewayPaymentID
)

func (k LookupKind) String() string {
	switch k {
	case LookupByID:
		return "id"
	case LookupByOrderID:
		return "order_id"
	case LookupByGatewayPaymentID:
		return "gateway_payment_id"
	default:
		return "unknown"
	}
}

// Lookup selects a payment by exactly one of its identifiers.
type Lookup struct {
	Kind  LookupKind
	ID    uint
	Value string
}

func ByID(id uint) Lookup {
	return Lookup{Kind: LookupByID, ID: id}
}

func ByOrderID(orderID string) Lookup {
	return Lookup{Kind: LookupByOrderID, Value: orderID}
}

func ByGatewayPaymentID(paymentID string) Lookup {
	return Lookup{Kind: LookupByGatewayPaymentID, Value: paymentID}
}

func (l Lookup) IsZero() bool {
	switch l.Kind {
	case LookupByID:
		return l.ID == 0
	case LookupByOrderID, LookupByGatewayPaymentID:
		return strings.TrimSpace(l.Value) == ""
	default:
		return true
	}
}

func (l Lookup) String() string {
	if l.Kind == LookupByID {
		return fmt.Sprintf("%s=%d", l.Kind, l.ID)
	}
	return fmt.Sprintf("%s=%s", l.Kind, l.Value)
}

// Lookups builds an ordered lookup list from loosely supplied identifiers,
// dropping blanks. Order: order id, gateway payment id, system id.
func Lookups(orderID, gatewayPaymentID string, id uint) []Lookup {
	var out []Lookup
	for _, l := range []Lookup{ByOrderID(orderID), ByGatewayPaymentID(gatewayPaymentID), ByID(id)} {
		if !l.IsZero() {
			out = append(out, l)
		}
	}
	return out
}

// ParseIdentifier guesses which identifier a caller supplied. Razorpay ids
// carry an "order_" or "pay_" prefix, bare numbers are system ids.
func ParseIdentifier(identifier string) []Lookup {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil
	}
	switch {
	case strings.HasPrefix(identifier, "order_"):
		return []Lookup{ByOrderID(identifier)}
	case strings.HasPrefix(identifier, "pay_"):
		return []Lookup{ByGatewayPaymentID(identifier)}
	}
	if id, err := strconv.ParseUint(identifier, 10, 64); err == nil && id > 0 {
		return []Lookup{ByID(uint(id)), ByOrderID(identifier)}
	}
	return []Lookup{ByOrderID(identifier), ByGatewayPaymentID(identifier)}
}
