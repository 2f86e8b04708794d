package valueobjects

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Limit keys carried by every plan.
const (
	LimitProperties       = "properties"
	LimitFeaturedListings = "featuredListings"
	LimitPhotos           = "photos"
	LimitVideoTours       = "videoTours"
	LimitLeads            = "leads"
	LimitMessages         = "messages"
)

const unlimitedLiteral = "unlimited"

// Limit is a named plan cap. Storage and admin input encode "unlimited" as 0;
// that overload is resolved by LimitFromStored and never leaks further in.
type Limit struct {
	unlimited bool
	value     int64
}

func Unlimited() Limit {
	return Limit{unlimited: true}
}

// Capped returns a cap of n. n must be positive; use Unlimited otherwise.
func Capped(n int64) Limit {
	return Limit{value: n}
}

// LimitFromStored decodes the storage convention where 0 means unlimited.
func LimitFromStored(n int64) (Limit, error) {
	switch {
	case n < 0:
		return Limit{}, fmt.Errorf("limit cannot be negative: %d", n)
	case n == 0:
		return Unlimited(), nil
	default:
		return Capped(n), nil
	}
}

// Stored encodes the limit for the integer column.
func (l Limit) Stored() int64 {
	if l.unlimited {
		return 0
	}
	return l.value
}

func (l Limit) IsUnlimited() bool {
	return l.unlimited
}

// Value returns the cap and false when unlimited.
func (l Limit) Value() (int64, bool) {
	if l.unlimited {
		return 0, false
	}
	return l.value, true
}

func (l Limit) Equal(other Limit) bool {
	return l.unlimited == other.unlimited && l.value == other.value
}

func (l Limit) String() string {
	if l.unlimited {
		return unlimitedLiteral
	}
	return fmt.Sprintf("%d", l.value)
}

// MarshalJSON writes a number for caps and "unlimited" otherwise.
func (l Limit) MarshalJSON() ([]byte, error) {
	if l.unlimited {
		return json.Marshal(unlimitedLiteral)
	}
	return json.Marshal(l.value)
}

// UnmarshalJSON accepts a number (0 meaning unlimited), "unlimited" or null.
func (l *Limit) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = Unlimited()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != unlimitedLiteral {
			return fmt.Errorf("invalid limit %q", s)
		}
		*l = Unlimited()
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid limit: %w", err)
	}
	decoded, err := LimitFromStored(n)
	if err != nil {
		return err
	}
	*l = decoded
	return nil
}

// Limits maps limit keys to caps.
type Limits map[string]Limit

// DefaultLimits mirrors the column defaults used when a plan omits a key.
func DefaultLimits() Limits {
	return Limits{
		LimitProperties:       Unlimited(),
		LimitFeaturedListings: Unlimited(),
		LimitPhotos:           Capped(10),
		LimitVideoTours:       Unlimited(),
		LimitLeads:            Capped(100),
		LimitMessages:         Capped(1000),
	}
}

// LimitsFromStored decodes a stored integer map.
func LimitsFromStored(raw map[string]int64) (Limits, error) {
	out := make(Limits, len(raw))
	for key, n := range raw {
		l, err := LimitFromStored(n)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out[key] = l
	}
	return out, nil
}

func (ls Limits) Stored() map[string]int64 {
	out := make(map[string]int64, len(ls))
	for key, l := range ls {
		out[key] = l.Stored()
	}
	return out
}

// Keys returns the limit keys in a stable order.
func (ls Limits) Keys() []string {
	keys := make([]string, 0, len(ls))
	for key := range ls {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (ls Limits) Clone() Limits {
	out := make(Limits, len(ls))
	for k, v := range ls {
		out[k] = v
	}
	return out
}
