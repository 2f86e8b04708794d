// Package biztime provides business timezone helpers. Storage and transport use
// UTC; the business timezone is only used for presentation.
package biztime

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// DefaultTimezone is the marketplace's home timezone.
const DefaultTimezone = "Asia/Kolkata"

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Init initializes the business timezone. Should be called once at startup.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// Location returns the business timezone, initializing the default on first use.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return bizLocation
}

func NowUTC() time.Time {
	return time.Now().UTC()
}

// WholeMinutes returns the number of complete minutes in d, floored toward
// negative infinity so that a deadline 30s in the past counts as -1.
func WholeMinutes(d time.Duration) int {
	return int(math.Floor(d.Minutes()))
}
