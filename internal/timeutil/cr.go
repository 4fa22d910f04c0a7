package timeutil

import (
	"time"
)

// Location is the operating timezone for all billing date arithmetic
// (UTC-6, no daylight saving). Dates are stored in UTC; every business
// computation happens in this zone to avoid off-by-one-day drift.
var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/Costa_Rica")
	if err != nil {
		// Fallback: fixed zone if the tzdata entry is not available
		Location = time.FixedZone("CST", -6*60*60) // UTC-6
	}
}

// Now returns the current time in the operating timezone.
func Now() time.Time {
	return time.Now().In(Location)
}

// ToLocal converts any time to the operating timezone.
func ToLocal(t time.Time) time.Time {
	return t.In(Location)
}

// ParseLocal parses a time string in the operating timezone.
func ParseLocal(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, Location)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// StartOfDay returns midnight of the given time's day in the operating timezone.
func StartOfDay(t time.Time) time.Time {
	l := t.In(Location)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, Location)
}

// EndOfMonth returns the last day of the given time's month, at midnight,
// in the operating timezone.
func EndOfMonth(t time.Time) time.Time {
	l := t.In(Location)
	return time.Date(l.Year(), l.Month()+1, 0, 0, 0, 0, 0, Location)
}

// DaysInMonth returns the number of days in the given year/month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, Location).Day()
}

// Common layouts for formatting.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)
