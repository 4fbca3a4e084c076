package service

import "time"

// DateBucket returns the calendar-day key used to window usage counters:
// the given instant in UTC shifted back six hours, formatted YYYY-MM-DD.
// The fixed offset stands in for the product's home timezone and must be
// kept as-is for compatibility with existing counters.
func DateBucket(now time.Time) string {
	return now.UTC().Add(-6 * time.Hour).Format("2006-01-02")
}
