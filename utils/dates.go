// utils/dates.go
package utils

import (
	"fmt"
	"time"
)

// SoQLTimestampLayout is the floating timestamp layout Socrata uses in SoQL
// predicates and response values. The bronze table stores these strings
// verbatim, so the same layout serves both query bounds and stored values.
const SoQLTimestampLayout = "2006-01-02T15:04:05.000"

// SoQLTimestamp formats an instant as SoQL timestamp text. The instant is
// normalized to UTC first: the API emits UTC watermark values, and a bound
// formatted from a local-offset clock would either match nothing or refetch
// everything.
func SoQLTimestamp(t time.Time) string {
	return t.UTC().Format(SoQLTimestampLayout)
}

// StartOfDayUTC builds the UTC-midnight instant for a calendar date given as
// three integers, rejecting values that time.Date would silently normalize
// (e.g. February 30 rolling into March).
func StartOfDayUTC(year, month, day int) (time.Time, error) {
	if year < 2000 || year > 9999 {
		return time.Time{}, fmt.Errorf("year %d out of range (expected 2000-9999)", year)
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month %d out of range (expected 1-12)", month)
	}
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("day %d out of range (expected 1-31)", day)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid calendar date %04d-%02d-%02d", year, month, day)
	}
	return t, nil
}

// DatePart extracts the calendar date from stored timestamp text
// ("2025-10-15T09:00:00.000" -> 2025-10-15 UTC midnight).
func DatePart(ts string) (time.Time, error) {
	if len(ts) < 10 {
		return time.Time{}, fmt.Errorf("timestamp text %q too short for a date", ts)
	}
	d, err := time.Parse("2006-01-02", ts[:10])
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date from %q: %w", ts, err)
	}
	return d, nil
}
