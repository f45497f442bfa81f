// Package timeutil provides date-key utilities for the practice log.
// Every log bucket is keyed by a calendar date in a fixed reference
// timezone (UTC), formatted as YYYY-MM-DD. Keeping the timezone fixed
// means a "day" is the same day for every user and every process.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// ReferenceTZ is the fixed reference timezone for all date bucketing.
// Historical records were written with UTC day boundaries, so this is
// constant and must not follow the host timezone.
var ReferenceTZ = time.UTC

// FormatDate is the canonical date-key layout (YYYY-MM-DD).
// Date keys are fixed-width, so lexicographic order equals calendar order.
const FormatDate = "2006-01-02"

// Now returns the current time in the reference timezone.
func Now() time.Time {
	return time.Now().In(ReferenceTZ)
}

// DayKey returns the date key for the given time in the reference timezone.
func DayKey(t time.Time) string {
	return t.In(ReferenceTZ).Format(FormatDate)
}

// TodayKey returns the date key for the current day.
func TodayKey() string {
	return DayKey(Now())
}

// ParseDayKey parses a date key into a time at midnight in the reference timezone.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(FormatDate, key, ReferenceTZ)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: invalid date key %q: %w", key, err)
	}
	return t, nil
}

// IsValidDayKey reports whether the string is a well-formed date key.
func IsValidDayKey(key string) bool {
	_, err := ParseDayKey(key)
	return err == nil
}

// AddDays returns the date key n calendar days after key (n may be negative).
func AddDays(key string, n int) (string, error) {
	t, err := ParseDayKey(key)
	if err != nil {
		return "", err
	}
	return DayKey(t.AddDate(0, 0, n)), nil
}

// WindowKeys returns the date keys of the inclusive window of `days`
// consecutive calendar days ending at ref, in chronological
// (oldest-first) order.
func WindowKeys(ref string, days int) ([]string, error) {
	if days < 1 {
		return nil, fmt.Errorf("timeutil: window must span at least one day, got %d", days)
	}
	end, err := ParseDayKey(ref)
	if err != nil {
		return nil, err
	}
	keys := make([]string, days)
	for i := 0; i < days; i++ {
		keys[i] = DayKey(end.AddDate(0, 0, i-days+1))
	}
	return keys, nil
}

