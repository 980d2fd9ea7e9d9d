// Package age derives a patient's age in whole years from an ISO birth date.
package age

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format used for every date field
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date in UTC
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats t as YYYY-MM-DD in t's own location
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ComputeAge returns the number of whole years between birthDate and today.
// One year is subtracted when today's month/day comes before the birthday.
// An empty or malformed birthDate yields 0; a future one yields a negative age.
func ComputeAge(birthDate string, today time.Time) int {
	if birthDate == "" {
		return 0
	}

	born, err := ParseDate(birthDate)
	if err != nil {
		return 0
	}

	years := today.Year() - born.Year()
	if today.Month() < born.Month() ||
		(today.Month() == born.Month() && today.Day() < born.Day()) {
		years--
	}

	return years
}
