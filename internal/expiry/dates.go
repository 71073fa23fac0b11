// internal/expiry/dates.go

// Package expiry implements date-only expiration arithmetic for stock
// accounts. Source expiration dates come from scraped and user-entered data
// with unreliable time-of-day and timezone information, so every comparison
// here works on the Y-M-D components alone. Components are extracted
// lexically rather than through time.Parse with a location, which would
// shift dates across the UTC boundary.
package expiry

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// datePattern matches the first Y-M-D group anywhere in the input, so both
// bare dates and full timestamps ("2025-01-10T23:00:00-05:00") resolve to
// the same calendar day.
var datePattern = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)

// ParseDate lexically extracts the year, month and day from s and returns
// them anchored at midnight UTC. The time-of-day and offset in s, if any,
// are deliberately ignored.
func ParseDate(s string) (time.Time, error) {
	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("no date in %q", s)
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("invalid date in %q", s)
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// truncate drops the time-of-day from t, keeping only its calendar day.
func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysRemaining returns the whole days between now and the expiration date.
// The result is negative once the date has passed; <= 0 means due today or
// overdue, which is the trigger condition for expiring a purchase.
func DaysRemaining(expirationDate string, now time.Time) (int, error) {
	exp, err := ParseDate(expirationDate)
	if err != nil {
		return 0, err
	}

	return int(exp.Sub(truncate(now)).Hours() / 24), nil
}

// ExpirationDate adds durationDays to the start date and formats the result
// as a date-only string.
func ExpirationDate(startDate string, durationDays int) (string, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return "", err
	}

	return start.AddDate(0, 0, durationDays).Format(dateLayout), nil
}

// FormatDate renders t as a date-only string in the layout the rest of the
// system stores.
func FormatDate(t time.Time) string {
	return truncate(t).Format(dateLayout)
}
