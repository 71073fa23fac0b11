// internal/expiry/dates_test.go
package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestParseDate(t *testing.T) {
	d := mustDate(t, "2025-01-10")
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.January, d.Month())
	assert.Equal(t, 10, d.Day())
	assert.Equal(t, time.UTC, d.Location())
}

func TestParseDateIgnoresTimeAndOffset(t *testing.T) {
	// A timestamp late in the day with a negative offset must not shift the
	// calendar day the way timezone-aware parsing would.
	d := mustDate(t, "2025-01-10T23:30:00-05:00")
	assert.Equal(t, 10, d.Day())

	d = mustDate(t, "2025-01-10 00:15:00+14:00")
	assert.Equal(t, 10, d.Day())
}

func TestParseDateSingleDigitComponents(t *testing.T) {
	d := mustDate(t, "2025-3-7")
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 7, d.Day())
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("sin fecha")
	assert.Error(t, err)

	_, err = ParseDate("2025-13-40")
	assert.Error(t, err)
}

func TestDaysRemaining(t *testing.T) {
	now := mustDate(t, "2025-01-05")

	days, err := DaysRemaining("2025-01-10", now)
	require.NoError(t, err)
	assert.Equal(t, 5, days)

	days, err = DaysRemaining("2025-01-01", now)
	require.NoError(t, err)
	assert.Equal(t, -4, days)

	days, err = DaysRemaining("2025-01-05", now)
	require.NoError(t, err)
	assert.Equal(t, 0, days)
}

func TestDaysRemainingIgnoresTimeOfDayInNow(t *testing.T) {
	now := time.Date(2025, 1, 5, 23, 59, 59, 0, time.FixedZone("local", -5*3600))

	days, err := DaysRemaining("2025-01-10", now)
	require.NoError(t, err)
	assert.Equal(t, 5, days)
}

func TestExpirationDate(t *testing.T) {
	got, err := ExpirationDate("2025-01-01", 30)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-31", got)

	// Crosses a month boundary.
	got, err = ExpirationDate("2025-01-15", 30)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-14", got)
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2025, 6, 3, 18, 45, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-03", FormatDate(ts))
}
