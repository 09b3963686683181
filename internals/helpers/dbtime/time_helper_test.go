package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayRangeUsesOwnLocation(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	day, err := ParseDate("2025-03-10", loc)
	require.NoError(t, err)

	start, end := DayRange(day)
	assert.Equal(t, time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 11, 3, 0, 0, 0, time.UTC), end)
}

func TestMonthRange(t *testing.T) {
	m, err := ParseMonth("2024-12", time.UTC)
	require.NoError(t, err)

	start, end := MonthRange(m)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("10/03/2025", time.UTC)
	assert.Error(t, err)

	_, err = ParseMonth("2025-13", time.UTC)
	assert.Error(t, err)
}

func TestCenterLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, CenterLocation())
}
