package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSameCalendarDate(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 5, 0, 0, time.Local)

	assert.True(t, SameCalendarDate(base, base))
	assert.True(t, SameCalendarDate(base, base.Add(23*time.Hour)))

	// Two minutes apart across midnight is a different date.
	assert.False(t, SameCalendarDate(
		time.Date(2025, 3, 1, 23, 59, 0, 0, time.Local),
		time.Date(2025, 3, 2, 0, 1, 0, 0, time.Local),
	))

	// Same day-of-month in a different month or year is not the same date.
	assert.False(t, SameCalendarDate(base, base.AddDate(0, 1, 0)))
	assert.False(t, SameCalendarDate(base, base.AddDate(1, 0, 0)))
}
