package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDateOnly(t *testing.T) {
	ts := time.Date(2025, time.March, 9, 23, 30, 0, 0, time.FixedZone("UTC+5", 5*3600))
	assert.Equal(t, "2025-03-09", FormatDateOnly(ts))
}

func TestTodayUTCIsMidnight(t *testing.T) {
	today := TodayUTC()
	assert.Equal(t, 0, today.Hour())
	assert.Equal(t, 0, today.Minute())
	assert.Equal(t, time.UTC, today.Location())
}

func TestCurrentWeekBounds(t *testing.T) {
	start, end := CurrentWeekBounds()

	assert.Equal(t, time.Sunday, start.Weekday())
	assert.Equal(t, time.Saturday, end.Weekday())
	assert.Equal(t, 7*24*time.Hour-time.Millisecond, end.Sub(start))

	now := time.Now().UTC()
	assert.False(t, now.Before(start))
	assert.False(t, now.After(end))
}

func TestNewReferralCode(t *testing.T) {
	a := NewReferralCode()
	b := NewReferralCode()
	assert.Len(t, a, 8)
	assert.Len(t, b, 8)
	assert.NotEqual(t, a, b)
}
