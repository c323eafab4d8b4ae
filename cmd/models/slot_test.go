package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotOf(t *testing.T) {
	// Tuesday 13:00 UTC is Tuesday 10:00 in UTC-3.
	weekday, hour := SlotOf(time.Date(2025, 9, 16, 13, 0, 0, 0, time.UTC))
	assert.Equal(t, "tuesday", weekday)
	assert.Equal(t, 10, hour)

	// Monday 01:00 UTC is still Sunday 22:00 in UTC-3.
	weekday, hour = SlotOf(time.Date(2025, 9, 15, 1, 0, 0, 0, time.UTC))
	assert.Equal(t, "sunday", weekday)
	assert.Equal(t, 22, hour)
}

func TestWeekHoursIncludes(t *testing.T) {
	wh := WeekHours{"monday": {9, 10}, "friday": {}}

	assert.True(t, wh.Includes("monday", 9))
	assert.False(t, wh.Includes("monday", 11))
	assert.False(t, wh.Includes("friday", 9))
	assert.False(t, wh.Includes("tuesday", 9))
}

func TestWeekHoursValidate(t *testing.T) {
	assert.NoError(t, WeekHours{"monday": {0, 23}}.Validate())
	assert.NoError(t, WeekHours{}.Validate())

	assert.ErrorIs(t, WeekHours{"monday": {24}}.Validate(), ErrInvalidHours)
	assert.ErrorIs(t, WeekHours{"monday": {-1}}.Validate(), ErrInvalidHours)
	assert.ErrorIs(t, WeekHours{"funday": {10}}.Validate(), ErrInvalidHours)
}

func TestWeekHoursScanRoundTrip(t *testing.T) {
	original := WeekHours{"tuesday": {10, 11}}

	value, err := original.Value()
	require.NoError(t, err)

	var scanned WeekHours
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, original, scanned)

	// nil column comes back as an empty map, not nil.
	require.NoError(t, scanned.Scan(nil))
	assert.NotNil(t, scanned)
	assert.Empty(t, scanned)
}
