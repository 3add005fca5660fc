package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalTimeValidation(t *testing.T) {
	for _, bad := range [][2]int{{-1, 0}, {24, 0}, {0, -1}, {0, 60}} {
		_, err := NewLocalTime(bad[0], bad[1])
		assert.Error(t, err, "hour %d minute %d", bad[0], bad[1])
	}

	lt, err := NewLocalTime(8, 30)
	require.NoError(t, err)
	assert.Equal(t, 8, lt.Hour())
	assert.Equal(t, 30, lt.Minute())
	assert.Equal(t, "08:30", lt.String())
}

func TestParseLocalTime(t *testing.T) {
	for input, want := range map[string]string{
		"08:30": "08:30",
		"8:30":  "08:30",
		"00:00": "00:00",
		"23:59": "23:59",
	} {
		lt, err := ParseLocalTime(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, lt.String())
	}

	for _, bad := range []string{"", "0830", "25:00", "08:60", "08:30:00", "a:b"} {
		_, err := ParseLocalTime(bad)
		assert.Error(t, err, bad)
	}
}

func TestLocalTimeBefore(t *testing.T) {
	assert.True(t, mustLocalTime(t, "08:30").Before(mustLocalTime(t, "09:00")))
	assert.False(t, mustLocalTime(t, "09:00").Before(mustLocalTime(t, "08:30")))
	assert.False(t, mustLocalTime(t, "09:00").Before(mustLocalTime(t, "09:00")))
}

func TestLocalDayAt(t *testing.T) {
	day := NewLocalDay(time.UTC, 2020, time.September, 12)

	assert.Equal(t, time.Date(2020, time.September, 12, 8, 30, 0, 0, time.UTC), day.At(8, 30))
	assert.Equal(t, day.At(14, 0), day.OfLocalTime(mustLocalTime(t, "14:00")))
	assert.Equal(t, "2020-09-12", day.String())

	year, month, dom := day.Date()
	assert.Equal(t, 2020, year)
	assert.Equal(t, time.September, month)
	assert.Equal(t, 12, dom)
}

func TestLocalDayZoneConversions(t *testing.T) {
	amsterdam, err := time.LoadLocation("Europe/Amsterdam")
	require.NoError(t, err)
	day := NewLocalDay(amsterdam, 2020, time.September, 12)

	// Summer time: 14:00 local is 12:00 UTC.
	instant := day.At(14, 0)
	assert.Equal(t, time.Date(2020, time.September, 12, 12, 0, 0, 0, time.UTC), instant.UTC())
	assert.Equal(t, "14:00", day.TimeOfInstant(instant).String())
	assert.Equal(t, "14:00", day.TimeOfInstant(instant.UTC()).String())
}

func TestLocalDayDayOfInstant(t *testing.T) {
	amsterdam, err := time.LoadLocation("Europe/Amsterdam")
	require.NoError(t, err)
	day := NewLocalDay(amsterdam, 2020, time.September, 12)

	// 23:30 UTC is already the next local date in Amsterdam.
	lateUTC := time.Date(2020, time.September, 12, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2020-09-13", day.DayOfInstant(lateUTC).String())
	assert.Equal(t, "2020-09-12", day.DayOfInstant(day.At(14, 0)).String())
}

func TestLocalDayPlusDays(t *testing.T) {
	day := NewLocalDay(time.UTC, 2020, time.August, 31)

	assert.Equal(t, "2020-09-01", day.PlusDays(1).String())
	assert.Equal(t, "2020-08-30", day.PlusDays(-1).String())
	assert.Equal(t, "2020-08-31", day.PlusDays(0).String())

	newYear := NewLocalDay(time.UTC, 2021, time.January, 1)
	assert.Equal(t, "2020-12-31", newYear.PlusDays(-1).String())
}

func TestNewLocalDayNormalizesDate(t *testing.T) {
	// 2020 is a leap year: February rolls over on the 30th, not the 29th.
	day := NewLocalDay(time.UTC, 2020, time.February, 30)
	assert.Equal(t, "2020-03-01", day.String())
}

func TestLocalDayDefaultsToUTC(t *testing.T) {
	day := NewLocalDay(nil, 2020, time.September, 12)
	assert.Equal(t, time.UTC, day.Zone())
	assert.Equal(t, time.UTC, Today(nil).Zone())
	assert.Equal(t, time.UTC, LocalDay{}.Zone())
}
