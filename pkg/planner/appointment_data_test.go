package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppointmentDataValidation(t *testing.T) {
	_, err := NewAppointmentData("", time.Hour, PriorityLow)
	require.ErrorIs(t, err, ErrInvalidAppointment)

	_, err = NewAppointmentData("   ", time.Hour, PriorityLow)
	require.ErrorIs(t, err, ErrInvalidAppointment)

	_, err = NewAppointmentData("dentist", 0, PriorityLow)
	require.ErrorIs(t, err, ErrInvalidAppointment)

	_, err = NewAppointmentData("dentist", -time.Minute, PriorityLow)
	require.ErrorIs(t, err, ErrInvalidAppointment)

	_, err = NewAppointmentData("dentist", time.Hour, Priority(9))
	require.ErrorIs(t, err, ErrInvalidAppointment)

	data, err := NewAppointmentData("dentist", 45*time.Minute, PriorityHigh)
	require.NoError(t, err)
	assert.Equal(t, "dentist", data.Description())
	assert.Equal(t, 45*time.Minute, data.Duration())
	assert.Equal(t, PriorityHigh, data.Priority())
}

func TestAppointmentDataEquality(t *testing.T) {
	a, err := NewAppointmentData("dentist", time.Hour, PriorityMedium)
	require.NoError(t, err)
	b, err := NewAppointmentData("dentist", time.Hour, PriorityMedium)
	require.NoError(t, err)
	assert.True(t, a == b)

	// Priority is part of the identity of the data.
	c, err := NewAppointmentData("dentist", time.Hour, PriorityHigh)
	require.NoError(t, err)
	assert.False(t, a == c)

	d, err := NewAppointmentData("dentist", 30*time.Minute, PriorityMedium)
	require.NoError(t, err)
	assert.False(t, a == d)
}

func TestAppointmentRequestValidation(t *testing.T) {
	_, err := NewAppointmentRequest(AppointmentData{}, PreferenceEarliest)
	require.ErrorIs(t, err, ErrInvalidAppointment)

	data, err := NewAppointmentData("dentist", time.Hour, PriorityLow)
	require.NoError(t, err)

	_, err = NewAppointmentRequest(data, TimePreference(42))
	require.ErrorIs(t, err, ErrInvalidRequest)

	req, err := NewAppointmentRequest(data, PreferenceLatest)
	require.NoError(t, err)
	assert.Equal(t, data, req.Data())
	assert.Equal(t, PreferenceLatest, req.TimePreference())
	_, hasStart := req.Start()
	assert.False(t, hasStart)
}

func TestAppointmentRequestStartOn(t *testing.T) {
	data, err := NewAppointmentData("dentist", time.Hour, PriorityLow)
	require.NoError(t, err)
	day := plannerDay()

	req, err := NewAppointmentRequest(data, PreferenceEarliest)
	require.NoError(t, err)
	_, ok := req.StartOn(day)
	assert.False(t, ok)

	at, err := NewAppointmentRequestAt(data, mustLocalTime(t, "09:30"), PreferenceUnspecified)
	require.NoError(t, err)
	start, ok := at.StartOn(day)
	require.True(t, ok)
	assert.Equal(t, day.At(9, 30), start)
}

func TestAppointmentRequestEquality(t *testing.T) {
	data, err := NewAppointmentData("dentist", time.Hour, PriorityLow)
	require.NoError(t, err)

	floating, err := NewAppointmentRequest(data, PreferenceEarliest)
	require.NoError(t, err)
	floatingAgain, err := NewAppointmentRequest(data, PreferenceEarliest)
	require.NoError(t, err)
	assert.True(t, floating == floatingAgain)

	fixed, err := NewAppointmentRequestAt(data, mustLocalTime(t, "09:00"), PreferenceEarliest)
	require.NoError(t, err)
	assert.False(t, floating == fixed)

	// Midnight as requested start differs from no start at all.
	midnight, err := NewAppointmentRequestAt(data, mustLocalTime(t, "00:00"), PreferenceEarliest)
	require.NoError(t, err)
	assert.False(t, floating == midnight)
}

func TestPriorityRoundTrip(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		parsed, err := ParsePriority(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
	_, err := ParsePriority("URGENT")
	assert.Error(t, err)
	assert.Equal(t, "Priority(9)", Priority(9).String())
}

func TestTimePreferenceRoundTrip(t *testing.T) {
	prefs := []TimePreference{
		PreferenceUnspecified,
		PreferenceEarliest,
		PreferenceLatest,
		PreferenceEarliestAfter,
		PreferenceLatestBefore,
	}
	for _, p := range prefs {
		parsed, err := ParseTimePreference(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}

	parsed, err := ParseTimePreference("")
	require.NoError(t, err)
	assert.Equal(t, PreferenceUnspecified, parsed)

	_, err = ParseTimePreference("SOONISH")
	assert.Error(t, err)
}

func TestTimePreferenceNormalized(t *testing.T) {
	assert.Equal(t, PreferenceLatest, PreferenceLatest.normalized())
	for _, p := range []TimePreference{PreferenceUnspecified, PreferenceEarliest, PreferenceEarliestAfter, PreferenceLatestBefore} {
		assert.Equal(t, PreferenceEarliest, p.normalized())
	}
}
