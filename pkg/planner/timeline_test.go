package planner

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plannerDay() LocalDay {
	return NewLocalDay(time.UTC, 2020, time.September, 12)
}

func mustLocalTime(t *testing.T, s string) LocalTime {
	t.Helper()
	lt, err := ParseLocalTime(s)
	require.NoError(t, err)
	return lt
}

func mustLessonData(t *testing.T, description string, minutes int) AppointmentData {
	t.Helper()
	data, err := NewAppointmentData(description, time.Duration(minutes)*time.Minute, PriorityMedium)
	require.NoError(t, err)
	return data
}

func newDayTimeline(t *testing.T, from, to string) (*Timeline, LocalDay) {
	t.Helper()
	day := plannerDay()
	tl, err := NewTimeline(day.OfLocalTime(mustLocalTime(t, from)), day.OfLocalTime(mustLocalTime(t, to)))
	require.NoError(t, err)
	return tl, day
}

func slotAt(t *testing.T, day LocalDay, from string, minutes int) TimeSlot {
	t.Helper()
	slot, err := NewTimeSlot(day.OfLocalTime(mustLocalTime(t, from)), time.Duration(minutes)*time.Minute)
	require.NoError(t, err)
	return slot
}

func TestNewTimelineRejectsEmptyWindow(t *testing.T) {
	day := plannerDay()
	_, err := NewTimeline(day.At(9, 0), day.At(9, 0))
	require.ErrorIs(t, err, ErrInvalidSlot)

	_, err = NewTimeline(day.At(9, 0), day.At(8, 0))
	require.ErrorIs(t, err, ErrInvalidSlot)
}

func TestTimelineEarliestPlacement(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")

	appt, err := tl.AddAppointment(day, mustLessonData(t, "standup", 30), PreferenceEarliest)
	require.NoError(t, err)
	assert.Equal(t, slotAt(t, day, "08:00", 30), appt.Slot())
	assert.Equal(t, 1, tl.NrOfAppointments())
}

func TestTimelineLatestPlacement(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")

	appt, err := tl.AddAppointment(day, mustLessonData(t, "wrap-up", 30), PreferenceLatest)
	require.NoError(t, err)
	assert.Equal(t, slotAt(t, day, "17:30", 30), appt.Slot())
	assert.Equal(t, tl.End(), appt.End())
}

func TestTimelinePreferenceNormalization(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")

	// Relative preferences without a start time degrade to EARLIEST.
	appt, err := tl.AddAppointment(day, mustLessonData(t, "triage", 30), PreferenceEarliestAfter)
	require.NoError(t, err)
	assert.Equal(t, slotAt(t, day, "08:00", 30), appt.Slot())

	appt, err = tl.AddAppointment(day, mustLessonData(t, "review", 30), PreferenceUnspecified)
	require.NoError(t, err)
	assert.Equal(t, slotAt(t, day, "08:30", 30), appt.Slot())
}

func TestTimelineFixedTimeConflict(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")

	_, err := tl.AddAppointmentAt(day, mustLessonData(t, "lecture", 60), mustLocalTime(t, "09:00"))
	require.NoError(t, err)

	_, err = tl.AddAppointmentAt(day, mustLessonData(t, "clash", 20), mustLocalTime(t, "09:30"))
	require.ErrorIs(t, err, ErrUnplaceable)

	appt, err := tl.AddAppointmentAt(day, mustLessonData(t, "follow-up", 20), mustLocalTime(t, "10:00"))
	require.NoError(t, err)
	assert.Equal(t, slotAt(t, day, "10:00", 20), appt.Slot())
}

func TestTimelineFixedTimeRespectsWindow(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")
	data := mustLessonData(t, "early bird", 30)

	_, err := tl.AddAppointmentAt(day, data, mustLocalTime(t, "07:30"))
	require.ErrorIs(t, err, ErrUnplaceable)

	_, err = tl.AddAppointmentAt(day, data, mustLocalTime(t, "17:45"))
	require.ErrorIs(t, err, ErrUnplaceable)

	// Ending exactly on the day end is allowed, the end is exclusive.
	appt, err := tl.AddAppointmentAt(day, data, mustLocalTime(t, "17:30"))
	require.NoError(t, err)
	assert.Equal(t, tl.End(), appt.End())
}

func TestTimelineFallbackLatest(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")

	_, err := tl.AddAppointmentAt(day, mustLessonData(t, "lecture", 60), mustLocalTime(t, "09:00"))
	require.NoError(t, err)

	appt, err := tl.AddAppointmentAtWithFallback(day, mustLessonData(t, "exam", 45), mustLocalTime(t, "09:00"), PreferenceLatest)
	require.NoError(t, err)
	assert.Equal(t, slotAt(t, day, "17:15", 45), appt.Slot())
}

func TestTimelineFallbackNormalizesToEarliest(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")

	_, err := tl.AddAppointmentAt(day, mustLessonData(t, "lecture", 60), mustLocalTime(t, "08:00"))
	require.NoError(t, err)

	appt, err := tl.AddAppointmentAtWithFallback(day, mustLessonData(t, "lab", 30), mustLocalTime(t, "08:00"), PreferenceEarliestAfter)
	require.NoError(t, err)
	assert.Equal(t, slotAt(t, day, "09:00", 30), appt.Slot())
}

func TestTimelineFixedTimeTakenWithoutFallbackFails(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")

	_, err := tl.AddAppointmentAt(day, mustLessonData(t, "lecture", 60), mustLocalTime(t, "09:00"))
	require.NoError(t, err)

	_, err = tl.AddAppointmentAt(day, mustLessonData(t, "clash", 60), mustLocalTime(t, "09:00"))
	require.ErrorIs(t, err, ErrUnplaceable)
	assert.Equal(t, 1, tl.NrOfAppointments())
}

func TestTimelineDurationExceedingDayFails(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")
	data := mustLessonData(t, "marathon", 11*60)

	_, err := tl.AddAppointment(day, data, PreferenceEarliest)
	require.ErrorIs(t, err, ErrUnplaceable)

	_, err = tl.AddAppointmentAt(day, data, mustLocalTime(t, "08:00"))
	require.ErrorIs(t, err, ErrUnplaceable)

	_, err = tl.AddAppointmentAtWithFallback(day, data, mustLocalTime(t, "08:00"), PreferenceLatest)
	require.ErrorIs(t, err, ErrUnplaceable)

	req, err := NewAppointmentRequest(data, PreferenceLatest)
	require.NoError(t, err)
	_, err = tl.AddAppointmentRequest(day, req)
	require.ErrorIs(t, err, ErrUnplaceable)
	assert.Equal(t, 0, tl.NrOfAppointments())
}

func TestTimelineZeroDataRejected(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")

	_, err := tl.AddAppointment(day, AppointmentData{}, PreferenceEarliest)
	require.ErrorIs(t, err, ErrInvalidAppointment)
	assert.NotErrorIs(t, err, ErrUnplaceable)

	_, err = tl.AddAppointmentRequest(day, AppointmentRequest{})
	require.ErrorIs(t, err, ErrInvalidAppointment)
}

func TestTimelineNonOverlapInvariant(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")

	_, err := tl.AddAppointmentAt(day, mustLessonData(t, "a", 60), mustLocalTime(t, "12:00"))
	require.NoError(t, err)
	_, err = tl.AddAppointment(day, mustLessonData(t, "b", 90), PreferenceLatest)
	require.NoError(t, err)
	_, err = tl.AddAppointment(day, mustLessonData(t, "c", 45), PreferenceEarliest)
	require.NoError(t, err)
	_, err = tl.AddAppointmentAtWithFallback(day, mustLessonData(t, "d", 30), mustLocalTime(t, "12:30"), PreferenceLatest)
	require.NoError(t, err)

	appts := tl.Appointments()
	require.Len(t, appts, 4)
	for i, a := range appts {
		assert.False(t, a.Start().Before(tl.Start()), "appointment %d starts before the day", i)
		assert.False(t, a.End().After(tl.End()), "appointment %d ends after the day", i)
		if i == 0 {
			continue
		}
		prev := appts[i-1]
		assert.False(t, prev.Slot().OverlapsWith(a.Slot()), "appointments %d and %d overlap", i-1, i)
		assert.False(t, a.Start().Before(prev.End()), "appointments %d and %d out of order", i-1, i)
	}
}

func TestTimelineRemoveAppointmentRoundTrip(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")

	first, err := tl.AddAppointmentAt(day, mustLessonData(t, "keep", 60), mustLocalTime(t, "09:00"))
	require.NoError(t, err)
	second, err := tl.AddAppointmentAt(day, mustLessonData(t, "drop", 30), mustLocalTime(t, "11:00"))
	require.NoError(t, err)

	req, err := tl.RemoveAppointment(second)
	require.NoError(t, err)
	assert.Equal(t, second.Request(), req)
	assert.False(t, tl.Contains(second))
	assert.True(t, tl.Contains(first))
	assert.Equal(t, 1, tl.NrOfAppointments())

	// The slot is free again, so the request can be replanned as it was.
	replanned, err := tl.AddAppointmentRequest(day, req)
	require.NoError(t, err)
	assert.Equal(t, second.Slot(), replanned.Slot())
}

func TestTimelineRemoveAppointmentNotFound(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")
	other, otherDay := newDayTimeline(t, "08:00", "18:00")

	stranger, err := other.AddAppointmentAt(otherDay, mustLessonData(t, "elsewhere", 30), mustLocalTime(t, "09:00"))
	require.NoError(t, err)

	_, err = tl.RemoveAppointment(stranger)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = tl.RemoveAppointment(nil)
	require.ErrorIs(t, err, ErrNotFound)

	// Removing twice reports not found the second time.
	mine, err := tl.AddAppointmentAt(day, mustLessonData(t, "once", 30), mustLocalTime(t, "10:00"))
	require.NoError(t, err)
	_, err = tl.RemoveAppointment(mine)
	require.NoError(t, err)
	_, err = tl.RemoveAppointment(mine)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTimelineRemoveRestoresGaps(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")

	_, err := tl.AddAppointmentAt(day, mustLessonData(t, "morning", 60), mustLocalTime(t, "09:00"))
	require.NoError(t, err)
	_, err = tl.AddAppointmentAt(day, mustLessonData(t, "afternoon", 90), mustLocalTime(t, "14:00"))
	require.NoError(t, err)

	before := tl.GapsFitting(0)

	extra, err := tl.AddAppointment(day, mustLessonData(t, "extra", 45), PreferenceLatest)
	require.NoError(t, err)
	require.NotEqual(t, before, tl.GapsFitting(0))

	_, err = tl.RemoveAppointment(extra)
	require.NoError(t, err)
	assert.Equal(t, before, tl.GapsFitting(0))
}

func TestTimelineRemoveAppointmentsByFilter(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")

	_, err := tl.AddAppointmentAt(day, mustLessonData(t, "math", 60), mustLocalTime(t, "09:00"))
	require.NoError(t, err)
	_, err = tl.AddAppointmentAt(day, mustLessonData(t, "lab", 60), mustLocalTime(t, "11:00"))
	require.NoError(t, err)
	_, err = tl.AddAppointmentAt(day, mustLessonData(t, "lab", 30), mustLocalTime(t, "15:00"))
	require.NoError(t, err)

	removed := tl.RemoveAppointments(func(a *Appointment) bool {
		return a.Description() == "lab"
	})
	require.Len(t, removed, 2)
	// Ascending start order: 11:00 before 15:00.
	assert.Equal(t, 60*time.Minute, removed[0].Duration())
	assert.Equal(t, 30*time.Minute, removed[1].Duration())
	assert.Equal(t, 1, tl.NrOfAppointments())

	none := tl.RemoveAppointments(func(a *Appointment) bool { return false })
	assert.Empty(t, none)
	assert.Equal(t, 1, tl.NrOfAppointments())
}

func TestTimelineFindAppointments(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")

	data, err := NewAppointmentData("exam", 60*time.Minute, PriorityHigh)
	require.NoError(t, err)
	_, err = tl.AddAppointmentAt(day, data, mustLocalTime(t, "09:00"))
	require.NoError(t, err)
	_, err = tl.AddAppointmentAt(day, mustLessonData(t, "lunch", 30), mustLocalTime(t, "12:00"))
	require.NoError(t, err)

	urgent := tl.FindAppointments(func(a *Appointment) bool {
		return a.Priority() == PriorityHigh
	})
	require.Len(t, urgent, 1)
	assert.Equal(t, "exam", urgent[0].Description())

	all := tl.FindAppointments(func(a *Appointment) bool { return true })
	assert.Len(t, all, 2)
}

func TestTimelineForEachStopsEarly(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")

	for _, at := range []string{"09:00", "10:00", "11:00"} {
		_, err := tl.AddAppointmentAt(day, mustLessonData(t, "slot "+at, 30), mustLocalTime(t, at))
		require.NoError(t, err)
	}

	var seen []string
	tl.ForEach(func(a *Appointment) bool {
		seen = append(seen, a.Description())
		return len(seen) < 2
	})
	assert.Equal(t, []string{"slot 09:00", "slot 10:00"}, seen)
}

func TestTimelineRequestWithoutStart(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")

	req, err := NewAppointmentRequest(mustLessonData(t, "late", 30), PreferenceLatest)
	require.NoError(t, err)
	appt, err := tl.AddAppointmentRequest(day, req)
	require.NoError(t, err)
	assert.Equal(t, slotAt(t, day, "17:30", 30), appt.Slot())
	assert.Equal(t, req, appt.Request())
}

func TestTimelineRequestRelativeNeedsStart(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")

	for _, pref := range []TimePreference{PreferenceEarliestAfter, PreferenceLatestBefore} {
		req, err := NewAppointmentRequest(mustLessonData(t, "floating", 30), pref)
		require.NoError(t, err)
		_, err = tl.AddAppointmentRequest(day, req)
		require.ErrorIs(t, err, ErrInvalidRequest)
		assert.Contains(t, err.Error(), pref.String())
	}
	assert.Equal(t, 0, tl.NrOfAppointments())
}

func TestTimelineRequestEarliestAfter(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")

	_, err := tl.AddAppointmentAt(day, mustLessonData(t, "lecture", 60), mustLocalTime(t, "09:00"))
	require.NoError(t, err)

	req, err := NewAppointmentRequestAt(mustLessonData(t, "consult", 30), mustLocalTime(t, "09:30"), PreferenceEarliestAfter)
	require.NoError(t, err)
	appt, err := tl.AddAppointmentRequest(day, req)
	require.NoError(t, err)
	// 09:30 falls inside the lecture, the next room is at 10:00.
	assert.Equal(t, slotAt(t, day, "10:00", 30), appt.Slot())
}

func TestTimelineRequestEarliestAfterAtReference(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")

	req, err := NewAppointmentRequestAt(mustLessonData(t, "consult", 30), mustLocalTime(t, "09:00"), PreferenceEarliestAfter)
	require.NoError(t, err)
	appt, err := tl.AddAppointmentRequest(day, req)
	require.NoError(t, err)
	assert.Equal(t, slotAt(t, day, "09:00", 30), appt.Slot())
}

func TestTimelineRequestLatestBefore(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")

	_, err := tl.AddAppointmentAt(day, mustLessonData(t, "lecture", 60), mustLocalTime(t, "09:00"))
	require.NoError(t, err)

	req, err := NewAppointmentRequestAt(mustLessonData(t, "prep", 30), mustLocalTime(t, "12:00"), PreferenceLatestBefore)
	require.NoError(t, err)
	appt, err := tl.AddAppointmentRequest(day, req)
	require.NoError(t, err)
	assert.Equal(t, slotAt(t, day, "11:30", 30), appt.Slot())

	// A reference inside the lecture pushes the slot into the gap before it.
	req, err = NewAppointmentRequestAt(mustLessonData(t, "setup", 30), mustLocalTime(t, "09:00"), PreferenceLatestBefore)
	require.NoError(t, err)
	appt, err = tl.AddAppointmentRequest(day, req)
	require.NoError(t, err)
	assert.Equal(t, slotAt(t, day, "08:30", 30), appt.Slot())
}

func TestTimelineRequestFixedWithFallback(t *testing.T) {
	tl, day := newDayTimeline(t, "08:00", "18:00")

	_, err := tl.AddAppointmentAt(day, mustLessonData(t, "lecture", 60), mustLocalTime(t, "09:00"))
	require.NoError(t, err)

	// Free slot requested: the fixed time wins.
	req, err := NewAppointmentRequestAt(mustLessonData(t, "visit", 30), mustLocalTime(t, "10:00"), PreferenceUnspecified)
	require.NoError(t, err)
	appt, err := tl.AddAppointmentRequest(day, req)
	require.NoError(t, err)
	assert.Equal(t, slotAt(t, day, "10:00", 30), appt.Slot())

	// Taken slot: the preference decides where the appointment falls back to.
	req, err = NewAppointmentRequestAt(mustLessonData(t, "retry", 30), mustLocalTime(t, "09:00"), PreferenceLatest)
	require.NoError(t, err)
	appt, err = tl.AddAppointmentRequest(day, req)
	require.NoError(t, err)
	assert.Equal(t, slotAt(t, day, "17:30", 30), appt.Slot())

	req, err = NewAppointmentRequestAt(mustLessonData(t, "retry2", 30), mustLocalTime(t, "09:30"), PreferenceEarliest)
	require.NoError(t, err)
	appt, err = tl.AddAppointmentRequest(day, req)
	require.NoError(t, err)
	assert.Equal(t, slotAt(t, day, "08:00", 30), appt.Slot())
}

func TestAppointmentRendering(t *testing.T) {
	tl, day := newDayTimeline(t, "08:30", "17:30")

	appt, err := tl.AddAppointmentAt(day, mustLessonData(t, "ALDA Lesson", 115), mustLocalTime(t, "14:00"))
	require.NoError(t, err)
	assert.Equal(t, "2020-09-12 14:00 - 15:55 ALDA Lesson", appt.String())
	assert.True(t, strings.HasPrefix(appt.String(), day.String()))
}
