package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// busyTimeline builds a timeline for the window and books the given
// fixed appointments, keyed by start time with minute durations.
func busyTimeline(t *testing.T, from, to string, busy map[string]int) (*Timeline, LocalDay) {
	t.Helper()
	tl, day := newDayTimeline(t, from, to)
	for at, minutes := range busy {
		_, err := tl.AddAppointmentAt(day, mustLessonData(t, "busy "+at, minutes), mustLocalTime(t, at))
		require.NoError(t, err)
	}
	return tl, day
}

func TestMatchingFreeSlotsTwoTimelines(t *testing.T) {
	mine, day := busyTimeline(t, "08:00", "18:00", map[string]int{"09:00": 180})
	other, _ := busyTimeline(t, "08:00", "18:00", map[string]int{"10:00": 60, "14:00": 180})

	slots := mine.MatchingFreeSlotsOfDuration(time.Hour, []*Timeline{other})
	assert.Equal(t, []TimeSlot{
		slotAt(t, day, "08:00", 60),
		slotAt(t, day, "12:00", 120),
		slotAt(t, day, "17:00", 60),
	}, slots)

	// A stricter minimum drops the one hour windows.
	slots = mine.MatchingFreeSlotsOfDuration(90*time.Minute, []*Timeline{other})
	assert.Equal(t, []TimeSlot{
		slotAt(t, day, "12:00", 120),
	}, slots)
}

func TestMatchingFreeSlotsThreeTimelines(t *testing.T) {
	mine, day := busyTimeline(t, "08:00", "18:00", map[string]int{"09:00": 180})
	second, _ := busyTimeline(t, "08:00", "18:00", map[string]int{"10:00": 60, "14:00": 180})
	third, _ := busyTimeline(t, "08:00", "18:00", map[string]int{"08:00": 30})

	slots := mine.MatchingFreeSlotsOfDuration(time.Hour, []*Timeline{second, third})
	assert.Equal(t, []TimeSlot{
		slotAt(t, day, "12:00", 120),
		slotAt(t, day, "17:00", 60),
	}, slots)
}

func TestMatchingFreeSlotsWithoutOthers(t *testing.T) {
	mine, day := busyTimeline(t, "08:00", "18:00", map[string]int{"09:00": 180})

	slots := mine.MatchingFreeSlotsOfDuration(time.Hour, nil)
	assert.Equal(t, mine.GapsFitting(time.Hour), slots)
	assert.Equal(t, []TimeSlot{
		slotAt(t, day, "08:00", 60),
		slotAt(t, day, "12:00", 6*60),
	}, slots)
}

func TestMatchingFreeSlotsFullyBookedParticipant(t *testing.T) {
	mine, _ := busyTimeline(t, "08:00", "18:00", nil)
	full, _ := busyTimeline(t, "09:00", "10:00", map[string]int{"09:00": 60})

	slots := mine.MatchingFreeSlotsOfDuration(30*time.Minute, []*Timeline{full})
	assert.Empty(t, slots)
	assert.NotNil(t, slots)
}

func TestMatchingFreeSlotsDisjointWindows(t *testing.T) {
	morning, _ := busyTimeline(t, "08:00", "12:00", nil)
	evening, _ := busyTimeline(t, "13:00", "18:00", nil)

	slots := morning.MatchingFreeSlotsOfDuration(time.Hour, []*Timeline{evening})
	assert.Empty(t, slots)
}

func TestMatchingFreeSlotsOffsetWindows(t *testing.T) {
	early, day := busyTimeline(t, "08:00", "14:00", nil)
	late, _ := busyTimeline(t, "11:00", "18:00", nil)

	slots := early.MatchingFreeSlotsOfDuration(time.Hour, []*Timeline{late})
	assert.Equal(t, []TimeSlot{
		slotAt(t, day, "11:00", 3*60),
	}, slots)
}

func TestIntersectSlotsSkipsShortOverlap(t *testing.T) {
	day := plannerDay()
	a := []TimeSlot{slotAt(t, day, "09:00", 60)}
	b := []TimeSlot{slotAt(t, day, "09:45", 120)}

	// The raw overlap is 15 minutes, shorter than the requested half hour.
	assert.Empty(t, intersectSlots(a, b, 30*time.Minute))
	assert.Equal(t, []TimeSlot{slotAt(t, day, "09:45", 15)}, intersectSlots(a, b, 15*time.Minute))
}
