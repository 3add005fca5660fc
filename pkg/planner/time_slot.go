package planner

import (
	"fmt"
	"time"
)

// TimeSlot is a half open interval [start, start+duration) on the instant
// timeline. Slots are immutable values; the start is stored in UTC so two
// slots covering the same interval compare equal with ==.
type TimeSlot struct {
	start    time.Time
	duration time.Duration
}

// NewTimeSlot builds a slot from a start instant and a strictly positive
// duration.
func NewTimeSlot(start time.Time, duration time.Duration) (TimeSlot, error) {
	if duration <= 0 {
		return TimeSlot{}, fmt.Errorf("%w: duration %s is not positive", ErrInvalidSlot, duration)
	}
	return TimeSlot{start: start.UTC(), duration: duration}, nil
}

// Start returns the inclusive start instant.
func (s TimeSlot) Start() time.Time { return s.start }

// End returns the exclusive end instant, start plus duration.
func (s TimeSlot) End() time.Time { return s.start.Add(s.duration) }

// Duration returns the length of the slot.
func (s TimeSlot) Duration() time.Duration { return s.duration }

// OverlapsWith reports whether the two half open intervals share any time.
// Touching end to start is not an overlap.
func (s TimeSlot) OverlapsWith(other TimeSlot) bool {
	return s.start.Before(other.End()) && other.start.Before(s.End())
}

// Fits reports whether an appointment of the given duration fits in this
// slot.
func (s TimeSlot) Fits(d time.Duration) bool {
	return d > 0 && d <= s.duration
}

// String renders the slot as "2006-01-02 15:04 - 15:04" in UTC.
func (s TimeSlot) String() string {
	return fmt.Sprintf("%s - %s", s.start.Format("2006-01-02 15:04"), s.End().Format("15:04"))
}
