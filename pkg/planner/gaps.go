package planner

import (
	"sort"
	"time"
)

// gaps derives the free slots of the timeline with one cursor sweep from
// day start to day end. Appointments and gaps together partition the
// window exactly; zero length gaps are never emitted.
func (t *Timeline) gaps() []TimeSlot {
	out := []TimeSlot{}
	cursor := t.start
	t.appts.forEach(func(a *Appointment) bool {
		if cursor.Before(a.Start()) {
			out = append(out, TimeSlot{start: cursor, duration: a.Start().Sub(cursor)})
		}
		if a.End().After(cursor) {
			cursor = a.End()
		}
		return true
	})
	if cursor.Before(t.end) {
		out = append(out, TimeSlot{start: cursor, duration: t.end.Sub(cursor)})
	}
	return out
}

// GapsFitting lists the gaps that can hold an appointment of the given
// duration, in natural time order. A non positive duration lists every
// gap.
func (t *Timeline) GapsFitting(d time.Duration) []TimeSlot {
	all := t.gaps()
	out := make([]TimeSlot, 0, len(all))
	for _, g := range all {
		if g.duration >= d {
			out = append(out, g)
		}
	}
	return out
}

// GapsFittingReversed lists the fitting gaps from the end of the day to
// the start.
func (t *Timeline) GapsFittingReversed(d time.Duration) []TimeSlot {
	gaps := t.GapsFitting(d)
	for i, j := 0, len(gaps)-1; i < j; i, j = i+1, j-1 {
		gaps[i], gaps[j] = gaps[j], gaps[i]
	}
	return gaps
}

// GapsFittingSmallestFirst orders the fitting gaps by length, shortest
// first. Gaps of equal length keep their time order.
func (t *Timeline) GapsFittingSmallestFirst(d time.Duration) []TimeSlot {
	gaps := t.GapsFitting(d)
	sort.SliceStable(gaps, func(i, j int) bool { return gaps[i].duration < gaps[j].duration })
	return gaps
}

// GapsFittingLargestFirst orders the fitting gaps by length, longest
// first. Gaps of equal length keep their time order.
func (t *Timeline) GapsFittingLargestFirst(d time.Duration) []TimeSlot {
	gaps := t.GapsFitting(d)
	sort.SliceStable(gaps, func(i, j int) bool { return gaps[i].duration > gaps[j].duration })
	return gaps
}

// CanAddAppointmentOfDuration reports whether any gap can hold an
// appointment of the given duration.
func (t *Timeline) CanAddAppointmentOfDuration(d time.Duration) bool {
	if d <= 0 {
		return false
	}
	for _, g := range t.gaps() {
		if g.duration >= d {
			return true
		}
	}
	return false
}
