package planner

import (
	"fmt"
	"strings"
	"time"
)

// LocalDayPlan is the local time view on a Timeline: the classic calendar
// page for one day, in one zone, with a bounded planning window. Every
// planning call forwards to the timeline with the plan's day, so callers
// deal in wall clock times only.
type LocalDayPlan struct {
	day      LocalDay
	timeline *Timeline
}

// NewLocalDayPlan builds a plan for the day with the local window
// [startTime, endTime).
func NewLocalDayPlan(day LocalDay, startTime, endTime LocalTime) (*LocalDayPlan, error) {
	return NewLocalDayPlanBetween(day, day.OfLocalTime(startTime), day.OfLocalTime(endTime))
}

// NewLocalDayPlanBetween builds a plan for the day with the window given
// as instants.
func NewLocalDayPlanBetween(day LocalDay, start, end time.Time) (*LocalDayPlan, error) {
	tl, err := NewTimeline(start, end)
	if err != nil {
		return nil, err
	}
	return &LocalDayPlan{day: day, timeline: tl}, nil
}

// NewWholeDayPlan builds a plan spanning the day from midnight to the
// next midnight.
func NewWholeDayPlan(day LocalDay) (*LocalDayPlan, error) {
	return NewLocalDayPlanBetween(day, day.At(0, 0), day.PlusDays(1).At(0, 0))
}

// Day returns the date and zone of the plan.
func (p *LocalDayPlan) Day() LocalDay { return p.day }

// Timeline returns the timeline backing the plan.
func (p *LocalDayPlan) Timeline() *Timeline { return p.timeline }

// StartOfDay returns the inclusive start instant of the window.
func (p *LocalDayPlan) StartOfDay() time.Time { return p.timeline.Start() }

// EndOfDay returns the exclusive end instant of the window.
func (p *LocalDayPlan) EndOfDay() time.Time { return p.timeline.End() }

// StartTime returns the first allowed local time of the day.
func (p *LocalDayPlan) StartTime() LocalTime { return p.day.TimeOfInstant(p.timeline.Start()) }

// EndTime returns the exclusive local end time of the day.
func (p *LocalDayPlan) EndTime() LocalTime { return p.day.TimeOfInstant(p.timeline.End()) }

// At returns the instant at the given local hour and minute of this day.
func (p *LocalDayPlan) At(hour, minute int) time.Time { return p.day.At(hour, minute) }

// Date returns the civil date of the plan.
func (p *LocalDayPlan) Date() (year int, month time.Month, day int) { return p.day.Date() }

// NrOfAppointments returns the number of planned appointments.
func (p *LocalDayPlan) NrOfAppointments() int { return p.timeline.NrOfAppointments() }

// NrOfGaps returns the number of free slots on the day.
func (p *LocalDayPlan) NrOfGaps() int { return p.timeline.NrOfGaps() }

// AddAppointment places data on this day by time preference.
func (p *LocalDayPlan) AddAppointment(data AppointmentData, pref TimePreference) (*Appointment, error) {
	return p.timeline.AddAppointment(p.day, data, pref)
}

// AddAppointmentAt places data at the exact local start time or not at all.
func (p *LocalDayPlan) AddAppointmentAt(data AppointmentData, at LocalTime) (*Appointment, error) {
	return p.timeline.AddAppointmentAt(p.day, data, at)
}

// AddAppointmentAtWithFallback places data at the local start time,
// falling back to the preference when the slot is taken.
func (p *LocalDayPlan) AddAppointmentAtWithFallback(data AppointmentData, at LocalTime, fallback TimePreference) (*Appointment, error) {
	return p.timeline.AddAppointmentAtWithFallback(p.day, data, at, fallback)
}

// AddAppointmentRequest plans a previously captured request on this day.
func (p *LocalDayPlan) AddAppointmentRequest(req AppointmentRequest) (*Appointment, error) {
	return p.timeline.AddAppointmentRequest(p.day, req)
}

// RemoveAppointment removes the appointment and returns its request.
func (p *LocalDayPlan) RemoveAppointment(a *Appointment) (AppointmentRequest, error) {
	return p.timeline.RemoveAppointment(a)
}

// RemoveAppointments removes all appointments matching the filter and
// returns their requests in start order.
func (p *LocalDayPlan) RemoveAppointments(filter func(*Appointment) bool) []AppointmentRequest {
	return p.timeline.RemoveAppointments(filter)
}

// Appointments returns all appointments in natural order.
func (p *LocalDayPlan) Appointments() []*Appointment { return p.timeline.Appointments() }

// FindAppointments returns the appointments matching the filter.
func (p *LocalDayPlan) FindAppointments(filter func(*Appointment) bool) []*Appointment {
	return p.timeline.FindAppointments(filter)
}

// Contains reports whether the exact appointment is part of this plan.
func (p *LocalDayPlan) Contains(a *Appointment) bool { return p.timeline.Contains(a) }

// GapsFitting lists the gaps holding the given duration in natural order.
func (p *LocalDayPlan) GapsFitting(d time.Duration) []TimeSlot { return p.timeline.GapsFitting(d) }

// GapsFittingReversed lists the fitting gaps in reverse time order.
func (p *LocalDayPlan) GapsFittingReversed(d time.Duration) []TimeSlot {
	return p.timeline.GapsFittingReversed(d)
}

// GapsFittingSmallestFirst lists the fitting gaps, shortest first.
func (p *LocalDayPlan) GapsFittingSmallestFirst(d time.Duration) []TimeSlot {
	return p.timeline.GapsFittingSmallestFirst(d)
}

// GapsFittingLargestFirst lists the fitting gaps, longest first.
func (p *LocalDayPlan) GapsFittingLargestFirst(d time.Duration) []TimeSlot {
	return p.timeline.GapsFittingLargestFirst(d)
}

// CanAddAppointmentOfDuration reports whether the day still has room for
// the given duration.
func (p *LocalDayPlan) CanAddAppointmentOfDuration(d time.Duration) bool {
	return p.timeline.CanAddAppointmentOfDuration(d)
}

// MatchingFreeSlotsOfDuration finds the free slots this plan shares with
// all other plans.
func (p *LocalDayPlan) MatchingFreeSlotsOfDuration(d time.Duration, others []*LocalDayPlan) []TimeSlot {
	timelines := make([]*Timeline, 0, len(others))
	for _, o := range others {
		if o != nil {
			timelines = append(timelines, o.timeline)
		}
	}
	return p.timeline.MatchingFreeSlotsOfDuration(d, timelines)
}

// String renders the local date, the zone, the window and every
// appointment in natural order, one per line in local time.
func (p *LocalDayPlan) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) %s - %s", p.day, p.day.Zone(), p.StartTime(), p.EndTime())
	p.timeline.ForEach(func(a *Appointment) bool {
		b.WriteString("\n  ")
		b.WriteString(a.String())
		return true
	})
	return b.String()
}
