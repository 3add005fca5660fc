package planner

import (
	"fmt"
	"time"
)

// Appointment is a planned slot on a timeline. Appointments are created by
// Timeline placement only; holding one implies a successful allocation on
// a day at a time. The pointer identity of an Appointment is the handle
// for removal.
type Appointment struct {
	request AppointmentRequest
	slot    TimeSlot
	day     LocalDay
}

func newAppointment(request AppointmentRequest, slot TimeSlot, day LocalDay) *Appointment {
	return &Appointment{request: request, slot: slot, day: day}
}

// Request returns the request that led to this appointment.
func (a *Appointment) Request() AppointmentRequest { return a.request }

// Data returns the appointment data.
func (a *Appointment) Data() AppointmentData { return a.request.data }

// Slot returns the allocated time slot.
func (a *Appointment) Slot() TimeSlot { return a.slot }

// Start returns the inclusive start instant of the allocation.
func (a *Appointment) Start() time.Time { return a.slot.Start() }

// End returns the exclusive end instant of the allocation.
func (a *Appointment) End() time.Time { return a.slot.End() }

// Duration returns the length of the allocation.
func (a *Appointment) Duration() time.Duration { return a.slot.Duration() }

// Description returns the description of the appointment.
func (a *Appointment) Description() string { return a.request.data.description }

// Priority returns the display priority of the appointment.
func (a *Appointment) Priority() Priority { return a.request.data.priority }

// Day returns the local day the appointment was planned on.
func (a *Appointment) Day() LocalDay { return a.day }

// String renders the appointment in its day's zone, like
// "2020-09-12 14:00 - 15:55 ALDA Lesson".
func (a *Appointment) String() string {
	start := a.day.TimeOfInstant(a.slot.Start())
	end := a.day.TimeOfInstant(a.slot.End())
	return fmt.Sprintf("%s %s - %s %s", a.day, start, end, a.request.data.description)
}
