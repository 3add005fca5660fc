package planner

import (
	"fmt"
	"strings"
	"time"
)

// AppointmentData carries the what of an appointment: how long it takes,
// what it is about and how important it is. It holds no date or time;
// think of a 45 minute lesson that still has to be planned. Values are
// immutable and compare structurally with ==, priority included.
type AppointmentData struct {
	duration    time.Duration
	description string
	priority    Priority
}

// NewAppointmentData validates and builds appointment data.
func NewAppointmentData(description string, duration time.Duration, priority Priority) (AppointmentData, error) {
	if strings.TrimSpace(description) == "" {
		return AppointmentData{}, fmt.Errorf("%w: description is empty", ErrInvalidAppointment)
	}
	if duration <= 0 {
		return AppointmentData{}, fmt.Errorf("%w: duration %s is not positive", ErrInvalidAppointment, duration)
	}
	if !priority.known() {
		return AppointmentData{}, fmt.Errorf("%w: unknown priority %s", ErrInvalidAppointment, priority)
	}
	return AppointmentData{duration: duration, description: description, priority: priority}, nil
}

// Duration returns how long the appointment takes.
func (a AppointmentData) Duration() time.Duration { return a.duration }

// Description returns the non empty description.
func (a AppointmentData) Description() string { return a.description }

// Priority returns the display priority.
func (a AppointmentData) Priority() Priority { return a.priority }

// String renders the description with duration and priority.
func (a AppointmentData) String() string {
	return fmt.Sprintf("%s (%s, %s)", a.description, a.duration, a.priority)
}

// valid reports whether the value was built by NewAppointmentData. The
// zero value is the only invalid value that can reach the timeline.
func (a AppointmentData) valid() bool {
	return a.duration > 0 && a.description != ""
}
