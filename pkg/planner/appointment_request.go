package planner

import (
	"fmt"
	"time"
)

// AppointmentRequest expresses the intent to plan an appointment: the
// data, an optional preferred start time and a time preference. A request
// is not an appointment. Removing an appointment hands the original
// request back so the appointment can be replanned later. Values compare
// structurally with ==.
type AppointmentRequest struct {
	data     AppointmentData
	start    LocalTime
	hasStart bool
	pref     TimePreference
}

// NewAppointmentRequest builds a request without a preferred start time.
func NewAppointmentRequest(data AppointmentData, pref TimePreference) (AppointmentRequest, error) {
	if !data.valid() {
		return AppointmentRequest{}, fmt.Errorf("%w: zero appointment data", ErrInvalidAppointment)
	}
	if !pref.known() {
		return AppointmentRequest{}, fmt.Errorf("%w: unknown time preference %s", ErrInvalidRequest, pref)
	}
	return AppointmentRequest{data: data, pref: pref}, nil
}

// NewAppointmentRequestAt builds a request with a preferred start time and
// a preference that either refines the start (EARLIEST_AFTER,
// LATEST_BEFORE) or serves as fallback when the exact slot is taken.
func NewAppointmentRequestAt(data AppointmentData, start LocalTime, pref TimePreference) (AppointmentRequest, error) {
	req, err := NewAppointmentRequest(data, pref)
	if err != nil {
		return AppointmentRequest{}, err
	}
	req.start = start
	req.hasStart = true
	return req, nil
}

// Data returns the appointment data of the request.
func (r AppointmentRequest) Data() AppointmentData { return r.data }

// Duration returns the duration of the requested appointment.
func (r AppointmentRequest) Duration() time.Duration { return r.data.duration }

// Description returns the description of the requested appointment.
func (r AppointmentRequest) Description() string { return r.data.description }

// Start returns the preferred local start time and whether one was given.
func (r AppointmentRequest) Start() (LocalTime, bool) { return r.start, r.hasStart }

// TimePreference returns the preference as stored; normalization happens
// at placement time.
func (r AppointmentRequest) TimePreference() TimePreference { return r.pref }

// StartOn resolves the preferred start to an instant on the given day.
func (r AppointmentRequest) StartOn(day LocalDay) (time.Time, bool) {
	if !r.hasStart {
		return time.Time{}, false
	}
	return day.OfLocalTime(r.start), true
}

// String renders the request for logs and debugging.
func (r AppointmentRequest) String() string {
	if r.hasStart {
		return fmt.Sprintf("%s at %s (%s)", r.data, r.start, r.pref)
	}
	return fmt.Sprintf("%s (%s)", r.data, r.pref)
}
