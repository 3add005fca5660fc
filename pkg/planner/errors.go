package planner

import "errors"

var (
	// ErrUnplaceable reports that no slot in the timeline can accommodate
	// the appointment. It is an expected outcome, not a failure.
	ErrUnplaceable = errors.New("no gap accommodates the appointment")
	// ErrInvalidAppointment reports appointment data that violates the
	// constructor contract, such as a zero value or an empty description.
	ErrInvalidAppointment = errors.New("invalid appointment data")
	// ErrInvalidRequest reports an appointment request that cannot be
	// planned as expressed, such as a relative preference without a
	// reference time.
	ErrInvalidRequest = errors.New("invalid appointment request")
	// ErrInvalidSlot reports an interval with a non positive length.
	ErrInvalidSlot = errors.New("invalid time slot")
	// ErrNotFound reports an appointment that is not held by the timeline
	// it was offered to.
	ErrNotFound = errors.New("appointment not in timeline")
)
