package planner

import (
	"errors"
	"fmt"
	"time"
)

// Timeline holds the appointments of one bounded day window and enforces
// the planning rules: appointments never overlap, always lie inside
// [start, end) and stay sorted by start time. The end of the window is
// exclusive, so an appointment may end exactly on it but never cross it.
//
// A Timeline is not safe for concurrent use; callers serialize access.
type Timeline struct {
	start time.Time
	end   time.Time
	appts *chain
}

// NewTimeline builds an empty timeline for the window [start, end).
func NewTimeline(start, end time.Time) (*Timeline, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end %s not after start %s", ErrInvalidSlot, end, start)
	}
	return &Timeline{start: start.UTC(), end: end.UTC(), appts: newChain()}, nil
}

// Start returns the inclusive start instant of the window.
func (t *Timeline) Start() time.Time { return t.start }

// End returns the exclusive end instant of the window.
func (t *Timeline) End() time.Time { return t.end }

// NrOfAppointments returns the number of planned appointments.
func (t *Timeline) NrOfAppointments() int { return t.appts.len() }

// NrOfGaps returns the number of free slots between day start, the
// appointments and day end. An empty timeline has exactly one gap.
func (t *Timeline) NrOfGaps() int { return len(t.gaps()) }

// AddAppointment places data on the day purely by time preference.
// EARLIEST and LATEST are honoured; every other preference is treated as
// EARLIEST.
func (t *Timeline) AddAppointment(day LocalDay, data AppointmentData, pref TimePreference) (*Appointment, error) {
	req, err := NewAppointmentRequest(data, pref)
	if err != nil {
		return nil, err
	}
	if data.duration > t.span() {
		return nil, ErrUnplaceable
	}
	if pref.normalized() == PreferenceLatest {
		return t.placeLatest(day, req)
	}
	return t.placeEarliest(day, req)
}

// AddAppointmentAt places data at the exact start time or not at all.
func (t *Timeline) AddAppointmentAt(day LocalDay, data AppointmentData, at LocalTime) (*Appointment, error) {
	req, err := NewAppointmentRequestAt(data, at, PreferenceUnspecified)
	if err != nil {
		return nil, err
	}
	if data.duration > t.span() {
		return nil, ErrUnplaceable
	}
	return t.placeAt(day, req, day.OfLocalTime(at))
}

// AddAppointmentAtWithFallback places data at the start time and falls
// back to the preference when the exact slot cannot be had. A fallback
// other than LATEST means EARLIEST.
func (t *Timeline) AddAppointmentAtWithFallback(day LocalDay, data AppointmentData, at LocalTime, fallback TimePreference) (*Appointment, error) {
	req, err := NewAppointmentRequestAt(data, at, fallback)
	if err != nil {
		return nil, err
	}
	if data.duration > t.span() {
		return nil, ErrUnplaceable
	}
	a, err := t.placeAt(day, req, day.OfLocalTime(at))
	if err == nil || !errors.Is(err, ErrUnplaceable) {
		return a, err
	}
	if fallback.normalized() == PreferenceLatest {
		return t.placeLatest(day, req)
	}
	return t.placeEarliest(day, req)
}

// AddAppointmentRequest plans a previously captured request. A request
// without start time places by preference; EARLIEST_AFTER and
// LATEST_BEFORE use the start time as reference; any other preference
// combined with a start time means the exact slot first, the normalized
// preference as fallback.
func (t *Timeline) AddAppointmentRequest(day LocalDay, req AppointmentRequest) (*Appointment, error) {
	if !req.data.valid() {
		return nil, fmt.Errorf("%w: zero appointment data", ErrInvalidAppointment)
	}
	if req.data.duration > t.span() {
		return nil, ErrUnplaceable
	}
	start, ok := req.StartOn(day)
	if !ok {
		if req.pref.needsReference() {
			return nil, fmt.Errorf("%w: %s needs a start time", ErrInvalidRequest, req.pref)
		}
		if req.pref.normalized() == PreferenceLatest {
			return t.placeLatest(day, req)
		}
		return t.placeEarliest(day, req)
	}
	switch req.pref {
	case PreferenceEarliestAfter:
		return t.placeEarliestAfter(day, req, start)
	case PreferenceLatestBefore:
		return t.placeLatestBefore(day, req, start)
	}
	a, err := t.placeAt(day, req, start)
	if err == nil || !errors.Is(err, ErrUnplaceable) {
		return a, err
	}
	if req.pref.normalized() == PreferenceLatest {
		return t.placeLatest(day, req)
	}
	return t.placeEarliest(day, req)
}

// RemoveAppointment takes the appointment off the timeline and hands back
// the request it was created from, so it can be replanned. ErrNotFound
// reports an appointment this timeline does not hold.
func (t *Timeline) RemoveAppointment(a *Appointment) (AppointmentRequest, error) {
	if a == nil || !t.appts.remove(a) {
		return AppointmentRequest{}, ErrNotFound
	}
	return a.request, nil
}

// RemoveAppointments removes every appointment matching the filter and
// returns their requests in start order.
func (t *Timeline) RemoveAppointments(filter func(*Appointment) bool) []AppointmentRequest {
	removed := t.appts.removeAll(filter)
	reqs := make([]AppointmentRequest, 0, len(removed))
	for _, a := range removed {
		reqs = append(reqs, a.request)
	}
	return reqs
}

// FindAppointments returns the appointments matching the filter in start
// order.
func (t *Timeline) FindAppointments(filter func(*Appointment) bool) []*Appointment {
	return t.appts.findAll(filter)
}

// Appointments returns all appointments in start order.
func (t *Timeline) Appointments() []*Appointment { return t.appts.all() }

// ForEach walks the appointments in start order until fn returns false.
func (t *Timeline) ForEach(fn func(*Appointment) bool) { t.appts.forEach(fn) }

// Contains reports whether the exact appointment is on this timeline.
func (t *Timeline) Contains(a *Appointment) bool { return a != nil && t.appts.contains(a) }

func (t *Timeline) span() time.Duration { return t.end.Sub(t.start) }

// placeAt attempts the exact slot [start, start+duration). The slot must
// lie inside the window and overlap nothing.
func (t *Timeline) placeAt(day LocalDay, req AppointmentRequest, start time.Time) (*Appointment, error) {
	slot, err := NewTimeSlot(start, req.Duration())
	if err != nil {
		return nil, err
	}
	if slot.Start().Before(t.start) || slot.End().After(t.end) {
		return nil, ErrUnplaceable
	}
	a := newAppointment(req, slot, day)
	if !t.appts.insert(a) {
		return nil, ErrUnplaceable
	}
	return a, nil
}

// placeEarliest puts the request at the start of the first fitting gap.
func (t *Timeline) placeEarliest(day LocalDay, req AppointmentRequest) (*Appointment, error) {
	gaps := t.GapsFitting(req.Duration())
	if len(gaps) == 0 {
		return nil, ErrUnplaceable
	}
	return t.placeAt(day, req, gaps[0].Start())
}

// placeLatest puts the request in the last fitting gap so that the
// appointment ends exactly at the gap's end.
func (t *Timeline) placeLatest(day LocalDay, req AppointmentRequest) (*Appointment, error) {
	gaps := t.GapsFitting(req.Duration())
	if len(gaps) == 0 {
		return nil, ErrUnplaceable
	}
	last := gaps[len(gaps)-1]
	return t.placeAt(day, req, last.End().Add(-req.Duration()))
}

// placeEarliestAfter puts the request at the earliest position whose start
// is at or after the reference instant.
func (t *Timeline) placeEarliestAfter(day LocalDay, req AppointmentRequest, ref time.Time) (*Appointment, error) {
	for _, gap := range t.gaps() {
		candidate := gap.Start()
		if candidate.Before(ref) {
			candidate = ref
		}
		if !candidate.Add(req.Duration()).After(gap.End()) {
			return t.placeAt(day, req, candidate)
		}
	}
	return nil, ErrUnplaceable
}

// placeLatestBefore puts the request at the latest position whose end is
// at or before the reference instant.
func (t *Timeline) placeLatestBefore(day LocalDay, req AppointmentRequest, ref time.Time) (*Appointment, error) {
	gaps := t.gaps()
	for i := len(gaps) - 1; i >= 0; i-- {
		cutoff := gaps[i].End()
		if cutoff.After(ref) {
			cutoff = ref
		}
		if !gaps[i].Start().Add(req.Duration()).After(cutoff) {
			return t.placeAt(day, req, cutoff.Add(-req.Duration()))
		}
	}
	return nil, ErrUnplaceable
}
