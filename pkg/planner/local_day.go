package planner

import (
	"fmt"
	"time"
)

// LocalDay pins a calendar date to a time zone. It is the bridge between
// wall clock times as people book them and the instants the timeline
// works with. The value is immutable and every method is a pure function.
type LocalDay struct {
	loc   *time.Location
	year  int
	month time.Month
	day   int
}

// NewLocalDay builds the day for the given date in the given zone. A nil
// zone means UTC. Out of range date components roll over the way
// time.Date normalizes them.
func NewLocalDay(zone *time.Location, year int, month time.Month, day int) LocalDay {
	if zone == nil {
		zone = time.UTC
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, zone)
	return LocalDay{loc: zone, year: t.Year(), month: t.Month(), day: t.Day()}
}

// Today returns the current date in the given zone, UTC when nil.
func Today(zone *time.Location) LocalDay {
	if zone == nil {
		zone = time.UTC
	}
	now := time.Now().In(zone)
	return LocalDay{loc: zone, year: now.Year(), month: now.Month(), day: now.Day()}
}

// Zone returns the day's time zone.
func (d LocalDay) Zone() *time.Location {
	if d.loc == nil {
		return time.UTC
	}
	return d.loc
}

// Date returns the civil date components of the day.
func (d LocalDay) Date() (year int, month time.Month, day int) {
	return d.year, d.month, d.day
}

// At returns the instant at the given local hour and minute on this day.
func (d LocalDay) At(hour, minute int) time.Time {
	return time.Date(d.year, d.month, d.day, hour, minute, 0, 0, d.Zone())
}

// OfLocalTime converts a wall clock time on this day to an instant.
func (d LocalDay) OfLocalTime(t LocalTime) time.Time {
	return d.At(t.Hour(), t.Minute())
}

// TimeOfInstant returns the wall clock time of the instant in this day's
// zone.
func (d LocalDay) TimeOfInstant(t time.Time) LocalTime {
	local := t.In(d.Zone())
	return LocalTime{hour: local.Hour(), minute: local.Minute()}
}

// DayOfInstant returns the calendar date the instant falls on in this
// day's zone.
func (d LocalDay) DayOfInstant(t time.Time) LocalDay {
	local := t.In(d.Zone())
	return LocalDay{loc: d.Zone(), year: local.Year(), month: local.Month(), day: local.Day()}
}

// PlusDays returns the day shifted by the given number of days, which may
// be negative.
func (d LocalDay) PlusDays(days int) LocalDay {
	t := time.Date(d.year, d.month, d.day+days, 0, 0, 0, 0, d.Zone())
	return LocalDay{loc: d.Zone(), year: t.Year(), month: t.Month(), day: t.Day()}
}

// String renders the date as "2006-01-02".
func (d LocalDay) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}
