package planner

import (
	"fmt"
	"strconv"
	"strings"
)

// LocalTime is a wall clock time of day without date or zone, at minute
// precision. Appointment requests carry their preferred start as a
// LocalTime; a LocalDay turns it into an instant.
type LocalTime struct {
	hour   int
	minute int
}

// NewLocalTime validates hour and minute and returns the time of day.
func NewLocalTime(hour, minute int) (LocalTime, error) {
	if hour < 0 || hour > 23 {
		return LocalTime{}, fmt.Errorf("hour %d out of range 0..23", hour)
	}
	if minute < 0 || minute > 59 {
		return LocalTime{}, fmt.Errorf("minute %d out of range 0..59", minute)
	}
	return LocalTime{hour: hour, minute: minute}, nil
}

// ParseLocalTime parses clock notation such as "08:30" or "8:30".
func ParseLocalTime(s string) (LocalTime, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return LocalTime{}, fmt.Errorf("malformed local time %q, want HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return LocalTime{}, fmt.Errorf("malformed local time %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return LocalTime{}, fmt.Errorf("malformed local time %q: %w", s, err)
	}
	return NewLocalTime(hour, minute)
}

// Hour returns the hour of day, 0 to 23.
func (t LocalTime) Hour() int { return t.hour }

// Minute returns the minute of the hour, 0 to 59.
func (t LocalTime) Minute() int { return t.minute }

// Before reports whether t reads earlier on the clock than other.
func (t LocalTime) Before(other LocalTime) bool {
	return t.hour*60+t.minute < other.hour*60+other.minute
}

// String renders the time as "HH:MM".
func (t LocalTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}
