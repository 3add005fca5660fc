package planner

import "fmt"

// TimePreference states where in the day an appointment should land when
// no exact start time is given, or how to fall back when a fixed start is
// taken. EarliestAfter and LatestBefore are relative to a reference time
// and are only meaningful on requests that carry a start time.
type TimePreference int

const (
	PreferenceUnspecified TimePreference = iota
	PreferenceEarliest
	PreferenceLatest
	PreferenceEarliestAfter
	PreferenceLatestBefore
)

// String returns the canonical spelling, such as EARLIEST or LATEST_BEFORE.
func (t TimePreference) String() string {
	switch t {
	case PreferenceUnspecified:
		return "UNSPECIFIED"
	case PreferenceEarliest:
		return "EARLIEST"
	case PreferenceLatest:
		return "LATEST"
	case PreferenceEarliestAfter:
		return "EARLIEST_AFTER"
	case PreferenceLatestBefore:
		return "LATEST_BEFORE"
	default:
		return fmt.Sprintf("TimePreference(%d)", int(t))
	}
}

// ParseTimePreference maps the canonical spelling back to a preference.
// The empty string parses as UNSPECIFIED.
func ParseTimePreference(s string) (TimePreference, error) {
	switch s {
	case "", "UNSPECIFIED":
		return PreferenceUnspecified, nil
	case "EARLIEST":
		return PreferenceEarliest, nil
	case "LATEST":
		return PreferenceLatest, nil
	case "EARLIEST_AFTER":
		return PreferenceEarliestAfter, nil
	case "LATEST_BEFORE":
		return PreferenceLatestBefore, nil
	default:
		return PreferenceUnspecified, fmt.Errorf("unknown time preference %q", s)
	}
}

// normalized folds every preference that is not LATEST to EARLIEST, the
// rule used whenever only earliest or latest placement makes sense.
func (t TimePreference) normalized() TimePreference {
	if t == PreferenceLatest {
		return PreferenceLatest
	}
	return PreferenceEarliest
}

// needsReference reports whether the preference is relative to a start time.
func (t TimePreference) needsReference() bool {
	return t == PreferenceEarliestAfter || t == PreferenceLatestBefore
}

func (t TimePreference) known() bool {
	return t >= PreferenceUnspecified && t <= PreferenceLatestBefore
}
