package planner

import "fmt"

// Priority expresses how important an appointment is to its owner. It is
// carried for display and filtering and never influences placement.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

// String returns the canonical spelling, LOW, MEDIUM or HIGH.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "LOW"
	case PriorityMedium:
		return "MEDIUM"
	case PriorityHigh:
		return "HIGH"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// ParsePriority maps the canonical spelling back to a Priority.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "LOW":
		return PriorityLow, nil
	case "MEDIUM":
		return PriorityMedium, nil
	case "HIGH":
		return PriorityHigh, nil
	default:
		return PriorityLow, fmt.Errorf("unknown priority %q", s)
	}
}

func (p Priority) known() bool {
	return p >= PriorityLow && p <= PriorityHigh
}
