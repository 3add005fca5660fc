package planner

import "time"

// MatchingFreeSlotsOfDuration finds the free slots this timeline has in
// common with all other timelines, to facilitate appointment proposals.
// Every timeline contributes its gaps of at least minLength; the running
// result is swept pairwise against each contributor in list order. With
// no other timelines the receiver's own qualifying gaps are returned; one
// contributor without qualifying gaps empties the result.
func (t *Timeline) MatchingFreeSlotsOfDuration(minLength time.Duration, others []*Timeline) []TimeSlot {
	common := t.GapsFitting(minLength)
	for _, other := range others {
		if other == nil {
			continue
		}
		if len(common) == 0 {
			return common
		}
		common = intersectSlots(common, other.GapsFitting(minLength), minLength)
	}
	return common
}

// intersectSlots sweeps two ordered, non overlapping slot lists and keeps
// every common interval of at least minLength. The slot that ends first
// advances its side.
func intersectSlots(a, b []TimeSlot, minLength time.Duration) []TimeSlot {
	out := []TimeSlot{}
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		start := a[i].Start()
		if b[j].Start().After(start) {
			start = b[j].Start()
		}
		end := a[i].End()
		if b[j].End().Before(end) {
			end = b[j].End()
		}
		if end.After(start) && end.Sub(start) >= minLength {
			out = append(out, TimeSlot{start: start, duration: end.Sub(start)})
		}
		if a[i].End().Before(b[j].End()) {
			i++
		} else {
			j++
		}
	}
	return out
}
