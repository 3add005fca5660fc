package planner

// chain is the ordered structure behind a Timeline: a hand rolled doubly
// linked list of appointments between sentinel head and tail nodes, kept
// sorted by start time with no overlapping entries.
type chain struct {
	head *node
	tail *node
	size int
}

type node struct {
	prev *node
	next *node
	appt *Appointment
}

func newChain() *chain {
	head := &node{}
	tail := &node{}
	head.next = tail
	tail.prev = head
	return &chain{head: head, tail: tail}
}

func (c *chain) len() int { return c.size }

// insert splices the appointment in start order with a linear scan from
// the head. It refuses the insert when the slot overlaps a neighbour.
func (c *chain) insert(a *Appointment) bool {
	at := c.head.next
	for at != c.tail && !at.appt.Start().After(a.Start()) {
		at = at.next
	}
	// at is the first node starting after a; overlap can only involve the
	// direct neighbours.
	if prev := at.prev; prev != c.head && prev.appt.slot.OverlapsWith(a.slot) {
		return false
	}
	if at != c.tail && at.appt.slot.OverlapsWith(a.slot) {
		return false
	}
	n := &node{prev: at.prev, next: at, appt: a}
	at.prev.next = n
	at.prev = n
	c.size++
	return true
}

// remove unlinks exactly the node holding the given appointment, matched
// by identity.
func (c *chain) remove(a *Appointment) bool {
	for n := c.head.next; n != c.tail; n = n.next {
		if n.appt == a {
			c.unlink(n)
			return true
		}
	}
	return false
}

// removeAll unlinks every appointment matching the filter and returns the
// removed ones in start order.
func (c *chain) removeAll(filter func(*Appointment) bool) []*Appointment {
	var removed []*Appointment
	n := c.head.next
	for n != c.tail {
		next := n.next
		if filter(n.appt) {
			removed = append(removed, n.appt)
			c.unlink(n)
		}
		n = next
	}
	return removed
}

func (c *chain) unlink(n *node) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev = nil
	n.next = nil
	c.size--
}

// findAll returns the appointments matching the filter in start order.
func (c *chain) findAll(filter func(*Appointment) bool) []*Appointment {
	found := []*Appointment{}
	for n := c.head.next; n != c.tail; n = n.next {
		if filter(n.appt) {
			found = append(found, n.appt)
		}
	}
	return found
}

// contains reports whether the chain holds exactly this appointment.
func (c *chain) contains(a *Appointment) bool {
	for n := c.head.next; n != c.tail; n = n.next {
		if n.appt == a {
			return true
		}
	}
	return false
}

// forEach walks the appointments in start order until fn returns false.
func (c *chain) forEach(fn func(*Appointment) bool) {
	for n := c.head.next; n != c.tail; n = n.next {
		if !fn(n.appt) {
			return
		}
	}
}

// all returns the appointments in start order.
func (c *chain) all() []*Appointment {
	out := make([]*Appointment, 0, c.size)
	for n := c.head.next; n != c.tail; n = n.next {
		out = append(out, n.appt)
	}
	return out
}
