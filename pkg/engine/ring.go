package engine

// fillRing keeps the most recent fill events for one symbol so Match
// queries stay answerable while the event sink is degraded. Writes happen
// under the symbol's exclusive section, reads under its shared section.
type fillRing struct {
	buf  []Event
	next int
	full bool
}

func newFillRing(capacity int) *fillRing {
	if capacity < 1 {
		capacity = 1
	}
	return &fillRing{buf: make([]Event, capacity)}
}

func (r *fillRing) push(ev Event) {
	r.buf[r.next] = ev
	r.next++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
}

// events returns the retained fills, oldest first.
func (r *fillRing) events() []Event {
	if !r.full {
		out := make([]Event, r.next)
		copy(out, r.buf[:r.next])
		return out
	}
	out := make([]Event, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	out = append(out, r.buf[:r.next]...)
	return out
}
