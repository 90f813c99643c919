package events

// Listener receives events drained from an outbox.
type Listener interface {
	Notify(e Event)
}

// ListenerFunc adapts a plain function to the Listener interface.
type ListenerFunc func(e Event)

func (f ListenerFunc) Notify(e Event) { f(e) }

// Outbox is an ordered event queue with a monotonic sequence counter.
// Pushing an event identical to the newest pending one coalesces into a
// single entry.
type Outbox struct {
	pending []Event
	nextSeq uint64
}

// NewOutbox returns an empty outbox.
func NewOutbox() *Outbox {
	return &Outbox{}
}

// Push enqueues an event, assigning its sequence number. Consecutive
// identical payloads collapse into the already-pending entry.
func (o *Outbox) Push(e Event) {
	if n := len(o.pending); n > 0 && samePayload(o.pending[n-1], e) {
		return
	}
	e.Seq = o.nextSeq
	o.nextSeq++
	o.pending = append(o.pending, e)
}

// Len returns the number of pending events.
func (o *Outbox) Len() int {
	return len(o.pending)
}

// Pending returns the queued events without draining them. The returned
// slice is owned by the outbox.
func (o *Outbox) Pending() []Event {
	return o.pending
}

// Drain delivers all pending events to the listener in push order and
// clears the queue. A nil listener just clears. Returns the number of
// events delivered.
func (o *Outbox) Drain(l Listener) int {
	n := len(o.pending)
	if l != nil {
		for _, e := range o.pending {
			l.Notify(e)
		}
	}
	o.pending = o.pending[:0]
	return n
}

// DrainInto moves all pending events into another outbox, preserving
// order. Coalescing applies at the boundary.
func (o *Outbox) DrainInto(dst *Outbox) int {
	n := len(o.pending)
	for _, e := range o.pending {
		dst.Push(e)
	}
	o.pending = o.pending[:0]
	return n
}
